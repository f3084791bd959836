package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key TTLs.
const (
	LeaderboardCacheTTL = 5 * time.Minute
	StatsCacheTTL       = time.Minute
)

// CacheService provides a Redis cache-aside layer for leaderboard and
// stats responses.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService creates a new CacheService. If redisURL is empty or
// connection fails, it returns a CacheService with a nil client (cache
// operations become no-ops).
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Println("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis: invalid URL %q, caching disabled: %v", redisURL, err)
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: connection failed, caching disabled: %v", err)
		return &CacheService{}
	}

	log.Println("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetLeaderboard retrieves a cached leaderboard response. Returns nil if
// not cached or cache is disabled.
func (c *CacheService) GetLeaderboard(ctx context.Context, comparisonType string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, leaderboardKey(comparisonType)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetLeaderboard stores a leaderboard response in cache.
func (c *CacheService) SetLeaderboard(ctx context.Context, comparisonType string, data interface{}) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, leaderboardKey(comparisonType), b, LeaderboardCacheTTL).Err()
}

// InvalidateLeaderboard removes a leaderboard from cache (called after a
// ranked vote lands).
func (c *CacheService) InvalidateLeaderboard(ctx context.Context, comparisonType string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, leaderboardKey(comparisonType)).Err()
}

// GetStats retrieves a cached stats response. Returns nil if not cached.
func (c *CacheService) GetStats(ctx context.Context, name string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, statsKey(name)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetStats stores a stats response in cache.
func (c *CacheService) SetStats(ctx context.Context, name string, data interface{}) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, statsKey(name), b, StatsCacheTTL).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func leaderboardKey(comparisonType string) string {
	return fmt.Sprintf("leaderboard:%s", comparisonType)
}

func statsKey(name string) string {
	return fmt.Sprintf("stats:%s", name)
}
