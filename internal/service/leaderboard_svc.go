package service

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/voxarena/arena-go/internal/model"
	"github.com/voxarena/arena-go/internal/repository"
)

// minPublicMatches is the match count a provider must exceed before it
// appears on the public leaderboard.
const minPublicMatches = 250

// LeaderboardService builds the ranked provider listings, with a Redis
// cache-aside layer in front of the public board.
type LeaderboardService struct {
	providers *repository.ProviderRepo
	votes     *repository.VoteRepo
	cache     *CacheService
}

func NewLeaderboardService(providers *repository.ProviderRepo, votes *repository.VoteRepo, cache *CacheService) *LeaderboardService {
	return &LeaderboardService{providers: providers, votes: votes, cache: cache}
}

// Public returns the public leaderboard for a comparison type, ranked by
// rating. Served from Redis when a fresh copy exists.
func (s *LeaderboardService) Public(ctx context.Context, comparisonType string) ([]model.LeaderboardEntry, []byte, error) {
	if cached, err := s.cache.GetLeaderboard(ctx, comparisonType); err != nil {
		log.Printf("leaderboard: cache read error: %v", err)
	} else if cached != nil {
		return nil, cached, nil
	}

	providers, err := s.providers.Leaderboard(ctx, comparisonType, minPublicMatches)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]model.LeaderboardEntry, 0, len(providers))
	for i, p := range providers {
		entries = append(entries, model.LeaderboardEntry{
			Rank:       i + 1,
			ID:         p.ID,
			Name:       p.Name,
			WinRate:    fmt.Sprintf("%.1f%%", p.WinRate()),
			TotalVotes: p.MatchCount,
			Rating:     int(p.CurrentRating),
			Tier:       tierForRank(i + 1),
			IsOpen:     p.IsOpen,
		})
	}

	if err := s.cache.SetLeaderboard(ctx, comparisonType, entries); err != nil {
		log.Printf("leaderboard: cache write error: %v", err)
	}
	return entries, nil, nil
}

// Invalidate drops the cached board after a ranked vote lands.
func (s *LeaderboardService) Invalidate(ctx context.Context, comparisonType string) {
	if err := s.cache.InvalidateLeaderboard(ctx, comparisonType); err != nil {
		log.Printf("leaderboard: cache invalidate error: %v", err)
	}
}

// Personal ranks providers by the account's own votes only, ordered by the
// account's win counts. Never cached; it is per user and cheap.
func (s *LeaderboardService) Personal(ctx context.Context, accountID, comparisonType string) ([]model.PersonalEntry, error) {
	votes, err := s.votes.ByAccountAndType(ctx, accountID, comparisonType)
	if err != nil {
		return nil, err
	}

	type tally struct {
		wins  int
		total int
	}
	tallies := make(map[string]*tally)
	bump := func(id string, won bool) {
		t, ok := tallies[id]
		if !ok {
			t = &tally{}
			tallies[id] = t
		}
		t.total++
		if won {
			t.wins++
		}
	}
	for _, v := range votes {
		bump(v.ProviderChosen, true)
		bump(v.ProviderRejected, false)
	}

	providers, err := s.providers.ListActive(ctx, comparisonType)
	if err != nil {
		return nil, err
	}
	names := make(map[string]model.Provider, len(providers))
	for _, p := range providers {
		names[p.ID] = p
	}

	entries := make([]model.PersonalEntry, 0, len(tallies))
	for id, t := range tallies {
		e := model.PersonalEntry{
			ID:         id,
			Name:       id,
			WinRate:    fmt.Sprintf("%.1f%%", float64(t.wins)/float64(t.total)*100),
			TotalVotes: t.total,
			Wins:       t.wins,
		}
		if p, ok := names[id]; ok {
			e.Name = p.Name
			e.IsOpen = p.IsOpen
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Wins != entries[j].Wins {
			return entries[i].Wins > entries[j].Wins
		}
		return entries[i].TotalVotes > entries[j].TotalVotes
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// tierForRank buckets leaderboard positions into display tiers.
func tierForRank(rank int) string {
	switch {
	case rank <= 2:
		return "tier-s"
	case rank <= 4:
		return "tier-a"
	case rank <= 7:
		return "tier-b"
	default:
		return "tier-c"
	}
}
