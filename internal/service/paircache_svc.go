package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/voxarena/arena-go/internal/model"
)

// Narrow views of the collaborating services so the cache can be exercised
// with fakes.
type sentencePicker interface {
	RandomUnconsumed(ctx context.Context, exclude map[string]struct{}) (string, error)
	MarkConsumed(ctx context.Context, text, sessionID, usageType string) error
}

type providerPicker interface {
	PickPair(ctx context.Context, comparisonType string) (model.Provider, model.Provider, error)
}

type pairGenerator interface {
	Pair(ctx context.Context, text, providerA, providerB, dir string) (string, string, error)
}

type artifactRemover interface {
	Remove(path string) error
}

// PairCache keeps pre-generated comparison pairs keyed by sentence text so
// a generate request for a suggested prompt is served without waiting on
// synthesis. Entries are consumed exactly once; every pop enqueues refills
// back toward capacity.
type PairCache struct {
	mu      sync.Mutex
	entries map[string]*model.CachedPair

	capacity int
	workers  int
	fillCh   chan struct{}

	sentences sentencePicker
	selector  providerPicker
	generator pairGenerator
	remover   artifactRemover
	cacheDir  string

	comparisonType string
}

// NewPairCache builds an empty cache for one comparison type. Start must be
// called before the cache refills itself.
func NewPairCache(comparisonType string, capacity, workers int,
	sentences sentencePicker, selector providerPicker, generator pairGenerator,
	remover artifactRemover, cacheDir string) *PairCache {
	return &PairCache{
		entries:        make(map[string]*model.CachedPair),
		capacity:       capacity,
		workers:        workers,
		fillCh:         make(chan struct{}, capacity*2),
		sentences:      sentences,
		selector:       selector,
		generator:      generator,
		remover:        remover,
		cacheDir:       cacheDir,
		comparisonType: comparisonType,
	}
}

// Start launches the fill worker pool and enqueues the initial fill. The
// workers exit when ctx is cancelled.
func (c *PairCache) Start(ctx context.Context) {
	for i := 0; i < c.workers; i++ {
		go c.worker(ctx)
	}
	c.RequestFill(c.capacity)
}

func (c *PairCache) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.fillCh:
			if err := c.fillOne(ctx); err != nil {
				log.Printf("pair cache (%s): fill failed: %v", c.comparisonType, err)
			}
		}
	}
}

// RequestFill enqueues up to n fill tasks without blocking. Workers that
// find the cache already full drop their task.
func (c *PairCache) RequestFill(n int) {
	for i := 0; i < n; i++ {
		select {
		case c.fillCh <- struct{}{}:
		default:
			return
		}
	}
}

// fillOne generates one pair for a fresh unconsumed sentence and stores it.
// The sentence is claimed in the ledger only when the pair is actually
// inserted, so a failed or discarded fill leaves the prompt available. Two
// workers may pick the same sentence concurrently; the in-map duplicate
// check settles who inserts.
func (c *PairCache) fillOne(ctx context.Context) error {
	c.mu.Lock()
	if len(c.entries) >= c.capacity {
		c.mu.Unlock()
		return nil
	}
	exclude := make(map[string]struct{}, len(c.entries))
	for text := range c.entries {
		exclude[text] = struct{}{}
	}
	c.mu.Unlock()

	text, err := c.sentences.RandomUnconsumed(ctx, exclude)
	if err != nil {
		return err
	}

	provA, provB, err := c.selector.PickPair(ctx, c.comparisonType)
	if err != nil {
		return err
	}

	audioA, audioB, err := c.generator.Pair(ctx, text, provA.ID, provB.ID, c.cacheDir)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.capacity {
		// Another worker filled the last slot while we were synthesizing.
		c.remover.Remove(audioA)
		c.remover.Remove(audioB)
		return nil
	}
	if _, exists := c.entries[text]; exists {
		c.remover.Remove(audioA)
		c.remover.Remove(audioB)
		return nil
	}
	if err := c.sentences.MarkConsumed(ctx, text, "", model.UsageCache); err != nil {
		c.remover.Remove(audioA)
		c.remover.Remove(audioB)
		return err
	}
	c.entries[text] = &model.CachedPair{
		ProviderA: provA.ID,
		ProviderB: provB.ID,
		AudioA:    audioA,
		AudioB:    audioB,
		CreatedAt: time.Now(),
	}
	return nil
}

// Consume atomically removes and returns the cached pair for the exact
// text, enqueueing enough refills to restore the pool toward capacity,
// bounded by the worker count. Ownership of the audio artifacts transfers
// to the caller.
func (c *PairCache) Consume(text string) (*model.CachedPair, bool) {
	c.mu.Lock()
	pair, ok := c.entries[text]
	if ok {
		delete(c.entries, text)
	}
	missing := c.capacity - len(c.entries)
	c.mu.Unlock()

	if ok {
		if missing > c.workers {
			missing = c.workers
		}
		c.RequestFill(missing)
	}
	return pair, ok
}

// Keys returns the sentences currently held, for excluding them from
// prompt suggestions.
func (c *PairCache) Keys() map[string]struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make(map[string]struct{}, len(c.entries))
	for text := range c.entries {
		keys[text] = struct{}{}
	}
	return keys
}

// Len reports the number of pairs currently cached.
func (c *PairCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
