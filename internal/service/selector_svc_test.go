package service

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/voxarena/arena-go/internal/model"
)

func testProviders(ids ...string) []model.Provider {
	providers := make([]model.Provider, 0, len(ids))
	for _, id := range ids {
		providers = append(providers, model.Provider{ID: id, ComparisonType: model.ComparisonTTS})
	}
	return providers
}

func TestWeightedDraw_TooFewCandidates(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if got := WeightedDraw(testProviders("a"), nil, 2, rng); got != nil {
		t.Fatalf("expected nil for 1 candidate, got %d", len(got))
	}
	if got := WeightedDraw(nil, nil, 2, rng); got != nil {
		t.Fatalf("expected nil for empty candidates, got %d", len(got))
	}
}

func TestWeightedDraw_ReturnsDistinctProviders(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	candidates := testProviders("a", "b", "c", "d")

	for i := 0; i < 1000; i++ {
		picked := WeightedDraw(candidates, nil, 2, rng)
		if len(picked) != 2 {
			t.Fatalf("expected 2 picks, got %d", len(picked))
		}
		if picked[0].ID == picked[1].ID {
			t.Fatalf("drew the same provider twice: %s", picked[0].ID)
		}
	}
}

func TestWeightedDraw_ExactlyK(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	picked := WeightedDraw(testProviders("a", "b"), nil, 2, rng)
	if len(picked) != 2 {
		t.Fatalf("expected 2 picks, got %d", len(picked))
	}
	seen := map[string]bool{picked[0].ID: true, picked[1].ID: true}
	if !seen["a"] || !seen["b"] {
		t.Fatalf("expected both providers, got %v", seen)
	}
}

func TestWeightedDraw_FavorsUnderExposed(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	candidates := testProviders("fresh", "saturated", "other")
	counts := map[string]int{"saturated": 10000}

	freshHits, saturatedHits := 0, 0
	const draws = 5000
	for i := 0; i < draws; i++ {
		picked := WeightedDraw(candidates, counts, 2, rng)
		for _, p := range picked {
			switch p.ID {
			case "fresh":
				freshHits++
			case "saturated":
				saturatedHits++
			}
		}
	}

	// fresh weighs 1/500 vs saturated's 1/10500; over thousands of draws
	// the gap has to show.
	if freshHits <= saturatedHits {
		t.Fatalf("expected fresh (%d) to be drawn more than saturated (%d)", freshHits, saturatedHits)
	}
}

func TestWeightedDraw_SharedRandAcrossGoroutines(t *testing.T) {
	rng := NewLockedRand(7)
	candidates := testProviders("a", "b", "c", "d", "e")

	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				picked := WeightedDraw(candidates, nil, 2, rng)
				if len(picked) != 2 {
					errs <- fmt.Sprintf("expected 2 picks, got %d", len(picked))
					return
				}
				if picked[0].ID == picked[1].ID {
					errs <- fmt.Sprintf("drew %s twice", picked[0].ID)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Fatal(msg)
	}
}
