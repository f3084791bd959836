package service

import (
	"context"
	"math/rand"

	"github.com/voxarena/arena-go/internal/model"
	"github.com/voxarena/arena-go/internal/repository"
)

// voteSmoothing flattens the selection weights so providers with few
// recorded appearances are favored without starving established ones.
const voteSmoothing = 500

// SelectorService picks which providers face each other in a comparison.
type SelectorService struct {
	providers *repository.ProviderRepo
	rng       *rand.Rand
}

func NewSelectorService(providers *repository.ProviderRepo, rng *rand.Rand) *SelectorService {
	return &SelectorService{providers: providers, rng: rng}
}

// PickPair selects two distinct active providers for the comparison type,
// weighted toward under-exposed providers.
func (s *SelectorService) PickPair(ctx context.Context, comparisonType string) (model.Provider, model.Provider, error) {
	active, err := s.providers.ListActive(ctx, comparisonType)
	if err != nil {
		return model.Provider{}, model.Provider{}, err
	}
	counts, err := s.providers.VoteCounts(ctx, comparisonType)
	if err != nil {
		return model.Provider{}, model.Provider{}, err
	}

	picked := WeightedDraw(active, counts, 2, s.rng)
	if len(picked) < 2 {
		return model.Provider{}, model.Provider{}, model.ErrNotEnoughProviders
	}
	return picked[0], picked[1], nil
}

// WeightedDraw samples k distinct providers without replacement. Each
// provider's weight is 1/(appearances+voteSmoothing), so the draw leans
// toward providers the arena has seen least. Returns fewer than k entries
// when the candidate set is too small.
func WeightedDraw(candidates []model.Provider, counts map[string]int, k int, rng *rand.Rand) []model.Provider {
	if len(candidates) < k {
		return nil
	}

	pool := make([]model.Provider, len(candidates))
	copy(pool, candidates)

	var picked []model.Provider
	for len(picked) < k && len(pool) > 0 {
		weights := make([]float64, len(pool))
		var total float64
		for i, p := range pool {
			w := 1.0 / float64(counts[p.ID]+voteSmoothing)
			weights[i] = w
			total += w
		}

		target := rng.Float64() * total
		idx := len(pool) - 1
		var acc float64
		for i, w := range weights {
			acc += w
			if target < acc {
				idx = i
				break
			}
		}

		picked = append(picked, pool[idx])
		pool[idx] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}
	return picked
}
