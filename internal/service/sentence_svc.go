package service

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/voxarena/arena-go/internal/model"
	"github.com/voxarena/arena-go/internal/repository"
	"github.com/voxarena/arena-go/pkg/hash"
)

// SentenceService owns the curated prompt dataset and its one-shot
// consumption ledger.
type SentenceService struct {
	repo   *repository.SentenceRepo
	pool   []string
	byHash map[string]string
	rng    *rand.Rand
}

func NewSentenceService(repo *repository.SentenceRepo, sentences []string, rng *rand.Rand) *SentenceService {
	byHash := make(map[string]string, len(sentences))
	for _, s := range sentences {
		byHash[hash.Sentence(s)] = s
	}
	return &SentenceService{repo: repo, pool: sentences, byHash: byHash, rng: rng}
}

// LoadSentenceFile reads the dataset, one prompt per line, skipping blanks.
func LoadSentenceFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sentence file: %w", err)
	}
	defer f.Close()

	var sentences []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			sentences = append(sentences, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read sentence file: %w", err)
	}
	return sentences, nil
}

// Origin classifies prompt text as a dataset sentence or custom input.
func (s *SentenceService) Origin(text string) string {
	if _, ok := s.byHash[hash.Sentence(text)]; ok {
		return model.OriginDataset
	}
	return model.OriginCustom
}

// IsConsumed reports whether the prompt has already been claimed.
func (s *SentenceService) IsConsumed(ctx context.Context, text string) (bool, error) {
	return s.repo.IsConsumed(ctx, hash.Sentence(text))
}

// MarkConsumed claims the prompt in the ledger. Safe to call for an
// already-claimed prompt.
func (s *SentenceService) MarkConsumed(ctx context.Context, text, sessionID, usageType string) error {
	return s.repo.MarkConsumed(ctx, hash.Sentence(text), text, sessionID, usageType)
}

// RandomUnconsumed picks a random dataset sentence that is neither claimed
// in the ledger nor present in the exclude set (live cache keys). Returns
// ErrPoolExhausted when nothing remains.
func (s *SentenceService) RandomUnconsumed(ctx context.Context, exclude map[string]struct{}) (string, error) {
	consumed, err := s.repo.ConsumedHashes(ctx)
	if err != nil {
		return "", err
	}

	var available []string
	for h, text := range s.byHash {
		if _, ok := consumed[h]; ok {
			continue
		}
		if _, ok := exclude[text]; ok {
			continue
		}
		available = append(available, text)
	}
	if len(available) == 0 {
		return "", model.ErrPoolExhausted
	}
	return available[s.rng.Intn(len(available))], nil
}

// RandomBatch returns up to n random unconsumed dataset sentences for
// prompt suggestions. May return fewer when the pool is nearly drained.
func (s *SentenceService) RandomBatch(ctx context.Context, n int) ([]string, error) {
	consumed, err := s.repo.ConsumedHashes(ctx)
	if err != nil {
		return nil, err
	}

	var available []string
	for h, text := range s.byHash {
		if _, ok := consumed[h]; !ok {
			available = append(available, text)
		}
	}
	s.rng.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})
	if len(available) > n {
		available = available[:n]
	}
	return available, nil
}

// Stats summarizes dataset pool exhaustion.
func (s *SentenceService) Stats(ctx context.Context) (*model.SentenceStats, error) {
	consumed, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	total := len(s.pool)
	remaining := total - consumed
	if remaining < 0 {
		remaining = 0
	}
	stats := &model.SentenceStats{
		TotalSentences: total,
		ConsumedCount:  consumed,
		RemainingCount: remaining,
	}
	if total > 0 {
		stats.ConsumedPercent = float64(consumed) / float64(total) * 100
	}
	return stats, nil
}
