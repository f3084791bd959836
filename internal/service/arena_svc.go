package service

import (
	"context"
	"strings"

	"github.com/voxarena/arena-go/internal/model"
	"github.com/voxarena/arena-go/internal/storage"
)

// ArenaService orchestrates comparison creation for both arenas: cache
// lookup, prompt classification, provider selection, synthesis, and
// session registration.
type ArenaService struct {
	sentences *SentenceService
	selector  *SelectorService
	generator *AudioGenerator
	store     *storage.Store

	ttsCache     *PairCache
	ttsSessions  *SessionRegistry
	convSessions *SessionRegistry
}

func NewArenaService(sentences *SentenceService, selector *SelectorService,
	generator *AudioGenerator, store *storage.Store, ttsCache *PairCache,
	ttsSessions, convSessions *SessionRegistry) *ArenaService {
	return &ArenaService{
		sentences:    sentences,
		selector:     selector,
		generator:    generator,
		store:        store,
		ttsCache:     ttsCache,
		ttsSessions:  ttsSessions,
		convSessions: convSessions,
	}
}

// Sessions returns the registry backing the given comparison type.
func (s *ArenaService) Sessions(comparisonType string) *SessionRegistry {
	if comparisonType == model.ComparisonConversational {
		return s.convSessions
	}
	return s.ttsSessions
}

// GenerateTTS produces a comparison session for the prompt, served from
// the pair cache when possible, otherwise synthesized on demand.
//
// A dataset prompt that is already consumed and no longer cached cannot
// start a ranked comparison; the caller surfaces that as a validation
// failure.
func (s *ArenaService) GenerateTTS(ctx context.Context, text string) (model.ComparisonSession, error) {
	if pair, ok := s.ttsCache.Consume(text); ok {
		sess := s.ttsSessions.Create(pair.ProviderA, pair.ProviderB, pair.AudioA, pair.AudioB,
			text, true, model.OriginDataset, true)
		return sess, nil
	}

	origin := s.sentences.Origin(text)
	countsForPublic := false
	if origin == model.OriginDataset {
		consumed, err := s.sentences.IsConsumed(ctx, text)
		if err != nil {
			return model.ComparisonSession{}, err
		}
		if consumed {
			return model.ComparisonSession{}, model.ErrSentenceConsumed
		}
		countsForPublic = true
	}

	provA, provB, err := s.selector.PickPair(ctx, model.ComparisonTTS)
	if err != nil {
		return model.ComparisonSession{}, err
	}

	audioA, audioB, err := s.generator.Pair(ctx, text, provA.ID, provB.ID, s.store.SessionDir())
	if err != nil {
		return model.ComparisonSession{}, err
	}

	sess := s.ttsSessions.Create(provA.ID, provB.ID, audioA, audioB,
		text, false, origin, countsForPublic)
	return sess, nil
}

// GenerateConversational produces a comparison session for a multi-turn
// script. Scripts are free-form user input, so the session is always
// personal-only.
func (s *ArenaService) GenerateConversational(ctx context.Context, script []model.ScriptLine) (model.ComparisonSession, error) {
	provA, provB, err := s.selector.PickPair(ctx, model.ComparisonConversational)
	if err != nil {
		return model.ComparisonSession{}, err
	}

	audioA, audioB, err := s.generator.ScriptPair(ctx, script, provA.ID, provB.ID, s.store.SessionDir())
	if err != nil {
		return model.ComparisonSession{}, err
	}

	sess := s.convSessions.Create(provA.ID, provB.ID, audioA, audioB,
		scriptText(script), false, model.OriginCustom, false)
	return sess, nil
}

// scriptText flattens a script into the prompt text recorded on the vote.
func scriptText(script []model.ScriptLine) string {
	lines := make([]string, 0, len(script))
	for _, l := range script {
		lines = append(lines, l.Text)
	}
	return strings.Join(lines, "\n")
}
