package service

import (
	"context"
	"time"

	"github.com/voxarena/arena-go/internal/model"
	"github.com/voxarena/arena-go/internal/repository"
	"github.com/voxarena/arena-go/pkg/hash"
)

// VoteService runs the full vote pipeline: integrity gate, session
// vote-flip, atomic persistence, and cache invalidation.
type VoteService struct {
	security    *SecurityService
	votes       *repository.VoteRepo
	providers   *repository.ProviderRepo
	sentences   *SentenceService
	leaderboard *LeaderboardService
}

func NewVoteService(security *SecurityService, votes *repository.VoteRepo,
	providers *repository.ProviderRepo, sentences *SentenceService,
	leaderboard *LeaderboardService) *VoteService {
	return &VoteService{
		security:    security,
		votes:       votes,
		providers:   providers,
		sentences:   sentences,
		leaderboard: leaderboard,
	}
}

// ClientInfo carries the request attribution recorded with a vote.
type ClientInfo struct {
	IPPartial string
	UserAgent string
}

// Submit accepts a vote for one side of a session. The session is
// destroyed on success; on a downstream failure it stays flipped so the
// at-most-one-vote invariant holds regardless.
func (s *VoteService) Submit(ctx context.Context, registry *SessionRegistry, comparisonType string,
	acct *model.Account, req model.VoteRequest, client ClientInfo) (*model.VoteResponse, error) {

	if req.ChosenSide != "a" && req.ChosenSide != "b" {
		return nil, model.ErrInvalidSide
	}

	if err := s.security.CheckVote(ctx, acct); err != nil {
		return nil, err
	}

	sess, err := registry.RecordVote(req.SessionID)
	if err != nil {
		return nil, err
	}

	chosen, rejected := sess.ProviderA, sess.ProviderB
	if req.ChosenSide == "b" {
		chosen, rejected = sess.ProviderB, sess.ProviderA
	}

	chosenProv, err := s.providers.FindByID(ctx, chosen, comparisonType)
	if err != nil {
		return nil, err
	}
	rejectedProv, err := s.providers.FindByID(ctx, rejected, comparisonType)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	vote := &model.Vote{
		AccountID:              acct.ID,
		Text:                   sess.Text,
		ProviderChosen:         chosen,
		ProviderRejected:       rejected,
		ComparisonType:         comparisonType,
		SessionDurationSeconds: now.Sub(sess.CreatedAt).Seconds(),
		IPAddressPartial:       client.IPPartial,
		UserAgent:              client.UserAgent,
		GenerationDate:         sess.CreatedAt,
		CacheHit:               sess.CacheHit,
		SentenceHash:           hash.Sentence(sess.Text),
		SentenceOrigin:         sess.SentenceOrigin,
		CountsForPublic:        sess.CountsForPublic,
	}

	recorded, err := s.votes.Record(ctx, vote)
	if err != nil {
		return nil, err
	}

	registry.Delete(sess.ID)

	if recorded.CountsForPublic {
		s.leaderboard.Invalidate(ctx, comparisonType)
	}

	return &model.VoteResponse{
		Success: true,
		Winner:  model.ProviderSummary{ID: chosenProv.ID, Name: chosenProv.Name},
		Loser:   model.ProviderSummary{ID: rejectedProv.ID, Name: rejectedProv.Name},
		Names: map[string]string{
			sideOf(sess, chosenProv.ID):   chosenProv.Name,
			sideOf(sess, rejectedProv.ID): rejectedProv.Name,
		},
		CountsForPublicRanking: recorded.CountsForPublic,
	}, nil
}

func sideOf(sess model.ComparisonSession, providerID string) string {
	if providerID == sess.ProviderA {
		return "a"
	}
	return "b"
}
