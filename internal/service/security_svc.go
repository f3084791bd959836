package service

import (
	"context"
	"fmt"
	"time"

	"github.com/voxarena/arena-go/internal/model"
	"github.com/voxarena/arena-go/internal/repository"
)

// Vote frequency ceilings.
const (
	maxVotesPerHour = 30
	maxVotesPer3h   = 100
)

// Rapid-voting detection thresholds. The pattern check only fires once an
// account has a full window of recent votes; fewer votes are never enough
// evidence on their own.
const (
	rapidWindowSize    = 50
	rapidSubSecondFrac = 0.20
	rapidFastFrac      = 0.60
	rapidRunGap        = 5 * time.Second
	rapidRunLength     = 10
)

// minScore is the trust floor below which votes are rejected.
const minScore = 20

// ScoreInput carries everything the trust score needs, precomputed so the
// scoring itself stays pure.
type ScoreInput struct {
	AccountAgeDays      float64
	IdentityVerified    bool
	IdentityAgeDays     float64
	TotalVotes          int
	SuspiciousFrequency bool
	RapidVoting         bool
	MaxBias             float64
}

// SecurityService gates every vote behind account-trust scoring, behavior
// detectors, and active timeouts.
type SecurityService struct {
	votes    *repository.VoteRepo
	timeouts *repository.TimeoutRepo
}

func NewSecurityService(votes *repository.VoteRepo, timeouts *repository.TimeoutRepo) *SecurityService {
	return &SecurityService{votes: votes, timeouts: timeouts}
}

// CheckVote decides whether the account may vote right now. A nil return
// admits the vote; a *model.SecurityBlockedError rejects it.
func (s *SecurityService) CheckVote(ctx context.Context, acct *model.Account) error {
	now := time.Now()

	timeout, err := s.timeouts.Active(ctx, acct.ID)
	if err != nil {
		return err
	}
	if timeout != nil {
		return &model.SecurityBlockedError{
			Reason: fmt.Sprintf("account is in timeout until %s: %s",
				timeout.ExpiresAt.Format(time.RFC3339), timeout.Reason),
		}
	}

	count24h, err := s.votes.CountByAccountSince(ctx, acct.ID, now.Add(-24*time.Hour))
	if err != nil {
		return err
	}
	count3h, err := s.votes.CountByAccountSince(ctx, acct.ID, now.Add(-3*time.Hour))
	if err != nil {
		return err
	}
	suspicious, reason := SuspiciousFrequency(count24h, count3h)
	if suspicious {
		return &model.SecurityBlockedError{Reason: reason}
	}

	recent, err := s.votes.RecentVoteTimes(ctx, acct.ID, rapidWindowSize)
	if err != nil {
		return err
	}
	if RapidVotingPattern(recent) {
		return &model.SecurityBlockedError{Reason: "rapid voting pattern detected"}
	}

	total, err := s.votes.CountByAccount(ctx, acct.ID)
	if err != nil {
		return err
	}
	exposure, err := s.votes.ExposureStats(ctx, acct.ID)
	if err != nil {
		return err
	}

	in := ScoreInput{
		AccountAgeDays: now.Sub(acct.JoinedAt).Hours() / 24,
		TotalVotes:     total,
		MaxBias:        MaxBiasRatio(exposure),
	}
	if acct.IdentityVerifiedAt != nil {
		in.IdentityVerified = true
		in.IdentityAgeDays = now.Sub(*acct.IdentityVerifiedAt).Hours() / 24
	}

	score := ComputeScore(in)
	if score < minScore {
		return &model.SecurityBlockedError{
			Reason: "account trust score too low",
			Score:  score,
		}
	}
	return nil
}

// SuspiciousFrequency reports whether raw vote counts exceed the hourly
// ceilings, with a human-readable reason.
func SuspiciousFrequency(count24h, count3h int) (bool, string) {
	if count24h > maxVotesPerHour*24 {
		return true, fmt.Sprintf("too many votes in 24h: %d", count24h)
	}
	if count3h > maxVotesPer3h {
		return true, fmt.Sprintf("too many votes in 3h: %d", count3h)
	}
	return false, ""
}

// RapidVotingPattern inspects the gaps between consecutive recent votes
// (newest first). It fires when a full window shows a high fraction of
// sub-second gaps, or a high fraction of sub-3s gaps together with at
// least one long run of sub-5s gaps, or two such runs on their own.
func RapidVotingPattern(times []time.Time) bool {
	if len(times) < rapidWindowSize {
		return false
	}

	var subSecond, fast int
	gaps := len(times) - 1
	runs := 0
	run := 0
	for i := 0; i < gaps; i++ {
		gap := times[i].Sub(times[i+1])
		if gap < time.Second {
			subSecond++
		}
		if gap < 3*time.Second {
			fast++
		}
		if gap < rapidRunGap {
			run++
			if run == rapidRunLength {
				runs++
			}
		} else {
			run = 0
		}
	}

	subSecondFrac := float64(subSecond) / float64(gaps)
	fastFrac := float64(fast) / float64(gaps)

	if subSecondFrac > rapidSubSecondFrac {
		return true
	}
	if fastFrac > rapidFastFrac && runs >= 1 {
		return true
	}
	return runs >= 2
}

// MaxBiasRatio returns the highest chosen/appeared ratio across providers
// the account has seen often enough for the ratio to mean anything.
func MaxBiasRatio(stats map[string]*repository.ExposureStat) float64 {
	var max float64
	for _, st := range stats {
		if st.Appeared < 5 {
			continue
		}
		ratio := float64(st.Chosen) / float64(st.Appeared)
		if ratio > max {
			max = ratio
		}
	}
	return max
}

// ComputeScore derives the 0..100 trust score from the assembled inputs.
func ComputeScore(in ScoreInput) int {
	score := 100

	switch {
	case in.AccountAgeDays < 45:
		score -= 30
	case in.AccountAgeDays < 90:
		score -= 15
	case in.AccountAgeDays < 180:
		score -= 5
	}

	if !in.IdentityVerified {
		score -= 15
	} else {
		switch {
		case in.IdentityAgeDays < 30:
			score -= 25
		case in.IdentityAgeDays < 90:
			score -= 10
		}
	}

	if in.SuspiciousFrequency {
		score -= 25
	}
	if in.RapidVoting {
		score -= 20
	}
	if in.AccountAgeDays < 7 && in.TotalVotes > 20 {
		score -= 15
	}

	switch {
	case in.MaxBias >= 0.95:
		score -= 30
	case in.MaxBias >= 0.90:
		score -= 20
	case in.MaxBias >= 0.80:
		score -= 10
	}

	if score < 0 {
		score = 0
	}
	return score
}
