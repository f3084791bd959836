package service

import (
	"context"
	"log"
	"time"

	"github.com/voxarena/arena-go/internal/model"
	"github.com/voxarena/arena-go/internal/repository"
)

// Campaign detection parameters.
const (
	campaignWindow        = 6 * time.Hour
	campaignMinUsers      = 3
	campaignMinVotes      = 10
	campaignConfidenceMin = 0.6
	campaignTimeout       = 30 * 24 * time.Hour

	highSuspicionRate   = 3.0 // winning votes per hour
	mediumSuspicionRate = 1.0
	newAccountDays      = 30
)

// CampaignFinding is the outcome of analyzing one provider's recent wins.
type CampaignFinding struct {
	Confidence    float64
	VoteCount     int
	UserCount     int
	Participants  []model.CampaignParticipant
	HighSuspicion []string
}

// CampaignService detects coordinated voting aimed at inflating one
// provider and persists the evidence.
type CampaignService struct {
	votes     *repository.VoteRepo
	accounts  *repository.AccountRepo
	campaigns *repository.CampaignRepo
	timeouts  *repository.TimeoutRepo
}

func NewCampaignService(votes *repository.VoteRepo, accounts *repository.AccountRepo,
	campaigns *repository.CampaignRepo, timeouts *repository.TimeoutRepo) *CampaignService {
	return &CampaignService{votes: votes, accounts: accounts, campaigns: campaigns, timeouts: timeouts}
}

// CheckProvider analyzes the provider's winning votes inside the detection
// window and, when the confidence clears the threshold, records a campaign
// with participant evidence and times out the high-suspicion accounts.
func (s *CampaignService) CheckProvider(ctx context.Context, providerID, comparisonType string) error {
	now := time.Now()
	wins, err := s.votes.WinVotesSince(ctx, providerID, comparisonType, now.Add(-campaignWindow))
	if err != nil {
		return err
	}

	joinDates := make(map[string]time.Time)
	for _, w := range wins {
		if _, ok := joinDates[w.AccountID]; ok {
			continue
		}
		acct, err := s.accounts.FindByID(ctx, w.AccountID)
		if err != nil {
			return err
		}
		joinDates[w.AccountID] = acct.JoinedAt
	}

	finding := AnalyzeWins(wins, joinDates, now)
	if finding == nil || finding.Confidence < campaignConfidenceMin {
		return nil
	}

	// The same burst keeps firing notifications while votes land. An open
	// campaign for this provider inside the window either absorbs the
	// detection or is superseded by a stronger one.
	open, err := s.campaigns.List(ctx, model.CampaignActive, 50)
	if err != nil {
		return err
	}
	for _, existing := range open {
		if existing.ProviderID != providerID || existing.ComparisonType != comparisonType {
			continue
		}
		if now.Sub(existing.DetectedAt) >= campaignWindow {
			continue
		}
		if finding.Confidence <= existing.ConfidenceScore {
			return nil
		}
		prior, err := s.campaigns.Participants(ctx, existing.ID)
		if err != nil {
			return err
		}
		EscalateRepeats(finding, prior)
		if err := s.campaigns.Resolve(ctx, existing.ID, "detector", model.CampaignResolved,
			"superseded by a higher-confidence detection"); err != nil {
			return err
		}
		break
	}

	log.Printf("campaign detector: provider %s (%s): confidence %.2f over %d votes by %d users",
		providerID, comparisonType, finding.Confidence, finding.VoteCount, finding.UserCount)

	campaignID, err := s.campaigns.Create(ctx, &model.CoordinatedCampaign{
		ProviderID:      providerID,
		ComparisonType:  comparisonType,
		TimeWindowHours: int(campaignWindow.Hours()),
		VoteCount:       finding.VoteCount,
		UserCount:       finding.UserCount,
		ConfidenceScore: finding.Confidence,
	}, finding.Participants)
	if err != nil {
		return err
	}

	for _, accountID := range finding.HighSuspicion {
		// A repeat offender gets their existing timeout replaced so the
		// clock restarts and the audit trail points at the new campaign.
		prior, err := s.timeouts.Active(ctx, accountID)
		if err != nil {
			return err
		}
		if prior != nil && prior.TimeoutType == model.TimeoutCoordinatedVoting {
			if err := s.timeouts.Cancel(ctx, prior.ID, "detector",
				"superseded by a newer campaign detection"); err != nil {
				return err
			}
		}
		_, err = s.timeouts.Create(ctx, &model.AccountTimeout{
			AccountID:         accountID,
			Reason:            "participation in coordinated voting campaign",
			TimeoutType:       model.TimeoutCoordinatedVoting,
			ExpiresAt:         now.Add(campaignTimeout),
			RelatedCampaignID: &campaignID,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// EscalateRepeats raises participants who already appeared in an earlier
// detection for the same provider to high suspicion. Showing up in two
// detections is stronger evidence than either window alone.
func EscalateRepeats(finding *CampaignFinding, prior []model.CampaignParticipant) {
	seen := make(map[string]bool, len(prior))
	for _, p := range prior {
		seen[p.AccountID] = true
	}
	for i, p := range finding.Participants {
		if !seen[p.AccountID] || p.SuspicionLevel == model.SuspicionHigh {
			continue
		}
		finding.Participants[i].SuspicionLevel = model.SuspicionHigh
		finding.HighSuspicion = append(finding.HighSuspicion, p.AccountID)
	}
}

// AnalyzeWins scores a window of winning votes for coordination. Returns
// nil when the window has too few votes or voters to mean anything.
//
// Confidence blends three signals: how many repeat voters sustain a high
// vote rate, how concentrated the winning votes are relative to the window
// and voter count, and how many repeat voters joined recently.
func AnalyzeWins(wins []repository.WinVote, joinDates map[string]time.Time, now time.Time) *CampaignFinding {
	type userAgg struct {
		count int
		first time.Time
		last  time.Time
	}

	users := make(map[string]*userAgg)
	for _, w := range wins {
		u, ok := users[w.AccountID]
		if !ok {
			u = &userAgg{first: w.VoteDate, last: w.VoteDate}
			users[w.AccountID] = u
		}
		u.count++
		if w.VoteDate.Before(u.first) {
			u.first = w.VoteDate
		}
		if w.VoteDate.After(u.last) {
			u.last = w.VoteDate
		}
	}

	if len(users) < campaignMinUsers || len(wins) < campaignMinVotes {
		return nil
	}

	windowHours := campaignWindow.Hours()
	finding := &CampaignFinding{
		VoteCount: len(wins),
		UserCount: len(users),
	}

	var highCount, newCount int
	for accountID, u := range users {
		if u.count <= 1 {
			continue
		}

		ageDays := 365.0
		if joined, ok := joinDates[accountID]; ok {
			ageDays = now.Sub(joined).Hours() / 24
		}
		isNew := ageDays < newAccountDays

		rate := float64(u.count) / windowHours
		level := model.SuspicionLow
		switch {
		case isNew || rate > highSuspicionRate:
			level = model.SuspicionHigh
		case ageDays < 90 || rate > mediumSuspicionRate:
			level = model.SuspicionMedium
		}
		if level == model.SuspicionHigh {
			highCount++
			finding.HighSuspicion = append(finding.HighSuspicion, accountID)
		}
		if isNew {
			newCount++
		}

		finding.Participants = append(finding.Participants, model.CampaignParticipant{
			AccountID:       accountID,
			VotesInCampaign: u.count,
			FirstVoteAt:     u.first,
			LastVoteAt:      u.last,
			SuspicionLevel:  level,
		})
	}

	if len(finding.Participants) == 0 {
		return finding
	}

	repeatVoters := float64(len(finding.Participants))
	highRatio := float64(highCount) / repeatVoters
	newRatio := float64(newCount) / repeatVoters
	concentration := float64(len(wins)) / (windowHours * float64(len(users)))
	if concentration > 1 {
		concentration = 1
	}

	finding.Confidence = 0.4*highRatio + 0.3*concentration + 0.3*newRatio
	return finding
}
