package service

import (
	"testing"
	"time"

	"github.com/voxarena/arena-go/internal/model"
	"github.com/voxarena/arena-go/internal/repository"
)

func winVotes(accountID string, n int, start time.Time, gap time.Duration) []repository.WinVote {
	wins := make([]repository.WinVote, n)
	for i := 0; i < n; i++ {
		wins[i] = repository.WinVote{AccountID: accountID, VoteDate: start.Add(time.Duration(i) * gap)}
	}
	return wins
}

func TestAnalyzeWins_TooFewVoters(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(-2 * time.Hour)

	wins := append(winVotes("a", 6, start, time.Minute), winVotes("b", 6, start, time.Minute)...)
	if got := AnalyzeWins(wins, nil, now); got != nil {
		t.Fatalf("expected nil for 2 distinct voters, got confidence %v", got.Confidence)
	}
}

func TestAnalyzeWins_TooFewVotes(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(-2 * time.Hour)

	var wins []repository.WinVote
	for _, id := range []string{"a", "b", "c"} {
		wins = append(wins, winVotes(id, 3, start, time.Minute)...)
	}
	if got := AnalyzeWins(wins, nil, now); got != nil {
		t.Fatalf("expected nil for 9 votes, got confidence %v", got.Confidence)
	}
}

func TestAnalyzeWins_CoordinatedBurst(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(-2 * time.Hour)

	// Two accounts under 30 days old with 3+ wins each, plus an older
	// repeat voter, 10 wins total inside the window.
	var wins []repository.WinVote
	wins = append(wins, winVotes("new-1", 3, start, time.Minute)...)
	wins = append(wins, winVotes("new-2", 3, start, 2*time.Minute)...)
	wins = append(wins, winVotes("old-1", 4, start, 5*time.Minute)...)

	joinDates := map[string]time.Time{
		"new-1": now.Add(-5 * 24 * time.Hour),
		"new-2": now.Add(-10 * 24 * time.Hour),
		"old-1": now.Add(-400 * 24 * time.Hour),
	}

	finding := AnalyzeWins(wins, joinDates, now)
	if finding == nil {
		t.Fatal("expected a finding")
	}
	if finding.Confidence < campaignConfidenceMin {
		t.Fatalf("confidence = %.3f, want >= %.2f", finding.Confidence, campaignConfidenceMin)
	}
	if finding.VoteCount != 10 || finding.UserCount != 3 {
		t.Fatalf("got %d votes / %d users, want 10 / 3", finding.VoteCount, finding.UserCount)
	}
	if len(finding.Participants) != 3 {
		t.Fatalf("got %d participants, want 3", len(finding.Participants))
	}

	high := make(map[string]bool)
	for _, id := range finding.HighSuspicion {
		high[id] = true
	}
	if !high["new-1"] || !high["new-2"] {
		t.Fatalf("new accounts should be high suspicion, got %v", finding.HighSuspicion)
	}
	if high["old-1"] {
		t.Fatal("old slow voter should not be high suspicion")
	}
}

func TestAnalyzeWins_OrganicTraffic(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(-5 * time.Hour)

	// Twelve wins from six old accounts, two each, spread over the window.
	var wins []repository.WinVote
	for i, id := range []string{"u1", "u2", "u3", "u4", "u5", "u6"} {
		wins = append(wins, winVotes(id, 2, start.Add(time.Duration(i)*30*time.Minute), time.Hour)...)
	}
	joinDates := make(map[string]time.Time)
	for _, id := range []string{"u1", "u2", "u3", "u4", "u5", "u6"} {
		joinDates[id] = now.Add(-300 * 24 * time.Hour)
	}

	finding := AnalyzeWins(wins, joinDates, now)
	if finding == nil {
		t.Fatal("expected a finding for 12 votes from 6 users")
	}
	if finding.Confidence >= campaignConfidenceMin {
		t.Fatalf("confidence = %.3f for organic traffic, want < %.2f", finding.Confidence, campaignConfidenceMin)
	}
	if len(finding.HighSuspicion) != 0 {
		t.Fatalf("no account should be high suspicion, got %v", finding.HighSuspicion)
	}
}

func TestAnalyzeWins_ParticipantLevels(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(-time.Hour)

	// One account racing at well over 3 wins/hour.
	var wins []repository.WinVote
	wins = append(wins, winVotes("racer", 20, start, time.Minute)...)
	wins = append(wins, winVotes("bystander-1", 1, start, time.Minute)...)
	wins = append(wins, winVotes("bystander-2", 1, start, time.Minute)...)

	joinDates := map[string]time.Time{
		"racer":       now.Add(-200 * 24 * time.Hour),
		"bystander-1": now.Add(-200 * 24 * time.Hour),
		"bystander-2": now.Add(-200 * 24 * time.Hour),
	}

	finding := AnalyzeWins(wins, joinDates, now)
	if finding == nil {
		t.Fatal("expected a finding")
	}
	// Single-win voters are not participants.
	if len(finding.Participants) != 1 {
		t.Fatalf("got %d participants, want 1", len(finding.Participants))
	}
	p := finding.Participants[0]
	if p.AccountID != "racer" || p.SuspicionLevel != model.SuspicionHigh {
		t.Fatalf("got %s at %s, want racer at high", p.AccountID, p.SuspicionLevel)
	}
	if p.VotesInCampaign != 20 {
		t.Fatalf("got %d votes in campaign, want 20", p.VotesInCampaign)
	}
}

func TestEscalateRepeats(t *testing.T) {
	finding := &CampaignFinding{
		Participants: []model.CampaignParticipant{
			{AccountID: "repeat-medium", SuspicionLevel: model.SuspicionMedium},
			{AccountID: "repeat-high", SuspicionLevel: model.SuspicionHigh},
			{AccountID: "first-timer", SuspicionLevel: model.SuspicionMedium},
		},
		HighSuspicion: []string{"repeat-high"},
	}
	prior := []model.CampaignParticipant{
		{AccountID: "repeat-medium", SuspicionLevel: model.SuspicionLow},
		{AccountID: "repeat-high", SuspicionLevel: model.SuspicionHigh},
		{AccountID: "gone", SuspicionLevel: model.SuspicionMedium},
	}

	EscalateRepeats(finding, prior)

	levels := make(map[string]string)
	for _, p := range finding.Participants {
		levels[p.AccountID] = p.SuspicionLevel
	}
	if levels["repeat-medium"] != model.SuspicionHigh {
		t.Errorf("repeat participant stayed at %s, want high", levels["repeat-medium"])
	}
	if levels["first-timer"] != model.SuspicionMedium {
		t.Errorf("first-time participant escalated to %s", levels["first-timer"])
	}

	high := make(map[string]int)
	for _, id := range finding.HighSuspicion {
		high[id]++
	}
	if high["repeat-medium"] != 1 {
		t.Errorf("repeat-medium listed %d times in high suspicion, want 1", high["repeat-medium"])
	}
	if high["repeat-high"] != 1 {
		t.Errorf("repeat-high listed %d times in high suspicion, want 1", high["repeat-high"])
	}
	if high["gone"] != 0 {
		t.Error("an account absent from the new window must not be listed")
	}
}
