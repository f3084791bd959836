package service

import (
	"testing"
	"time"

	"github.com/voxarena/arena-go/internal/repository"
)

func TestComputeScore(t *testing.T) {
	tests := []struct {
		name string
		in   ScoreInput
		want int
	}{
		{
			"established verified account",
			ScoreInput{AccountAgeDays: 200, IdentityVerified: true, IdentityAgeDays: 200},
			100,
		},
		{
			"established but unverified",
			ScoreInput{AccountAgeDays: 200},
			85,
		},
		{
			"brand new account",
			ScoreInput{AccountAgeDays: 3},
			55, // -30 age, -15 no identity
		},
		{
			"new account with vote burst",
			ScoreInput{AccountAgeDays: 3, TotalVotes: 25},
			40, // -30 age, -15 no identity, -15 burst
		},
		{
			"freshly verified identity",
			ScoreInput{AccountAgeDays: 200, IdentityVerified: true, IdentityAgeDays: 10},
			75,
		},
		{
			"mid-tier account age",
			ScoreInput{AccountAgeDays: 60, IdentityVerified: true, IdentityAgeDays: 60},
			75, // -15 age, -10 identity
		},
		{
			"extreme bias",
			ScoreInput{AccountAgeDays: 200, IdentityVerified: true, IdentityAgeDays: 200, MaxBias: 0.97},
			70,
		},
		{
			"moderate bias",
			ScoreInput{AccountAgeDays: 200, IdentityVerified: true, IdentityAgeDays: 200, MaxBias: 0.85},
			90,
		},
		{
			"everything wrong floors at zero",
			ScoreInput{AccountAgeDays: 1, TotalVotes: 100, SuspiciousFrequency: true, RapidVoting: true, MaxBias: 0.99},
			0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeScore(tt.in); got != tt.want {
				t.Errorf("ComputeScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSuspiciousFrequency(t *testing.T) {
	tests := []struct {
		name     string
		count24h int
		count3h  int
		want     bool
	}{
		{"quiet account", 5, 2, false},
		{"at 24h limit", 720, 0, false},
		{"over 24h limit", 721, 0, true},
		{"at 3h limit", 0, 100, false},
		{"over 3h limit", 0, 101, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := SuspiciousFrequency(tt.count24h, tt.count3h)
			if got != tt.want {
				t.Errorf("SuspiciousFrequency(%d, %d) = %v, want %v", tt.count24h, tt.count3h, got, tt.want)
			}
		})
	}
}

// voteTimes builds a newest-first timestamp series with the given gap
// between consecutive votes.
func voteTimes(n int, gap time.Duration) []time.Time {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	times := make([]time.Time, n)
	for i := 0; i < n; i++ {
		times[i] = base.Add(-time.Duration(i) * gap)
	}
	return times
}

func TestRapidVotingPattern(t *testing.T) {
	t.Run("too few votes never rapid", func(t *testing.T) {
		if RapidVotingPattern(voteTimes(49, 100*time.Millisecond)) {
			t.Error("under 50 votes must not flag, even with sub-second gaps")
		}
	})

	t.Run("all sub-second gaps", func(t *testing.T) {
		if !RapidVotingPattern(voteTimes(50, 500*time.Millisecond)) {
			t.Error("expected rapid for all sub-second gaps")
		}
	})

	t.Run("human pacing", func(t *testing.T) {
		if RapidVotingPattern(voteTimes(50, 30*time.Second)) {
			t.Error("30s gaps must not flag")
		}
	})

	t.Run("fast gaps with a long run", func(t *testing.T) {
		// 2s gaps: all under 3s and every gap under 5s, so runs abound.
		if !RapidVotingPattern(voteTimes(50, 2*time.Second)) {
			t.Error("expected rapid for sustained 2s gaps")
		}
	})

	t.Run("fast but broken up", func(t *testing.T) {
		// Alternate 2s and 10s gaps: ~50% under 3s, no run of 10.
		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		times := make([]time.Time, 50)
		times[0] = base
		for i := 1; i < 50; i++ {
			gap := 2 * time.Second
			if i%2 == 0 {
				gap = 10 * time.Second
			}
			times[i] = times[i-1].Add(-gap)
		}
		if RapidVotingPattern(times) {
			t.Error("alternating fast/slow gaps must not flag")
		}
	})
}

func TestMaxBiasRatio(t *testing.T) {
	stats := map[string]*repository.ExposureStat{
		"heavily-favored": {Chosen: 19, Appeared: 20},
		"rarely-seen":     {Chosen: 4, Appeared: 4}, // under the 5-appearance floor
		"balanced":        {Chosen: 10, Appeared: 20},
	}

	got := MaxBiasRatio(stats)
	if got != 0.95 {
		t.Errorf("MaxBiasRatio() = %v, want 0.95", got)
	}
}

func TestMaxBiasRatio_Empty(t *testing.T) {
	if got := MaxBiasRatio(nil); got != 0 {
		t.Errorf("MaxBiasRatio(nil) = %v, want 0", got)
	}
}
