package rating

import (
	"math"
	"testing"
)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestExpected(t *testing.T) {
	tests := []struct {
		name  string
		self  float64
		other float64
		want  float64
	}{
		{"equal ratings", 1500, 1500, 0.5},
		{"400 points ahead", 1900, 1500, 10.0 / 11.0},
		{"400 points behind", 1500, 1900, 1.0 / 11.0},
		{"200 points ahead", 1700, 1500, 0.7597},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Expected(tt.self, tt.other)
			if !almostEqual(got, tt.want, 0.0001) {
				t.Errorf("Expected(%.0f, %.0f) = %.4f, want %.4f", tt.self, tt.other, got, tt.want)
			}
		})
	}
}

func TestChange_EqualRatings(t *testing.T) {
	// Both at 1500, expected = 0.5 each, so k=2 moves each side by exactly 1.
	winner, loser := Change(1500, 1500, DefaultK)
	if winner != 1501.0 {
		t.Errorf("winner = %v, want 1501.0", winner)
	}
	if loser != 1499.0 {
		t.Errorf("loser = %v, want 1499.0", loser)
	}
}

func TestChange_UpsetMovesMore(t *testing.T) {
	// An underdog win shifts ratings more than a favorite win.
	underdogWin, favoriteLoss := Change(1400, 1600, DefaultK)
	favoriteWin, underdogLoss := Change(1600, 1400, DefaultK)

	upsetGain := underdogWin - 1400
	expectedGain := favoriteWin - 1600
	if upsetGain <= expectedGain {
		t.Errorf("upset gain %.4f should exceed expected-result gain %.4f", upsetGain, expectedGain)
	}

	upsetLoss := 1600 - favoriteLoss
	expectedLoss := 1400 - underdogLoss
	if upsetLoss <= expectedLoss {
		t.Errorf("upset loss %.4f should exceed expected-result loss %.4f", upsetLoss, expectedLoss)
	}
}

func TestChange_ZeroSum(t *testing.T) {
	winner, loser := Change(1723.5, 1481.2, DefaultK)
	before := 1723.5 + 1481.2
	after := winner + loser
	if !almostEqual(before, after, 0.0001) {
		t.Errorf("rating sum changed: before=%.4f after=%.4f", before, after)
	}
}
