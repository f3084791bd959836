package model

// Comparison types. Each provider competes in exactly one arena.
const (
	ComparisonTTS            = "tts"
	ComparisonConversational = "conversational"
)

// InitialRating is the rating every provider starts from.
const InitialRating = 1500.0

// Provider represents a speech-synthesis backend being compared.
type Provider struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	ComparisonType string  `json:"comparisonType"`
	CurrentRating  float64 `json:"rating"`
	WinCount       int     `json:"winCount"`
	MatchCount     int     `json:"matchCount"`
	IsOpen         bool    `json:"isOpen"`
	IsActive       bool    `json:"-"`
	ProviderURL    string  `json:"providerUrl,omitempty"`
}

// WinRate returns the provider's win percentage over public matches.
func (p *Provider) WinRate() float64 {
	if p.MatchCount == 0 {
		return 0
	}
	return float64(p.WinCount) / float64(p.MatchCount) * 100
}

// LeaderboardEntry is the API response row for the public leaderboard.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	ID         string `json:"id"`
	Name       string `json:"name"`
	WinRate    string `json:"winRate"`
	TotalVotes int    `json:"totalVotes"`
	Rating     int    `json:"rating"`
	Tier       string `json:"tier"`
	IsOpen     bool   `json:"isOpen"`
}

// PersonalEntry is a row in a user's personal leaderboard, built from
// that user's own votes only.
type PersonalEntry struct {
	Rank       int    `json:"rank"`
	ID         string `json:"id"`
	Name       string `json:"name"`
	WinRate    string `json:"winRate"`
	TotalVotes int    `json:"totalVotes"`
	Wins       int    `json:"wins"`
	IsOpen     bool   `json:"isOpen"`
}
