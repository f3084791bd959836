package model

import "time"

// Sentence origin values recorded on a vote.
const (
	OriginDataset = "dataset"
	OriginCustom  = "custom"
)

// Vote represents an individual recorded comparison outcome. Immutable
// once written.
type Vote struct {
	ID               int64     `json:"id"`
	AccountID        string    `json:"-"`
	Text             string    `json:"text"`
	VoteDate         time.Time `json:"voteDate"`
	ProviderChosen   string    `json:"providerChosen"`
	ProviderRejected string    `json:"providerRejected"`
	ComparisonType   string    `json:"comparisonType"`

	// Analytics fields captured at vote time.
	SessionDurationSeconds float64   `json:"-"`
	IPAddressPartial       string    `json:"-"`
	UserAgent              string    `json:"-"`
	GenerationDate         time.Time `json:"-"`
	CacheHit               bool      `json:"-"`

	SentenceHash    string `json:"-"`
	SentenceOrigin  string `json:"-"`
	CountsForPublic bool   `json:"-"`
}

// RatingHistoryEntry is one append-only point-in-time rating snapshot,
// written for both providers of every qualifying vote.
type RatingHistoryEntry struct {
	ID             int64     `json:"id"`
	ProviderID     string    `json:"providerId"`
	Timestamp      time.Time `json:"timestamp"`
	Rating         float64   `json:"rating"`
	VoteID         int64     `json:"voteId"`
	ComparisonType string    `json:"comparisonType"`
}

// GenerateRequest is the API request body for POST /api/tts/generate.
type GenerateRequest struct {
	Text string `json:"text"`
}

// ScriptLine is one turn of a conversational generation script.
type ScriptLine struct {
	Text      string `json:"text"`
	SpeakerID int    `json:"speaker_id"`
}

// ConversationalRequest is the API request body for POST /api/conversational/generate.
type ConversationalRequest struct {
	Script []ScriptLine `json:"script"`
}

// GenerateResponse is returned by both generate endpoints.
type GenerateResponse struct {
	SessionID string `json:"sessionId"`
	AudioA    string `json:"audioUrlA"`
	AudioB    string `json:"audioUrlB"`
	ExpiresIn int    `json:"expiresIn"`
	CacheHit  bool   `json:"cacheHit"`
}

// VoteRequest is the API request body for submitting a vote.
type VoteRequest struct {
	SessionID  string `json:"sessionId"`
	ChosenSide string `json:"chosenSide"`
}

// ProviderSummary names one side of a decided comparison.
type ProviderSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// VoteResponse is the API response after a vote is accepted.
type VoteResponse struct {
	Success                bool              `json:"success"`
	Winner                 ProviderSummary   `json:"winner"`
	Loser                  ProviderSummary   `json:"loser"`
	Names                  map[string]string `json:"names"`
	CountsForPublicRanking bool              `json:"countsForPublicRanking"`
}
