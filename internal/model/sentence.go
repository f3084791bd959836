package model

import "time"

// Usage tags recorded when a sentence is consumed.
const (
	UsageCache  = "cache"
	UsageDirect = "direct"
	UsageVoted  = "voted"
)

// ConsumedSentence marks a dataset sentence as used, keyed by a stable
// hash so each sentence counts at most once.
type ConsumedSentence struct {
	ID           int64     `json:"id"`
	SentenceHash string    `json:"sentenceHash"`
	SentenceText string    `json:"-"`
	ConsumedAt   time.Time `json:"consumedAt"`
	SessionID    string    `json:"-"`
	UsageType    string    `json:"usageType"`
}

// SentenceStats is the API response for the sentence pool status.
type SentenceStats struct {
	TotalSentences  int     `json:"totalSentences"`
	ConsumedCount   int     `json:"consumedCount"`
	RemainingCount  int     `json:"remainingCount"`
	ConsumedPercent float64 `json:"consumedPercent"`
}
