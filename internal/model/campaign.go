package model

import "time"

// Suspicion tiers assigned to campaign participants.
const (
	SuspicionLow    = "low"
	SuspicionMedium = "medium"
	SuspicionHigh   = "high"
)

// Campaign statuses.
const (
	CampaignActive        = "active"
	CampaignResolved      = "resolved"
	CampaignFalsePositive = "false_positive"
)

// Timeout categories.
const (
	TimeoutCoordinatedVoting = "coordinated_voting"
	TimeoutRapidVoting       = "rapid_voting"
	TimeoutManual            = "manual"
)

// CoordinatedCampaign is a detected cluster of coordinated votes for one
// provider.
type CoordinatedCampaign struct {
	ID              int64      `json:"id"`
	ProviderID      string     `json:"providerId"`
	ComparisonType  string     `json:"comparisonType"`
	DetectedAt      time.Time  `json:"detectedAt"`
	TimeWindowHours int        `json:"timeWindowHours"`
	VoteCount       int        `json:"voteCount"`
	UserCount       int        `json:"userCount"`
	ConfidenceScore float64    `json:"confidenceScore"`
	Status          string     `json:"status"`
	AdminNotes      string     `json:"-"`
	ResolvedBy      string     `json:"-"`
	ResolvedAt      *time.Time `json:"resolvedAt,omitempty"`
}

// CampaignParticipant is the per-account evidence attached to a campaign.
type CampaignParticipant struct {
	ID              int64     `json:"id"`
	CampaignID      int64     `json:"campaignId"`
	AccountID       string    `json:"accountId"`
	VotesInCampaign int       `json:"votesInCampaign"`
	FirstVoteAt     time.Time `json:"firstVoteAt"`
	LastVoteAt      time.Time `json:"lastVoteAt"`
	SuspicionLevel  string    `json:"suspicionLevel"`
}

// AccountTimeout is a time-bounded suspension of an account's voting rights.
type AccountTimeout struct {
	ID                int64      `json:"id"`
	AccountID         string     `json:"accountId"`
	Reason            string     `json:"reason"`
	TimeoutType       string     `json:"timeoutType"`
	CreatedAt         time.Time  `json:"createdAt"`
	ExpiresAt         time.Time  `json:"expiresAt"`
	CreatedBy         string     `json:"-"`
	IsActive          bool       `json:"isActive"`
	CancelledAt       *time.Time `json:"-"`
	CancelledBy       string     `json:"-"`
	CancelReason      string     `json:"-"`
	RelatedCampaignID *int64     `json:"relatedCampaignId,omitempty"`
}

// CurrentlyActive reports whether the timeout blocks voting at the given time.
func (t *AccountTimeout) CurrentlyActive(now time.Time) bool {
	return t.IsActive && now.Before(t.ExpiresAt)
}

// Account is the locally tracked identity of a voter. Authentication itself
// is external; the account row only carries the metadata the integrity
// pipeline needs.
type Account struct {
	ID                 string     `json:"id"`
	Username           string     `json:"username"`
	JoinedAt           time.Time  `json:"joinedAt"`
	IdentityVerifiedAt *time.Time `json:"-"`
	ShowInLeaderboard  bool       `json:"showInLeaderboard"`
}
