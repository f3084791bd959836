package model

import "time"

// SessionTTL is how long a comparison session stays valid after creation.
const SessionTTL = 30 * time.Minute

// CachedPair is a pre-generated comparison waiting in the pair cache.
// Owned exclusively by the pair cache; keyed by sentence text.
type CachedPair struct {
	ProviderA string
	ProviderB string
	AudioA    string
	AudioB    string
	CreatedAt time.Time
}

// ComparisonSession is one ephemeral, single-vote comparison instance.
// The audio paths point at files owned by the session for its lifetime.
//
// SentenceOrigin and CountsForPublic are fixed at creation: a dataset
// sentence that was unconsumed when the pair was produced (directly, or by
// the cache fill that stored it) yields a ranked session; custom text never
// does.
type ComparisonSession struct {
	ID              string
	ProviderA       string
	ProviderB       string
	AudioA          string
	AudioB          string
	Text            string
	CreatedAt       time.Time
	ExpiresAt       time.Time
	Voted           bool
	CacheHit        bool
	SentenceOrigin  string
	CountsForPublic bool
}

// Expired reports whether the session is past its expiry at the given time.
func (s *ComparisonSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// AudioPath returns the artifact path for side "a" or "b".
func (s *ComparisonSession) AudioPath(key string) (string, bool) {
	switch key {
	case "a":
		return s.AudioA, true
	case "b":
		return s.AudioB, true
	}
	return "", false
}
