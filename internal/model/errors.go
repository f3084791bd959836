package model

import (
	"errors"
	"fmt"
)

// Error taxonomy shared across services and mapped to HTTP statuses by the
// handlers.
var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrAlreadyVoted       = errors.New("vote already submitted for this session")
	ErrAudioNotFound      = errors.New("audio file not found")
	ErrPoolExhausted      = errors.New("no unconsumed sentences remain")
	ErrSentenceConsumed   = errors.New("sentence has already been used")
	ErrNotEnoughProviders = errors.New("not enough active providers")
	ErrGenerationFailed   = errors.New("audio generation failed")
	ErrInvalidSide        = errors.New("chosen side must be \"a\" or \"b\"")
)

// SecurityBlockedError rejects a vote on integrity grounds. The reason is
// user-visible; the exact factor breakdown is not.
type SecurityBlockedError struct {
	Reason string
	Score  int
}

func (e *SecurityBlockedError) Error() string {
	return fmt.Sprintf("vote not allowed: %s", e.Reason)
}
