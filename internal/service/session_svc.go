package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voxarena/arena-go/internal/model"
)

// SweepInterval is how often expired sessions are reaped.
const SweepInterval = 15 * time.Minute

// SessionRegistry holds the live comparison sessions for one comparison
// type. Sessions are process-local and die with the process.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*model.ComparisonSession
	remover  artifactRemover
	now      func() time.Time
}

func NewSessionRegistry(remover artifactRemover) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*model.ComparisonSession),
		remover:  remover,
		now:      time.Now,
	}
}

// Create registers a new single-vote session and returns a snapshot of it.
func (r *SessionRegistry) Create(providerA, providerB, audioA, audioB, text string, cacheHit bool, origin string, countsForPublic bool) model.ComparisonSession {
	now := r.now()
	s := &model.ComparisonSession{
		ID:              uuid.NewString(),
		ProviderA:       providerA,
		ProviderB:       providerB,
		AudioA:          audioA,
		AudioB:          audioB,
		Text:            text,
		CreatedAt:       now,
		ExpiresAt:       now.Add(model.SessionTTL),
		CacheHit:        cacheHit,
		SentenceOrigin:  origin,
		CountsForPublic: countsForPublic,
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return *s
}

// FetchAudio resolves the artifact path for side "a" or "b". An expired
// session is reaped on access.
func (r *SessionRegistry) FetchAudio(sessionID, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return "", model.ErrSessionNotFound
	}
	if s.Expired(r.now()) {
		r.reapLocked(s)
		return "", model.ErrSessionExpired
	}
	path, ok := s.AudioPath(key)
	if !ok {
		return "", model.ErrAudioNotFound
	}
	return path, nil
}

// RecordVote atomically flips the session's voted flag and returns a
// snapshot taken under the lock. A second call for the same session fails
// with ErrAlreadyVoted regardless of what happened downstream.
func (r *SessionRegistry) RecordVote(sessionID string) (model.ComparisonSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return model.ComparisonSession{}, model.ErrSessionNotFound
	}
	if s.Expired(r.now()) {
		r.reapLocked(s)
		return model.ComparisonSession{}, model.ErrSessionExpired
	}
	if s.Voted {
		return model.ComparisonSession{}, model.ErrAlreadyVoted
	}
	s.Voted = true
	return *s, nil
}

// Delete removes the session and its audio artifacts.
func (r *SessionRegistry) Delete(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[sessionID]; ok {
		r.reapLocked(s)
	}
}

// Sweep removes every expired session and returns how many were reaped.
func (r *SessionRegistry) Sweep() int {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()

	var reaped int
	for _, s := range r.sessions {
		if s.Expired(now) {
			r.reapLocked(s)
			reaped++
		}
	}
	return reaped
}

// StartSweeper runs periodic sweeps until ctx is cancelled.
func (r *SessionRegistry) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := r.Sweep(); n > 0 {
					log.Printf("session registry: swept %d expired sessions", n)
				}
			}
		}
	}()
}

// Len reports the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *SessionRegistry) reapLocked(s *model.ComparisonSession) {
	delete(r.sessions, s.ID)
	if err := r.remover.Remove(s.AudioA); err != nil {
		log.Printf("session registry: remove %s: %v", s.AudioA, err)
	}
	if err := r.remover.Remove(s.AudioB); err != nil {
		log.Printf("session registry: remove %s: %v", s.AudioB, err)
	}
}
