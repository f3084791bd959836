package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/voxarena/arena-go/internal/model"
)

// fakeRemover records removed artifact paths.
type fakeRemover struct {
	mu      sync.Mutex
	removed []string
}

func (f *fakeRemover) Remove(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if path != "" {
		f.removed = append(f.removed, path)
	}
	return nil
}

func (f *fakeRemover) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.removed)
}

func newTestRegistry(now time.Time) (*SessionRegistry, *fakeRemover) {
	remover := &fakeRemover{}
	reg := NewSessionRegistry(remover)
	reg.now = func() time.Time { return now }
	return reg, remover
}

func TestSessionRegistry_CreateAndFetch(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	reg, _ := newTestRegistry(now)

	sess := reg.Create("prov-a", "prov-b", "/tmp/a.wav", "/tmp/b.wav",
		"The birch canoe slid on the smooth planks.", true, model.OriginDataset, true)

	if sess.ID == "" {
		t.Fatal("expected a session id")
	}
	if sess.ExpiresAt != now.Add(model.SessionTTL) {
		t.Errorf("expiry = %v, want creation + TTL", sess.ExpiresAt)
	}

	path, err := reg.FetchAudio(sess.ID, "a")
	if err != nil {
		t.Fatalf("FetchAudio: %v", err)
	}
	if path != "/tmp/a.wav" {
		t.Errorf("got %q, want /tmp/a.wav", path)
	}

	if _, err := reg.FetchAudio(sess.ID, "c"); !errors.Is(err, model.ErrAudioNotFound) {
		t.Errorf("bad key: got %v, want ErrAudioNotFound", err)
	}
	if _, err := reg.FetchAudio("nope", "a"); !errors.Is(err, model.ErrSessionNotFound) {
		t.Errorf("unknown session: got %v, want ErrSessionNotFound", err)
	}
}

func TestSessionRegistry_SingleVote(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	reg, _ := newTestRegistry(now)

	sess := reg.Create("prov-a", "prov-b", "/tmp/a.wav", "/tmp/b.wav", "text", false, model.OriginCustom, false)

	snap, err := reg.RecordVote(sess.ID)
	if err != nil {
		t.Fatalf("first vote: %v", err)
	}
	if snap.ProviderA != "prov-a" || snap.ProviderB != "prov-b" {
		t.Errorf("snapshot providers = %s/%s", snap.ProviderA, snap.ProviderB)
	}

	if _, err := reg.RecordVote(sess.ID); !errors.Is(err, model.ErrAlreadyVoted) {
		t.Fatalf("second vote: got %v, want ErrAlreadyVoted", err)
	}
}

func TestSessionRegistry_ConcurrentVotesOneWinner(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	reg, _ := newTestRegistry(now)
	sess := reg.Create("prov-a", "prov-b", "/tmp/a.wav", "/tmp/b.wav", "text", false, model.OriginCustom, false)

	const attempts = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := reg.RecordVote(sess.ID); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Fatalf("%d concurrent votes succeeded, want exactly 1", succeeded)
	}
}

func TestSessionRegistry_ExpiredVoteRejected(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	reg, remover := newTestRegistry(now)
	sess := reg.Create("prov-a", "prov-b", "/tmp/a.wav", "/tmp/b.wav", "text", false, model.OriginCustom, false)

	reg.now = func() time.Time { return now.Add(model.SessionTTL + time.Minute) }

	if _, err := reg.RecordVote(sess.ID); !errors.Is(err, model.ErrSessionExpired) {
		t.Fatalf("got %v, want ErrSessionExpired", err)
	}
	// Lazy invalidation reaps the session and its artifacts.
	if reg.Len() != 0 {
		t.Errorf("registry still holds %d sessions", reg.Len())
	}
	if remover.count() != 2 {
		t.Errorf("removed %d artifacts, want 2", remover.count())
	}
	if _, err := reg.FetchAudio(sess.ID, "a"); !errors.Is(err, model.ErrSessionNotFound) {
		t.Errorf("reaped session fetch: got %v, want ErrSessionNotFound", err)
	}
}

func TestSessionRegistry_Sweep(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	reg, remover := newTestRegistry(now)

	reg.Create("a", "b", "/tmp/old-a.wav", "/tmp/old-b.wav", "old", false, model.OriginCustom, false)
	reg.now = func() time.Time { return now.Add(20 * time.Minute) }
	fresh := reg.Create("a", "b", "/tmp/new-a.wav", "/tmp/new-b.wav", "new", false, model.OriginCustom, false)

	reg.now = func() time.Time { return now.Add(model.SessionTTL + time.Minute) }
	if swept := reg.Sweep(); swept != 1 {
		t.Fatalf("swept %d sessions, want 1", swept)
	}
	if reg.Len() != 1 {
		t.Errorf("registry holds %d sessions, want 1", reg.Len())
	}
	if remover.count() != 2 {
		t.Errorf("removed %d artifacts, want 2", remover.count())
	}
	if _, err := reg.FetchAudio(fresh.ID, "a"); err != nil {
		t.Errorf("fresh session should survive the sweep: %v", err)
	}
}

func TestSessionRegistry_DeleteRemovesArtifacts(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	reg, remover := newTestRegistry(now)
	sess := reg.Create("a", "b", "/tmp/a.wav", "/tmp/b.wav", "text", false, model.OriginCustom, false)

	reg.Delete(sess.ID)

	if reg.Len() != 0 {
		t.Errorf("registry holds %d sessions, want 0", reg.Len())
	}
	if remover.count() != 2 {
		t.Errorf("removed %d artifacts, want 2", remover.count())
	}
}
