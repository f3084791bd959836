package service

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CampaignWorker listens for PostgreSQL NOTIFY on the 'vote_recorded'
// channel and batches campaign detection per provider. If 50 votes land on
// provider X in 5 seconds, the detector runs once.
type CampaignWorker struct {
	pool     *pgxpool.Pool
	detector *CampaignService
	batchMs  time.Duration

	mu      sync.Mutex
	pending map[string]struct{} // "providerID|comparisonType" keys awaiting detection
}

func NewCampaignWorker(pool *pgxpool.Pool, detector *CampaignService) *CampaignWorker {
	return &CampaignWorker{
		pool:     pool,
		detector: detector,
		batchMs:  5 * time.Second,
		pending:  make(map[string]struct{}),
	}
}

// Start begins listening for vote_recorded notifications and processing
// batches. Blocks until ctx is cancelled.
func (w *CampaignWorker) Start(ctx context.Context) {
	log.Printf("campaign-worker: starting (batch window=%s)", w.batchMs)

	for {
		if err := w.listenLoop(ctx); err != nil {
			if ctx.Err() != nil {
				log.Println("campaign-worker: stopping (context cancelled)")
				return
			}
			log.Printf("campaign-worker: listen error, reconnecting in 5s: %v", err)
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				log.Println("campaign-worker: stopping (context cancelled)")
				return
			}
		}
	}
}

func (w *CampaignWorker) listenLoop(ctx context.Context) error {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, "LISTEN vote_recorded")
	if err != nil {
		return err
	}
	log.Println("campaign-worker: listening on vote_recorded")

	flushCtx, flushCancel := context.WithCancel(ctx)
	defer flushCancel()
	go w.flushLoop(flushCtx)

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		if notification.Payload == "" {
			continue
		}

		w.mu.Lock()
		w.pending[notification.Payload] = struct{}{}
		w.mu.Unlock()
	}
}

func (w *CampaignWorker) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(w.batchMs)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.flush(ctx)
		case <-ctx.Done():
			// Final flush before exit
			w.flush(context.Background())
			return
		}
	}
}

// flush drains the pending set and runs campaign detection for each
// provider. Detection failures are logged, never propagated; the vote
// pipeline must not depend on the detector.
func (w *CampaignWorker) flush(ctx context.Context) {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	batch := w.pending
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	for key := range batch {
		providerID, comparisonType, ok := strings.Cut(key, "|")
		if !ok {
			log.Printf("campaign-worker: malformed notification payload %q", key)
			continue
		}
		if err := w.detector.CheckProvider(ctx, providerID, comparisonType); err != nil {
			log.Printf("campaign-worker: detection error for %s (%s): %v", providerID, comparisonType, err)
		}
	}
}
