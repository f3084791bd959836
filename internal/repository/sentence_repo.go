package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SentenceRepo struct {
	pool *pgxpool.Pool
}

func NewSentenceRepo(pool *pgxpool.Pool) *SentenceRepo {
	return &SentenceRepo{pool: pool}
}

// IsConsumed checks whether a sentence hash is already in the ledger.
func (r *SentenceRepo) IsConsumed(ctx context.Context, sentenceHash string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM consumed_sentences WHERE sentence_hash = $1)`,
		sentenceHash).Scan(&exists)
	return exists, err
}

// MarkConsumed inserts the sentence into the ledger. Idempotent: losing an
// insert race leaves the earlier row in place and reports no error.
func (r *SentenceRepo) MarkConsumed(ctx context.Context, sentenceHash, text, sessionID, usageType string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO consumed_sentences (sentence_hash, sentence_text, session_id, usage_type)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (sentence_hash) DO NOTHING`,
		sentenceHash, text, sessionID, usageType)
	return err
}

// ConsumedHashes returns the full set of consumed sentence hashes.
func (r *SentenceRepo) ConsumedHashes(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.pool.Query(ctx, `SELECT sentence_hash FROM consumed_sentences`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hashes := make(map[string]struct{})
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		hashes[h] = struct{}{}
	}
	return hashes, rows.Err()
}

// Count returns the total number of consumed sentences.
func (r *SentenceRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM consumed_sentences`).Scan(&n)
	return n, err
}
