package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voxarena/arena-go/internal/model"
	"github.com/voxarena/arena-go/internal/rating"
)

type VoteRepo struct {
	pool *pgxpool.Pool
}

func NewVoteRepo(pool *pgxpool.Pool) *VoteRepo {
	return &VoteRepo{pool: pool}
}

// RecordedVote reports the outcome of a recorded vote. CountsForPublic is
// the effective value after the sentence-ledger claim, which can demote a
// vote that lost a consumption race.
type RecordedVote struct {
	VoteID          int64
	ChosenRating    float64
	RejectedRating  float64
	CountsForPublic bool
}

// Record persists a vote as one atomic unit: the vote row, the rating
// mutation (when the vote counts for public ranking), both rating-history
// rows, and the sentence-ledger mark. No reader ever observes a vote
// without its corresponding rating effect.
//
// A NOTIFY on vote_recorded carrying the winning provider is sent inside
// the transaction so the campaign worker only sees committed votes.
func (r *VoteRepo) Record(ctx context.Context, v *model.Vote) (*RecordedVote, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock both provider rows in a stable order to avoid deadlocks between
	// concurrent votes on the same pair.
	var chosenRating, rejectedRating float64
	rows, err := tx.Query(ctx, `
		SELECT provider_id, current_rating FROM providers
		WHERE provider_id = ANY($1) AND comparison_type = $2
		ORDER BY provider_id
		FOR UPDATE`,
		[]string{v.ProviderChosen, v.ProviderRejected}, v.ComparisonType)
	if err != nil {
		return nil, err
	}
	found := 0
	for rows.Next() {
		var id string
		var rt float64
		if err := rows.Scan(&id, &rt); err != nil {
			rows.Close()
			return nil, err
		}
		switch id {
		case v.ProviderChosen:
			chosenRating = rt
		case v.ProviderRejected:
			rejectedRating = rt
		}
		found++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if found != 2 {
		return nil, model.ErrNotEnoughProviders
	}

	// A direct-generation dataset vote must claim the sentence in the ledger
	// before it can move ratings. Losing the insert race means a concurrent
	// session consumed the same sentence first; the vote is then demoted to
	// personal-only. Cache-backed sessions already hold the claim from when
	// the pair was cached.
	countsForPublic := v.CountsForPublic
	if countsForPublic && v.SentenceOrigin == model.OriginDataset && !v.CacheHit {
		tag, err := tx.Exec(ctx, `
			INSERT INTO consumed_sentences (sentence_hash, sentence_text, usage_type)
			VALUES ($1, $2, $3)
			ON CONFLICT (sentence_hash) DO NOTHING`,
			v.SentenceHash, v.Text, model.UsageVoted)
		if err != nil {
			return nil, err
		}
		if tag.RowsAffected() == 0 {
			countsForPublic = false
		}
	}

	var voteID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO votes (account_id, text, provider_chosen, provider_rejected,
			comparison_type, session_duration_seconds, ip_address_partial, user_agent,
			generation_date, cache_hit, sentence_hash, sentence_origin, counts_for_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`,
		v.AccountID, v.Text, v.ProviderChosen, v.ProviderRejected,
		v.ComparisonType, v.SessionDurationSeconds, v.IPAddressPartial, v.UserAgent,
		v.GenerationDate, v.CacheHit, v.SentenceHash, v.SentenceOrigin, countsForPublic,
	).Scan(&voteID)
	if err != nil {
		return nil, err
	}

	// Rating mutation and history rows happen only for qualifying votes;
	// personal-only votes are persisted without touching either.
	newChosen, newRejected := chosenRating, rejectedRating
	if countsForPublic {
		newChosen, newRejected = rating.Change(chosenRating, rejectedRating, rating.DefaultK)

		_, err = tx.Exec(ctx, `
			UPDATE providers
			SET current_rating = $1, win_count = win_count + 1, match_count = match_count + 1
			WHERE provider_id = $2 AND comparison_type = $3`,
			newChosen, v.ProviderChosen, v.ComparisonType)
		if err != nil {
			return nil, err
		}

		_, err = tx.Exec(ctx, `
			UPDATE providers
			SET current_rating = $1, match_count = match_count + 1
			WHERE provider_id = $2 AND comparison_type = $3`,
			newRejected, v.ProviderRejected, v.ComparisonType)
		if err != nil {
			return nil, err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO rating_history (provider_id, rating, vote_id, comparison_type)
			VALUES ($1, $2, $3, $4), ($5, $6, $3, $4)`,
			v.ProviderChosen, newChosen, voteID, v.ComparisonType,
			v.ProviderRejected, newRejected)
		if err != nil {
			return nil, err
		}
	}

	_, err = tx.Exec(ctx, `SELECT pg_notify('vote_recorded', $1)`,
		v.ProviderChosen+"|"+v.ComparisonType)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &RecordedVote{
		VoteID:          voteID,
		ChosenRating:    newChosen,
		RejectedRating:  newRejected,
		CountsForPublic: countsForPublic,
	}, nil
}

// CountByAccountSince returns how many votes the account cast after the
// given time.
func (r *VoteRepo) CountByAccountSince(ctx context.Context, accountID string, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM votes WHERE account_id = $1 AND vote_date >= $2`,
		accountID, since).Scan(&n)
	return n, err
}

// CountByAccount returns the account's all-time vote count.
func (r *VoteRepo) CountByAccount(ctx context.Context, accountID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM votes WHERE account_id = $1`, accountID).Scan(&n)
	return n, err
}

// RecentVoteTimes returns the account's most recent vote timestamps, newest
// first, up to limit.
func (r *VoteRepo) RecentVoteTimes(ctx context.Context, accountID string, limit int) ([]time.Time, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT vote_date FROM votes
		WHERE account_id = $1
		ORDER BY vote_date DESC
		LIMIT $2`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

// ExposureStat counts how often a provider appeared in an account's
// comparisons and how often the account chose it.
type ExposureStat struct {
	Chosen   int
	Appeared int
}

// ExposureStats returns per-provider appearance and choice counts across
// all of the account's votes.
func (r *VoteRepo) ExposureStats(ctx context.Context, accountID string) (map[string]*ExposureStat, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT provider_chosen, provider_rejected FROM votes WHERE account_id = $1`,
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make(map[string]*ExposureStat)
	get := func(id string) *ExposureStat {
		s, ok := stats[id]
		if !ok {
			s = &ExposureStat{}
			stats[id] = s
		}
		return s
	}

	for rows.Next() {
		var chosen, rejected string
		if err := rows.Scan(&chosen, &rejected); err != nil {
			return nil, err
		}
		c := get(chosen)
		c.Chosen++
		c.Appeared++
		get(rejected).Appeared++
	}
	return stats, rows.Err()
}

// WinVote is one winning vote for a provider inside a detection window.
type WinVote struct {
	AccountID string
	VoteDate  time.Time
}

// WinVotesSince returns the votes where the provider was chosen after the
// given time, oldest first.
func (r *VoteRepo) WinVotesSince(ctx context.Context, providerID, comparisonType string, since time.Time) ([]WinVote, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT account_id, vote_date FROM votes
		WHERE provider_chosen = $1 AND comparison_type = $2 AND vote_date >= $3
		ORDER BY vote_date ASC`,
		providerID, comparisonType, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var votes []WinVote
	for rows.Next() {
		var w WinVote
		if err := rows.Scan(&w.AccountID, &w.VoteDate); err != nil {
			return nil, err
		}
		votes = append(votes, w)
	}
	return votes, rows.Err()
}

// ByAccountAndType returns the provider pairings of every vote an account
// cast for one comparison type, for the personal leaderboard.
func (r *VoteRepo) ByAccountAndType(ctx context.Context, accountID, comparisonType string) ([]model.Vote, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT provider_chosen, provider_rejected FROM votes
		WHERE account_id = $1 AND comparison_type = $2`,
		accountID, comparisonType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var votes []model.Vote
	for rows.Next() {
		var v model.Vote
		if err := rows.Scan(&v.ProviderChosen, &v.ProviderRejected); err != nil {
			return nil, err
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}
