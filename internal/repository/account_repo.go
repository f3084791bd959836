package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voxarena/arena-go/internal/model"
)

type AccountRepo struct {
	pool *pgxpool.Pool
}

func NewAccountRepo(pool *pgxpool.Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// Ensure upserts the account on every authenticated request and returns the
// stored row. joined_at is set on first sight only; the verified-identity
// timestamp is refreshed from the identity provider's claim when present.
func (r *AccountRepo) Ensure(ctx context.Context, accountID, username string, identityVerifiedAt *time.Time) (*model.Account, error) {
	var a model.Account
	err := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (account_id, username, identity_verified_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id) DO UPDATE
		SET username = EXCLUDED.username,
		    identity_verified_at = COALESCE(EXCLUDED.identity_verified_at, accounts.identity_verified_at)
		RETURNING account_id, username, joined_at, identity_verified_at, show_in_leaderboard`,
		accountID, username, identityVerifiedAt).Scan(
		&a.ID, &a.Username, &a.JoinedAt, &a.IdentityVerifiedAt, &a.ShowInLeaderboard)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByID returns a single account.
func (r *AccountRepo) FindByID(ctx context.Context, accountID string) (*model.Account, error) {
	var a model.Account
	err := r.pool.QueryRow(ctx, `
		SELECT account_id, username, joined_at, identity_verified_at, show_in_leaderboard
		FROM accounts
		WHERE account_id = $1`, accountID).Scan(
		&a.ID, &a.Username, &a.JoinedAt, &a.IdentityVerifiedAt, &a.ShowInLeaderboard)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
