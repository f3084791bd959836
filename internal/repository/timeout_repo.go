package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voxarena/arena-go/internal/model"
)

type TimeoutRepo struct {
	pool *pgxpool.Pool
}

func NewTimeoutRepo(pool *pgxpool.Pool) *TimeoutRepo {
	return &TimeoutRepo{pool: pool}
}

const timeoutColumns = `id, account_id, reason, timeout_type, created_at, expires_at,
	COALESCE(created_by, ''), is_active, cancelled_at, COALESCE(cancelled_by, ''),
	COALESCE(cancel_reason, ''), related_campaign_id`

// Active returns the account's longest-running active timeout, or nil if
// the account is not blocked.
func (r *TimeoutRepo) Active(ctx context.Context, accountID string) (*model.AccountTimeout, error) {
	query := `
		SELECT ` + timeoutColumns + `
		FROM account_timeouts
		WHERE account_id = $1 AND is_active = TRUE AND expires_at > NOW()
		ORDER BY expires_at DESC
		LIMIT 1`

	t, err := r.scanTimeout(r.pool.QueryRow(ctx, query, accountID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts a new timeout and returns its id.
func (r *TimeoutRepo) Create(ctx context.Context, t *model.AccountTimeout) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO account_timeouts (account_id, reason, timeout_type, expires_at, created_by, related_campaign_id)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		RETURNING id`,
		t.AccountID, t.Reason, t.TimeoutType, t.ExpiresAt, t.CreatedBy, t.RelatedCampaignID).Scan(&id)
	return id, err
}

// Cancel deactivates a timeout, keeping the row for audit.
func (r *TimeoutRepo) Cancel(ctx context.Context, timeoutID int64, cancelledBy, reason string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE account_timeouts
		SET is_active = FALSE, cancelled_at = NOW(), cancelled_by = $1, cancel_reason = $2
		WHERE id = $3`,
		cancelledBy, reason, timeoutID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// timeoutListQuery builds the filtered listing query.
func timeoutListQuery(accountID string, activeOnly bool, limit int) (string, []any, error) {
	builder := sq.Select(timeoutColumns).
		From("account_timeouts").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar)

	if accountID != "" {
		builder = builder.Where(sq.Eq{"account_id": accountID})
	}
	if activeOnly {
		builder = builder.Where(sq.Eq{"is_active": true}).Where(sq.Expr("expires_at > NOW()"))
	}
	return builder.ToSql()
}

// List returns timeouts with optional filtering, newest first.
func (r *TimeoutRepo) List(ctx context.Context, accountID string, activeOnly bool, limit int) ([]model.AccountTimeout, error) {
	query, args, err := timeoutListQuery(accountID, activeOnly, limit)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var timeouts []model.AccountTimeout
	for rows.Next() {
		t, err := r.scanTimeout(rows)
		if err != nil {
			return nil, err
		}
		timeouts = append(timeouts, *t)
	}
	return timeouts, rows.Err()
}

func (r *TimeoutRepo) scanTimeout(row pgx.Row) (*model.AccountTimeout, error) {
	var t model.AccountTimeout
	var cancelledAt *time.Time
	err := row.Scan(&t.ID, &t.AccountID, &t.Reason, &t.TimeoutType, &t.CreatedAt,
		&t.ExpiresAt, &t.CreatedBy, &t.IsActive, &cancelledAt, &t.CancelledBy,
		&t.CancelReason, &t.RelatedCampaignID)
	if err != nil {
		return nil, err
	}
	t.CancelledAt = cancelledAt
	return &t, nil
}
