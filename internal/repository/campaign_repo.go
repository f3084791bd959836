package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voxarena/arena-go/internal/model"
)

type CampaignRepo struct {
	pool *pgxpool.Pool
}

func NewCampaignRepo(pool *pgxpool.Pool) *CampaignRepo {
	return &CampaignRepo{pool: pool}
}

// Create persists a detected campaign together with all of its participant
// rows in one transaction, returning the campaign id.
func (r *CampaignRepo) Create(ctx context.Context, c *model.CoordinatedCampaign, participants []model.CampaignParticipant) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var campaignID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO coordinated_campaigns (provider_id, comparison_type, time_window_hours,
			vote_count, user_count, confidence_score)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		c.ProviderID, c.ComparisonType, c.TimeWindowHours,
		c.VoteCount, c.UserCount, c.ConfidenceScore).Scan(&campaignID)
	if err != nil {
		return 0, err
	}

	for _, p := range participants {
		_, err = tx.Exec(ctx, `
			INSERT INTO campaign_participants (campaign_id, account_id, votes_in_campaign,
				first_vote_at, last_vote_at, suspicion_level)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			campaignID, p.AccountID, p.VotesInCampaign,
			p.FirstVoteAt, p.LastVoteAt, p.SuspicionLevel)
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return campaignID, nil
}

// Resolve marks a campaign as resolved or false-positive.
func (r *CampaignRepo) Resolve(ctx context.Context, campaignID int64, resolvedBy, status, notes string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE coordinated_campaigns
		SET status = $1, resolved_by = $2, resolved_at = NOW(), admin_notes = NULLIF($3, '')
		WHERE id = $4`,
		status, resolvedBy, notes, campaignID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// campaignListQuery builds the filtered listing query.
func campaignListQuery(status string, limit int) (string, []any, error) {
	builder := sq.Select(
		"id", "provider_id", "comparison_type", "detected_at", "time_window_hours",
		"vote_count", "user_count", "confidence_score", "status",
		"COALESCE(admin_notes, '')", "COALESCE(resolved_by, '')", "resolved_at").
		From("coordinated_campaigns").
		OrderBy("detected_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar)

	if status != "" {
		builder = builder.Where(sq.Eq{"status": status})
	}
	return builder.ToSql()
}

// List returns campaigns with optional status filtering, newest first.
func (r *CampaignRepo) List(ctx context.Context, status string, limit int) ([]model.CoordinatedCampaign, error) {
	query, args, err := campaignListQuery(status, limit)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []model.CoordinatedCampaign
	for rows.Next() {
		var c model.CoordinatedCampaign
		if err := rows.Scan(&c.ID, &c.ProviderID, &c.ComparisonType, &c.DetectedAt,
			&c.TimeWindowHours, &c.VoteCount, &c.UserCount, &c.ConfidenceScore,
			&c.Status, &c.AdminNotes, &c.ResolvedBy, &c.ResolvedAt); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// Participants returns the participant evidence rows for a campaign.
func (r *CampaignRepo) Participants(ctx context.Context, campaignID int64) ([]model.CampaignParticipant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, campaign_id, account_id, votes_in_campaign, first_vote_at, last_vote_at, suspicion_level
		FROM campaign_participants
		WHERE campaign_id = $1
		ORDER BY votes_in_campaign DESC`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []model.CampaignParticipant
	for rows.Next() {
		var p model.CampaignParticipant
		if err := rows.Scan(&p.ID, &p.CampaignID, &p.AccountID, &p.VotesInCampaign,
			&p.FirstVoteAt, &p.LastVoteAt, &p.SuspicionLevel); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}
