package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the schema if it does not exist. Statements are ordered so
// foreign keys always reference existing tables.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			account_id           VARCHAR(100) PRIMARY KEY,
			username             VARCHAR(100) NOT NULL DEFAULT '',
			joined_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			identity_verified_at TIMESTAMPTZ,
			show_in_leaderboard  BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS providers (
			provider_id     VARCHAR(100) NOT NULL,
			name            VARCHAR(100) NOT NULL,
			comparison_type VARCHAR(20) NOT NULL,
			current_rating  DOUBLE PRECISION NOT NULL DEFAULT 1500.0,
			win_count       INTEGER NOT NULL DEFAULT 0,
			match_count     INTEGER NOT NULL DEFAULT 0,
			is_open         BOOLEAN NOT NULL DEFAULT FALSE,
			is_active       BOOLEAN NOT NULL DEFAULT TRUE,
			provider_url    VARCHAR(255) NOT NULL DEFAULT '',
			PRIMARY KEY (provider_id, comparison_type)
		)`,
		`CREATE TABLE IF NOT EXISTS votes (
			id                       BIGSERIAL PRIMARY KEY,
			account_id               VARCHAR(100) NOT NULL REFERENCES accounts(account_id),
			text                     VARCHAR(1000) NOT NULL,
			vote_date                TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			provider_chosen          VARCHAR(100) NOT NULL,
			provider_rejected        VARCHAR(100) NOT NULL,
			comparison_type          VARCHAR(20) NOT NULL,
			session_duration_seconds DOUBLE PRECISION,
			ip_address_partial       VARCHAR(45),
			user_agent               VARCHAR(500),
			generation_date          TIMESTAMPTZ,
			cache_hit                BOOLEAN,
			sentence_hash            VARCHAR(64),
			sentence_origin          VARCHAR(20),
			counts_for_public        BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_account_date ON votes (account_id, vote_date DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_chosen_date ON votes (provider_chosen, vote_date DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_sentence_hash ON votes (sentence_hash)`,
		`CREATE TABLE IF NOT EXISTS rating_history (
			id              BIGSERIAL PRIMARY KEY,
			provider_id     VARCHAR(100) NOT NULL,
			ts              TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			rating          DOUBLE PRECISION NOT NULL,
			vote_id         BIGINT REFERENCES votes(id),
			comparison_type VARCHAR(20) NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rating_history_provider ON rating_history (provider_id, ts DESC)`,
		`CREATE TABLE IF NOT EXISTS consumed_sentences (
			id            BIGSERIAL PRIMARY KEY,
			sentence_hash VARCHAR(64) NOT NULL UNIQUE,
			sentence_text TEXT NOT NULL,
			consumed_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			session_id    VARCHAR(100),
			usage_type    VARCHAR(20) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS coordinated_campaigns (
			id                BIGSERIAL PRIMARY KEY,
			provider_id       VARCHAR(100) NOT NULL,
			comparison_type   VARCHAR(20) NOT NULL,
			detected_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			time_window_hours INTEGER NOT NULL,
			vote_count        INTEGER NOT NULL,
			user_count        INTEGER NOT NULL,
			confidence_score  DOUBLE PRECISION NOT NULL,
			status            VARCHAR(20) NOT NULL DEFAULT 'active',
			admin_notes       TEXT,
			resolved_by       VARCHAR(100),
			resolved_at       TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS campaign_participants (
			id                BIGSERIAL PRIMARY KEY,
			campaign_id       BIGINT NOT NULL REFERENCES coordinated_campaigns(id),
			account_id        VARCHAR(100) NOT NULL,
			votes_in_campaign INTEGER NOT NULL,
			first_vote_at     TIMESTAMPTZ NOT NULL,
			last_vote_at      TIMESTAMPTZ NOT NULL,
			suspicion_level   VARCHAR(20) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS account_timeouts (
			id                  BIGSERIAL PRIMARY KEY,
			account_id          VARCHAR(100) NOT NULL,
			reason              VARCHAR(500) NOT NULL,
			timeout_type        VARCHAR(50) NOT NULL,
			created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			expires_at          TIMESTAMPTZ NOT NULL,
			created_by          VARCHAR(100),
			is_active           BOOLEAN NOT NULL DEFAULT TRUE,
			cancelled_at        TIMESTAMPTZ,
			cancelled_by        VARCHAR(100),
			cancel_reason       VARCHAR(500),
			related_campaign_id BIGINT REFERENCES coordinated_campaigns(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_timeouts_account ON account_timeouts (account_id, expires_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
