package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voxarena/arena-go/internal/model"
)

type ProviderRepo struct {
	pool *pgxpool.Pool
}

func NewProviderRepo(pool *pgxpool.Pool) *ProviderRepo {
	return &ProviderRepo{pool: pool}
}

// ListActive returns the providers eligible for comparison of the given type.
func (r *ProviderRepo) ListActive(ctx context.Context, comparisonType string) ([]model.Provider, error) {
	query := `
		SELECT provider_id, name, comparison_type, current_rating, win_count,
		       match_count, is_open, is_active, provider_url
		FROM providers
		WHERE comparison_type = $1 AND is_active = TRUE`

	rows, err := r.pool.Query(ctx, query, comparisonType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var providers []model.Provider
	for rows.Next() {
		var p model.Provider
		if err := rows.Scan(&p.ID, &p.Name, &p.ComparisonType, &p.CurrentRating,
			&p.WinCount, &p.MatchCount, &p.IsOpen, &p.IsActive, &p.ProviderURL); err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, rows.Err()
}

// FindByID returns a single provider for the given comparison type.
func (r *ProviderRepo) FindByID(ctx context.Context, id, comparisonType string) (*model.Provider, error) {
	query := `
		SELECT provider_id, name, comparison_type, current_rating, win_count,
		       match_count, is_open, is_active, provider_url
		FROM providers
		WHERE provider_id = $1 AND comparison_type = $2`

	var p model.Provider
	err := r.pool.QueryRow(ctx, query, id, comparisonType).Scan(
		&p.ID, &p.Name, &p.ComparisonType, &p.CurrentRating,
		&p.WinCount, &p.MatchCount, &p.IsOpen, &p.IsActive, &p.ProviderURL,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// VoteCounts returns, per provider of the given type, how many votes the
// provider has appeared in (chosen or rejected). Providers with no votes
// are absent from the map.
func (r *ProviderRepo) VoteCounts(ctx context.Context, comparisonType string) (map[string]int, error) {
	query := `
		SELECT provider_id, COUNT(*) FROM (
			SELECT provider_chosen AS provider_id FROM votes WHERE comparison_type = $1
			UNION ALL
			SELECT provider_rejected FROM votes WHERE comparison_type = $1
		) appearances
		GROUP BY provider_id`

	rows, err := r.pool.Query(ctx, query, comparisonType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// Leaderboard returns providers of the given type with more than minMatches
// public matches, ordered by rating descending.
func (r *ProviderRepo) Leaderboard(ctx context.Context, comparisonType string, minMatches int) ([]model.Provider, error) {
	query := `
		SELECT provider_id, name, comparison_type, current_rating, win_count,
		       match_count, is_open, is_active, provider_url
		FROM providers
		WHERE comparison_type = $1 AND match_count > $2
		ORDER BY current_rating DESC`

	rows, err := r.pool.Query(ctx, query, comparisonType, minMatches)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var providers []model.Provider
	for rows.Next() {
		var p model.Provider
		if err := rows.Scan(&p.ID, &p.Name, &p.ComparisonType, &p.CurrentRating,
			&p.WinCount, &p.MatchCount, &p.IsOpen, &p.IsActive, &p.ProviderURL); err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, rows.Err()
}

// Seed inserts or updates the configured provider roster. Rating and vote
// counters on existing rows are preserved.
func (r *ProviderRepo) Seed(ctx context.Context, providers []model.Provider) error {
	for _, p := range providers {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO providers (provider_id, name, comparison_type, is_open, is_active, provider_url)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (provider_id, comparison_type) DO UPDATE
			SET name = EXCLUDED.name, is_open = EXCLUDED.is_open,
			    is_active = EXCLUDED.is_active, provider_url = EXCLUDED.provider_url`,
			p.ID, p.Name, p.ComparisonType, p.IsOpen, p.IsActive, p.ProviderURL)
		if err != nil {
			return err
		}
	}
	return nil
}
