package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dreykodrey/donations-backend/internal/domain/goal"
	"github.com/dreykodrey/donations-backend/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// GoalRepository implements the goal.Repository interface for PostgreSQL
type GoalRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewGoalRepository creates a new PostgreSQL goal settings repository
func NewGoalRepository(logger *slog.Logger, db *persistence.PostgresDB) goal.Repository {
	return &GoalRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Get retrieves the singleton settings row
func (r *GoalRepository) Get(ctx context.Context) (*goal.Settings, error) {
	query := `
		SELECT id, goal_usd, exchange_ars_per_usd, updated_at
		FROM goal_settings
		WHERE id = $1
	`

	var s goal.Settings
	err := r.querier.QueryRow(ctx, query, goal.SettingsID).Scan(
		&s.ID,
		&s.GoalUSD,
		&s.ExchangeARSPerUSD,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, goal.ErrSettingsNotFound{}
		}
		r.logger.Error("Failed to get goal settings", "error", err)
		return nil, fmt.Errorf("failed to get goal settings: %w", err)
	}

	return &s, nil
}

// Update patches the settings row, keeping current values for nil fields
func (r *GoalRepository) Update(ctx context.Context, goalUSD, exchangeARSPerUSD *decimal.Decimal) (*goal.Settings, error) {
	query := `
		UPDATE goal_settings
		SET goal_usd = COALESCE($1, goal_usd),
		    exchange_ars_per_usd = COALESCE($2, exchange_ars_per_usd),
		    updated_at = NOW()
		WHERE id = $3
		RETURNING id, goal_usd, exchange_ars_per_usd, updated_at
	`

	var s goal.Settings
	err := r.querier.QueryRow(ctx, query, goalUSD, exchangeARSPerUSD, goal.SettingsID).Scan(
		&s.ID,
		&s.GoalUSD,
		&s.ExchangeARSPerUSD,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, goal.ErrSettingsNotFound{}
		}
		r.logger.Error("Failed to update goal settings", "error", err)
		return nil, fmt.Errorf("failed to update goal settings: %w", err)
	}

	return &s, nil
}
