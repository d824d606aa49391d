package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dreykodrey/donations-backend/internal/domain/goal"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalRepository_Get(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &GoalRepository{querier: mock, logger: logger}
	now := time.Now()

	query := `
		SELECT id, goal_usd, exchange_ars_per_usd, updated_at
		FROM goal_settings
		WHERE id = \$1
	`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "goal_usd", "exchange_ars_per_usd", "updated_at"}).
			AddRow(goal.SettingsID, decimal.NewFromInt(100), decimal.NewFromInt(1100), now)
		mock.ExpectQuery(query).WithArgs(goal.SettingsID).WillReturnRows(rows)

		s, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, goal.SettingsID, s.ID)
		assert.True(t, decimal.NewFromInt(100).Equal(s.GoalUSD))
		assert.True(t, decimal.NewFromInt(1100).Equal(s.ExchangeARSPerUSD))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(goal.SettingsID).WillReturnError(pgx.ErrNoRows)

		s, err := repo.Get(ctx)
		assert.Error(t, err)
		assert.Nil(t, s)
		var notFound goal.ErrSettingsNotFound
		assert.ErrorAs(t, err, &notFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("some db error")
		mock.ExpectQuery(query).WithArgs(goal.SettingsID).WillReturnError(dbErr)

		s, err := repo.Get(ctx)
		assert.Error(t, err)
		assert.Nil(t, s)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGoalRepository_Update(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &GoalRepository{querier: mock, logger: logger}
	now := time.Now()

	query := `
		UPDATE goal_settings
		SET goal_usd = COALESCE\(\$1, goal_usd\),
		    exchange_ars_per_usd = COALESCE\(\$2, exchange_ars_per_usd\),
		    updated_at = NOW\(\)
		WHERE id = \$3
		RETURNING id, goal_usd, exchange_ars_per_usd, updated_at
	`

	t.Run("updates goal only", func(t *testing.T) {
		newGoal := decimal.NewFromInt(500)
		rows := pgxmock.NewRows([]string{"id", "goal_usd", "exchange_ars_per_usd", "updated_at"}).
			AddRow(goal.SettingsID, newGoal, decimal.NewFromInt(1100), now)
		mock.ExpectQuery(query).WithArgs(&newGoal, (*decimal.Decimal)(nil), goal.SettingsID).WillReturnRows(rows)

		s, err := repo.Update(ctx, &newGoal, nil)
		require.NoError(t, err)
		assert.True(t, newGoal.Equal(s.GoalUSD))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("updates rate only", func(t *testing.T) {
		newRate := decimal.NewFromInt(1350)
		rows := pgxmock.NewRows([]string{"id", "goal_usd", "exchange_ars_per_usd", "updated_at"}).
			AddRow(goal.SettingsID, decimal.NewFromInt(100), newRate, now)
		mock.ExpectQuery(query).WithArgs((*decimal.Decimal)(nil), &newRate, goal.SettingsID).WillReturnRows(rows)

		s, err := repo.Update(ctx, nil, &newRate)
		require.NoError(t, err)
		assert.True(t, newRate.Equal(s.ExchangeARSPerUSD))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("row missing", func(t *testing.T) {
		newGoal := decimal.NewFromInt(500)
		mock.ExpectQuery(query).WithArgs(&newGoal, (*decimal.Decimal)(nil), goal.SettingsID).WillReturnError(pgx.ErrNoRows)

		s, err := repo.Update(ctx, &newGoal, nil)
		assert.Error(t, err)
		assert.Nil(t, s)
		var notFound goal.ErrSettingsNotFound
		assert.ErrorAs(t, err, &notFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
