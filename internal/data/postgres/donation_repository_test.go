package postgres

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/dreykodrey/donations-backend/internal/domain/donation"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestDonationRepository_Insert(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &DonationRepository{querier: mock, logger: logger}

	d := &donation.Donation{
		ID:                uuid.New(),
		Provider:          donation.ProviderMercadoPago,
		Status:            donation.StatusApproved,
		Amount:            decimal.NewFromInt(5000),
		Currency:          donation.CurrencyARS,
		AmountUSD:         decimal.NewFromInt(5),
		ProviderPaymentID: "123456",
		CreatedAt:         time.Now(),
	}

	query := `
		INSERT INTO donations \(id, provider, status, amount, currency, amount_usd, provider_payment_id, created_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8\)
		ON CONFLICT \(provider_payment_id\) DO NOTHING
	`

	t.Run("inserted", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(d.ID, string(d.Provider), string(d.Status), d.Amount, d.Currency, d.AmountUSD, d.ProviderPaymentID, d.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		inserted, err := repo.Insert(ctx, d)
		assert.NoError(t, err)
		assert.True(t, inserted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate is a silent no-op", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(d.ID, string(d.Provider), string(d.Status), d.Amount, d.Currency, d.AmountUSD, d.ProviderPaymentID, d.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 0))

		inserted, err := repo.Insert(ctx, d)
		assert.NoError(t, err, "redelivery must not surface an error")
		assert.False(t, inserted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectExec(query).
			WithArgs(d.ID, string(d.Provider), string(d.Status), d.Amount, d.Currency, d.AmountUSD, d.ProviderPaymentID, d.CreatedAt).
			WillReturnError(expectedErr)

		inserted, err := repo.Insert(ctx, d)
		assert.Error(t, err)
		assert.False(t, inserted)
		assert.Contains(t, err.Error(), "failed to insert donation")
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDonationRepository_CompletedTotals(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &DonationRepository{querier: mock, logger: logger}

	query := `
		SELECT COALESCE\(SUM\(amount_usd\), 0\) AS current_usd, COUNT\(\*\) AS donors_count
		FROM donations
		WHERE status IN \('approved', 'completed'\)
	`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"current_usd", "donors_count"}).
			AddRow(decimal.RequireFromString("25.50"), int64(3))
		mock.ExpectQuery(query).WillReturnRows(rows)

		totals, err := repo.CompletedTotals(ctx)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("25.50").Equal(totals.AmountUSD))
		assert.Equal(t, int64(3), totals.Donors)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty ledger", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"current_usd", "donors_count"}).
			AddRow(decimal.Zero, int64(0))
		mock.ExpectQuery(query).WillReturnRows(rows)

		totals, err := repo.CompletedTotals(ctx)
		require.NoError(t, err)
		assert.True(t, totals.AmountUSD.IsZero())
		assert.Equal(t, int64(0), totals.Donors)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("some db error")
		mock.ExpectQuery(query).WillReturnError(dbErr)

		totals, err := repo.CompletedTotals(ctx)
		assert.Error(t, err)
		assert.Nil(t, totals)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
