// Package postgres provides PostgreSQL implementations of the domain
// repositories. The donation ledger relies on the database uniqueness
// constraint, not in-process state, so retried webhook deliveries and
// multiple instances cannot double-count.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dreykodrey/donations-backend/internal/domain/donation"
	"github.com/dreykodrey/donations-backend/internal/platform/persistence"
)

// DonationRepository implements the donation.Repository interface for PostgreSQL
type DonationRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewDonationRepository creates a new PostgreSQL donation repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewDonationRepository(logger *slog.Logger, db *persistence.PostgresDB) donation.Repository {
	return &DonationRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Insert appends a donation row. ON CONFLICT DO NOTHING makes redelivered
// provider notifications a no-op: zero rows affected means the payment id
// was already recorded and the caller gets inserted=false with no error.
func (r *DonationRepository) Insert(ctx context.Context, d *donation.Donation) (bool, error) {
	query := `
		INSERT INTO donations (id, provider, status, amount, currency, amount_usd, provider_payment_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (provider_payment_id) DO NOTHING
	`

	result, err := r.querier.Exec(ctx, query,
		d.ID,
		string(d.Provider),
		string(d.Status),
		d.Amount,
		d.Currency,
		d.AmountUSD,
		d.ProviderPaymentID,
		d.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to insert donation", "provider_payment_id", d.ProviderPaymentID, "error", err)
		return false, fmt.Errorf("failed to insert donation: %w", err)
	}

	if result.RowsAffected() == 0 {
		r.logger.Info("Duplicate donation ignored", "provider", string(d.Provider), "provider_payment_id", d.ProviderPaymentID)
		return false, nil
	}

	return true, nil
}

// CompletedTotals aggregates the rows that count toward the goal
func (r *DonationRepository) CompletedTotals(ctx context.Context) (*donation.Totals, error) {
	query := `
		SELECT COALESCE(SUM(amount_usd), 0) AS current_usd, COUNT(*) AS donors_count
		FROM donations
		WHERE status IN ('approved', 'completed')
	`

	var totals donation.Totals
	err := r.querier.QueryRow(ctx, query).Scan(&totals.AmountUSD, &totals.Donors)
	if err != nil {
		r.logger.Error("Failed to aggregate donations", "error", err)
		return nil, fmt.Errorf("failed to aggregate donations: %w", err)
	}

	return &totals, nil
}
