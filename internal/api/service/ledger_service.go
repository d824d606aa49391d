package service

import (
	"context"
	"log/slog"

	"github.com/dreykodrey/donations-backend/internal/domain/donation"
	"github.com/dreykodrey/donations-backend/internal/domain/goal"
	"github.com/shopspring/decimal"
)

// LedgerServiceImpl implements the LedgerService interface
type LedgerServiceImpl struct {
	donationRepo donation.Repository
	goalRepo     goal.Repository
	logger       *slog.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(logger *slog.Logger, donationRepo donation.Repository, goalRepo goal.Repository) LedgerService {
	return &LedgerServiceImpl{
		donationRepo: donationRepo,
		goalRepo:     goalRepo,
		logger:       logger,
	}
}

// Record converts the amount to the reporting currency using the persisted
// exchange rate and appends the donation. Duplicate provider payment ids are
// silent no-ops so webhook redeliveries stay safe.
func (s *LedgerServiceImpl) Record(ctx context.Context, provider donation.Provider, status donation.Status, amount decimal.Decimal, currency, providerPaymentID string) (*donation.Donation, bool, error) {
	amountUSD, err := s.convert(ctx, amount, currency)
	if err != nil {
		return nil, false, err
	}

	d, err := donation.New(provider, status, amount, currency, amountUSD, providerPaymentID)
	if err != nil {
		return nil, false, err
	}

	inserted, err := s.donationRepo.Insert(ctx, d)
	if err != nil {
		s.logger.Error("Failed to insert donation",
			"provider", string(provider),
			"provider_payment_id", providerPaymentID,
			"error", err,
		)
		return nil, false, err
	}

	if !inserted {
		s.logger.Info("Donation already recorded, skipping",
			"provider", string(provider),
			"provider_payment_id", providerPaymentID,
		)
		return d, false, nil
	}

	s.logger.Info("Donation recorded",
		"provider", string(provider),
		"provider_payment_id", providerPaymentID,
		"status", string(status),
		"amount", amount.String(),
		"currency", currency,
		"amount_usd", amountUSD.String(),
	)
	return d, true, nil
}

// convert maps a provider-reported amount to USD. USD passes through, ARS is
// divided by the administrative rate from the settings row, and any other
// currency contributes zero while the row itself is still recorded.
func (s *LedgerServiceImpl) convert(ctx context.Context, amount decimal.Decimal, currency string) (decimal.Decimal, error) {
	switch currency {
	case donation.CurrencyUSD:
		return amount, nil
	case donation.CurrencyARS:
		settings, err := s.goalRepo.Get(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		return settings.ARSToUSD(amount), nil
	default:
		s.logger.Warn("Unsupported donation currency, recording with zero USD value", "currency", currency)
		return decimal.Zero, nil
	}
}
