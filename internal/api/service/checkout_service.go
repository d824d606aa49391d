package service

import (
	"context"
	"log/slog"

	"github.com/dreykodrey/donations-backend/internal/domain/donation"
	"github.com/dreykodrey/donations-backend/internal/payments/mercadopago"
	"github.com/dreykodrey/donations-backend/internal/payments/paypal"
	"github.com/shopspring/decimal"
)

// CheckoutServiceImpl implements the CheckoutService interface
type CheckoutServiceImpl struct {
	mercadoPago  MercadoPagoAPI
	payPal       PayPalAPI
	rateSource   RateSource
	ledger       LedgerService
	fallbackRate decimal.Decimal
	logger       *slog.Logger
}

// NewCheckoutService creates a new checkout service. fallbackRate is the
// ARS-per-USD rate used for the preference metadata estimate when the live
// quote is unavailable.
func NewCheckoutService(logger *slog.Logger, mercadoPago MercadoPagoAPI, payPal PayPalAPI, rateSource RateSource, ledger LedgerService, fallbackRate decimal.Decimal) CheckoutService {
	return &CheckoutServiceImpl{
		mercadoPago:  mercadoPago,
		payPal:       payPal,
		rateSource:   rateSource,
		ledger:       ledger,
		fallbackRate: fallbackRate,
		logger:       logger,
	}
}

// CreateMercadoPagoPreference creates a checkout preference. The live rate
// feeds only the informational USD estimate in the preference metadata, so a
// failed quote falls back to the configured rate instead of blocking checkout.
func (s *CheckoutServiceImpl) CreateMercadoPagoPreference(ctx context.Context, amountARS decimal.Decimal) (*mercadopago.Preference, error) {
	rate := s.fallbackRate
	if quote, err := s.rateSource.Get(ctx); err != nil {
		s.logger.Warn("Exchange rate unavailable, using fallback for preference estimate",
			"fallback_rate", rate.String(),
			"error", err,
		)
	} else {
		rate = quote.Rate
	}

	estimatedUSD := decimal.Zero
	if rate.Sign() > 0 {
		estimatedUSD = amountARS.DivRound(rate, 2)
	}

	pref, err := s.mercadoPago.CreatePreference(ctx, amountARS, estimatedUSD, rate)
	if err != nil {
		return nil, err
	}

	s.logger.Info("MercadoPago preference created",
		"preference_id", pref.ID,
		"amount_ars", amountARS.String(),
		"estimated_usd", estimatedUSD.String(),
	)
	return pref, nil
}

// CreatePayPalOrder creates an order for a USD amount
func (s *CheckoutServiceImpl) CreatePayPalOrder(ctx context.Context, amountUSD decimal.Decimal, returnURL, cancelURL string) (*paypal.Order, error) {
	order, err := s.payPal.CreateOrder(ctx, amountUSD, returnURL, cancelURL)
	if err != nil {
		return nil, err
	}

	s.logger.Info("PayPal order created", "order_id", order.ID, "amount_usd", amountUSD.String())
	return order, nil
}

// CapturePayPalOrder captures an approved order and returns the provider's
// raw response for passthrough. A completed USD capture with a positive
// amount is appended to the ledger; the write is idempotent, so capturing the
// same order again records nothing new.
func (s *CheckoutServiceImpl) CapturePayPalOrder(ctx context.Context, orderID string) ([]byte, error) {
	result, raw, err := s.payPal.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if result.Status != "COMPLETED" {
		s.logger.Info("PayPal capture not completed, nothing recorded",
			"order_id", orderID,
			"status", result.Status,
		)
		return raw, nil
	}

	amount, currency, ok := result.CapturedAmount()
	if !ok || currency != donation.CurrencyUSD || amount.Sign() <= 0 {
		s.logger.Warn("PayPal capture completed without a recordable USD amount",
			"order_id", orderID,
			"currency", currency,
		)
		return raw, nil
	}

	if _, _, err := s.ledger.Record(ctx, donation.ProviderPayPal, donation.StatusCompleted, amount, donation.CurrencyUSD, orderID); err != nil {
		s.logger.Error("Failed to record captured PayPal order", "order_id", orderID, "error", err)
		return nil, err
	}

	return raw, nil
}
