package service

import (
	"context"
	"time"

	"github.com/dreykodrey/donations-backend/internal/domain/donation"
	"github.com/dreykodrey/donations-backend/internal/domain/goal"
	"github.com/dreykodrey/donations-backend/internal/payments/mercadopago"
	"github.com/dreykodrey/donations-backend/internal/payments/paypal"
	"github.com/dreykodrey/donations-backend/internal/rates"
	"github.com/shopspring/decimal"
)

// LedgerService defines the interface for donation ledger writes
type LedgerService interface {
	// Record converts the amount to the reporting currency and appends a
	// donation row. A redelivered provider payment id is a silent no-op:
	// inserted is false and the error is nil.
	Record(ctx context.Context, provider donation.Provider, status donation.Status, amount decimal.Decimal, currency, providerPaymentID string) (*donation.Donation, bool, error)
}

// Progress is the aggregated fundraising state served to the public page.
type Progress struct {
	GoalUSD     decimal.Decimal
	CurrentUSD  decimal.Decimal
	ProgressPct decimal.Decimal
	DonorsCount int64
	UpdatedAt   time.Time
}

// GoalService defines the interface for goal settings and progress reads
type GoalService interface {
	// GetProgress returns the goal settings combined with the completed
	// donation totals. Returns goal.ErrSettingsNotFound when the seeded
	// settings row is missing.
	GetProgress(ctx context.Context) (*Progress, error)

	// UpdateSettings patches the goal settings row; nil fields keep their
	// current value.
	UpdateSettings(ctx context.Context, goalUSD, exchangeARSPerUSD *decimal.Decimal) (*goal.Settings, error)
}

// RateService defines the interface for the live exchange rate quote
type RateService interface {
	// CurrentUSDARS returns the cached-or-fresh USD→ARS quote
	CurrentUSDARS(ctx context.Context) (*rates.Quote, error)
}

// CheckoutService defines the interface for starting and settling payments
type CheckoutService interface {
	// CreateMercadoPagoPreference creates a checkout preference for a
	// regional-currency amount
	CreateMercadoPagoPreference(ctx context.Context, amountARS decimal.Decimal) (*mercadopago.Preference, error)

	// CreatePayPalOrder creates an order for a USD amount with the given
	// redirect targets
	CreatePayPalOrder(ctx context.Context, amountUSD decimal.Decimal, returnURL, cancelURL string) (*paypal.Order, error)

	// CapturePayPalOrder captures an approved order, records the donation
	// when the capture completed in USD, and returns the provider's raw
	// response body for passthrough.
	CapturePayPalOrder(ctx context.Context, orderID string) ([]byte, error)
}

// WebhookService defines the interface for provider event notifications
type WebhookService interface {
	// ProcessMercadoPagoEvent handles a MercadoPago webhook body. Errors are
	// internal outcomes only; deliveries are acknowledged regardless.
	ProcessMercadoPagoEvent(ctx context.Context, body []byte) error

	// ProcessPayPalEvent handles a PayPal webhook delivery. Returns
	// paypal.ErrInvalidSignature when the signature is definitively rejected.
	ProcessPayPalEvent(ctx context.Context, headers paypal.VerificationHeaders, body []byte) error
}

// MercadoPagoAPI is the slice of the MercadoPago client the services use
type MercadoPagoAPI interface {
	GetPayment(ctx context.Context, paymentID string) (*mercadopago.Payment, error)
	CreatePreference(ctx context.Context, amountARS, estimatedUSD, usdRate decimal.Decimal) (*mercadopago.Preference, error)
}

// PayPalAPI is the slice of the PayPal client the services use
type PayPalAPI interface {
	CreateOrder(ctx context.Context, amountUSD decimal.Decimal, returnURL, cancelURL string) (*paypal.Order, error)
	CaptureOrder(ctx context.Context, orderID string) (*paypal.CaptureResult, []byte, error)
	VerifyWebhookSignature(ctx context.Context, headers paypal.VerificationHeaders, eventBody []byte) error
	HasWebhookID() bool
}

// RateSource is the slice of the rate provider the services use
type RateSource interface {
	Get(ctx context.Context) (*rates.Quote, error)
}
