// Package donation defines the append-only ledger entry recorded for each
// recognized payment event and the persistence contract for it.
package donation

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Provider tags the payment processor a donation arrived through.
type Provider string

const (
	ProviderMercadoPago Provider = "mercadopago"
	ProviderPayPal      Provider = "paypal"
)

// Status is the provider-reported payment state, normalized so that only
// approved/completed rows count toward the fundraising goal. Any other raw
// provider status may still be persisted for audit.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
)

// CountsTowardGoal reports whether a donation in this status contributes to
// the aggregated progress figure.
func (s Status) CountsTowardGoal() bool {
	return s == StatusApproved || s == StatusCompleted
}

// Reporting and regional currency tags.
const (
	CurrencyUSD = "USD"
	CurrencyARS = "ARS"
)

// Common errors
var (
	ErrUnknownProvider = errors.New("unknown payment provider")
	ErrEmptyPaymentID  = errors.New("provider payment id cannot be empty")
	ErrInvalidAmount   = errors.New("amount must be positive")
)

// Donation is one ledger row. Created once on a recognized payment event,
// never updated or deleted.
type Donation struct {
	ID                uuid.UUID       `json:"id"`
	Provider          Provider        `json:"provider"`
	Status            Status          `json:"status"`
	Amount            decimal.Decimal `json:"amount"`     // In the currency the provider reported
	Currency          string          `json:"currency"`   // ISO-like tag, e.g. "USD" or "ARS"
	AmountUSD         decimal.Decimal `json:"amount_usd"` // Converted to the reporting currency
	ProviderPaymentID string          `json:"provider_payment_id"`
	CreatedAt         time.Time       `json:"created_at"`
}

// New builds a ledger entry with a fresh identifier. Amounts must be
// positive whenever the status counts toward the goal; non-counting statuses
// are recorded as received for audit.
func New(provider Provider, status Status, amount decimal.Decimal, currency string, amountUSD decimal.Decimal, providerPaymentID string) (*Donation, error) {
	switch provider {
	case ProviderMercadoPago, ProviderPayPal:
	default:
		return nil, ErrUnknownProvider
	}
	if providerPaymentID == "" {
		return nil, ErrEmptyPaymentID
	}
	if status.CountsTowardGoal() && amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	return &Donation{
		ID:                uuid.New(),
		Provider:          provider,
		Status:            status,
		Amount:            amount,
		Currency:          currency,
		AmountUSD:         amountUSD,
		ProviderPaymentID: providerPaymentID,
		CreatedAt:         time.Now(),
	}, nil
}
