package donation

import (
	"context"

	"github.com/shopspring/decimal"
)

// Totals is the aggregate the public progress endpoint is built from.
type Totals struct {
	AmountUSD decimal.Decimal // Sum of amount_usd over counting rows
	Donors    int64           // Count of counting rows
}

// Repository defines donation ledger persistence operations
type Repository interface {
	// Insert appends a donation, keyed by provider payment id. A redelivered
	// event with an already-recorded id is a silent no-op: inserted is false
	// and err is nil. This is the idempotency guarantee webhook retries
	// depend on.
	Insert(ctx context.Context, d *Donation) (inserted bool, err error)

	// CompletedTotals sums the reporting-currency amounts and counts donors
	// over rows whose status counts toward the goal.
	CompletedTotals(ctx context.Context) (*Totals, error)
}
