// Package goal defines the singleton fundraising goal settings row and its
// persistence contract.
package goal

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettingsID is the fixed primary key of the single settings row.
const SettingsID = 1

// Settings holds the fundraising goal and the administrative ARS-per-USD
// exchange rate used when converting regional-currency donations for the
// ledger. Exactly one row exists after initialization.
type Settings struct {
	ID                int             `json:"id"`
	GoalUSD           decimal.Decimal `json:"goal_usd"`
	ExchangeARSPerUSD decimal.Decimal `json:"exchange_ars_per_usd"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ARSToUSD converts a regional-currency amount to the reporting currency
// using the persisted rate, rounded to cents. A non-positive rate is invalid
// configuration; the conversion yields zero rather than dividing by it.
func (s *Settings) ARSToUSD(amount decimal.Decimal) decimal.Decimal {
	if s.ExchangeARSPerUSD.Sign() <= 0 {
		return decimal.Zero
	}
	return amount.DivRound(s.ExchangeARSPerUSD, 2)
}

// ErrSettingsNotFound indicates the seeded settings row is missing, which is
// a deployment or initialization defect rather than a user error.
type ErrSettingsNotFound struct{}

func (e ErrSettingsNotFound) Error() string {
	return "goal settings row not found"
}
