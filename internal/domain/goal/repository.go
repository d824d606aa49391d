package goal

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository defines goal settings persistence operations
type Repository interface {
	// Get returns the singleton settings row.
	// Returns ErrSettingsNotFound if the row is missing.
	Get(ctx context.Context) (*Settings, error)

	// Update patches the settings row; nil fields keep their current value.
	// Returns the updated row, or ErrSettingsNotFound if the row is missing.
	Update(ctx context.Context, goalUSD, exchangeARSPerUSD *decimal.Decimal) (*Settings, error)
}
