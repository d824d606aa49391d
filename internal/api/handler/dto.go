package handler

import "github.com/shopspring/decimal"

// CreatePreferenceRequest accepts the checkout amount under any of the field
// names the front-end variants have used over time. unit_price wins, then
// amount, then monto.
type CreatePreferenceRequest struct {
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Amount    *decimal.Decimal `json:"amount"`
	Monto     *decimal.Decimal `json:"monto"`
}

// AmountARS returns the requested amount and whether any field carried one
func (r *CreatePreferenceRequest) AmountARS() (decimal.Decimal, bool) {
	for _, v := range []*decimal.Decimal{r.UnitPrice, r.Amount, r.Monto} {
		if v != nil {
			return *v, true
		}
	}
	return decimal.Zero, false
}

// PreferenceResponse is the answer to a created MercadoPago preference
type PreferenceResponse struct {
	InitPoint string `json:"init_point"`
	ID        string `json:"id"`
}

// CreateOrderRequest starts a PayPal checkout
type CreateOrderRequest struct {
	AmountUSD *decimal.Decimal `json:"amountUsd"`
	ReturnURL string           `json:"returnUrl"`
}

// OrderResponse is the answer to a created PayPal order
type OrderResponse struct {
	ID         string `json:"id"`
	ApproveURL string `json:"approveUrl"`
}

// CaptureOrderRequest settles an approved PayPal order
type CaptureOrderRequest struct {
	OrderID string `json:"orderId" binding:"required"`
}

// GoalResponse is the public fundraising progress payload
type GoalResponse struct {
	GoalUSD     float64 `json:"goalUsd"`
	CurrentUSD  float64 `json:"currentUsd"`
	ProgressPct float64 `json:"progressPct"`
	DonorsCount int64   `json:"donorsCount"`
	UpdatedAt   string  `json:"updatedAt"`
}

// RateResponse is the live exchange rate payload
type RateResponse struct {
	USDARS    float64 `json:"usd_ars"`
	Cached    bool    `json:"cached"`
	FetchedAt string  `json:"fetchedAt"`
}

// UpdateGoalRequest patches the goal settings; at least one field is required
type UpdateGoalRequest struct {
	GoalUSD           *decimal.Decimal `json:"goalUsd"`
	ExchangeARSPerUSD *decimal.Decimal `json:"exchangeArsPerUsd"`
}

// GoalSettingsResponse is the updated settings row returned to the admin
type GoalSettingsResponse struct {
	ID                int     `json:"id"`
	GoalUSD           float64 `json:"goalUsd"`
	ExchangeARSPerUSD float64 `json:"exchangeArsPerUsd"`
	UpdatedAt         string  `json:"updatedAt"`
}
