package paypal

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Completion allow-list. Anything else is acknowledged but never inserted as
// a completed donation.
const (
	EventCaptureCompleted = "PAYMENT.CAPTURE.COMPLETED"
	EventSaleCompleted    = "PAYMENT.SALE.COMPLETED"
	EventOrderApproved    = "CHECKOUT.ORDER.APPROVED"
)

// Event is the normalized content of a webhook delivery.
type Event struct {
	Type           string
	ResourceID     string
	ResourceStatus string // Uppercased provider status
	Amount         decimal.Decimal
	Currency       string
}

type rawEvent struct {
	EventType    string `json:"event_type"`
	EventTypeAlt string `json:"eventType"`
	ID           string `json:"id"`
	Resource     struct {
		ID            string  `json:"id"`
		Status        string  `json:"status"`
		Amount        *Amount `json:"amount"`
		PurchaseUnits []struct {
			Amount *Amount `json:"amount"`
		} `json:"purchase_units"`
	} `json:"resource"`
}

// ParseEvent normalizes a webhook body. ok is false when no resource id can
// be extracted, meaning the event is not actionable and should only be
// acknowledged.
func ParseEvent(body []byte) (*Event, bool) {
	var raw rawEvent
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, false
	}

	eventType := raw.EventType
	if eventType == "" {
		eventType = raw.EventTypeAlt
	}

	resourceID := raw.Resource.ID
	if resourceID == "" {
		resourceID = raw.ID
	}
	if resourceID == "" {
		return nil, false
	}

	event := &Event{
		Type:           eventType,
		ResourceID:     resourceID,
		ResourceStatus: strings.ToUpper(raw.Resource.Status),
		Currency:       "USD",
	}

	// Capture/sale events carry the amount directly; order events nest it
	// inside the first purchase unit.
	if raw.Resource.Amount != nil && raw.Resource.Amount.Value != "" {
		event.setAmount(raw.Resource.Amount)
	} else if len(raw.Resource.PurchaseUnits) > 0 && raw.Resource.PurchaseUnits[0].Amount != nil {
		event.setAmount(raw.Resource.PurchaseUnits[0].Amount)
	}

	return event, true
}

func (e *Event) setAmount(a *Amount) {
	if value, err := decimal.NewFromString(a.Value); err == nil {
		e.Amount = value
	}
	if a.CurrencyCode != "" {
		e.Currency = a.CurrencyCode
	}
}

// Completed reports whether the event represents a settled payment: the
// event type must be on the allow-list and the embedded resource status must
// itself be terminal.
func (e *Event) Completed() bool {
	completedEvent := e.Type == EventCaptureCompleted ||
		e.Type == EventSaleCompleted ||
		(e.Type == EventOrderApproved && e.ResourceStatus == "COMPLETED")

	completedStatus := e.ResourceStatus == "COMPLETED" || e.ResourceStatus == "APPROVED"

	return completedEvent && completedStatus
}
