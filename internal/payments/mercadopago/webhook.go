package mercadopago

import (
	"bytes"
	"encoding/json"
	"regexp"

	"github.com/dreykodrey/donations-backend/internal/domain/donation"
)

// MercadoPago delivers several notification shapes; the topic-style ones
// carry a resource path instead of a payment id.
var resourcePathPattern = regexp.MustCompile(`/payments/(\d+)`)

// webhookPayload covers the known notification shapes. Id fields may arrive
// as JSON strings or numbers depending on the notification topic.
type webhookPayload struct {
	Data struct {
		ID any `json:"id"`
	} `json:"data"`
	ID       any    `json:"id"`
	Resource string `json:"resource"`
}

// ExtractPaymentID pulls the payment id out of a webhook body, trying the
// nested data.id, then a top-level id, then a resource path. An empty result
// means the notification is not actionable and should be acknowledged
// without further processing.
func ExtractPaymentID(body []byte) string {
	var payload webhookPayload
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return ""
	}

	if id := idString(payload.Data.ID); id != "" {
		return id
	}
	if id := idString(payload.ID); id != "" {
		return id
	}
	if payload.Resource != "" {
		if match := resourcePathPattern.FindStringSubmatch(payload.Resource); match != nil {
			return match[1]
		}
	}

	return ""
}

func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case json.Number:
		return id.String()
	default:
		return ""
	}
}

// NormalizeStatus maps the upstream payment status to the internal tag. Only
// "approved" is mapped; every other status passes through raw so pending and
// rejected payments can be persisted for audit.
func NormalizeStatus(raw string) donation.Status {
	if raw == "" {
		return donation.Status("unknown")
	}
	if raw == "approved" {
		return donation.StatusApproved
	}
	return donation.Status(raw)
}
