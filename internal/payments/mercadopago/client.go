// Package mercadopago integrates with the MercadoPago REST API: checkout
// preference creation, authoritative payment lookups, and webhook payload
// interpretation.
package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/dreykodrey/donations-backend/internal/config"
	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrNotConfigured = errors.New("mercadopago access token is not configured")
	ErrUnavailable   = errors.New("mercadopago api request failed")
)

// Client is a thin typed client over the MercadoPago REST API
type Client struct {
	accessToken     string
	baseURL         string
	notificationURL string
	backURLBase     string
	httpClient      *http.Client
	logger          *slog.Logger
}

// NewClient creates a MercadoPago API client. A missing access token is not
// an error here; operations fail individually with ErrNotConfigured.
func NewClient(logger *slog.Logger, cfg *config.MercadoPagoConfig, httpClient *http.Client) *Client {
	return &Client{
		accessToken:     cfg.AccessToken,
		baseURL:         cfg.BaseURL,
		notificationURL: cfg.NotificationURL,
		backURLBase:     cfg.BackURLBase,
		httpClient:      httpClient,
		logger:          logger,
	}
}

// Payment is the authoritative payment detail fetched after a webhook
// notification. Webhook bodies are only trusted to locate the payment id.
type Payment struct {
	ID                int64           `json:"id"`
	Status            string          `json:"status"`
	TransactionAmount decimal.Decimal `json:"transaction_amount"`
	CurrencyID        string          `json:"currency_id"`
}

// GetPayment fetches payment details by id
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	if c.accessToken == "" {
		return nil, ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/v1/payments/%s", c.baseURL, url.PathEscape(paymentID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.logger.Error("MercadoPago payment lookup failed", "payment_id", paymentID, "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("%w: payment lookup returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var payment Payment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("%w: decoding payment: %v", ErrUnavailable, err)
	}

	return &payment, nil
}

// Preference is a created checkout preference. InitPoint is the donor-facing
// checkout URL; sandbox credentials only populate SandboxInitPoint.
type Preference struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// CheckoutURL returns the live checkout URL, falling back to the sandbox one
func (p *Preference) CheckoutURL() string {
	if p.InitPoint != "" {
		return p.InitPoint
	}
	return p.SandboxInitPoint
}

type preferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
}

type preferenceBackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type preferenceRequest struct {
	Items           []preferenceItem    `json:"items"`
	Metadata        map[string]any      `json:"metadata"`
	NotificationURL string              `json:"notification_url,omitempty"`
	BackURLs        *preferenceBackURLs `json:"back_urls,omitempty"`
	AutoReturn      string              `json:"auto_return,omitempty"`
}

// CreatePreference creates a checkout preference for an ARS donation. The
// USD estimate and the rate used for it travel as preference metadata so the
// figures can be reconciled later against the webhook.
func (c *Client) CreatePreference(ctx context.Context, amountARS, estimatedUSD, usdRate decimal.Decimal) (*Preference, error) {
	if c.accessToken == "" {
		return nil, ErrNotConfigured
	}

	reqBody := preferenceRequest{
		Items: []preferenceItem{{
			Title:      "Apoyo DreykoDrey",
			Quantity:   1,
			UnitPrice:  amountARS.InexactFloat64(),
			CurrencyID: "ARS",
		}},
		Metadata: map[string]any{
			"amount_usd":   estimatedUSD.InexactFloat64(),
			"currency":     "ARS",
			"usd_ars_rate": usdRate.InexactFloat64(),
		},
		NotificationURL: c.notificationURL,
	}
	if c.backURLBase != "" {
		reqBody.BackURLs = &preferenceBackURLs{
			Success: c.backURLBase + "/gracias",
			Failure: c.backURLBase + "/error",
			Pending: c.backURLBase + "/pendiente",
		}
		reqBody.AutoReturn = "approved"
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encoding preference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkout/preferences", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.logger.Error("MercadoPago preference creation failed", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("%w: preference creation returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var pref Preference
	if err := json.NewDecoder(resp.Body).Decode(&pref); err != nil {
		return nil, fmt.Errorf("%w: decoding preference: %v", ErrUnavailable, err)
	}

	return &pref, nil
}
