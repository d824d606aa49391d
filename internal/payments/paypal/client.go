// Package paypal integrates with the PayPal REST API: OAuth2 token caching,
// order creation/capture, webhook signature verification, and webhook event
// interpretation.
package paypal

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
	"strings"
	"sync"
	"time"

	"github.com/dreykodrey/donations-backend/internal/config"
	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrNotConfigured           = errors.New("paypal credentials are not configured")
	ErrUnavailable             = errors.New("paypal api request failed")
	ErrInvalidSignature        = errors.New("paypal webhook signature is invalid")
	ErrVerificationUnavailable = errors.New("paypal signature verification unavailable")
)

// tokenExpirySlack refreshes the cached token ahead of its announced expiry
// so in-flight requests never carry a token about to lapse.
const tokenExpirySlack = 2 * time.Minute

// Client is a typed client over the PayPal REST API. Access tokens are
// cached per client and refreshed on demand.
type Client struct {
	clientID     string
	clientSecret string
	baseURL      string
	webhookID    string
	httpClient   *http.Client
	logger       *slog.Logger
	now          func() time.Time

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// apiHost maps the configured environment to the PayPal API host
func apiHost(env string) string {
	if env == "live" {
		return "https://api-m.paypal.com"
	}
	return "https://api-m.sandbox.paypal.com"
}

// NewClient creates a PayPal API client. Missing credentials are not an
// error here; operations fail individually with ErrNotConfigured.
func NewClient(logger *slog.Logger, cfg *config.PayPalConfig, httpClient *http.Client) *Client {
	return &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		baseURL:      apiHost(cfg.Env),
		webhookID:    cfg.WebhookID,
		httpClient:   httpClient,
		logger:       logger,
		now:          time.Now,
	}
}

// HasWebhookID reports whether webhook signature verification is configured
func (c *Client) HasWebhookID() bool {
	return c.webhookID != ""
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// accessToken returns a cached OAuth2 token, fetching a fresh one via the
// client-credentials grant when the cache is empty or near expiry.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return "", ErrNotConfigured
	}

	c.mu.Lock()
	if c.token != "" && c.now().Before(c.tokenExpiry) {
		token := c.token
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	form := strings.NewReader(url.Values{"grant_type": {"client_credentials"}}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/oauth2/token", form)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.logger.Error("PayPal token request failed", "status", resp.StatusCode, "body", string(body))
		return "", fmt.Errorf("%w: token request returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("%w: decoding token response: %v", ErrUnavailable, err)
	}

	c.mu.Lock()
	c.token = tr.AccessToken
	c.tokenExpiry = c.now().Add(time.Duration(tr.ExpiresIn)*time.Second - tokenExpirySlack)
	c.mu.Unlock()

	return tr.AccessToken, nil
}

// Amount is a PayPal monetary value
type Amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

// Link is a HATEOAS link in a PayPal response
type Link struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

// Order is a created checkout order
type Order struct {
	ID    string `json:"id"`
	Links []Link `json:"links"`
}

// ApproveURL returns the donor-facing approval link, or "" when absent
func (o *Order) ApproveURL() string {
	for _, l := range o.Links {
		if l.Rel == "approve" {
			return l.Href
		}
	}
	return ""
}

type orderRequest struct {
	Intent             string `json:"intent"`
	PurchaseUnits      []struct {
		Amount Amount `json:"amount"`
	} `json:"purchase_units"`
	ApplicationContext struct {
		ReturnURL string `json:"return_url"`
		CancelURL string `json:"cancel_url"`
	} `json:"application_context"`
}

// CreateOrder creates a capture-intent USD order. The amount is formatted to
// two decimal places as PayPal requires.
func (c *Client) CreateOrder(ctx context.Context, amountUSD decimal.Decimal, returnURL, cancelURL string) (*Order, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	var reqBody orderRequest
	reqBody.Intent = "CAPTURE"
	reqBody.PurchaseUnits = append(reqBody.PurchaseUnits, struct {
		Amount Amount `json:"amount"`
	}{Amount{CurrencyCode: "USD", Value: amountUSD.StringFixed(2)}})
	reqBody.ApplicationContext.ReturnURL = returnURL
	reqBody.ApplicationContext.CancelURL = cancelURL

	var order Order
	if err := c.postJSON(ctx, token, "/v2/checkout/orders", reqBody, &order, nil); err != nil {
		return nil, err
	}

	return &order, nil
}

// Capture is one settled capture inside an order
type Capture struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount Amount `json:"amount"`
}

// CaptureResult is the order state after a capture call
type CaptureResult struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []Capture `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// CapturedAmount returns the first captured amount, or ok=false when the
// capture carries none.
func (r *CaptureResult) CapturedAmount() (decimal.Decimal, string, bool) {
	for _, unit := range r.PurchaseUnits {
		for _, capture := range unit.Payments.Captures {
			value, err := decimal.NewFromString(capture.Amount.Value)
			if err != nil {
				continue
			}
			return value, capture.Amount.CurrencyCode, true
		}
	}
	return decimal.Zero, "", false
}

// CaptureOrder captures an approved order. The raw response body is returned
// alongside the parsed result so callers can pass it through unchanged.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, []byte, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, nil, err
	}

	var result CaptureResult
	var raw []byte
	path := fmt.Sprintf("/v2/checkout/orders/%s/capture", url.PathEscape(orderID))
	if err := c.postJSON(ctx, token, path, nil, &result, &raw); err != nil {
		return nil, nil, err
	}

	return &result, raw, nil
}

// VerificationHeaders are the transmission headers PayPal attaches to every
// webhook delivery for signature verification.
type VerificationHeaders struct {
	AuthAlgo         string
	CertURL          string
	TransmissionID   string
	TransmissionSig  string
	TransmissionTime string
}

// VerificationHeadersFromRequest extracts the transmission headers
func VerificationHeadersFromRequest(h http.Header) VerificationHeaders {
	return VerificationHeaders{
		AuthAlgo:         h.Get("Paypal-Auth-Algo"),
		CertURL:          h.Get("Paypal-Cert-Url"),
		TransmissionID:   h.Get("Paypal-Transmission-Id"),
		TransmissionSig:  h.Get("Paypal-Transmission-Sig"),
		TransmissionTime: h.Get("Paypal-Transmission-Time"),
	}
}

type verifyRequest struct {
	AuthAlgo         string          `json:"auth_algo"`
	CertURL          string          `json:"cert_url"`
	TransmissionID   string          `json:"transmission_id"`
	TransmissionSig  string          `json:"transmission_sig"`
	TransmissionTime string          `json:"transmission_time"`
	WebhookID        string          `json:"webhook_id"`
	WebhookEvent     json.RawMessage `json:"webhook_event"`
}

type verifyResponse struct {
	VerificationStatus string `json:"verification_status"`
}

// VerifyWebhookSignature checks a webhook delivery against PayPal's
// verification service. A definitive rejection returns ErrInvalidSignature;
// any failure to reach or use the verification service itself returns
// ErrVerificationUnavailable so the caller can choose availability over
// strict rejection.
func (c *Client) VerifyWebhookSignature(ctx context.Context, headers VerificationHeaders, eventBody []byte) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerificationUnavailable, err)
	}

	reqBody := verifyRequest{
		AuthAlgo:         headers.AuthAlgo,
		CertURL:          headers.CertURL,
		TransmissionID:   headers.TransmissionID,
		TransmissionSig:  headers.TransmissionSig,
		TransmissionTime: headers.TransmissionTime,
		WebhookID:        c.webhookID,
		WebhookEvent:     json.RawMessage(eventBody),
	}

	var result verifyResponse
	if err := c.postJSON(ctx, token, "/v1/notifications/verify-webhook-signature", reqBody, &result, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrVerificationUnavailable, err)
	}

	if result.VerificationStatus != "SUCCESS" {
		return ErrInvalidSignature
	}

	return nil
}

// postJSON performs an authenticated POST, decoding the response into out
// and optionally capturing the raw body.
func (c *Client) postJSON(ctx context.Context, token, path string, in, out any, raw *[]byte) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("PayPal request failed", "path", path, "status", resp.StatusCode, "body", string(respBody))
		return fmt.Errorf("%w: %s returned status %d", ErrUnavailable, path, resp.StatusCode)
	}

	if raw != nil {
		*raw = respBody
	}
	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
		}
	}

	return nil
}
