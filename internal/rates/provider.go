// Package rates resolves the current ARS-per-USD exchange rate from a remote
// one-line text source, caching it for a short TTL so donation traffic does
// not hammer the upstream.
package rates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dreykodrey/donations-backend/internal/config"
	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrNotConfigured = errors.New("rate source URL is not configured")
	ErrUnavailable   = errors.New("rate source unavailable")
	ErrBadFormat     = errors.New("rate source value is not a positive number")
)

// maxBody bounds the upstream read; the source is a one-line CSV.
const maxBody = 64 * 1024

// Quote is a resolved exchange rate with cache metadata.
type Quote struct {
	Rate      decimal.Decimal `json:"rate"`
	Cached    bool            `json:"cached"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Provider fetches and caches the exchange rate. The cache is shared mutable
// state; a mutex keeps reads consistent, while staleness of at most one TTL
// is an accepted tradeoff rather than a correctness hazard.
type Provider struct {
	url        string
	ttl        time.Duration
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time

	mu        sync.Mutex
	cached    decimal.Decimal
	fetchedAt time.Time
	hasCache  bool
}

// NewProvider creates a rate provider backed by the configured text source
func NewProvider(logger *slog.Logger, cfg *config.RatesConfig, httpClient *http.Client) *Provider {
	return &Provider{
		url:        cfg.CSVURL,
		ttl:        cfg.CacheTTL,
		httpClient: httpClient,
		logger:     logger,
		now:        time.Now,
	}
}

// Get returns the current ARS-per-USD rate, serving the cached value while it
// is younger than the TTL and refetching otherwise.
func (p *Provider) Get(ctx context.Context) (*Quote, error) {
	if p.url == "" {
		return nil, ErrNotConfigured
	}

	p.mu.Lock()
	if p.hasCache && p.now().Sub(p.fetchedAt) < p.ttl {
		quote := &Quote{Rate: p.cached, Cached: true, FetchedAt: p.fetchedAt}
		p.mu.Unlock()
		return quote, nil
	}
	p.mu.Unlock()

	rate, err := p.fetch(ctx)
	if err != nil {
		return nil, err
	}

	fetchedAt := p.now()

	p.mu.Lock()
	p.cached = rate
	p.fetchedAt = fetchedAt
	p.hasCache = true
	p.mu.Unlock()

	p.logger.Debug("Fetched exchange rate", "rate", rate.String())

	return &Quote{Rate: rate, Cached: false, FetchedAt: fetchedAt}, nil
}

// fetch retrieves the source document and parses the rate from it
func (p *Provider) fetch(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decimal.Zero, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return parseRate(string(body))
}

// parseRate takes the first comma-delimited field of the first line,
// normalizing a comma decimal separator. The parsed value must be positive.
func parseRate(body string) (decimal.Decimal, error) {
	firstLine, _, _ := strings.Cut(body, "\n")
	firstField, _, _ := strings.Cut(firstLine, ",")
	raw := strings.ReplaceAll(strings.TrimSpace(firstField), ",", ".")

	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrBadFormat, raw)
	}
	if rate.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrBadFormat, raw)
	}

	return rate, nil
}
