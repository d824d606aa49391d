package rates

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dreykodrey/donations-backend/internal/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func newTestProvider(t *testing.T, url string, ttl time.Duration) *Provider {
	t.Helper()
	return NewProvider(newTestLogger(), &config.RatesConfig{
		CSVURL:   url,
		CacheTTL: ttl,
	}, &http.Client{Timeout: 5 * time.Second})
}

func TestProvider_Get_NotConfigured(t *testing.T) {
	p := newTestProvider(t, "", time.Minute)
	quote, err := p.Get(context.Background())
	assert.Nil(t, quote)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestProvider_Get_CacheWithinTTL(t *testing.T) {
	var fetches atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		_, _ = w.Write([]byte("1234.5,ignored\nsecond line"))
	}))
	defer server.Close()

	p := newTestProvider(t, server.URL, time.Minute)
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	current := base
	p.now = func() time.Time { return current }

	first, err := p.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.True(t, decimal.RequireFromString("1234.5").Equal(first.Rate))
	assert.Equal(t, base, first.FetchedAt)

	// Second call within the TTL serves the cached value without refetching.
	current = base.Add(30 * time.Second)
	second, err := p.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.True(t, first.Rate.Equal(second.Rate))
	assert.Equal(t, first.FetchedAt, second.FetchedAt)
	assert.Equal(t, int32(1), fetches.Load())

	// After TTL expiry the source is fetched again.
	current = base.Add(61 * time.Second)
	third, err := p.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.Equal(t, int32(2), fetches.Load())
}

func TestProvider_Get_CommaDecimalSeparator(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// First field ends at the comma, so only whole-number rates carry a
		// comma separator to normalize.
		_, _ = w.Write([]byte(" 1100 \n"))
	}))
	defer server.Close()

	p := newTestProvider(t, server.URL, time.Minute)
	quote, err := p.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1100).Equal(quote.Rate))
}

func TestProvider_Get_UpstreamErrors(t *testing.T) {
	t.Run("Non2xxStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		p := newTestProvider(t, server.URL, time.Minute)
		_, err := p.Get(context.Background())
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("ConnectionRefused", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		p := newTestProvider(t, server.URL, time.Minute)
		_, err := p.Get(context.Background())
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("NotANumber", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("no-rate-today\n"))
		}))
		defer server.Close()

		p := newTestProvider(t, server.URL, time.Minute)
		_, err := p.Get(context.Background())
		assert.ErrorIs(t, err, ErrBadFormat)
	})

	t.Run("NonPositive", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("0\n"))
		}))
		defer server.Close()

		p := newTestProvider(t, server.URL, time.Minute)
		_, err := p.Get(context.Background())
		assert.ErrorIs(t, err, ErrBadFormat)
	})

	t.Run("FailedFetchDoesNotPoisonCache", func(t *testing.T) {
		var fail atomic.Bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if fail.Load() {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte("900\n"))
		}))
		defer server.Close()

		p := newTestProvider(t, server.URL, time.Minute)
		base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		current := base
		p.now = func() time.Time { return current }

		_, err := p.Get(context.Background())
		require.NoError(t, err)

		fail.Store(true)
		current = base.Add(2 * time.Minute)
		_, err = p.Get(context.Background())
		assert.ErrorIs(t, err, ErrUnavailable)

		// The stale value is still there once the upstream recovers enough
		// to answer within a fresh TTL window.
		fail.Store(false)
		quote, err := p.Get(context.Background())
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(900).Equal(quote.Rate))
	})
}
