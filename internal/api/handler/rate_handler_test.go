package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dreykodrey/donations-backend/internal/rates"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRateHandler_GetUSDARS(t *testing.T) {
	logger := newTestLogger()

	perform := func(t *testing.T, mockService *MockRateService) *httptest.ResponseRecorder {
		t.Helper()
		handler := NewRateHandler(logger, mockService)
		router := setupTestRouter()
		router.GET("/api/rates/usd-ars", handler.GetUSDARS)

		req, _ := http.NewRequest(http.MethodGet, "/api/rates/usd-ars", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockRateService)
		fetchedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		mockService.On("CurrentUSDARS", mock.Anything).Return(&rates.Quote{
			Rate:      decimal.RequireFromString("1043.50"),
			Cached:    true,
			FetchedAt: fetchedAt,
		}, nil)

		rr := perform(t, mockService)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp RateResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 1043.50, resp.USDARS)
		assert.True(t, resp.Cached)
		assert.Equal(t, "2024-06-01T12:00:00Z", resp.FetchedAt)
	})

	t.Run("NotConfigured", func(t *testing.T) {
		mockService := new(MockRateService)
		mockService.On("CurrentUSDARS", mock.Anything).Return(nil, rates.ErrNotConfigured)

		rr := perform(t, mockService)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "RATES_NOT_CONFIGURED", resp.Error.Code)
	})

	t.Run("UpstreamFailure", func(t *testing.T) {
		mockService := new(MockRateService)
		mockService.On("CurrentUSDARS", mock.Anything).Return(nil, rates.ErrUnavailable)

		rr := perform(t, mockService)

		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})
}
