package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dreykodrey/donations-backend/internal/api/service"
	"github.com/dreykodrey/donations-backend/internal/rates"
	"github.com/gin-gonic/gin"
)

// RateHandler handles HTTP requests for the live exchange rate
type RateHandler struct {
	rateService service.RateService
	logger      *slog.Logger
}

// NewRateHandler creates a new rate handler
func NewRateHandler(logger *slog.Logger, rateService service.RateService) *RateHandler {
	return &RateHandler{
		rateService: rateService,
		logger:      logger,
	}
}

// GetUSDARS serves the current USD→ARS quote. A missing source URL is a
// configuration problem (500); a source that cannot be read or parsed is an
// upstream failure (502).
func (h *RateHandler) GetUSDARS(c *gin.Context) {
	quote, err := h.rateService.CurrentUSDARS(c.Request.Context())
	if err != nil {
		if errors.Is(err, rates.ErrNotConfigured) {
			RespondInternalError(c, "RATES_NOT_CONFIGURED", "Exchange rate source is not configured")
			return
		}
		RespondBadGateway(c, "Could not obtain the exchange rate")
		return
	}

	c.JSON(http.StatusOK, RateResponse{
		USDARS:    quote.Rate.InexactFloat64(),
		Cached:    quote.Cached,
		FetchedAt: quote.FetchedAt.Format(time.RFC3339),
	})
}
