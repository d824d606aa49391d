package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dreykodrey/donations-backend/internal/api/service"
	"github.com/dreykodrey/donations-backend/internal/payments/paypal"
	"github.com/gin-gonic/gin"
)

// maxWebhookBody bounds how much of a delivery is read; provider payloads are
// small and anything larger is not worth parsing.
const maxWebhookBody = 1 << 20

// WebhookHandler handles payment provider event notifications
type WebhookHandler struct {
	webhookService service.WebhookService
	logger         *slog.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(logger *slog.Logger, webhookService service.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
		logger:         logger,
	}
}

// MercadoPago receives a MercadoPago notification. Every delivery is
// acknowledged with a 200 regardless of the processing outcome: a non-2xx
// only makes MercadoPago redeliver a payload we already know we cannot use.
func (h *WebhookHandler) MercadoPago(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.logger.Error("Failed to read MercadoPago webhook body", "error", err)
		c.JSON(http.StatusOK, gin.H{"received": true, "error": "unreadable body"})
		return
	}

	if err := h.webhookService.ProcessMercadoPagoEvent(c.Request.Context(), body); err != nil {
		h.logger.Error("MercadoPago webhook processing failed", "error", err)
		c.JSON(http.StatusOK, gin.H{"received": true, "error": "processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// PayPal receives a PayPal webhook delivery. Only a definitive signature
// rejection is answered with a 400; everything else is acknowledged.
func (h *WebhookHandler) PayPal(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.logger.Error("Failed to read PayPal webhook body", "error", err)
		c.JSON(http.StatusOK, gin.H{"received": true, "error": "unreadable body"})
		return
	}

	headers := paypal.VerificationHeadersFromRequest(c.Request.Header)
	if err := h.webhookService.ProcessPayPalEvent(c.Request.Context(), headers, body); err != nil {
		if errors.Is(err, paypal.ErrInvalidSignature) {
			RespondBadRequest(c, "Invalid webhook signature")
			return
		}
		h.logger.Error("PayPal webhook processing failed", "error", err)
		c.JSON(http.StatusOK, gin.H{"received": true, "error": "processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
