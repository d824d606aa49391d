package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dreykodrey/donations-backend/internal/api/service"
	"github.com/dreykodrey/donations-backend/internal/payments/mercadopago"
	"github.com/dreykodrey/donations-backend/internal/payments/paypal"
	"github.com/gin-gonic/gin"
)

// CheckoutHandler handles HTTP requests that start or settle a payment
type CheckoutHandler struct {
	checkoutService   service.CheckoutService
	fallbackReturnURL string
	logger            *slog.Logger
}

// NewCheckoutHandler creates a new checkout handler. fallbackReturnURL is
// where PayPal sends the donor back when the request carries neither a
// returnUrl nor an Origin header.
func NewCheckoutHandler(logger *slog.Logger, checkoutService service.CheckoutService, fallbackReturnURL string) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService:   checkoutService,
		fallbackReturnURL: fallbackReturnURL,
		logger:            logger,
	}
}

// CreateMercadoPagoPreference creates a checkout preference for an ARS amount
func (h *CheckoutHandler) CreateMercadoPagoPreference(c *gin.Context) {
	var req CreatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	amount, ok := req.AmountARS()
	if !ok || amount.Sign() <= 0 {
		RespondBadRequest(c, "unit_price must be a number greater than 0")
		return
	}

	pref, err := h.checkoutService.CreateMercadoPagoPreference(c.Request.Context(), amount)
	if err != nil {
		if errors.Is(err, mercadopago.ErrNotConfigured) {
			h.logger.Error("MercadoPago access token is not configured")
			RespondInternalError(c, "PROVIDER_NOT_CONFIGURED", "MercadoPago configuration is missing")
			return
		}
		if errors.Is(err, mercadopago.ErrUnavailable) {
			RespondBadGateway(c, "Could not create the payment preference")
			return
		}
		h.logger.Error("Failed to create preference", "error", err)
		RespondInternalError(c, "", "")
		return
	}

	c.JSON(http.StatusOK, PreferenceResponse{
		InitPoint: pref.CheckoutURL(),
		ID:        pref.ID,
	})
}

// CreatePayPalOrder creates an order for a USD amount. Redirect targets come
// from the request's returnUrl, falling back to the Origin header and then to
// the configured donor site.
func (h *CheckoutHandler) CreatePayPalOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if req.AmountUSD == nil || req.AmountUSD.Sign() <= 0 {
		RespondBadRequest(c, "amountUsd must be a number greater than 0")
		return
	}

	returnURL, cancelURL := h.redirectURLs(req.ReturnURL, c.GetHeader("Origin"))
	order, err := h.checkoutService.CreatePayPalOrder(c.Request.Context(), *req.AmountUSD, returnURL, cancelURL)
	if err != nil {
		if errors.Is(err, paypal.ErrNotConfigured) {
			h.logger.Error("PayPal credentials are not configured")
			RespondInternalError(c, "PROVIDER_NOT_CONFIGURED", "PayPal configuration is missing")
			return
		}
		if errors.Is(err, paypal.ErrUnavailable) {
			RespondBadGateway(c, "Could not create the PayPal order")
			return
		}
		h.logger.Error("Failed to create PayPal order", "error", err)
		RespondInternalError(c, "", "")
		return
	}

	c.JSON(http.StatusOK, OrderResponse{
		ID:         order.ID,
		ApproveURL: order.ApproveURL(),
	})
}

// CapturePayPalOrder settles an approved order and passes the provider's raw
// response through so the front-end sees exactly what PayPal reported.
func (h *CheckoutHandler) CapturePayPalOrder(c *gin.Context) {
	var req CaptureOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "orderId is required")
		return
	}

	raw, err := h.checkoutService.CapturePayPalOrder(c.Request.Context(), req.OrderID)
	if err != nil {
		if errors.Is(err, paypal.ErrNotConfigured) {
			h.logger.Error("PayPal credentials are not configured")
			RespondInternalError(c, "PROVIDER_NOT_CONFIGURED", "PayPal configuration is missing")
			return
		}
		if errors.Is(err, paypal.ErrUnavailable) {
			RespondBadGateway(c, "Could not capture the PayPal order")
			return
		}
		h.logger.Error("Failed to capture PayPal order", "order_id", req.OrderID, "error", err)
		RespondInternalError(c, "", "")
		return
	}

	c.Data(http.StatusOK, "application/json", raw)
}

// redirectURLs derives the return and cancel targets for a PayPal order. An
// explicit returnUrl wins, then the caller's Origin, then the configured
// fallback URL.
func (h *CheckoutHandler) redirectURLs(returnURL, origin string) (string, string) {
	if returnURL != "" {
		return returnURL, returnURL + "?cancel=1"
	}
	if origin != "" {
		return origin + "/donar-usd.html", origin + "/donar-usd.html?cancel=1"
	}
	return h.fallbackReturnURL, h.fallbackReturnURL + "?cancel=1"
}
