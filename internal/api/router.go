package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dreykodrey/donations-backend/internal/api/handler"
	"github.com/dreykodrey/donations-backend/internal/api/middleware"
	"github.com/dreykodrey/donations-backend/internal/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// setupRouter configures routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	cfg *config.Config,
	r *gin.Engine,
	goalHandler *handler.GoalHandler,
	rateHandler *handler.RateHandler,
	checkoutHandler *handler.CheckoutHandler,
	webhookHandler *handler.WebhookHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))
	r.Use(corsMiddleware(cfg.Server.CORSOrigin))

	// Public API consumed by the donation page
	api := r.Group("/api")
	{
		api.GET("/goal", goalHandler.GetProgress)
		api.GET("/rates/usd-ars", rateHandler.GetUSDARS)
		api.POST("/create-mp-preference", checkoutHandler.CreateMercadoPagoPreference)
		api.POST("/paypal/create-order", checkoutHandler.CreatePayPalOrder)
		api.POST("/paypal/capture-order", checkoutHandler.CapturePayPalOrder)
	}

	// Provider callbacks
	webhooks := r.Group("/webhooks")
	{
		webhooks.POST("/mercadopago", webhookHandler.MercadoPago)
		webhooks.POST("/paypal", webhookHandler.PayPal)
	}

	// Administrative operations behind the shared-secret header
	admin := r.Group("/admin", middleware.AdminAuth(logger, cfg.Admin.Token))
	{
		admin.PATCH("/goal", goalHandler.UpdateSettings)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}

// corsMiddleware allows the donor-facing site to call the API from the
// browser. A "*" origin (the default) keeps the permissive behavior the
// static page deployments rely on.
func corsMiddleware(origin string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if origin == "" || origin == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{origin}
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders,
		middleware.CorrelationIDHeader, middleware.AdminTokenHeader)
	return cors.New(corsConfig)
}
