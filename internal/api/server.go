// Package api assembles the HTTP surface of the donation backend: the public
// progress and checkout endpoints, the provider webhooks, and the admin
// routes.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dreykodrey/donations-backend/internal/api/handler"
	"github.com/dreykodrey/donations-backend/internal/api/service"
	"github.com/dreykodrey/donations-backend/internal/config"
	"github.com/gin-gonic/gin"
)

// Services groups the service-layer dependencies the HTTP surface needs
type Services struct {
	Goal     service.GoalService
	Rates    service.RateService
	Checkout service.CheckoutService
	Webhooks service.WebhookService
}

// Server handles HTTP requests and manages the listener's lifecycle
type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
	httpRouter *gin.Engine
}

// NewServer creates and configures a new HTTP server with the given services
func NewServer(log *slog.Logger, cfg *config.Config, services Services) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	goalHandler := handler.NewGoalHandler(log, services.Goal)
	rateHandler := handler.NewRateHandler(log, services.Rates)
	checkoutHandler := handler.NewCheckoutHandler(log, services.Checkout, cfg.PayPal.ReturnURL)
	webhookHandler := handler.NewWebhookHandler(log, services.Webhooks)

	setupRouter(log, cfg, httpRouter, goalHandler, rateHandler, checkoutHandler, webhookHandler)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}
	return nil
}
