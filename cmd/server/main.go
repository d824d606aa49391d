package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dreykodrey/donations-backend/internal/api"
	"github.com/dreykodrey/donations-backend/internal/api/service"
	"github.com/dreykodrey/donations-backend/internal/config"
	"github.com/dreykodrey/donations-backend/internal/data/postgres"
	"github.com/dreykodrey/donations-backend/internal/logger"
	"github.com/dreykodrey/donations-backend/internal/payments/mercadopago"
	"github.com/dreykodrey/donations-backend/internal/payments/paypal"
	"github.com/dreykodrey/donations-backend/internal/platform/persistence"
	"github.com/dreykodrey/donations-backend/internal/rates"
)

func main() {
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("server")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize the database; migrations run before the pool opens
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	// One bounded client for every outbound provider call
	httpClient := &http.Client{Timeout: cfg.HTTPClient.Timeout}

	rateProvider := rates.NewProvider(log, &cfg.Rates, httpClient)
	mercadoPagoClient := mercadopago.NewClient(log, &cfg.MercadoPago, httpClient)
	payPalClient := paypal.NewClient(log, &cfg.PayPal, httpClient)

	// Initialize repositories
	donationRepo := postgres.NewDonationRepository(log, postgresDB)
	goalRepo := postgres.NewGoalRepository(log, postgresDB)

	// Initialize services
	ledgerService := service.NewLedgerService(log, donationRepo, goalRepo)
	goalService := service.NewGoalService(log, goalRepo, donationRepo)
	rateService := service.NewRateService(log, rateProvider)
	checkoutService := service.NewCheckoutService(log, mercadoPagoClient, payPalClient, rateProvider, ledgerService, cfg.Rates.FallbackARSPerUSD)
	webhookService := service.NewWebhookService(log, mercadoPagoClient, payPalClient, ledgerService)

	// Initialize REST server
	server := api.NewServer(log, cfg, api.Services{
		Goal:     goalService,
		Rates:    rateService,
		Checkout: checkoutService,
		Webhooks: webhookService,
	})
	log.Info("REST server initialized")

	errChan := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	postgresDB.Close()

	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
