package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dreykodrey/donations-backend/internal/domain/donation"
	"github.com/dreykodrey/donations-backend/internal/payments/mercadopago"
	"github.com/dreykodrey/donations-backend/internal/payments/paypal"
)

// WebhookServiceImpl implements the WebhookService interface
type WebhookServiceImpl struct {
	mercadoPago MercadoPagoAPI
	payPal      PayPalAPI
	ledger      LedgerService
	logger      *slog.Logger
}

// NewWebhookService creates a new webhook service
func NewWebhookService(logger *slog.Logger, mercadoPago MercadoPagoAPI, payPal PayPalAPI, ledger LedgerService) WebhookService {
	return &WebhookServiceImpl{
		mercadoPago: mercadoPago,
		payPal:      payPal,
		ledger:      ledger,
		logger:      logger,
	}
}

// ProcessMercadoPagoEvent extracts the payment id from the notification,
// looks the payment up against the provider as the source of truth, and
// records it. The returned error is for logging only; the handler
// acknowledges the delivery either way, and the provider retries.
func (s *WebhookServiceImpl) ProcessMercadoPagoEvent(ctx context.Context, body []byte) error {
	paymentID := mercadopago.ExtractPaymentID(body)
	if paymentID == "" {
		return fmt.Errorf("no payment id in notification payload")
	}

	payment, err := s.mercadoPago.GetPayment(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("looking up payment %s: %w", paymentID, err)
	}

	status := mercadopago.NormalizeStatus(payment.Status)
	_, _, err = s.ledger.Record(ctx,
		donation.ProviderMercadoPago,
		status,
		payment.TransactionAmount,
		payment.CurrencyID,
		strconv.FormatInt(payment.ID, 10),
	)
	if err != nil {
		return fmt.Errorf("recording payment %s: %w", paymentID, err)
	}
	return nil
}

// ProcessPayPalEvent verifies the delivery signature when a webhook id is
// configured and records recognized completion events. Only a definitive
// signature rejection surfaces as paypal.ErrInvalidSignature; an unreachable
// verification service is logged and the event is processed anyway, trading
// strictness for availability.
func (s *WebhookServiceImpl) ProcessPayPalEvent(ctx context.Context, headers paypal.VerificationHeaders, body []byte) error {
	if s.payPal.HasWebhookID() {
		if err := s.payPal.VerifyWebhookSignature(ctx, headers, body); err != nil {
			if errors.Is(err, paypal.ErrInvalidSignature) {
				s.logger.Warn("PayPal webhook signature rejected", "transmission_id", headers.TransmissionID)
				return err
			}
			s.logger.Warn("PayPal webhook verification unavailable, processing unverified", "error", err)
		}
	} else {
		s.logger.Warn("PayPal webhook id not configured, processing unverified delivery")
	}

	event, ok := paypal.ParseEvent(body)
	if !ok {
		s.logger.Warn("Unparseable PayPal webhook payload ignored")
		return nil
	}

	if !event.Completed() {
		s.logger.Info("PayPal event ignored", "event_type", event.Type, "resource_status", event.ResourceStatus)
		return nil
	}

	if event.Currency != donation.CurrencyUSD {
		s.logger.Warn("PayPal completion in unsupported currency ignored",
			"event_type", event.Type,
			"currency", event.Currency,
		)
		return nil
	}

	if event.Amount.Sign() <= 0 {
		s.logger.Warn("PayPal completion without a positive amount ignored",
			"event_type", event.Type,
			"resource_id", event.ResourceID,
		)
		return nil
	}

	_, _, err := s.ledger.Record(ctx,
		donation.ProviderPayPal,
		donation.StatusCompleted,
		event.Amount,
		donation.CurrencyUSD,
		event.ResourceID,
	)
	return err
}
