package service

import (
	"context"
	"log/slog"
	"os"

	"github.com/dreykodrey/donations-backend/internal/domain/donation"
	"github.com/dreykodrey/donations-backend/internal/domain/goal"
	"github.com/dreykodrey/donations-backend/internal/payments/mercadopago"
	"github.com/dreykodrey/donations-backend/internal/payments/paypal"
	"github.com/dreykodrey/donations-backend/internal/rates"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

type MockDonationRepository struct {
	mock.Mock
}

func (m *MockDonationRepository) Insert(ctx context.Context, d *donation.Donation) (bool, error) {
	args := m.Called(ctx, d)
	return args.Bool(0), args.Error(1)
}

func (m *MockDonationRepository) CompletedTotals(ctx context.Context) (*donation.Totals, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*donation.Totals), args.Error(1)
}

type MockGoalRepository struct {
	mock.Mock
}

func (m *MockGoalRepository) Get(ctx context.Context) (*goal.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*goal.Settings), args.Error(1)
}

func (m *MockGoalRepository) Update(ctx context.Context, goalUSD, exchangeARSPerUSD *decimal.Decimal) (*goal.Settings, error) {
	args := m.Called(ctx, goalUSD, exchangeARSPerUSD)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*goal.Settings), args.Error(1)
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Record(ctx context.Context, provider donation.Provider, status donation.Status, amount decimal.Decimal, currency, providerPaymentID string) (*donation.Donation, bool, error) {
	args := m.Called(ctx, provider, status, amount, currency, providerPaymentID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*donation.Donation), args.Bool(1), args.Error(2)
}

type MockMercadoPagoAPI struct {
	mock.Mock
}

func (m *MockMercadoPagoAPI) GetPayment(ctx context.Context, paymentID string) (*mercadopago.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mercadopago.Payment), args.Error(1)
}

func (m *MockMercadoPagoAPI) CreatePreference(ctx context.Context, amountARS, estimatedUSD, usdRate decimal.Decimal) (*mercadopago.Preference, error) {
	args := m.Called(ctx, amountARS, estimatedUSD, usdRate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mercadopago.Preference), args.Error(1)
}

type MockPayPalAPI struct {
	mock.Mock
}

func (m *MockPayPalAPI) CreateOrder(ctx context.Context, amountUSD decimal.Decimal, returnURL, cancelURL string) (*paypal.Order, error) {
	args := m.Called(ctx, amountUSD, returnURL, cancelURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paypal.Order), args.Error(1)
}

func (m *MockPayPalAPI) CaptureOrder(ctx context.Context, orderID string) (*paypal.CaptureResult, []byte, error) {
	args := m.Called(ctx, orderID)
	var raw []byte
	if args.Get(1) != nil {
		raw = args.Get(1).([]byte)
	}
	if args.Get(0) == nil {
		return nil, raw, args.Error(2)
	}
	return args.Get(0).(*paypal.CaptureResult), raw, args.Error(2)
}

func (m *MockPayPalAPI) VerifyWebhookSignature(ctx context.Context, headers paypal.VerificationHeaders, eventBody []byte) error {
	args := m.Called(ctx, headers, eventBody)
	return args.Error(0)
}

func (m *MockPayPalAPI) HasWebhookID() bool {
	args := m.Called()
	return args.Bool(0)
}

type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) Get(ctx context.Context) (*rates.Quote, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rates.Quote), args.Error(1)
}
