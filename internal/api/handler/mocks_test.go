package handler

import (
	"context"
	"log/slog"
	"os"

	"github.com/dreykodrey/donations-backend/internal/api/service"
	"github.com/dreykodrey/donations-backend/internal/domain/goal"
	"github.com/dreykodrey/donations-backend/internal/payments/mercadopago"
	"github.com/dreykodrey/donations-backend/internal/payments/paypal"
	"github.com/dreykodrey/donations-backend/internal/rates"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

type MockGoalService struct {
	mock.Mock
}

func (m *MockGoalService) GetProgress(ctx context.Context) (*service.Progress, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Progress), args.Error(1)
}

func (m *MockGoalService) UpdateSettings(ctx context.Context, goalUSD, exchangeARSPerUSD *decimal.Decimal) (*goal.Settings, error) {
	args := m.Called(ctx, goalUSD, exchangeARSPerUSD)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*goal.Settings), args.Error(1)
}

type MockRateService struct {
	mock.Mock
}

func (m *MockRateService) CurrentUSDARS(ctx context.Context) (*rates.Quote, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rates.Quote), args.Error(1)
}

type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) CreateMercadoPagoPreference(ctx context.Context, amountARS decimal.Decimal) (*mercadopago.Preference, error) {
	args := m.Called(ctx, amountARS)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mercadopago.Preference), args.Error(1)
}

func (m *MockCheckoutService) CreatePayPalOrder(ctx context.Context, amountUSD decimal.Decimal, returnURL, cancelURL string) (*paypal.Order, error) {
	args := m.Called(ctx, amountUSD, returnURL, cancelURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paypal.Order), args.Error(1)
}

func (m *MockCheckoutService) CapturePayPalOrder(ctx context.Context, orderID string) ([]byte, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockWebhookService struct {
	mock.Mock
}

func (m *MockWebhookService) ProcessMercadoPagoEvent(ctx context.Context, body []byte) error {
	args := m.Called(ctx, body)
	return args.Error(0)
}

func (m *MockWebhookService) ProcessPayPalEvent(ctx context.Context, headers paypal.VerificationHeaders, body []byte) error {
	args := m.Called(ctx, headers, body)
	return args.Error(0)
}
