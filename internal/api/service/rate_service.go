package service

import (
	"context"
	"log/slog"

	"github.com/dreykodrey/donations-backend/internal/rates"
)

// RateServiceImpl implements the RateService interface
type RateServiceImpl struct {
	source RateSource
	logger *slog.Logger
}

// NewRateService creates a new rate service
func NewRateService(logger *slog.Logger, source RateSource) RateService {
	return &RateServiceImpl{
		source: source,
		logger: logger,
	}
}

// CurrentUSDARS returns the cached-or-fresh USD→ARS quote
func (s *RateServiceImpl) CurrentUSDARS(ctx context.Context) (*rates.Quote, error) {
	quote, err := s.source.Get(ctx)
	if err != nil {
		s.logger.Error("Failed to obtain exchange rate quote", "error", err)
		return nil, err
	}
	return quote, nil
}
