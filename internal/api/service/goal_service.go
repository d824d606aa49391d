package service

import (
	"context"
	"log/slog"

	"github.com/dreykodrey/donations-backend/internal/domain/donation"
	"github.com/dreykodrey/donations-backend/internal/domain/goal"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// GoalServiceImpl implements the GoalService interface
type GoalServiceImpl struct {
	goalRepo     goal.Repository
	donationRepo donation.Repository
	logger       *slog.Logger
}

// NewGoalService creates a new goal service
func NewGoalService(logger *slog.Logger, goalRepo goal.Repository, donationRepo donation.Repository) GoalService {
	return &GoalServiceImpl{
		goalRepo:     goalRepo,
		donationRepo: donationRepo,
		logger:       logger,
	}
}

// GetProgress combines the settings row with the completed donation totals.
// The percentage is rounded to two places and deliberately not clamped, so a
// goal that has been exceeded reads as more than 100.
func (s *GoalServiceImpl) GetProgress(ctx context.Context) (*Progress, error) {
	settings, err := s.goalRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	totals, err := s.donationRepo.CompletedTotals(ctx)
	if err != nil {
		return nil, err
	}

	progressPct := decimal.Zero
	if settings.GoalUSD.Sign() > 0 {
		progressPct = totals.AmountUSD.Mul(oneHundred).DivRound(settings.GoalUSD, 2)
	}

	return &Progress{
		GoalUSD:     settings.GoalUSD,
		CurrentUSD:  totals.AmountUSD,
		ProgressPct: progressPct,
		DonorsCount: totals.Donors,
		UpdatedAt:   settings.UpdatedAt,
	}, nil
}

// UpdateSettings patches the settings row; nil fields keep their current value
func (s *GoalServiceImpl) UpdateSettings(ctx context.Context, goalUSD, exchangeARSPerUSD *decimal.Decimal) (*goal.Settings, error) {
	settings, err := s.goalRepo.Update(ctx, goalUSD, exchangeARSPerUSD)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Goal settings updated",
		"goal_usd", settings.GoalUSD.String(),
		"exchange_ars_per_usd", settings.ExchangeARSPerUSD.String(),
	)
	return settings, nil
}
