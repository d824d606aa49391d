package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dreykodrey/donations-backend/internal/api/service"
	"github.com/dreykodrey/donations-backend/internal/domain/goal"
	"github.com/gin-gonic/gin"
)

// GoalHandler handles HTTP requests for the fundraising goal
type GoalHandler struct {
	goalService service.GoalService
	logger      *slog.Logger
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(logger *slog.Logger, goalService service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
		logger:      logger,
	}
}

// GetProgress serves the public progress figures the donation page polls.
// A missing settings row is a deployment defect and reads as a 500.
func (h *GoalHandler) GetProgress(c *gin.Context) {
	progress, err := h.goalService.GetProgress(c.Request.Context())
	if err != nil {
		var notFound goal.ErrSettingsNotFound
		if errors.As(err, &notFound) {
			h.logger.Error("Goal settings row is missing")
			RespondInternalError(c, "GOAL_NOT_CONFIGURED", "Goal settings not found")
			return
		}
		h.logger.Error("Failed to load progress", "error", err)
		RespondInternalError(c, "", "")
		return
	}

	c.JSON(http.StatusOK, GoalResponse{
		GoalUSD:     progress.GoalUSD.InexactFloat64(),
		CurrentUSD:  progress.CurrentUSD.InexactFloat64(),
		ProgressPct: progress.ProgressPct.InexactFloat64(),
		DonorsCount: progress.DonorsCount,
		UpdatedAt:   progress.UpdatedAt.Format(time.RFC3339),
	})
}

// UpdateSettings patches the goal or the exchange rate. Admin auth happens in
// middleware; here only the payload is validated.
func (h *GoalHandler) UpdateSettings(c *gin.Context) {
	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if req.GoalUSD == nil && req.ExchangeARSPerUSD == nil {
		RespondBadRequest(c, "At least one of goalUsd or exchangeArsPerUsd is required")
		return
	}
	if req.GoalUSD != nil && req.GoalUSD.Sign() <= 0 {
		RespondBadRequest(c, "goalUsd must be a number greater than 0")
		return
	}
	// A zero or negative rate would poison every later ARS conversion.
	if req.ExchangeARSPerUSD != nil && req.ExchangeARSPerUSD.Sign() <= 0 {
		RespondBadRequest(c, "exchangeArsPerUsd must be a number greater than 0")
		return
	}

	settings, err := h.goalService.UpdateSettings(c.Request.Context(), req.GoalUSD, req.ExchangeARSPerUSD)
	if err != nil {
		var notFound goal.ErrSettingsNotFound
		if errors.As(err, &notFound) {
			h.logger.Error("Goal settings row is missing")
			RespondInternalError(c, "GOAL_NOT_CONFIGURED", "Goal settings not found")
			return
		}
		h.logger.Error("Failed to update goal settings", "error", err)
		RespondInternalError(c, "", "")
		return
	}

	c.JSON(http.StatusOK, GoalSettingsResponse{
		ID:                settings.ID,
		GoalUSD:           settings.GoalUSD.InexactFloat64(),
		ExchangeARSPerUSD: settings.ExchangeARSPerUSD.InexactFloat64(),
		UpdatedAt:         settings.UpdatedAt.Format(time.RFC3339),
	})
}
