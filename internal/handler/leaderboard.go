package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/voxarena/arena-go/internal/middleware"
	"github.com/voxarena/arena-go/internal/model"
	"github.com/voxarena/arena-go/internal/service"
)

type LeaderboardHandler struct {
	svc *service.LeaderboardService
}

func NewLeaderboardHandler(svc *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{svc: svc}
}

// Public handles GET /api/leaderboard?type=tts|conversational
func (h *LeaderboardHandler) Public(c fiber.Ctx) error {
	comparisonType, errMsg := comparisonTypeQuery(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_TYPE", errMsg)
	}

	entries, cached, err := h.svc.Public(c.Context(), comparisonType)
	if err != nil {
		middleware.Logger.Error().Err(err).Msg("leaderboard: query failed")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load leaderboard")
	}
	if cached != nil {
		c.Set("Content-Type", "application/json")
		return c.Send(cached)
	}
	return c.JSON(entries)
}

// Personal handles GET /api/leaderboard/personal?type=tts|conversational
func (h *LeaderboardHandler) Personal(c fiber.Ctx) error {
	acct := middleware.AccountFromCtx(c)
	if acct == nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "Sign in to see your leaderboard")
	}

	comparisonType, errMsg := comparisonTypeQuery(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_TYPE", errMsg)
	}

	entries, err := h.svc.Personal(c.Context(), acct.ID, comparisonType)
	if err != nil {
		middleware.Logger.Error().Err(err).Msg("leaderboard: personal query failed")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load leaderboard")
	}
	return c.JSON(entries)
}

func comparisonTypeQuery(c fiber.Ctx) (string, string) {
	t := c.Query("type", model.ComparisonTTS)
	if t != model.ComparisonTTS && t != model.ComparisonConversational {
		return "", "type must be \"tts\" or \"conversational\""
	}
	return t, ""
}
