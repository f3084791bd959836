package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/voxarena/arena-go/internal/middleware"
	"github.com/voxarena/arena-go/internal/service"
)

const maxSuggestions = 20

type SentenceHandler struct {
	svc *service.SentenceService
}

func NewSentenceHandler(svc *service.SentenceService) *SentenceHandler {
	return &SentenceHandler{svc: svc}
}

// Random handles GET /api/sentences/random?count=n — prompt suggestions
// drawn from the unconsumed dataset pool.
func (h *SentenceHandler) Random(c fiber.Ctx) error {
	count := 5
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_COUNT", "count must be a positive integer")
		}
		count = min(n, maxSuggestions)
	}

	sentences, err := h.svc.RandomBatch(c.Context(), count)
	if err != nil {
		middleware.Logger.Error().Err(err).Msg("sentences: batch query failed")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load sentences")
	}
	return c.JSON(fiber.Map{"sentences": sentences})
}

// Stats handles GET /api/sentences/stats — dataset pool exhaustion.
func (h *SentenceHandler) Stats(c fiber.Ctx) error {
	stats, err := h.svc.Stats(c.Context())
	if err != nil {
		middleware.Logger.Error().Err(err).Msg("sentences: stats query failed")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load stats")
	}
	return c.JSON(stats)
}
