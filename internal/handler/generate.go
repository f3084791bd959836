package handler

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/voxarena/arena-go/internal/middleware"
	"github.com/voxarena/arena-go/internal/model"
	"github.com/voxarena/arena-go/internal/service"
)

type GenerateHandler struct {
	arena     *service.ArenaService
	sentences *service.SentenceService
}

func NewGenerateHandler(arena *service.ArenaService, sentences *service.SentenceService) *GenerateHandler {
	return &GenerateHandler{arena: arena, sentences: sentences}
}

// TTS handles POST /api/tts/generate
func (h *GenerateHandler) TTS(c fiber.Ctx) error {
	var req model.GenerateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	text, errMsg := middleware.ValidateText(req.Text)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_TEXT", errMsg)
	}

	start := time.Now()
	sess, err := h.arena.GenerateTTS(c.Context(), text)
	if err != nil {
		return h.generateError(c, err)
	}

	if sess.CacheHit {
		Metrics.PairCacheHits.Inc()
	} else {
		Metrics.PairCacheMisses.Inc()
		Metrics.SynthesisDuration.Observe(time.Since(start).Seconds())
	}

	return c.JSON(generateResponse(sess, "/api/tts/audio/"))
}

// Conversational handles POST /api/conversational/generate
func (h *GenerateHandler) Conversational(c fiber.Ctx) error {
	var req model.ConversationalRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	script, errMsg := middleware.ValidateScript(req.Script)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_SCRIPT", errMsg)
	}

	start := time.Now()
	sess, err := h.arena.GenerateConversational(c.Context(), script)
	if err != nil {
		return h.generateError(c, err)
	}
	Metrics.SynthesisDuration.Observe(time.Since(start).Seconds())

	return c.JSON(generateResponse(sess, "/api/conversational/audio/"))
}

func (h *GenerateHandler) generateError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, model.ErrSentenceConsumed):
		msg := "This sentence has already been used"
		if stats, statsErr := h.sentences.Stats(c.Context()); statsErr == nil {
			msg = fmt.Sprintf("This sentence has already been used. %d sentences remain in the pool.",
				stats.RemainingCount)
		}
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "SENTENCE_CONSUMED", msg)
	case errors.Is(err, model.ErrNotEnoughProviders):
		return middleware.ErrorResponse(c, fiber.StatusServiceUnavailable, "NO_PROVIDERS",
			"Not enough providers are available right now")
	case errors.Is(err, model.ErrGenerationFailed):
		Metrics.SynthesisFailures.Inc()
		middleware.Logger.Error().Err(err).Msg("generation failed")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "GENERATION_FAILED",
			"Audio generation failed, please try again")
	default:
		middleware.Logger.Error().Err(err).Msg("generate: internal error")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR",
			"Failed to create comparison")
	}
}

func generateResponse(sess model.ComparisonSession, audioPrefix string) model.GenerateResponse {
	return model.GenerateResponse{
		SessionID: sess.ID,
		AudioA:    audioPrefix + sess.ID + "/a",
		AudioB:    audioPrefix + sess.ID + "/b",
		ExpiresIn: int(model.SessionTTL.Seconds()),
		CacheHit:  sess.CacheHit,
	}
}
