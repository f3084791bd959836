package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/voxarena/arena-go/internal/middleware"
	"github.com/voxarena/arena-go/internal/model"
	"github.com/voxarena/arena-go/internal/service"
	"github.com/voxarena/arena-go/internal/storage"
)

type AudioHandler struct {
	arena *service.ArenaService
	store *storage.Store
}

func NewAudioHandler(arena *service.ArenaService, store *storage.Store) *AudioHandler {
	return &AudioHandler{arena: arena, store: store}
}

// TTS handles GET /api/tts/audio/:sessionId/:key
func (h *AudioHandler) TTS(c fiber.Ctx) error {
	return h.serve(c, model.ComparisonTTS)
}

// Conversational handles GET /api/conversational/audio/:sessionId/:key
func (h *AudioHandler) Conversational(c fiber.Ctx) error {
	return h.serve(c, model.ComparisonConversational)
}

func (h *AudioHandler) serve(c fiber.Ctx, comparisonType string) error {
	sessionID := c.Params("sessionId")
	key := c.Params("key")

	path, err := h.arena.Sessions(comparisonType).FetchAudio(sessionID, key)
	switch {
	case errors.Is(err, model.ErrSessionExpired):
		return middleware.ErrorResponse(c, fiber.StatusGone, "SESSION_EXPIRED", "Session has expired")
	case err != nil:
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Audio not found")
	}

	if !h.store.Exists(path) {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Audio not found")
	}

	c.Set("Content-Type", "audio/wav")
	c.Set("Cache-Control", "no-store")
	return c.SendFile(path)
}
