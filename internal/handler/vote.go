package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/voxarena/arena-go/internal/middleware"
	"github.com/voxarena/arena-go/internal/model"
	"github.com/voxarena/arena-go/internal/service"
	"github.com/voxarena/arena-go/pkg/hash"
)

type VoteHandler struct {
	votes *service.VoteService
	arena *service.ArenaService
}

func NewVoteHandler(votes *service.VoteService, arena *service.ArenaService) *VoteHandler {
	return &VoteHandler{votes: votes, arena: arena}
}

// TTS handles POST /api/tts/vote
func (h *VoteHandler) TTS(c fiber.Ctx) error {
	return h.submit(c, model.ComparisonTTS)
}

// Conversational handles POST /api/conversational/vote
func (h *VoteHandler) Conversational(c fiber.Ctx) error {
	return h.submit(c, model.ComparisonConversational)
}

func (h *VoteHandler) submit(c fiber.Ctx, comparisonType string) error {
	var req model.VoteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if req.SessionID == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELDS", "sessionId is required")
	}

	acct := middleware.AccountFromCtx(c)
	if acct == nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "Sign in to vote")
	}

	client := service.ClientInfo{
		IPPartial: hash.AnonymizeIP(c.IP()),
		UserAgent: middleware.ValidateUserAgent(c.Get("User-Agent")),
	}

	resp, err := h.votes.Submit(c.Context(), h.arena.Sessions(comparisonType), comparisonType, acct, req, client)
	if err != nil {
		return voteError(c, err)
	}

	Metrics.VotesTotal.WithLabelValues(comparisonType).Inc()
	return c.JSON(resp)
}

func voteError(c fiber.Ctx, err error) error {
	var blocked *model.SecurityBlockedError
	switch {
	case errors.As(err, &blocked):
		return middleware.ErrorResponse(c, fiber.StatusForbidden, "VOTE_BLOCKED", blocked.Reason)
	case errors.Is(err, model.ErrSessionNotFound):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Session not found")
	case errors.Is(err, model.ErrSessionExpired):
		return middleware.ErrorResponse(c, fiber.StatusGone, "SESSION_EXPIRED", "Session has expired")
	case errors.Is(err, model.ErrAlreadyVoted):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "ALREADY_VOTED", "This session has already been voted on")
	case errors.Is(err, model.ErrInvalidSide):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_SIDE", "chosenSide must be \"a\" or \"b\"")
	default:
		middleware.Logger.Error().Err(err).Msg("vote: internal error")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to submit vote")
	}
}
