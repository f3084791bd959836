package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/voxarena/arena-go/internal/handler"
	"github.com/voxarena/arena-go/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Generate    *handler.GenerateHandler
	Audio       *handler.AudioHandler
	Vote        *handler.VoteHandler
	Leaderboard *handler.LeaderboardHandler
	Sentences   *handler.SentenceHandler
	Health      *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
// auth resolves the caller's account; routes that create sessions or record
// votes require it, audio fetch and read-only listings do not.
func Setup(app *fiber.App, h *Handlers, auth fiber.Handler, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	// Health and metrics (before API group, no auth needed)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	api := app.Group("/api")

	generateLimit := middleware.NewGenerateRateLimiter().Handler()
	conversationalLimit := middleware.NewConversationalRateLimiter().Handler()
	voteLimit := middleware.NewVoteRateLimiter().Handler()
	leaderboardLimit := middleware.NewLeaderboardRateLimiter().Handler()

	// Single-utterance arena
	tts := api.Group("/tts")
	tts.Post("/generate", h.Generate.TTS, auth, generateLimit)
	tts.Get("/audio/:sessionId/:key", h.Audio.TTS)
	tts.Post("/vote", h.Vote.TTS, auth, voteLimit)

	// Conversational arena
	conv := api.Group("/conversational")
	conv.Post("/generate", h.Generate.Conversational, auth, conversationalLimit)
	conv.Get("/audio/:sessionId/:key", h.Audio.Conversational)
	conv.Post("/vote", h.Vote.Conversational, auth, voteLimit)

	// Leaderboards
	api.Get("/leaderboard", h.Leaderboard.Public, leaderboardLimit)
	api.Get("/leaderboard/personal", h.Leaderboard.Personal, auth)

	// Sentence pool
	api.Get("/sentences/random", h.Sentences.Random)
	api.Get("/sentences/stats", h.Sentences.Stats)
}
