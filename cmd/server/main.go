package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"

	"github.com/voxarena/arena-go/internal/config"
	"github.com/voxarena/arena-go/internal/db"
	"github.com/voxarena/arena-go/internal/handler"
	"github.com/voxarena/arena-go/internal/middleware"
	"github.com/voxarena/arena-go/internal/model"
	"github.com/voxarena/arena-go/internal/repository"
	"github.com/voxarena/arena-go/internal/router"
	"github.com/voxarena/arena-go/internal/service"
	"github.com/voxarena/arena-go/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "voxarena-api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	store, err := storage.New(cfg.AudioDir)
	if err != nil {
		log.Fatalf("failed to set up audio storage: %v", err)
	}
	store.ClearCache()

	// Repositories
	providerRepo := repository.NewProviderRepo(pool)
	voteRepo := repository.NewVoteRepo(pool)
	sentenceRepo := repository.NewSentenceRepo(pool)
	accountRepo := repository.NewAccountRepo(pool)
	timeoutRepo := repository.NewTimeoutRepo(pool)
	campaignRepo := repository.NewCampaignRepo(pool)

	if err := providerRepo.Seed(ctx, repository.DefaultProviders); err != nil {
		log.Fatalf("failed to seed providers: %v", err)
	}

	sentences, err := service.LoadSentenceFile(cfg.SentenceFile)
	if err != nil {
		log.Fatalf("failed to load sentence dataset: %v", err)
	}
	log.Printf("loaded %d dataset sentences from %s", len(sentences), cfg.SentenceFile)

	// Services. Each service gets its own locked rand source; both are hit
	// concurrently by the cache-fill workers and request handlers.
	seed := time.Now().UnixNano()
	sentenceSvc := service.NewSentenceService(sentenceRepo, sentences, service.NewLockedRand(seed))
	selectorSvc := service.NewSelectorService(providerRepo, service.NewLockedRand(seed+1))
	synthClient := service.NewSynthClient(cfg.SynthRouterURL, cfg.SynthRouterToken)
	generator := service.NewAudioGenerator(synthClient, store)

	ttsSessions := service.NewSessionRegistry(store)
	convSessions := service.NewSessionRegistry(store)
	ttsSessions.StartSweeper(ctx, service.SweepInterval)
	convSessions.StartSweeper(ctx, service.SweepInterval)

	pairCache := service.NewPairCache(model.ComparisonTTS, cfg.CacheSize, cfg.CacheWorkers,
		sentenceSvc, selectorSvc, generator, store, store.CacheDir())
	pairCache.Start(ctx)

	arenaSvc := service.NewArenaService(sentenceSvc, selectorSvc, generator, store,
		pairCache, ttsSessions, convSessions)
	securitySvc := service.NewSecurityService(voteRepo, timeoutRepo)
	leaderboardSvc := service.NewLeaderboardService(providerRepo, voteRepo, cache)
	voteSvc := service.NewVoteService(securitySvc, voteRepo, providerRepo, sentenceSvc, leaderboardSvc)

	// Campaign detection runs off committed votes via LISTEN/NOTIFY.
	campaignSvc := service.NewCampaignService(voteRepo, accountRepo, campaignRepo, timeoutRepo)
	campaignWorker := service.NewCampaignWorker(pool, campaignSvc)
	go campaignWorker.Start(ctx)

	handler.InitMetrics(pool,
		func() float64 { return float64(pairCache.Len()) },
		func() float64 { return float64(ttsSessions.Len() + convSessions.Len()) },
	)

	app := fiber.New(fiber.Config{
		AppName:      "VoxArena API",
		ServerHeader: "VoxArena",
	})

	router.Setup(app, &router.Handlers{
		Generate:    handler.NewGenerateHandler(arenaSvc, sentenceSvc),
		Audio:       handler.NewAudioHandler(arenaSvc, store),
		Vote:        handler.NewVoteHandler(voteSvc, arenaSvc),
		Leaderboard: handler.NewLeaderboardHandler(leaderboardSvc),
		Sentences:   handler.NewSentenceHandler(sentenceSvc),
		Health:      handler.NewHealthHandler(pool, cache.Client()),
	}, middleware.NewAuth(accountRepo), cfg.CORSOrigins)

	go func() {
		<-ctx.Done()
		log.Println("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	log.Printf("VoxArena backend starting on :%s (env=%s)", cfg.Port, cfg.Environment)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
