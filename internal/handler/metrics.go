package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Metrics holds all Prometheus collectors for the arena backend.
var Metrics = struct {
	VotesTotal        *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	RequestsInFlight  prometheus.Gauge
	PairCacheHits     prometheus.Counter
	PairCacheMisses   prometheus.Counter
	PairCacheSize     prometheus.GaugeFunc
	LiveSessions      prometheus.GaugeFunc
	SynthesisFailures prometheus.Counter
	SynthesisDuration prometheus.Histogram
	DBPoolActive      prometheus.GaugeFunc
	DBPoolIdle        prometheus.GaugeFunc
}{}

// InitMetrics registers all Prometheus metrics. Call once at startup.
// cacheSize and liveSessions are sampled on every scrape.
func InitMetrics(pool *pgxpool.Pool, cacheSize, liveSessions func() float64) {
	Metrics.VotesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arena_votes_total",
			Help: "Total votes accepted, by comparison type.",
		},
		[]string{"comparison_type"},
	)

	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arena_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	Metrics.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "arena_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	Metrics.PairCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "arena_pair_cache_hits_total",
			Help: "Generate requests served from the pre-generated pair cache.",
		},
	)

	Metrics.PairCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "arena_pair_cache_misses_total",
			Help: "Generate requests that fell through to on-demand synthesis.",
		},
	)

	Metrics.SynthesisFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "arena_synthesis_failures_total",
			Help: "Synthesis calls that failed or timed out.",
		},
	)

	Metrics.SynthesisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "arena_synthesis_duration_seconds",
			Help:    "Duration of on-demand pair synthesis.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 120},
		},
	)

	if cacheSize != nil {
		Metrics.PairCacheSize = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "arena_pair_cache_size",
				Help: "Number of pre-generated pairs currently cached.",
			},
			cacheSize,
		)
		prometheus.MustRegister(Metrics.PairCacheSize)
	}

	if liveSessions != nil {
		Metrics.LiveSessions = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "arena_live_sessions",
				Help: "Number of unexpired comparison sessions.",
			},
			liveSessions,
		)
		prometheus.MustRegister(Metrics.LiveSessions)
	}

	// DB pool gauges — read live stats from pgxpool
	if pool != nil {
		Metrics.DBPoolActive = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "arena_db_connection_pool_active",
				Help: "Number of active database connections.",
			},
			func() float64 {
				return float64(pool.Stat().AcquiredConns())
			},
		)

		Metrics.DBPoolIdle = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "arena_db_connection_pool_idle",
				Help: "Number of idle database connections.",
			},
			func() float64 {
				return float64(pool.Stat().IdleConns())
			},
		)

		prometheus.MustRegister(Metrics.DBPoolActive)
		prometheus.MustRegister(Metrics.DBPoolIdle)
	}

	prometheus.MustRegister(
		Metrics.VotesTotal,
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
		Metrics.PairCacheHits,
		Metrics.PairCacheMisses,
		Metrics.SynthesisFailures,
		Metrics.SynthesisDuration,
	)
}

// MetricsMiddleware records request duration and in-flight count for Prometheus.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Don't instrument the /metrics endpoint itself
		if c.Path() == "/metrics" {
			return c.Next()
		}

		// Copy path and method into owned strings BEFORE c.Next() — Fiber
		// returns slices backed by the fasthttp buffer which can be reused
		// or overwritten by handlers (especially fasthttpadaptor).
		path := string([]byte(c.Path()))
		method := string([]byte(c.Method()))
		endpoint := sanitizeEndpoint(path)

		Metrics.RequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())

		Metrics.RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)
		Metrics.RequestsInFlight.Dec()

		return err
	}
}

// sanitizeEndpoint normalizes paths to avoid cardinality explosion.
func sanitizeEndpoint(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/tts/audio/"):
		return "/api/tts/audio/:sessionId/:key"
	case strings.HasPrefix(path, "/api/conversational/audio/"):
		return "/api/conversational/audio/:sessionId/:key"
	default:
		return path
	}
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
