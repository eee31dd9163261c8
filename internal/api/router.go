package api

import (
	"github.com/gin-gonic/gin"
	"github.com/shonenloop/story-api/internal/api/handlers"
	apimiddleware "github.com/shonenloop/story-api/internal/api/middleware"
	"github.com/shonenloop/story-api/internal/config"
	"github.com/shonenloop/story-api/internal/llm"
	"github.com/shonenloop/story-api/internal/metrics"
	"github.com/shonenloop/story-api/internal/prompt"
	"github.com/shonenloop/story-api/internal/ratelimit"
	"github.com/shonenloop/story-api/internal/state"
	"github.com/shonenloop/story-api/internal/story"
)

func SetupRouter(cfg *config.Config, cwMetrics *metrics.Client, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	// CORS middleware
	router.Use(apimiddleware.CORS())

	// Health check
	healthHandler := handlers.NewHealthHandler(cfg.StoryModels)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version, cfg.StoryModels)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	// Debug endpoint (redacted environment view)
	debugHandler := handlers.NewDebugHandler(cfg)
	router.GET("/api/debug/env", debugHandler.Env)

	// Generation pipeline wiring
	factory := llm.NewProviderFactory(cfg.GeminiAPIKey, cfg.OpenAIAPIKey)
	driver := llm.NewFallbackDriver(factory, cfg.StoryModels, cfg.GenerationTimeout)
	driver.SetRecorder(metrics.NewSentryMetrics())
	engine := story.NewEngine(driver, prompt.NewBuilder())
	governor := ratelimit.NewGovernor(cfg.PerMinuteLimit, cfg.PerDayLimit)
	store := state.NewMemoryStore()

	storyHandler := handlers.NewStoryHandler(engine, governor, store, cwMetrics)
	router.POST("/api/story/next", storyHandler.NextBeat)

	// Image URL derivation
	router.GET("/api/image-url", handlers.ImageURL)

	// Per-session story state
	stateHandler := handlers.NewStateHandler(store)
	router.GET("/api/story/state", stateHandler.Get)
	router.PUT("/api/story/state", stateHandler.Put)
	router.DELETE("/api/story/state", stateHandler.Delete)

	return router
}
