package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Free-tier protection defaults: conservative ceilings that keep a single
// instance well inside the Gemini free tier.
const (
	defaultPerMinuteLimit    = 10
	defaultPerDayLimit       = 200
	defaultGenerationTimeout = 60 * time.Second
)

// defaultModels is the fallback order, best free-tier limits first
var defaultModels = []string{
	"gemini-2.5-flash",
	"gemini-2.5-flash-lite",
	"gemini-2.5-pro",
}

// Config holds the application configuration
// Note: This is a stateless configuration - no database needed.
// Story state lives per-session in memory; the server only orchestrates
// generation.
type Config struct {
	// Environment
	Environment string
	Port        string

	// LLM API Keys
	GeminiAPIKey string // Google Gemini API key
	OpenAIAPIKey string // OpenAI API key (optional, for gpt-* fallback models)

	// Generation
	StoryModels       []string      // Ordered fallback list of model identifiers
	GenerationTimeout time.Duration // Per-invocation upper bound

	// Free-tier protection
	PerMinuteLimit int
	PerDayLimit    int

	// Observability
	SentryDSN         string // Sentry DSN for error tracking
	LangfusePublicKey string // Langfuse public key
	LangfuseSecretKey string // Langfuse secret key
	LangfuseHost      string // Langfuse host URL (cloud or self-hosted)
	LangfuseEnabled   bool   // Feature flag for Langfuse
}

func Load() *Config {
	return &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		Port:              getEnv("PORT", "8080"),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		StoryModels:       getEnvList("STORY_MODELS", defaultModels),
		GenerationTimeout: getEnvDuration("GENERATION_TIMEOUT", defaultGenerationTimeout),
		PerMinuteLimit:    getEnvInt("RPM_LIMIT", defaultPerMinuteLimit),
		PerDayLimit:       getEnvInt("DAILY_LIMIT", defaultPerDayLimit),
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		LangfusePublicKey: getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey: getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseHost:      getEnv("LANGFUSE_HOST", "https://cloud.langfuse.com"),
		LangfuseEnabled:   getEnv("LANGFUSE_ENABLED", "false") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	models := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			models = append(models, trimmed)
		}
	}
	if len(models) == 0 {
		return defaultValue
	}
	return models
}
