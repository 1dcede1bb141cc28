// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8080"`

	// AIProvider selects the AI backend: "openai" (any OpenAI-compatible
	// API) or "mock" (deterministic, offline).
	AIProvider      string `env:"AI_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	ChatModel       string `env:"CHAT_MODEL" envDefault:"gpt-4o-mini"`
	EmbeddingsModel string `env:"EMBEDDINGS_MODEL" envDefault:"text-embedding-3-small"`

	// Data files loaded once at startup. Absence degrades the pipeline
	// instead of failing it.
	KnowledgePath string `env:"KNOWLEDGE_PATH" envDefault:"configs/profile/knowledge.json"`
	ClustersPath  string `env:"CLUSTERS_PATH" envDefault:"configs/profile/clusters.yaml"`

	// Retrieval and answer shaping.
	TopK               int `env:"TOP_K" envDefault:"3"`
	MaxAnswerWords     int `env:"MAX_ANSWER_WORDS" envDefault:"120"`
	ContextTokenBudget int `env:"CONTEXT_TOKEN_BUDGET" envDefault:"1200"`
	GenerateMaxTokens  int `env:"GENERATE_MAX_TOKENS" envDefault:"400"`

	// Session history: entries kept per session (even: user+assistant
	// pairs) and the eviction policy for idle sessions.
	HistoryMaxEntries    int           `env:"HISTORY_MAX_ENTRIES" envDefault:"12"`
	SessionTTL           time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	SessionPurgeInterval time.Duration `env:"SESSION_PURGE_INTERVAL" envDefault:"5m"`
	StyleCounterTTL      time.Duration `env:"STYLE_COUNTER_TTL" envDefault:"12h"`

	// Upstream call hardening.
	EmbedTimeout             time.Duration `env:"EMBED_TIMEOUT" envDefault:"15s"`
	GenerateTimeout          time.Duration `env:"GENERATE_TIMEOUT" envDefault:"45s"`
	AIBackoffMaxElapsedTime  time.Duration `env:"AI_BACKOFF_MAX_ELAPSED_TIME" envDefault:"30s"`
	AIBackoffInitialInterval time.Duration `env:"AI_BACKOFF_INITIAL_INTERVAL" envDefault:"500ms"`
	AIBackoffMaxInterval     time.Duration `env:"AI_BACKOFF_MAX_INTERVAL" envDefault:"5s"`
	AIBackoffMultiplier      float64       `env:"AI_BACKOFF_MULTIPLIER" envDefault:"1.5"`

	// HTTP shell.
	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"30"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`

	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"cv-chatbot"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	if cfg.HistoryMaxEntries%2 != 0 {
		return Config{}, fmt.Errorf("op=config.Load: HISTORY_MAX_ENTRIES must be even, got %d", cfg.HistoryMaxEntries)
	}
	return cfg, nil
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// IsTest reports whether the app is running in test mode.
func (c Config) IsTest() bool { return strings.ToLower(c.AppEnv) == "test" }

// MockAI reports whether the deterministic offline AI client is selected.
func (c Config) MockAI() bool { return strings.ToLower(c.AIProvider) == "mock" }

// GetAIBackoffConfig returns backoff configuration appropriate for the current environment.
// In test environments, uses much shorter timeouts for faster test execution.
func (c Config) GetAIBackoffConfig() (maxElapsedTime, initialInterval, maxInterval time.Duration, multiplier float64) {
	if c.IsTest() {
		return 2 * time.Second, 50 * time.Millisecond, 500 * time.Millisecond, 2.0
	}
	return c.AIBackoffMaxElapsedTime, c.AIBackoffInitialInterval, c.AIBackoffMaxInterval, c.AIBackoffMultiplier
}
