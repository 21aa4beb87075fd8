package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/abdulachik/trendcast/internal/llm"
)

// Config holds all application configuration.
type Config struct {
	// Database
	DatabasePath string

	// HTTP API
	HTTPAddr    string
	CORSOrigins []string

	// Upstream trend sources
	Region     string
	FeedURL    string // Empty selects the built-in Google Trends RSS URL
	DailyURL   string // Empty selects the built-in daily trends URL
	FeedParser string // "regex" or "gofeed"

	// Cache and cascade
	CacheWindow  time.Duration
	FetchTimeout time.Duration

	// Scheduler settings
	RefreshInterval time.Duration
	DefaultLanguage string

	// Model fallback. AIProvider and AIAPIKey form the server-side credential
	// used by the scheduler; browser requests bring their own.
	AIProvider        string
	AIAPIKey          string
	ModelRateInterval time.Duration
	GeminiModel       string
	OpenAIModel       string
	GrokModel         string
	GrokBaseURL       string

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables.
// It automatically loads .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath:    getEnv("DATABASE_PATH", "data/trendcast.db"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		Region:          getEnv("TREND_REGION", "TR"),
		FeedURL:         getEnv("TREND_FEED_URL", ""),
		DailyURL:        getEnv("TREND_DAILY_URL", ""),
		FeedParser:      getEnv("FEED_PARSER", "regex"),
		DefaultLanguage: strings.ToUpper(getEnv("DEFAULT_LANGUAGE", "TR")),
		AIProvider:      strings.ToUpper(getEnv("AI_PROVIDER", "")),
		AIAPIKey:        getEnv("AI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", ""),
		GrokModel:       getEnv("GROK_MODEL", ""),
		GrokBaseURL:     getEnv("GROK_BASE_URL", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}

	// Parse durations
	durations := []struct {
		key string
		def string
		dst *time.Duration
	}{
		{"CACHE_WINDOW", "15m", &cfg.CacheWindow},
		{"FETCH_TIMEOUT", "10s", &cfg.FetchTimeout},
		{"REFRESH_INTERVAL", "15m", &cfg.RefreshInterval},
		{"MODEL_RATE_INTERVAL", "10s", &cfg.ModelRateInterval},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(getEnv(d.key, d.def))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = v
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	return nil
}

// ValidateForFetching checks configuration needed to run the trend cascade.
func (c *Config) ValidateForFetching() error {
	switch c.FeedParser {
	case "regex", "gofeed", "":
	default:
		return fmt.Errorf("invalid FEED_PARSER: %s (must be 'regex' or 'gofeed')", c.FeedParser)
	}
	if c.CacheWindow <= 0 {
		return fmt.Errorf("CACHE_WINDOW must be positive")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	if c.AIProvider != "" {
		if _, err := llm.ParseProvider(c.AIProvider); err != nil {
			return fmt.Errorf("invalid AI_PROVIDER: %w", err)
		}
		if c.AIAPIKey == "" {
			return fmt.Errorf("AI_API_KEY is required when AI_PROVIDER is set")
		}
	}
	return nil
}

// ValidateForServe checks all configuration needed for serve mode.
func (c *Config) ValidateForServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := c.ValidateForFetching(); err != nil {
		return err
	}
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL must be positive")
	}
	return nil
}

// ServerCredential returns the configured model credential, if any.
func (c *Config) ServerCredential() llm.Credential {
	p, err := llm.ParseProvider(c.AIProvider)
	if err != nil {
		return llm.Credential{}
	}
	return llm.Credential{Provider: p, APIKey: c.AIAPIKey}
}

// LLMConfig returns the model-transport settings.
func (c *Config) LLMConfig() llm.Config {
	return llm.Config{
		GeminiModel: c.GeminiModel,
		OpenAIModel: c.OpenAIModel,
		GrokModel:   c.GrokModel,
		GrokBaseURL: c.GrokBaseURL,
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
