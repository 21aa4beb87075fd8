package config

import (
	"os"
	"testing"
	"time"

	"github.com/abdulachik/trendcast/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env and restore after test
	origEnv := os.Environ()
	t.Cleanup(func() {
		os.Clearenv()
		for _, e := range origEnv {
			for i := 0; i < len(e); i++ {
				if e[i] == '=' {
					os.Setenv(e[:i], e[i+1:])
					break
				}
			}
		}
	})

	t.Run("defaults", func(t *testing.T) {
		os.Clearenv()
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "data/trendcast.db", cfg.DatabasePath)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
		assert.Equal(t, "TR", cfg.Region)
		assert.Equal(t, "regex", cfg.FeedParser)
		assert.Equal(t, "TR", cfg.DefaultLanguage)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 15*time.Minute, cfg.CacheWindow)
		assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
		assert.Equal(t, 15*time.Minute, cfg.RefreshInterval)
		assert.Equal(t, 10*time.Second, cfg.ModelRateInterval)
		assert.Empty(t, cfg.AIProvider)
	})

	t.Run("custom values", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("DATABASE_PATH", "/custom/path.db")
		os.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
		os.Setenv("FEED_PARSER", "gofeed")
		os.Setenv("AI_PROVIDER", "grok")
		os.Setenv("AI_API_KEY", "xai-test")
		os.Setenv("CACHE_WINDOW", "5m")
		os.Setenv("DEFAULT_LANGUAGE", "en")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "/custom/path.db", cfg.DatabasePath)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
		assert.Equal(t, "gofeed", cfg.FeedParser)
		assert.Equal(t, "GROK", cfg.AIProvider)
		assert.Equal(t, "xai-test", cfg.AIAPIKey)
		assert.Equal(t, 5*time.Minute, cfg.CacheWindow)
		assert.Equal(t, "EN", cfg.DefaultLanguage)
	})

	t.Run("invalid duration", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("FETCH_TIMEOUT", "invalid")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "FETCH_TIMEOUT")
	})
}

func validConfig() *Config {
	return &Config{
		DatabasePath:    "test.db",
		HTTPAddr:        ":8080",
		FeedParser:      "regex",
		CacheWindow:     15 * time.Minute,
		FetchTimeout:    10 * time.Second,
		RefreshInterval: 15 * time.Minute,
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := &Config{DatabasePath: "test.db"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing database path", func(t *testing.T) {
		cfg := &Config{}
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_PATH")
	})
}

func TestConfig_ValidateForFetching(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validConfig().ValidateForFetching())
	})

	t.Run("invalid parser", func(t *testing.T) {
		cfg := validConfig()
		cfg.FeedParser = "xpath"
		err := cfg.ValidateForFetching()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "FEED_PARSER")
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := validConfig()
		cfg.AIProvider = "MISTRAL"
		cfg.AIAPIKey = "k"
		err := cfg.ValidateForFetching()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "AI_PROVIDER")
	})

	t.Run("provider without key", func(t *testing.T) {
		cfg := validConfig()
		cfg.AIProvider = "GEMINI"
		err := cfg.ValidateForFetching()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "AI_API_KEY")
	})

	t.Run("non-positive timeout", func(t *testing.T) {
		cfg := validConfig()
		cfg.FetchTimeout = 0
		assert.Error(t, cfg.ValidateForFetching())
	})
}

func TestConfig_ValidateForServe(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validConfig().ValidateForServe())
	})

	t.Run("missing addr", func(t *testing.T) {
		cfg := validConfig()
		cfg.HTTPAddr = ""
		err := cfg.ValidateForServe()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP_ADDR")
	})

	t.Run("missing refresh interval", func(t *testing.T) {
		cfg := validConfig()
		cfg.RefreshInterval = 0
		err := cfg.ValidateForServe()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "REFRESH_INTERVAL")
	})
}

func TestConfig_ServerCredential(t *testing.T) {
	cfg := validConfig()
	assert.False(t, cfg.ServerCredential().Valid())

	cfg.AIProvider = "OPENAI"
	cfg.AIAPIKey = "sk-test"
	assert.Equal(t, llm.Credential{Provider: llm.ProviderOpenAI, APIKey: "sk-test"}, cfg.ServerCredential())
}
