package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LLM providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderNone      = "none"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	RedisURL      string
	StateTTL      time.Duration
	CartridgePath string

	LLMProvider     string
	ModelName       string
	AnthropicAPIKey string
	GeminiAPIKey    string
}

// Load reads configuration from the environment. A .env file in the working
// directory is read first when present; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	ttl, err := time.ParseDuration(getEnv("STATE_TTL", "72h"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATE_TTL: %w", err)
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		LogLevel:        parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:        getEnv("REDIS_URL", "localhost:6379"),
		StateTTL:        ttl,
		CartridgePath:   getEnv("CARTRIDGE_PATH", "data/cartridges/chapter_one.yaml"),
		LLMProvider:     strings.ToLower(getEnv("LLM_PROVIDER", ProviderNone)),
		ModelName:       getEnv("MODEL_NAME", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the chosen LLM provider has what it needs.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderNone:
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return errors.New("ANTHROPIC_API_KEY is required when LLM_PROVIDER is anthropic")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY is required when LLM_PROVIDER is gemini")
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q (supported: anthropic, gemini, none)", c.LLMProvider)
	}
	if c.StateTTL < 0 {
		return errors.New("STATE_TTL cannot be negative")
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
