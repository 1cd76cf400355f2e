// Package config loads settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	// Inputs
	FeedsConfigPath string `validate:"required"`
	ProfilesPath    string `validate:"required"`
	TaxonomyPath    string

	// Network settings
	ProbeTimeout   time.Duration `validate:"gt=0"`
	FeedTimeout    time.Duration `validate:"gt=0"`
	ArticleTimeout time.Duration `validate:"gt=0"`
	PacingDelay    time.Duration `validate:"gte=0"`

	// Retrieval settings
	MaxItemsPerFeed int           `validate:"gt=0"`
	FeedAttempts    int           `validate:"gte=0"`
	FeedRetryDelay  time.Duration `validate:"gte=0"`
	SampleFallback  bool
	CacheTTL        time.Duration `validate:"gt=0"`

	// Pipeline settings
	MaxResults           int    `validate:"gt=0"`
	SampleSize           int    `validate:"gt=0"`
	SectionCap           int    `validate:"gt=0"`
	SummarizeConcurrency int    `validate:"gt=0"`
	SectionPlacement     string `validate:"oneof=primary all"`

	// Output settings
	OutputDir string `validate:"required"`
	HTTPAddr  string `validate:"required"`

	// Tracing
	TracingEnabled  bool
	TracingEndpoint string `validate:"required_if=TracingEnabled true"`

	Debug bool
}

// Load reads .env (if present) and the process environment, applies
// defaults and validates the result.
func Load() (*Config, error) {
	// a missing .env is fine; real env vars win over it
	_ = godotenv.Load()

	cfg := &Config{
		FeedsConfigPath: getEnvOrDefault("FEEDS_CONFIG_PATH", "configs/feeds.yaml"),
		ProfilesPath:    getEnvOrDefault("PROFILES_PATH", "configs/profiles.yaml"),
		TaxonomyPath:    os.Getenv("TAXONOMY_PATH"),

		ProbeTimeout:   getEnvDurationOrDefault("PROBE_TIMEOUT", 5*time.Second),
		FeedTimeout:    getEnvDurationOrDefault("FEED_TIMEOUT", 10*time.Second),
		ArticleTimeout: getEnvDurationOrDefault("ARTICLE_TIMEOUT", 15*time.Second),
		PacingDelay:    getEnvDurationOrDefault("PACING_DELAY", 300*time.Millisecond),

		MaxItemsPerFeed: getEnvIntOrDefault("MAX_ITEMS_PER_FEED", 10),
		FeedAttempts:    getEnvIntOrDefault("FEED_ATTEMPTS", 2),
		FeedRetryDelay:  getEnvDurationOrDefault("FEED_RETRY_DELAY", 500*time.Millisecond),
		SampleFallback:  getEnvBoolOrDefault("SAMPLE_FALLBACK", true),
		CacheTTL:        getEnvDurationOrDefault("CACHE_TTL", 30*time.Minute),

		MaxResults:           getEnvIntOrDefault("MAX_RESULTS", 15),
		SampleSize:           getEnvIntOrDefault("SAMPLE_SIZE", 10),
		SectionCap:           getEnvIntOrDefault("SECTION_CAP", 4),
		SummarizeConcurrency: getEnvIntOrDefault("SUMMARIZE_CONCURRENCY", 4),
		SectionPlacement:     strings.ToLower(getEnvOrDefault("SECTION_PLACEMENT", "primary")),

		OutputDir: getEnvOrDefault("OUTPUT_DIR", "newsletters"),
		HTTPAddr:  getEnvOrDefault("HTTP_ADDR", ":8080"),

		TracingEnabled:  getEnvBoolOrDefault("TRACING_ENABLED", false),
		TracingEndpoint: getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),

		Debug: getEnvBoolOrDefault("DEBUG", false),
	}

	return cfg, cfg.Validate()
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
