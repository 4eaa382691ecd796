// Package config loads the runtime knobs for the generator from the
// environment, with sane defaults for every value except the API key.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-commerce-copy/internal/content"
)

// Environment variable names.
const (
	EnvModel          = "COPYGEN_MODEL"
	EnvMaxRetries     = "MAX_RETRIES"
	EnvRetryDelayBase = "RETRY_DELAY_BASE"
	EnvRateLimitDelay = "RATE_LIMIT_DELAY"
	EnvChunkSize      = "CSV_CHUNK_SIZE"
	EnvMaxFileSizeMB  = "MAX_FILE_SIZE_MB"
)

// Defaults applied when the corresponding variable is unset or invalid.
const (
	DefaultMaxRetries     = 3
	DefaultRetryDelayBase = 1 * time.Second
	DefaultRateLimitDelay = 60 * time.Second
	DefaultChunkSize      = 100
	DefaultMaxFileSizeMB  = 50
)

// Config holds the resolved runtime configuration.
type Config struct {
	Model          string
	MaxRetries     int
	RetryDelayBase time.Duration
	RateLimitDelay time.Duration
	ChunkSize      int
	MaxFileSizeMB  int
}

// Load reads configuration from the environment. A missing or malformed
// value falls back to its default with a warning; Load never fails.
func Load() Config {
	return Config{
		Model:          os.Getenv(EnvModel),
		MaxRetries:     intFromEnv(EnvMaxRetries, DefaultMaxRetries),
		RetryDelayBase: secondsFromEnv(EnvRetryDelayBase, DefaultRetryDelayBase),
		RateLimitDelay: secondsFromEnv(EnvRateLimitDelay, DefaultRateLimitDelay),
		ChunkSize:      intFromEnv(EnvChunkSize, DefaultChunkSize),
		MaxFileSizeMB:  intFromEnv(EnvMaxFileSizeMB, DefaultMaxFileSizeMB),
	}
}

// Validate checks the configuration for values that would misbehave at
// runtime. Errors make the configuration unusable; warnings flag values
// that work but are probably mistakes.
func (c Config) Validate() content.ValidationOutcome {
	var out content.ValidationOutcome
	out.Valid = true

	if c.MaxRetries < 0 {
		out.Valid = false
		out.Errors = append(out.Errors, fmt.Sprintf("%s must be >= 0", EnvMaxRetries))
	}
	if c.RetryDelayBase <= 0 {
		out.Valid = false
		out.Errors = append(out.Errors, fmt.Sprintf("%s must be positive", EnvRetryDelayBase))
	}
	if c.RateLimitDelay <= 0 {
		out.Valid = false
		out.Errors = append(out.Errors, fmt.Sprintf("%s must be positive", EnvRateLimitDelay))
	}
	if c.ChunkSize <= 0 {
		out.Valid = false
		out.Errors = append(out.Errors, fmt.Sprintf("%s must be positive", EnvChunkSize))
	}
	if c.MaxFileSizeMB <= 0 {
		out.Valid = false
		out.Errors = append(out.Errors, fmt.Sprintf("%s must be positive", EnvMaxFileSizeMB))
	}

	if c.MaxRetries > 10 {
		out.Warnings = append(out.Warnings, fmt.Sprintf("%s=%d is unusually high; each failing row may block for a long time", EnvMaxRetries, c.MaxRetries))
	}
	if c.ChunkSize > 1000 {
		out.Warnings = append(out.Warnings, fmt.Sprintf("%s=%d exceeds the recommended maximum of 1000", EnvChunkSize, c.ChunkSize))
	}
	return out
}

func intFromEnv(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn().Str("var", key).Str("value", raw).Int("default", def).Msg("Invalid integer in environment, using default")
		return def
	}
	return v
}

// secondsFromEnv parses a duration expressed as a number of seconds,
// fractional values allowed.
func secondsFromEnv(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Warn().Str("var", key).Str("value", raw).Dur("default", def).Msg("Invalid duration in environment, using default")
		return def
	}
	return time.Duration(v * float64(time.Second))
}
