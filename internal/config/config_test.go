package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, v := range []string{EnvModel, EnvMaxRetries, EnvRetryDelayBase, EnvRateLimitDelay, EnvChunkSize, EnvMaxFileSizeMB} {
		t.Setenv(v, "")
	}

	cfg := Load()
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.RetryDelayBase != time.Second {
		t.Errorf("RetryDelayBase = %v, want 1s", cfg.RetryDelayBase)
	}
	if cfg.RateLimitDelay != 60*time.Second {
		t.Errorf("RateLimitDelay = %v, want 60s", cfg.RateLimitDelay)
	}
	if cfg.ChunkSize != 100 {
		t.Errorf("ChunkSize = %d, want 100", cfg.ChunkSize)
	}
	if cfg.MaxFileSizeMB != 50 {
		t.Errorf("MaxFileSizeMB = %d, want 50", cfg.MaxFileSizeMB)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv(EnvModel, "gemini-2.5-pro")
	t.Setenv(EnvMaxRetries, "5")
	t.Setenv(EnvRetryDelayBase, "0.5")
	t.Setenv(EnvRateLimitDelay, "120")
	t.Setenv(EnvChunkSize, "250")

	cfg := Load()
	if cfg.Model != "gemini-2.5-pro" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
	if cfg.RetryDelayBase != 500*time.Millisecond {
		t.Errorf("RetryDelayBase = %v, want 500ms", cfg.RetryDelayBase)
	}
	if cfg.RateLimitDelay != 2*time.Minute {
		t.Errorf("RateLimitDelay = %v, want 2m", cfg.RateLimitDelay)
	}
	if cfg.ChunkSize != 250 {
		t.Errorf("ChunkSize = %d, want 250", cfg.ChunkSize)
	}
}

func TestLoadMalformedValuesFallBack(t *testing.T) {
	t.Setenv(EnvMaxRetries, "lots")
	t.Setenv(EnvRetryDelayBase, "a while")

	cfg := Load()
	if cfg.MaxRetries != DefaultMaxRetries {
		t.Errorf("MaxRetries = %d, want default %d", cfg.MaxRetries, DefaultMaxRetries)
	}
	if cfg.RetryDelayBase != DefaultRetryDelayBase {
		t.Errorf("RetryDelayBase = %v, want default %v", cfg.RetryDelayBase, DefaultRetryDelayBase)
	}
}

func TestValidate(t *testing.T) {
	good := Config{
		MaxRetries:     3,
		RetryDelayBase: time.Second,
		RateLimitDelay: time.Minute,
		ChunkSize:      100,
		MaxFileSizeMB:  50,
	}
	if out := good.Validate(); !out.Valid {
		t.Errorf("expected valid config, got %v", out.Errors)
	}

	bad := good
	bad.MaxRetries = -1
	bad.ChunkSize = 0
	out := bad.Validate()
	if out.Valid {
		t.Fatal("expected invalid config")
	}
	if len(out.Errors) != 2 {
		t.Errorf("expected 2 errors, got %v", out.Errors)
	}
}

func TestValidateWarnings(t *testing.T) {
	cfg := Config{
		MaxRetries:     20,
		RetryDelayBase: time.Second,
		RateLimitDelay: time.Minute,
		ChunkSize:      5000,
		MaxFileSizeMB:  50,
	}
	out := cfg.Validate()
	if !out.Valid {
		t.Fatalf("warnings must not invalidate config, got %v", out.Errors)
	}
	if len(out.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", out.Warnings)
	}
	for _, w := range out.Warnings {
		if !strings.Contains(w, "=") {
			t.Errorf("warning should name the variable and value: %q", w)
		}
	}
}
