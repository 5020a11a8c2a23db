package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("AURA_TEST_VAR", "hello")
	defer os.Unsetenv("AURA_TEST_VAR")

	cases := []struct {
		in   string
		want string
	}{
		{"${AURA_TEST_VAR}", "hello"},
		{"${AURA_TEST_UNSET}", ""},
		{"${AURA_TEST_UNSET:fallback}", "fallback"},
		{"prefix-${AURA_TEST_VAR}-suffix", "prefix-hello-suffix"},
		{"no vars here", "no vars here"},
	}

	for _, tc := range cases {
		got := expandEnvVars(tc.in)
		if got != tc.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLoaderAppliesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: 9001
providers:
  api_key: ${AURA_TEST_KEY:test-key}
  stt:
    model: whisper-large-v3
pipeline:
  cache_size: 10
session:
  backend: redis
`
	if err := os.WriteFile(filepath.Join(dir, "server.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := NewLoader(dir, logger)
	if err := loader.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	cfg := loader.Config()
	if cfg.Server.Port != 9001 {
		t.Errorf("expected port 9001, got %d", cfg.Server.Port)
	}
	if cfg.Providers.APIKey != "test-key" {
		t.Errorf("expected api key from env default, got %q", cfg.Providers.APIKey)
	}
	if cfg.Providers.STT.Model != "whisper-large-v3" {
		t.Errorf("expected overridden stt model, got %q", cfg.Providers.STT.Model)
	}
	if cfg.Pipeline.CacheSize != 10 {
		t.Errorf("expected cache size 10, got %d", cfg.Pipeline.CacheSize)
	}
	if cfg.Session.Backend != "redis" {
		t.Errorf("expected redis backend, got %q", cfg.Session.Backend)
	}

	// Untouched fields keep defaults
	if cfg.Providers.Vision.Timeout != 60*time.Second {
		t.Errorf("expected default vision timeout, got %v", cfg.Providers.Vision.Timeout)
	}
	if cfg.Pipeline.UITreeExcerpt != 800 {
		t.Errorf("expected default ui tree excerpt, got %d", cfg.Pipeline.UITreeExcerpt)
	}
}

func TestLoaderMissingFile(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := NewLoader(t.TempDir(), logger)
	if err := loader.Load(); err == nil {
		t.Error("expected error for missing config file")
	}
}
