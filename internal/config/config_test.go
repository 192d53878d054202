package config

import (
	"os"
	"testing"
	"time"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "PORT", "GRID_SIZE", "PERSIST_DEBOUNCE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.GridSize != 20 {
		t.Errorf("expected grid size 20, got %v", cfg.GridSize)
	}
	if cfg.PersistDebounce != time.Second {
		t.Errorf("expected 1s debounce, got %v", cfg.PersistDebounce)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GRID_SIZE", "10")
	t.Setenv("PERSIST_DEBOUNCE", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 9090 || cfg.GridSize != 10 || cfg.PersistDebounce != 250*time.Millisecond {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestOrigins(t *testing.T) {
	cfg := &Config{AllowedOrigins: " localhost:5173, ,example.com"}
	got := cfg.Origins()
	if len(got) != 2 || got[0] != "localhost:5173" || got[1] != "example.com" {
		t.Errorf("unexpected origins: %v", got)
	}
}
