package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"OTHELLO_API_PORT", "OTHELLO_ENGINE_TIMEOUT_MS", "OTHELLO_DEV", "OTHELLO_REDIS_ADDR"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.APIPort != 8080 {
		t.Errorf("APIPort = %d, want 8080", cfg.APIPort)
	}
	if cfg.EngineTimeout != 5*time.Second {
		t.Errorf("EngineTimeout = %v, want 5s", cfg.EngineTimeout)
	}
	if cfg.Dev || cfg.RedisAddr != "" {
		t.Errorf("unexpected dev=%t redis=%q", cfg.Dev, cfg.RedisAddr)
	}
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("OTHELLO_API_PORT", "9090")
	t.Setenv("OTHELLO_DEV", "true")
	t.Setenv("OTHELLO_ENGINE_TIMEOUT_MS", "250")
	t.Setenv("OTHELLO_CACHE_SIZE", "not-a-number")

	cfg := Load()
	if cfg.APIPort != 9090 {
		t.Errorf("APIPort = %d, want 9090", cfg.APIPort)
	}
	if !cfg.Dev {
		t.Error("Dev = false, want true")
	}
	if cfg.EngineTimeout != 250*time.Millisecond {
		t.Errorf("EngineTimeout = %v, want 250ms", cfg.EngineTimeout)
	}
	if cfg.CacheSize != 4096 {
		t.Errorf("invalid CacheSize not replaced by default: %d", cfg.CacheSize)
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "OTHELLO_ENGINE_WORKERS=7\nOTHELLO_REDIS_ADDR=cache:6379\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("OTHELLO_ENGINE_WORKERS")
		os.Unsetenv("OTHELLO_REDIS_ADDR")
	})

	cfg := Load(path)
	if cfg.EngineWorkers != 7 {
		t.Errorf("EngineWorkers = %d, want 7", cfg.EngineWorkers)
	}
	if cfg.RedisAddr != "cache:6379" {
		t.Errorf("RedisAddr = %q, want cache:6379", cfg.RedisAddr)
	}
}
