package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "LISTEN_ADDR", "DATABASE_PATH", "CACHE_BACKEND", "REDIS_DB", "TIMEZONE", "LOG_FILE"} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())

	cfg := Load()
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("expected :8080, got %s", cfg.ListenAddr)
	}
	if cfg.DatabasePath != "moodlog.db" {
		t.Fatalf("unexpected database path %s", cfg.DatabasePath)
	}
	if cfg.CacheBackend != CacheBackendSQLite {
		t.Fatalf("expected sqlite cache backend, got %s", cfg.CacheBackend)
	}
	if cfg.Timezone != "UTC" || cfg.LogFile != "" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("CACHE_BACKEND", " Redis ")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()
	if cfg.ListenAddr != ":9090" {
		t.Fatalf("expected :9090, got %s", cfg.ListenAddr)
	}
	if cfg.CacheBackend != CacheBackendRedis {
		t.Fatalf("expected redis backend, got %s", cfg.CacheBackend)
	}
	if cfg.RedisDB != 0 {
		t.Fatalf("expected invalid REDIS_DB to fall back to 0, got %d", cfg.RedisDB)
	}
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("BOLT_PATH=/tmp/from-dotenv.db\nDATABASE_PATH=ignored.db\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Chdir(dir)
	t.Setenv("BOLT_PATH", "")
	os.Unsetenv("BOLT_PATH")
	t.Setenv("DATABASE_PATH", "explicit.db")

	cfg := Load()
	if cfg.BoltPath != "/tmp/from-dotenv.db" {
		t.Fatalf("expected BOLT_PATH from .env, got %s", cfg.BoltPath)
	}
	if cfg.DatabasePath != "explicit.db" {
		t.Fatalf("expected environment to win over .env, got %s", cfg.DatabasePath)
	}
}

func TestLocation(t *testing.T) {
	loc, err := AppConfig{Timezone: "UTC"}.Location()
	if err != nil || loc != time.UTC {
		t.Fatalf("expected UTC, got %v (%v)", loc, err)
	}
	loc, err = AppConfig{Timezone: "Mars/Olympus"}.Location()
	if err == nil || loc != time.UTC {
		t.Fatalf("expected error and UTC fallback, got %v (%v)", loc, err)
	}
}
