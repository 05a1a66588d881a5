package main

import (
	"bytes"
	"context"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/moodlog/internal/cache"
)

func restoreLoggers(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prev)
		log.SetOutput(os.Stderr)
		log.SetFlags(log.LstdFlags)
	})
}

func TestRealMainExitCodes(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	restoreLoggers(t)

	var stdout, stderr bytes.Buffer
	if code := realMain([]string{"--help"}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected 0 for --help, got %d", code)
	}

	stderr.Reset()
	if code := realMain(nil, &stdout, &stderr); code != 2 {
		t.Fatalf("expected 2 without a command, got %d", code)
	}
	if !strings.Contains(stderr.String(), "usage") && !strings.Contains(stderr.String(), "Usage") {
		t.Fatalf("expected usage on stderr, got %q", stderr.String())
	}

	stderr.Reset()
	if code := realMain([]string{"--bogus"}, &stdout, &stderr); code != 2 {
		t.Fatalf("expected 2 for an unknown flag, got %d", code)
	}
}

func TestRealMainOfflineWritesLogFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	logFile := filepath.Join(home, "logs", "moodlog.log")
	t.Setenv("MOODLOG_LOG_FILE", logFile)
	restoreLoggers(t)

	server := "http://127.0.0.1:1"
	cachePath := filepath.Join(home, "cache.db")
	kv, err := cache.OpenBoltCache(cachePath, nil)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	if err := kv.Set(context.Background(), "cli:user:"+server+":alice", "42"); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	if err := kv.Close(); err != nil {
		t.Fatalf("close cache: %v", err)
	}

	var stdout, stderr bytes.Buffer
	args := []string{"--server", server, "--username", "alice", "--password", "x", "--cache-path", cachePath, "streak"}
	if code := realMain(args, &stdout, &stderr); code != 0 {
		t.Fatalf("expected offline streak to succeed, got %d: %s", code, stderr.String())
	}
	if stdout.Len() == 0 {
		t.Fatalf("expected command output on stdout")
	}

	raw, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(raw), "continuing offline as alice") {
		t.Fatalf("expected offline notice in log file, got %q", raw)
	}
}
