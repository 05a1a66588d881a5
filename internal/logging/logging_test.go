package logging

import (
	"bytes"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func restoreDefaults(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prev)
		log.SetOutput(os.Stderr)
		log.SetFlags(log.LstdFlags)
	})
}

func TestSetupBridgesStdLogger(t *testing.T) {
	restoreDefaults(t)
	var buf bytes.Buffer
	setup(&buf, "moodlog", "test")

	log.Printf("[sync] fetched %d check-ins", 3)

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if line["service"] != "moodlog" || line["env"] != "test" {
		t.Fatalf("missing service attrs: %v", line)
	}
	if line["severity"] != "INFO" {
		t.Fatalf("unexpected severity %v", line["severity"])
	}
	if msg, _ := line["message"].(string); !strings.Contains(msg, "[sync] fetched 3 check-ins") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestSetupWritesRotatingFile(t *testing.T) {
	restoreDefaults(t)
	path := filepath.Join(t.TempDir(), "moodlog.log")
	logger, closer := Setup(Options{Service: "moodlog", File: path})
	logger.Info("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(raw), `"message":"hello"`) {
		t.Fatalf("unexpected log file contents %q", raw)
	}
}
