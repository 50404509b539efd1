package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestInit_LevelFiltering(t *testing.T) {
	defer Init(Config{Level: "info"})

	var buf bytes.Buffer
	Init(Config{Level: "warn", Output: &buf})

	Info().Msg("hidden")
	Warn().Str("sku", "A1").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["level"] != "warn" || entry["message"] != "shown" || entry["sku"] != "A1" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Error("expected a timestamp")
	}
}

func TestInit_UnknownLevelFallsBackToInfo(t *testing.T) {
	defer Init(Config{Level: "info"})

	var buf bytes.Buffer
	Init(Config{Level: "verbose", Output: &buf})

	Debug().Msg("hidden")
	Info().Msg("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}
