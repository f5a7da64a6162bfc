package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantLevel zerolog.Level
	}{
		{"default level", "", zerolog.InfoLevel},
		{"debug level", "debug", zerolog.DebugLevel},
		{"info level", "info", zerolog.InfoLevel},
		{"warn level", "warn", zerolog.WarnLevel},
		{"error level", "error", zerolog.ErrorLevel},
		{"case insensitive", "DEBUG", zerolog.DebugLevel},
		{"unknown falls back to info", "verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup, err := Init(&bytes.Buffer{}, "", tt.level)
			if err != nil {
				t.Fatalf("Init() failed: %v", err)
			}
			defer cleanup()

			if zerolog.GlobalLevel() != tt.wantLevel {
				t.Errorf("expected level %v, got %v", tt.wantLevel, zerolog.GlobalLevel())
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	if _, ok := ParseLevel("warning"); !ok {
		t.Fatal("expected warning to be accepted")
	}
	if _, ok := ParseLevel("trace"); ok {
		t.Fatal("expected trace to be rejected")
	}
}

func TestInitWritesToOut(t *testing.T) {
	var buf bytes.Buffer
	cleanup, err := Init(&buf, "", "info")
	if err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	defer cleanup()

	Get().Info().Str("channel", "email").Msg("hello")
	out := buf.String()
	if !strings.Contains(out, `"channel":"email"`) || !strings.Contains(out, `"app":"notihub"`) {
		t.Fatalf("unexpected log output: %s", out)
	}
}

func TestInitWithFile(t *testing.T) {
	// nested directories are created on demand
	logPath := filepath.Join(t.TempDir(), "nested", "logs", "test.log")

	cleanup, err := Init(&bytes.Buffer{}, logPath, "info")
	if err != nil {
		t.Fatalf("Init() with file failed: %v", err)
	}
	Get().Info().Msg("test message")
	cleanup()

	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file was not created at %s: %v", logPath, err)
	}
	if !strings.Contains(string(b), "test message") {
		t.Fatalf("expected message in log file, got %q", b)
	}
}

func TestGet(t *testing.T) {
	cleanup, err := Init(&bytes.Buffer{}, "", "info")
	if err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	defer cleanup()

	if Get() == nil {
		t.Error("Get() returned nil logger")
	}
}
