package logger_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/preprints/internal/logger"
)

func TestWriterAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := logger.New().FromWriter(&buf).Level("warn").Make()
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	l.Logger.Info().Msg("hidden")
	l.Logger.Warn().Str("route", "index").Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %s", out)
	}
	if !strings.Contains(out, `"route":"index"`) {
		t.Fatalf("missing field: %s", out)
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l, err := logger.New().FromWriter(&buf).Level("loud").Make()
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	l.Logger.Debug().Msg("debug")
	l.Logger.Info().Msg("info")
	if strings.Contains(buf.String(), "debug") || !strings.Contains(buf.String(), "info") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestFromPath(t *testing.T) {
	p := filepath.Join(t.TempDir(), "preprints.log")
	l, err := logger.New().FromPath(p).Make()
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	l.Logger.Info().Msg("to file")
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), "to file") {
		t.Fatalf("log file missing entry: %s", b)
	}
}
