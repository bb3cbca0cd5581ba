package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesNamedLinesToOutput(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger, closer, err := New("pomo", Options{Level: "debug", Output: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer closer()

	logger.Named("engine").Debug("countdown started", "seconds", 60)
	out := buf.String()
	if !strings.Contains(out, "pomo.engine") || !strings.Contains(out, "seconds=60") {
		t.Fatalf("unexpected log line %q", out)
	}
}

func TestNewFallsBackToInfoAndFiltersDebug(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger, _, err := New("pomo", Options{Level: "nonsense", Output: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line leaked at info level: %q", buf.String())
	}
}

func TestNewWritesToFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logs", "pomo.log")
	logger, closer, err := New("pomo", Options{File: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Info("session completed", "type", "work")
	if err := closer(); err != nil {
		t.Fatalf("close: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(raw), "session completed") {
		t.Fatalf("log file missing line: %q", raw)
	}
}

func TestDiscardIsSilentAndNamed(t *testing.T) {
	t.Parallel()
	logger := Discard().Named("engine")
	if logger.IsError() || logger.IsDebug() {
		t.Fatal("discard logger should have every level disabled")
	}
	logger.Error("dropped", "reason", "no sink")
}
