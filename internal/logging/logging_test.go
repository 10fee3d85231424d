// Package logging provides tests for logger construction and log files.
package logging

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"", log.InfoLevel},
		{"verbose", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormatter(t *testing.T) {
	tests := []struct {
		in   string
		want log.Formatter
	}{
		{"json", log.JSONFormatter},
		{"logfmt", log.LogfmtFormatter},
		{"text", log.TextFormatter},
		{"", log.TextFormatter},
	}
	for _, tt := range tests {
		if got := ParseFormatter(tt.in); got != tt.want {
			t.Errorf("ParseFormatter(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewRespectsOptions(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, OptionsFromConfig("warn", "json", false, false))

	logger.Info("hidden")
	logger.Warn("Sound playback failed", "cue", "add")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %q", out)
	}
	if !strings.HasPrefix(strings.TrimSpace(out), "{") || !strings.Contains(out, `"cue"`) {
		t.Errorf("expected JSON line with cue field, got %q", out)
	}
	if !strings.Contains(out, "tasklist") {
		t.Errorf("expected prefix, got %q", out)
	}
}

func TestNewRunLog(t *testing.T) {
	t.Run("creates nested dir and file", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "logs", "nested")
		rl, err := NewRunLog(dir)
		if err != nil {
			t.Fatalf("NewRunLog failed: %v", err)
		}
		defer rl.Close()

		if rl.RunID == "" {
			t.Error("expected RunID")
		}
		if _, err := os.Stat(rl.LogPath); err != nil {
			t.Errorf("log file not created: %v", err)
		}
		if !strings.HasSuffix(rl.LogPath, ".log") {
			t.Errorf("unexpected log path %s", rl.LogPath)
		}

		logger := New(rl.Writer(), DefaultOptions())
		logger.Info("started")
		data, err := os.ReadFile(rl.LogPath)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "started") {
			t.Errorf("log file content = %q", data)
		}
	})

	t.Run("empty dir returns error", func(t *testing.T) {
		if _, err := NewRunLog(""); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("nil close", func(t *testing.T) {
		var rl *RunLog
		if err := rl.Close(); err != nil {
			t.Errorf("nil Close = %v", err)
		}
	})
}

func TestFindLatestLog(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		got, err := FindLatestLog(filepath.Join(t.TempDir(), "missing"))
		if err != nil || got != "" {
			t.Errorf("FindLatestLog = %q, %v", got, err)
		}
	})

	t.Run("picks newest log", func(t *testing.T) {
		dir := t.TempDir()
		old := filepath.Join(dir, "old.log")
		newer := filepath.Join(dir, "new.log")
		other := filepath.Join(dir, "notes.txt")
		for _, p := range []string{old, newer, other} {
			if err := os.WriteFile(p, []byte("x\n"), 0644); err != nil {
				t.Fatal(err)
			}
		}
		past := time.Now().Add(-time.Hour)
		if err := os.Chtimes(old, past, past); err != nil {
			t.Fatal(err)
		}
		future := time.Now().Add(time.Hour)
		if err := os.Chtimes(other, future, future); err != nil {
			t.Fatal(err)
		}

		got, err := FindLatestLog(dir)
		if err != nil {
			t.Fatal(err)
		}
		if got != newer {
			t.Errorf("FindLatestLog = %q, want %q", got, newer)
		}
	})
}

func TestTailLog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.log")
	var content strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&content, "line %03d %s\n", i, strings.Repeat("x", 100))
	}
	if err := os.WriteFile(path, []byte(content.String()), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("whole file", func(t *testing.T) {
		var buf bytes.Buffer
		if err := TailLog(context.Background(), &buf, path, 0, false); err != nil {
			t.Fatal(err)
		}
		if buf.String() != content.String() {
			t.Error("expected full content")
		}
	})

	t.Run("last lines start on a line boundary", func(t *testing.T) {
		var buf bytes.Buffer
		if err := TailLog(context.Background(), &buf, path, 5, false); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		if !strings.HasPrefix(out, "line ") {
			t.Errorf("output starts mid-line: %q", out[:20])
		}
		if !strings.HasSuffix(out, "line 199 "+strings.Repeat("x", 100)+"\n") {
			t.Error("expected last line")
		}
		if strings.Contains(out, "line 100") {
			t.Error("expected only the tail")
		}
	})

	t.Run("follow stops with context", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
		defer cancel()
		var buf bytes.Buffer
		if err := TailLog(ctx, &buf, path, 1, true); err != nil {
			t.Fatalf("TailLog follow = %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if err := TailLog(context.Background(), &bytes.Buffer{}, filepath.Join(dir, "nope.log"), 0, false); err == nil {
			t.Error("expected error")
		}
	})
}
