package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{" info ", LevelInfo},
		{"warning", LevelWarn},
		{"ERROR", LevelError},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %s, expected %s", tt.input, got, tt.expected)
		}
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Output: &buf})

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown %d", 1)
	l.Error("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("unexpected low-level output: %s", out)
	}
	if !strings.Contains(out, "[WARN] shown 1") || !strings.Contains(out, "[ERROR] shown 2") {
		t.Errorf("missing output: %s", out)
	}
}

func TestLoggerFieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelDebug, Output: &buf, Prefix: "keymask"}).
		WithComponent("field").
		WithFields(map[string]any{"id": "abc", "at": 3})

	l.Debug("commit")
	if !strings.Contains(buf.String(), "keymask: commit {at=3, component=field, id=abc}") {
		t.Errorf("unexpected line: %s", buf.String())
	}
}

func TestDerivedLoggerSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	root := New(Config{Level: LevelError, Output: &buf})
	child := root.WithComponent("config")

	child.Info("before")
	root.SetLevel(LevelDebug)
	child.Info("after")

	if strings.Contains(buf.String(), "before") || !strings.Contains(buf.String(), "after") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	if l.Enabled(LevelError) {
		t.Error("Nop logger should be disabled")
	}
	l.WithField("k", "v").Error("nothing")

	var nilLogger *Logger
	nilLogger.Info("no panic")
}

func TestLevelUnmarshalText(t *testing.T) {
	var l Level
	if err := l.UnmarshalText([]byte("warn")); err != nil || l != LevelWarn {
		t.Errorf("UnmarshalText = %s, %v", l, err)
	}
}
