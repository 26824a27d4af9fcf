package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelInfo,
		Format: FormatText,
		Output: &buf,
	})

	logger.Info("hello", "key", "value")

	got := buf.String()
	if !strings.Contains(got, "hello") {
		t.Errorf("output missing message: %q", got)
	}
	if !strings.Contains(got, "key=value") {
		t.Errorf("output missing attribute: %q", got)
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelInfo,
		Format: FormatJSON,
		Output: &buf,
	})

	logger.Info("hello")

	got := buf.String()
	if !strings.Contains(got, `"msg":"hello"`) {
		t.Errorf("output is not JSON: %q", got)
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelWarn,
		Format: FormatText,
		Output: &buf,
	})

	logger.Info("suppressed")
	logger.Warn("visible")

	got := buf.String()
	if strings.Contains(got, "suppressed") {
		t.Errorf("info message should be filtered: %q", got)
	}
	if !strings.Contains(got, "visible") {
		t.Errorf("warn message missing: %q", got)
	}
}

func TestHandler_MasksSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelInfo,
		Format: FormatText,
		Output: &buf,
	})

	logger.Info("refreshed", "access_token", "Atza|verylongtokenvalue1234")

	got := buf.String()
	if strings.Contains(got, "verylongtokenvalue") {
		t.Errorf("token leaked to output: %q", got)
	}
	if !strings.Contains(got, "****1234") {
		t.Errorf("expected masked token in output: %q", got)
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{0, slog.LevelInfo},
		{1, slog.LevelDebug},
		{2, slog.LevelDebug - 4},
		{5, slog.LevelDebug - 4},
		{-1, slog.LevelInfo},
	}
	for _, tt := range tests {
		got := LevelFromVerbosity(tt.verbosity)
		if got != tt.want {
			t.Errorf("LevelFromVerbosity(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	logger := NewDiscard()
	ctx := NewContext(context.Background(), logger)
	if got := FromContext(ctx); got != logger {
		t.Error("FromContext did not return the stored logger")
	}
}

func TestFromContext_Fallback(t *testing.T) {
	if got := FromContext(context.Background()); got == nil {
		t.Error("FromContext on empty context returned nil")
	}
}

func TestNewDiscard(t *testing.T) {
	logger := NewDiscard()
	// Must not panic or emit anywhere visible.
	logger.Error("into the void")
}

func TestMultiHandler(t *testing.T) {
	var a, b bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(h)

	logger.Info("info message")
	logger.Error("error message")

	if !strings.Contains(a.String(), "info message") {
		t.Error("first handler missing info message")
	}
	if strings.Contains(b.String(), "info message") {
		t.Error("second handler should filter info message")
	}
	if !strings.Contains(b.String(), "error message") {
		t.Error("second handler missing error message")
	}
}
