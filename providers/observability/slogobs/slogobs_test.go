package slogobs

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/aabbccddwasd/llm-client/providers/observability"
)

func TestObserver_WritesAttributes(t *testing.T) {
	var buf bytes.Buffer
	observer := New(WithLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))))

	observer.Info(context.Background(), "request normalized",
		observability.String(observability.AttrModelFamily, "glm"),
		observability.Int("toolcalls.completed", 2))

	out := buf.String()
	if !strings.Contains(out, "request normalized") {
		t.Errorf("message missing: %q", out)
	}
	if !strings.Contains(out, "llm.model_family=glm") || !strings.Contains(out, "toolcalls.completed=2") {
		t.Errorf("attributes missing: %q", out)
	}
}

func TestObserver_LevelRouting(t *testing.T) {
	var buf bytes.Buffer
	observer := New(WithLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))))

	observer.Debug(context.Background(), "hidden")
	observer.Warn(context.Background(), "visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record leaked through warn-level handler: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("warn record missing: %q", out)
	}
}
