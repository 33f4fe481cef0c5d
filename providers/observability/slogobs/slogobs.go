// Package slogobs adapts Go's standard library log/slog to the
// observability.Logger sink interface, so callers get structured logs from
// the client without the library taking a logging dependency itself.
package slogobs

import (
	"context"
	"log/slog"

	"github.com/aabbccddwasd/llm-client/providers/observability"
)

// Observer implements observability.Logger on top of a slog.Logger.
type Observer struct {
	logger *slog.Logger
}

// New creates a slog-backed observer. With no options it wraps
// slog.Default().
//
// Example usage:
//
//	// Wrap the process default logger
//	logger := slogobs.New()
//
//	// Use an explicit JSON logger
//	logger := slogobs.New(slogobs.WithLogger(
//	    slog.New(slog.NewJSONHandler(os.Stderr, nil)),
//	))
func New(opts ...Option) *Observer {
	cfg := applyOptions(opts...)

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Observer{logger: logger}
}

// Ensure Observer implements observability.Logger
var _ observability.Logger = (*Observer)(nil)

func (o *Observer) Debug(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.DebugContext(ctx, msg, toSlogArgs(attrs)...)
}

func (o *Observer) Info(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.InfoContext(ctx, msg, toSlogArgs(attrs)...)
}

func (o *Observer) Warn(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.WarnContext(ctx, msg, toSlogArgs(attrs)...)
}

func (o *Observer) Error(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.ErrorContext(ctx, msg, toSlogArgs(attrs)...)
}

func toSlogArgs(attrs []observability.Attribute) []any {
	args := make([]any, 0, len(attrs)*2)
	for _, attr := range attrs {
		args = append(args, attr.Key, attr.Value)
	}
	return args
}
