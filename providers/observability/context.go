package observability

import "context"

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

var loggerContextKey = contextKey{}

// LoggerFromContext extracts a Logger from the context.
// Returns the no-op Logger if none is present.
func LoggerFromContext(ctx context.Context) Logger {
	if ctx == nil {
		return Noop()
	}
	logger, ok := ctx.Value(loggerContextKey).(Logger)
	if !ok {
		return Noop()
	}
	return logger
}

// ContextWithLogger returns a new context with the given logger attached.
func ContextWithLogger(ctx context.Context, logger Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerContextKey, logger)
}
