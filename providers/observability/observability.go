package observability

import (
	"context"
	"fmt"
	"time"
)

// Logger is the structured-logging sink the library accepts by injection.
// Nothing in the library owns process-wide logging state: components that
// want to log take a Logger at construction and fall back to [Noop] when
// none is provided.
type Logger interface {
	Debug(ctx context.Context, msg string, attrs ...Attribute)
	Info(ctx context.Context, msg string, attrs ...Attribute)
	Warn(ctx context.Context, msg string, attrs ...Attribute)
	Error(ctx context.Context, msg string, attrs ...Attribute)
}

// --- ATTRIBUTES (Key-Value pairs) ---

// Attribute represents a key-value pair of log metadata.
type Attribute struct {
	Key   string
	Value interface{}
}

// String creates a string attribute
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an integer attribute
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value}
}

// Error creates an error attribute
func Error(err error) Attribute {
	if err == nil {
		return Attribute{Key: "error", Value: ""}
	}
	return Attribute{Key: "error", Value: fmt.Sprintf("%v", err)}
}

// --- NO-OP ---

type noopLogger struct{}

func (noopLogger) Debug(context.Context, string, ...Attribute) {}
func (noopLogger) Info(context.Context, string, ...Attribute)  {}
func (noopLogger) Warn(context.Context, string, ...Attribute)  {}
func (noopLogger) Error(context.Context, string, ...Attribute) {}

// Noop returns a Logger that discards everything.
func Noop() Logger {
	return noopLogger{}
}

// OrNoop returns logger, or the no-op Logger when logger is nil. It lets
// components store an injected sink without nil checks at every call site.
func OrNoop(logger Logger) Logger {
	if logger == nil {
		return noopLogger{}
	}
	return logger
}
