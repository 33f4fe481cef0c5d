package slogobs

import "log/slog"

// Option configures the slog observer.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

func applyOptions(opts ...Option) config {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLogger uses an existing slog.Logger instead of slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}
