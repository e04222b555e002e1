package lang

import "github.com/ardnew/abmeta/log"

// Option configures evaluation.
type Option func(*config)

type config struct {
	logger log.Logger
	known  bool
}

func makeConfig(opts ...Option) config {
	var cfg config

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// WithLogger sets the logger used for trace output.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithKnownVariables makes references to unset variables provided by the
// build system (see [IsKnownVariable]) evaluate to the empty string instead
// of failing.
func WithKnownVariables(honor bool) Option {
	return func(cfg *config) {
		cfg.known = honor
	}
}
