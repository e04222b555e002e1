package tree

import (
	"runtime"

	"github.com/ardnew/abmeta/log"
)

// Option configures [Load].
type Option func(*config)

type config struct {
	logger log.Logger
	jobs   int
	known  bool
}

func makeConfig(opts ...Option) config {
	cfg := config{jobs: runtime.GOMAXPROCS(0)}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// WithLogger sets the logger used to report failing units.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithJobs limits the number of units loaded concurrently.
// Values below 1 select GOMAXPROCS.
func WithJobs(n int) Option {
	return func(cfg *config) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}

		cfg.jobs = n
	}
}

// WithKnownVariables lets units refer to variables provided by the build
// system without defining them.
func WithKnownVariables(honor bool) Option {
	return func(cfg *config) {
		cfg.known = honor
	}
}
