package workq

import (
	"math"
)

// Unlimited is the sentinel returned by MaxThreads/MaxTasks when no limit was
// configured. Limits are plain ints so comparisons stay well-typed; there is
// deliberately no floating-point infinity anywhere.
const Unlimited = math.MaxInt

// Option configures a WorkQueue at construction time
type Option func(*config) error

type config struct {
	maxThreads int
	maxTasks   int
	logger     Logger
	observer   Observer
}

func defaultConfig() *config {
	return &config{
		maxThreads: Unlimited,
		maxTasks:   Unlimited,
	}
}

// WithMaxThreads bounds the number of live workers.
// n must be positive; omit the option for an unlimited pool.
func WithMaxThreads(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return &ConfigError{Option: "max threads", Value: n}
		}
		c.maxThreads = n
		return nil
	}
}

// WithMaxTasks bounds the queue length. A submission beyond the bound blocks
// the producer until a worker frees space (backpressure, never rejection).
// n must be positive; omit the option for an unbounded queue.
func WithMaxTasks(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return &ConfigError{Option: "max tasks", Value: n}
		}
		c.maxTasks = n
		return nil
	}
}

// WithLogger replaces the default logrus-backed logger
func WithLogger(logger Logger) Option {
	return func(c *config) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// WithObserver installs a per-task outcome observer. Without one, task
// failures are logged and discarded (fire-and-forget).
func WithObserver(observer Observer) Option {
	return func(c *config) error {
		c.observer = observer
		return nil
	}
}
