package workq

import (
	"errors"
	"fmt"
)

var (
	// ErrNilTask is returned when a nil task is submitted
	ErrNilTask = errors.New("task cannot be nil")
)

// ConfigError reports an invalid construction option.
// Limits must be positive; omit the option entirely for an unlimited queue.
type ConfigError struct {
	Option string
	Value  int
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("workq: %s must be positive, got %d", e.Option, e.Value)
}
