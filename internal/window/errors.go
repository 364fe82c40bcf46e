package window

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotAView is returned when ShowView or Attach gets nil or a nil pointer.
	ErrNotAView = errors.New("value is not a view")

	// ErrClosed is returned by operations on a closed window.
	ErrClosed = errors.New("window closed")

	// ErrPolicyConflict is wrapped by PolicyError.
	ErrPolicyConflict = errors.New("view already bound to another window")

	errNotPositive = errors.New("must be greater than zero")
	errNegative    = errors.New("must not be negative")
)

// ConfigError reports an invalid construction or rate setting.
type ConfigError struct {
	Field string
	Value any
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("window config %s=%v: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// PolicyError is returned when a view bound to one window is shown on another.
type PolicyError struct {
	View      string
	Bound     uuid.UUID
	Requested uuid.UUID
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("view %s is bound to window %s, cannot use it on window %s", e.View, e.Bound, e.Requested)
}

func (e *PolicyError) Unwrap() error { return ErrPolicyConflict }
