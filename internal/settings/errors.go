package settings

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrMalformedConfig = errors.New("malformed settings")
	ErrIO              = errors.New("settings I/O failure")
	ErrLocked          = errors.New("settings file is locked by another installer")
)

// MalformedConfigError reports a settings document whose shape cannot be
// merged safely. Category is empty when the problem is outside a single
// hook category.
type MalformedConfigError struct {
	Category string
	Reason   string
	Err      error
}

func (e *MalformedConfigError) Error() string {
	msg := "malformed settings"
	if e.Category != "" {
		msg += fmt.Sprintf(": hooks.%s", e.Category)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedConfigError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedConfig, e.Err}
	}
	return []error{ErrMalformedConfig}
}

func malformed(category, reason string, args ...any) error {
	return &MalformedConfigError{Category: category, Reason: fmt.Sprintf(reason, args...)}
}

// ioError tags err as an I/O failure while keeping the original error in
// the chain.
func ioError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}
