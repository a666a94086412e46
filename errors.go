package uploadrules

import (
	"errors"
	"fmt"
)

// Common rule errors
var (
	// ErrCapabilityUnavailable is matched by every *CapabilityError.
	ErrCapabilityUnavailable = errors.New("capability unavailable")

	// ErrInvalidRule is matched by every *ConfigError.
	ErrInvalidRule = errors.New("invalid rule configuration")

	// ErrUnknownRule is returned when a binding names a rule missing from the table.
	ErrUnknownRule = errors.New("unknown rule")
)

// CapabilityError reports that a rule could not run because something it
// depends on is missing from the runtime environment. It is never used for a
// file that merely fails a constraint.
type CapabilityError struct {
	// Capability names the missing facility, e.g. the content detector.
	Capability string

	// Message is the underlying diagnostic.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface
func (e *CapabilityError) Error() string {
	return fmt.Sprintf("%s is unavailable: %s", e.Capability, e.Message)
}

// Unwrap returns the underlying error
func (e *CapabilityError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrCapabilityUnavailable) hold for any CapabilityError.
func (e *CapabilityError) Is(target error) bool {
	return target == ErrCapabilityUnavailable
}

// ConfigError reports a rule configuration rejected at construction time.
type ConfigError struct {
	Rule    string
	Message string
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Message)
}

// Is makes errors.Is(err, ErrInvalidRule) hold for any ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidRule
}

func configError(rule, format string, args ...any) *ConfigError {
	return &ConfigError{Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// IsCapabilityError reports whether err means a rule could not run in this
// environment, as opposed to a file being rejected.
func IsCapabilityError(err error) bool {
	var capErr *CapabilityError
	return errors.As(err, &capErr)
}

// MissingCapability returns the capability named by a CapabilityError, or
// the empty string.
func MissingCapability(err error) string {
	var capErr *CapabilityError
	if errors.As(err, &capErr) {
		return capErr.Capability
	}
	return ""
}
