package pipeline

import (
	stderrors "errors"
	"fmt"
)

// ConfigError reports an invalid stage configuration: a required field is
// missing or an enumerated choice is unrecognized. A pipeline whose Fit
// returned a ConfigError stays unconfigured and unusable.
type ConfigError struct {
	Stage  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s configuration: %s", e.Stage, e.Reason)
}

// UsageError reports a contract violation by the caller: predicting before a
// successful Fit, or supplying a frame whose dimensions are incompatible
// with the session.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string {
	return "usage: " + e.Reason
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return stderrors.As(err, &ce)
}

// IsUsageError reports whether err is (or wraps) a UsageError.
func IsUsageError(err error) bool {
	var ue *UsageError
	return stderrors.As(err, &ue)
}

func configErrorf(stage, format string, args ...interface{}) error {
	return &ConfigError{Stage: stage, Reason: fmt.Sprintf(format, args...)}
}

func usageErrorf(format string, args ...interface{}) error {
	return &UsageError{Reason: fmt.Sprintf(format, args...)}
}
