// Package sakerr defines the error taxonomy shared across sakurs-go's
// rule-loading, scanning, and execution layers. It is a leaf package so
// pkg/rules, pkg/scanner, and pkg/executor can all return these types
// without importing the higher-level pkg/sakurs facade.
package sakerr

import "fmt"

// ConfigError reports a malformed LanguageRules document or an invalid
// combination of execution options.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("config error: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError builds a ConfigError with an optional wrapped cause.
func NewConfigError(reason string, cause error) *ConfigError {
	return &ConfigError{Reason: reason, Err: cause}
}

// UnsupportedLanguageError reports a language code with no bundled or
// registered LanguageRules.
type UnsupportedLanguageError struct {
	Language string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language: %s", e.Language)
}

// DecodeError reports input bytes that cannot be decoded under the
// declared encoding, at the byte offset where decoding failed.
type DecodeError struct {
	ByteOffset int
	Encoding   string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode input as %s at byte offset %d", e.Encoding, e.ByteOffset)
}

// InputError reports a problem reading the input source itself (missing
// file, unreadable stream).
type InputError struct {
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("input error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("input error: %s", e.Reason)
}

func (e *InputError) Unwrap() error { return e.Err }

// CancelledError reports that the caller's cancellation signal fired
// before segmentation completed. Sentences already drained from
// IterSplit remain valid.
type CancelledError struct{}

func (e *CancelledError) Error() string { return "segmentation cancelled" }

// InternalError is reserved for invariant violations that must never
// surface for a valid Input + Options pair. It exists so a defensive
// recover() at the API boundary has somewhere to put an unexpected panic
// instead of inventing a new error type on the spot.
type InternalError struct {
	Reason string
	Err    error
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("internal error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("internal error: %s", e.Reason)
}

func (e *InternalError) Unwrap() error { return e.Err }
