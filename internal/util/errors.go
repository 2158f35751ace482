// Package util provides shared error types for the routing engine.
//
// # Error Conventions
//
// This project follows a standardized error pattern across all packages:
//
//   - Sentinel errors (errors.New) for well-known, stable conditions
//     that callers check with errors.Is(). Example: ErrNoRouteMatch.
//   - Structured error types for context-rich errors that carry
//     additional fields (e.g., CompileError, RouteNotFoundError). Each
//     type implements Error(), Unwrap() (if wrapping), and Is().
//   - fmt.Errorf with %w for ad-hoc wrapping that adds context to an
//     existing error without introducing a new type.
//
// All custom error types must implement:
//
//	Error() string           – human-readable message
//	Unwrap() error           – if the type wraps another error
//	Is(target error) bool    – for errors.Is() compatibility
package util

import (
	"errors"
	"fmt"
)

// Common sentinel errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrCompile marks every route pattern compilation failure.
	ErrCompile = errors.New("route compile error")

	// ErrAmbiguousToken marks override regexes whose capture groups
	// cannot be aligned with a single token.
	ErrAmbiguousToken = errors.New("ambiguous token regex")

	// ErrNoRouteMatch is returned when no route, including the fallback
	// routes, matches a path.
	ErrNoRouteMatch = errors.New("no route match")

	// ErrTableSealed is returned when a route table is modified after
	// matching has started.
	ErrTableSealed = errors.New("route table is sealed")
)

// ConfigError represents a configuration-related error.
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error at %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *ConfigError) Is(target error) bool {
	if target == ErrConfigInvalid {
		return true
	}
	_, ok := target.(*ConfigError)
	return ok || errors.Is(e.Cause, target)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// NewConfigErrorWithCause creates a new ConfigError with a cause.
func NewConfigErrorWithCause(field, message string, cause error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Cause: cause}
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Fields  map[string]string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s (fields: %v)", e.Message, e.Fields)
}

// Is checks if the error matches the target.
func (e *ValidationError) Is(target error) bool {
	if target == ErrConfigInvalid {
		return true
	}
	_, ok := target.(*ValidationError)
	return ok
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message, Fields: make(map[string]string)}
}

// AddField adds a field error.
func (e *ValidationError) AddField(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
}

// HasErrors reports whether any field error was recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// CompileError represents a route pattern that cannot be compiled.
type CompileError struct {
	Pattern string
	Token   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	msg := fmt.Sprintf("compile route %q", e.Pattern)
	if e.Token != "" {
		msg += fmt.Sprintf(" token %q", e.Token)
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *CompileError) Is(target error) bool {
	if target == ErrCompile {
		return true
	}
	_, ok := target.(*CompileError)
	return ok || errors.Is(e.Cause, target)
}

// NewCompileError creates a new CompileError.
func NewCompileError(pattern, token, message string) *CompileError {
	return &CompileError{Pattern: pattern, Token: token, Message: message}
}

// NewCompileErrorWithCause creates a new CompileError with a cause.
func NewCompileErrorWithCause(pattern, token, message string, cause error) *CompileError {
	return &CompileError{Pattern: pattern, Token: token, Message: message, Cause: cause}
}

// AmbiguousTokenError is returned when a token override regex carries
// more than one capturing group.
type AmbiguousTokenError struct {
	Pattern string
	Token   string
	Regex   string
	Groups  int
}

// Error implements the error interface.
func (e *AmbiguousTokenError) Error() string {
	return fmt.Sprintf("compile route %q token %q: regex %q has %d capturing groups, at most 1 allowed",
		e.Pattern, e.Token, e.Regex, e.Groups)
}

// Is checks if the error matches the target.
func (e *AmbiguousTokenError) Is(target error) bool {
	if target == ErrAmbiguousToken || target == ErrCompile {
		return true
	}
	_, ok := target.(*AmbiguousTokenError)
	return ok
}

// NewAmbiguousTokenError creates a new AmbiguousTokenError.
func NewAmbiguousTokenError(pattern, token, regex string, groups int) *AmbiguousTokenError {
	return &AmbiguousTokenError{Pattern: pattern, Token: token, Regex: regex, Groups: groups}
}

// RouteNotFoundError represents a path that no route matches.
type RouteNotFoundError struct {
	Path string
}

// Error implements the error interface.
func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("no match for route %s", e.Path)
}

// Is checks if the error matches the target.
func (e *RouteNotFoundError) Is(target error) bool {
	if target == ErrNoRouteMatch || target == ErrNotFound {
		return true
	}
	_, ok := target.(*RouteNotFoundError)
	return ok
}

// NewRouteNotFoundError creates a new RouteNotFoundError.
func NewRouteNotFoundError(path string) *RouteNotFoundError {
	return &RouteNotFoundError{Path: path}
}

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsClientError returns true if the error should be reported as a 4xx.
func IsClientError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrNotFound) {
		return true
	}

	return errors.Is(err, ErrInvalidInput)
}
