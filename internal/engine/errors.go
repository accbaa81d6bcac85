// internal/engine/errors.go
package engine

import (
	"errors"
	"fmt"
)

// Common engine errors
var (
	ErrBrowserNotFound = errors.New("chrome browser not found")
	ErrPoolClosed      = errors.New("browser pool is closed")
	ErrInvalidURL      = errors.New("invalid URL")
	ErrBodyTooLarge    = errors.New("response body exceeds limit")
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	ErrCodeHTTPStatus   ErrorCode = "HTTP_STATUS"
	ErrCodeTimeout      ErrorCode = "TIMEOUT"
	ErrCodeValidation   ErrorCode = "VALIDATION"
	ErrCodeBlocked      ErrorCode = "BLOCKED"
	ErrCodeBrowserCrash ErrorCode = "BROWSER_CRASH"
	ErrCodeNetworkError ErrorCode = "NETWORK_ERROR"
	ErrCodeParseError   ErrorCode = "PARSE_ERROR"
)

// EngineError wraps errors with additional context
type EngineError struct {
	Code       ErrorCode
	Message    string
	Underlying error
	StatusCode int
}

// Error implements the error interface
func (e *EngineError) Error() string {
	msg := e.Message
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying error
func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// Is checks if the error matches the target
func (e *EngineError) Is(target error) bool {
	if t, ok := target.(*EngineError); ok {
		return e.Code == t.Code
	}
	return false
}

// NewEngineError creates a new EngineError
func NewEngineError(code ErrorCode, message string, err error) *EngineError {
	return &EngineError{
		Code:       code,
		Message:    message,
		Underlying: err,
	}
}

// StatusError builds an HTTP_STATUS error for a non-2xx page response.
func StatusError(status int) *EngineError {
	return &EngineError{
		Code:       ErrCodeHTTPStatus,
		Message:    "unexpected response",
		StatusCode: status,
	}
}

// IsBlocked reports whether err is a robot-check block.
func IsBlocked(err error) bool {
	var e *EngineError
	return errors.As(err, &e) && e.Code == ErrCodeBlocked
}
