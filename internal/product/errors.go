package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/contentdesk/affkit/internal/engine"
	"github.com/contentdesk/affkit/internal/serpapi"
)

var (
	// ErrNoIdentifiableProduct means the input could not be turned into a
	// query, or no strategy could run for it.
	ErrNoIdentifiableProduct = errors.New("no identifiable product")
	// ErrAllStrategiesExhausted means every strategy that ran failed.
	ErrAllStrategiesExhausted = errors.New("all strategies exhausted")
)

// ErrorCode classifies a strategy failure.
type ErrorCode string

const (
	ErrCodeNetwork    ErrorCode = "NETWORK"
	ErrCodeHTTPStatus ErrorCode = "HTTP_STATUS"
	ErrCodeParse      ErrorCode = "PARSE"
	ErrCodeAPI        ErrorCode = "API_ERROR"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeIncomplete ErrorCode = "INCOMPLETE"
	ErrCodeBlocked    ErrorCode = "BLOCKED"
)

// StrategyError is a non-fatal failure of a single strategy. The resolver
// records it and moves on.
type StrategyError struct {
	Strategy   string
	Code       ErrorCode
	Message    string
	Underlying error
}

// Error implements the error interface
func (e *StrategyError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *StrategyError) Unwrap() error {
	return e.Underlying
}

// Is matches another StrategyError by code.
func (e *StrategyError) Is(target error) bool {
	if t, ok := target.(*StrategyError); ok {
		return e.Code == t.Code
	}
	return false
}

// NewStrategyError creates a StrategyError.
func NewStrategyError(strategy string, code ErrorCode, message string, err error) *StrategyError {
	return &StrategyError{
		Strategy:   strategy,
		Code:       code,
		Message:    message,
		Underlying: err,
	}
}

// ExhaustedError reports that no strategy produced a record. It matches
// ErrAllStrategiesExhausted with errors.Is.
type ExhaustedError struct {
	Attempts Diagnostics
}

// Error implements the error interface
func (e *ExhaustedError) Error() string {
	return ErrAllStrategiesExhausted.Error() + ": " + e.Attempts.Summary()
}

// Is matches ErrAllStrategiesExhausted.
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrAllStrategiesExhausted
}

// classify turns a collaborator error into a StrategyError.
func classify(strategy string, err error) *StrategyError {
	var se *StrategyError
	if errors.As(err, &se) {
		return se
	}

	var apiErr *serpapi.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.NoResults():
			return NewStrategyError(strategy, ErrCodeNotFound, "no results", err)
		case apiErr.StatusCode >= 300:
			return NewStrategyError(strategy, ErrCodeHTTPStatus, "search API rejected the request", err)
		default:
			return NewStrategyError(strategy, ErrCodeAPI, "search API reported an error", err)
		}
	}
	if errors.Is(err, serpapi.ErrDecode) {
		return NewStrategyError(strategy, ErrCodeParse, "malformed response", err)
	}
	if errors.Is(err, serpapi.ErrMissingAPIKey) {
		return NewStrategyError(strategy, ErrCodeAPI, "no API key", err)
	}

	var engErr *engine.EngineError
	if errors.As(err, &engErr) {
		switch engErr.Code {
		case engine.ErrCodeHTTPStatus:
			return NewStrategyError(strategy, ErrCodeHTTPStatus, "page request failed", err)
		case engine.ErrCodeBlocked:
			return NewStrategyError(strategy, ErrCodeBlocked, "page blocked by robot check", err)
		case engine.ErrCodeParseError:
			return NewStrategyError(strategy, ErrCodeParse, "page could not be parsed", err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewStrategyError(strategy, ErrCodeNetwork, "timed out", err)
	}

	return NewStrategyError(strategy, ErrCodeNetwork, "request failed", err)
}
