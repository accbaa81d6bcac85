package serpapi

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingAPIKey = errors.New("serpapi: api key is required")
	ErrMissingEngine = errors.New("serpapi: engine parameter is required")
	ErrDecode        = errors.New("serpapi: failed to decode response")
)

// APIError is an error reported by the API, either in the payload's "error"
// field or through a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode >= 300 {
		return fmt.Sprintf("serpapi: status %d: %s", e.StatusCode, e.Message)
	}
	return "serpapi: " + e.Message
}

// NoResults reports whether the API simply found nothing for the query.
func (e *APIError) NoResults() bool {
	return strings.Contains(strings.ToLower(e.Message), "hasn't returned any results")
}

// IsNoResults reports whether err is an APIError for an empty result set.
func IsNoResults(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.NoResults()
}
