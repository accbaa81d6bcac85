// Package engine holds the page fetchers used by the direct page strategy.
package engine

import (
	"context"

	"github.com/contentdesk/affkit/pkg/models"
)

// Fetcher is the interface that all page fetching engines implement
type Fetcher interface {
	// Fetch retrieves the page at opts.URL
	Fetch(ctx context.Context, opts models.RequestOptions) (*models.Page, error)

	// Name returns the name of the fetcher implementation
	Name() string
}
