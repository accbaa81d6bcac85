// Package serpapi is a small client for the SerpApi search.json endpoint.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/contentdesk/affkit/internal/ratelimit"
)

// DefaultBaseURL is the public SerpApi endpoint root.
const DefaultBaseURL = "https://serpapi.com"

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Limiter   ratelimit.RateLimiter
}

// Client issues search requests. It never retries; callers decide what a
// failed call means.
type Client struct {
	rest     *resty.Client
	endpoint string
	limiter  ratelimit.RateLimiter
}

// NewClient creates a Client with the given options.
func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	rest := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	if opts.UserAgent != "" {
		rest.SetHeader("User-Agent", opts.UserAgent)
	}

	return &Client{
		rest:     rest,
		endpoint: base + "/search.json",
		limiter:  opts.Limiter,
	}
}

// HTTPClient exposes the underlying transport client.
func (c *Client) HTTPClient() *http.Client {
	return c.rest.GetClient()
}

// Search runs one query. The API key travels with each call so that one
// client can serve several users.
func (c *Client) Search(ctx context.Context, apiKey string, params Params) (*Response, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if params.Engine() == "" {
		return nil, ErrMissingEngine
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, c.endpoint); err != nil {
			return nil, fmt.Errorf("rate limit wait failed: %w", err)
		}
	}

	start := time.Now()
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetQueryParam("api_key", apiKey).
		SetQueryParam("output", "json").
		Get(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("serpapi request failed: %w", err)
	}

	log.Debug().
		Str("engine", params.Engine()).
		Int("status", resp.StatusCode()).
		Dur("elapsed", time.Since(start)).
		Msg("SerpApi response")

	var out Response
	decodeErr := json.Unmarshal(resp.Body(), &out)

	if resp.StatusCode() >= http.StatusBadRequest {
		msg := out.Error
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: msg}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, decodeErr)
	}
	if out.Error != "" {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: out.Error}
	}

	return &out, nil
}
