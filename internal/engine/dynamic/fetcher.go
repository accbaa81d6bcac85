// internal/engine/dynamic/fetcher.go
package dynamic

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/contentdesk/affkit/internal/engine"
	"github.com/contentdesk/affkit/internal/ratelimit"
	"github.com/contentdesk/affkit/pkg/models"
	"github.com/rs/zerolog/log"
)

// DefaultTimeout bounds one rendered fetch when neither the request nor the
// fetcher sets a timeout.
const DefaultTimeout = 45 * time.Second

// PoolProvider hands out the browser pool. It is called on first use so
// Chrome only starts when a page actually needs rendering.
type PoolProvider func() (*BrowserPool, error)

// Fetcher renders pages in headless Chrome
type Fetcher struct {
	pool    PoolProvider
	limiter ratelimit.RateLimiter
	timeout time.Duration
}

// New creates a rendering Fetcher.
func New(pool PoolProvider, lim ratelimit.RateLimiter, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{pool: pool, limiter: lim, timeout: timeout}
}

// Name returns the name of this fetcher
func (f *Fetcher) Name() string {
	return "browser"
}

// Fetch navigates to opts.URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, opts models.RequestOptions) (*models.Page, error) {
	start := time.Now()

	log.Debug().
		Str("url", opts.URL).
		Str("fetcher", f.Name()).
		Msg("Starting fetch")

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, opts.URL); err != nil {
			return nil, err
		}
	}

	pool, err := f.pool()
	if err != nil {
		return nil, engine.NewEngineError(engine.ErrCodeBrowserCrash, "browser unavailable", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = f.timeout
	}
	acquireCtx, cancelAcquire := context.WithTimeout(ctx, timeout)
	defer cancelAcquire()

	tab, err := pool.Acquire(acquireCtx)
	if err != nil {
		return nil, engine.NewEngineError(engine.ErrCodeTimeout, "failed to acquire browser", err)
	}
	defer pool.Release(tab)

	tabCtx, cancel := context.WithTimeout(tab.Ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var (
		mu      sync.Mutex
		status  int64
		headers = make(map[string]string)
	)
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		resp, ok := ev.(*network.EventResponseReceived)
		if !ok || resp.Type != network.ResourceTypeDocument {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if status != 0 {
			return
		}
		status = resp.Response.Status
		for key, value := range resp.Response.Headers {
			if s, ok := value.(string); ok {
				headers[key] = s
			}
		}
	})

	selector := opts.WaitSelector
	if selector == "" {
		selector = "body"
	}

	var html, finalURL string
	err = chromedp.Run(tabCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(toNetworkHeaders(opts.Headers)),
		chromedp.Navigate(opts.URL),
		chromedp.WaitReady(selector, chromedp.ByQuery),
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, engine.NewEngineError(engine.ErrCodeTimeout, "page render timed out", err)
		}
		return nil, engine.NewEngineError(engine.ErrCodeBrowserCrash, "chromedp execution failed", err)
	}

	mu.Lock()
	code := int(status)
	mu.Unlock()

	if code >= 400 {
		return nil, engine.StatusError(code)
	}

	page := &models.Page{
		URL:          opts.URL,
		FinalURL:     finalURL,
		StatusCode:   code,
		HTML:         html,
		Headers:      headers,
		Renderer:     f.Name(),
		FetchedAt:    time.Now(),
		ResponseTime: time.Since(start).Milliseconds(),
	}

	log.Debug().
		Str("url", opts.URL).
		Int("status", code).
		Int64("response_time_ms", page.ResponseTime).
		Msg("Fetch completed")

	return page, nil
}

func toNetworkHeaders(h map[string]string) network.Headers {
	out := make(network.Headers, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}
