// internal/engine/static/fetcher.go
package static

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/contentdesk/affkit/internal/engine"
	"github.com/contentdesk/affkit/internal/proxy"
	"github.com/contentdesk/affkit/internal/ratelimit"
	"github.com/contentdesk/affkit/pkg/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"
	"golang.org/x/net/publicsuffix"
)

// DefaultMaxBodyBytes caps how much of a product page is read.
const DefaultMaxBodyBytes = 8 << 20

// Options configures a Fetcher.
type Options struct {
	Client       *http.Client
	Limiter      ratelimit.RateLimiter
	Proxies      *proxy.ProxyPool
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

// Fetcher retrieves pages with plain HTTP requests. Cookies persist across
// fetches so marketplace session cookies are replayed like a browser would.
type Fetcher struct {
	client    *http.Client
	limiter   ratelimit.RateLimiter
	proxies   *proxy.ProxyPool
	timeout   time.Duration
	userAgent string
	maxBody   int64
}

// New creates a static Fetcher.
func New(opts Options) (*Fetcher, error) {
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	if client.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		client.Jar = jar
	}
	if opts.Proxies.Len() > 0 {
		base, ok := client.Transport.(*http.Transport)
		if !ok || base == nil {
			base = http.DefaultTransport.(*http.Transport)
		}
		transport := base.Clone()
		transport.Proxy = opts.Proxies.ProxyFunc()
		client.Transport = transport
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Fetcher{
		client:    client,
		limiter:   opts.Limiter,
		proxies:   opts.Proxies,
		timeout:   opts.Timeout,
		userAgent: opts.UserAgent,
		maxBody:   opts.MaxBodyBytes,
	}, nil
}

// Name returns the name of this fetcher
func (f *Fetcher) Name() string {
	return "static"
}

// Fetch retrieves the page at opts.URL. Non-2xx responses are returned as
// engine.StatusError.
func (f *Fetcher) Fetch(ctx context.Context, opts models.RequestOptions) (*models.Page, error) {
	start := time.Now()

	log.Debug().
		Str("url", opts.URL).
		Str("fetcher", f.Name()).
		Msg("Starting fetch")

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, opts.URL); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = f.timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ctx, choice := proxy.Track(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return nil, engine.NewEngineError(engine.ErrCodeValidation, "failed to create request", errors.Join(engine.ErrInvalidURL, err))
	}
	setBrowserHeaders(req, f.userAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if f.proxies != nil {
			f.proxies.MarkFailed(choice.Proxy())
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, engine.NewEngineError(engine.ErrCodeTimeout, "request timed out", err)
		}
		return nil, engine.NewEngineError(engine.ErrCodeNetworkError, "failed to fetch URL", err)
	}
	defer resp.Body.Close()

	if f.proxies != nil {
		f.proxies.MarkHealthy(choice.Proxy())
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		log.Debug().Str("url", opts.URL).Int("status", resp.StatusCode).Msg("Non-2xx response")
		return nil, engine.StatusError(resp.StatusCode)
	}

	body, err := f.readBody(resp)
	if err != nil {
		return nil, err
	}

	page := &models.Page{
		URL:          opts.URL,
		FinalURL:     resp.Request.URL.String(),
		StatusCode:   resp.StatusCode,
		HTML:         body,
		Headers:      make(map[string]string),
		Renderer:     f.Name(),
		FetchedAt:    time.Now(),
		ResponseTime: time.Since(start).Milliseconds(),
	}
	for key, values := range resp.Header {
		if len(values) > 0 {
			page.Headers[key] = values[0]
		}
	}

	log.Debug().
		Str("url", opts.URL).
		Int("status", resp.StatusCode).
		Int64("response_time_ms", page.ResponseTime).
		Int("bytes", len(body)).
		Msg("Fetch completed")

	return page, nil
}

// readBody decodes the body to UTF-8 using the declared or sniffed charset.
func (f *Fetcher) readBody(resp *http.Response) (string, error) {
	limited := io.LimitReader(resp.Body, f.maxBody+1)
	reader, err := charset.NewReader(limited, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", engine.NewEngineError(engine.ErrCodeParseError, "failed to decode body", err)
	}
	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", engine.NewEngineError(engine.ErrCodeNetworkError, "failed to read body", err)
	}
	if int64(len(raw)) > f.maxBody {
		return "", engine.NewEngineError(engine.ErrCodeParseError, "page too large", engine.ErrBodyTooLarge)
	}
	return string(raw), nil
}

func setBrowserHeaders(req *http.Request, ua string) {
	if ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}
