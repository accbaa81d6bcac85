// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/contentdesk/affkit/internal/cache"
	"github.com/contentdesk/affkit/internal/config"
	"github.com/contentdesk/affkit/internal/credentials"
	"github.com/contentdesk/affkit/internal/downloader"
	"github.com/contentdesk/affkit/internal/engine"
	"github.com/contentdesk/affkit/internal/engine/dynamic"
	"github.com/contentdesk/affkit/internal/engine/hybrid"
	"github.com/contentdesk/affkit/internal/engine/static"
	"github.com/contentdesk/affkit/internal/metrics"
	"github.com/contentdesk/affkit/internal/planner"
	"github.com/contentdesk/affkit/internal/product"
	"github.com/contentdesk/affkit/internal/proxy"
	"github.com/contentdesk/affkit/internal/ratelimit"
	"github.com/contentdesk/affkit/internal/seo"
	"github.com/contentdesk/affkit/internal/serpapi"
	"github.com/contentdesk/affkit/internal/snippet"
	"github.com/contentdesk/affkit/pkg/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrNoAPIKey is returned when no search API key is configured or stored.
var ErrNoAPIKey = errors.New("no SerpApi key: pass --api-key, set SERPAPI_API_KEY or run `affkit key set`")

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once at startup and shared across all CLI commands and the
// HTTP API. Use Close() to ensure proper resource cleanup on shutdown.
type Application struct {
	Config      *config.Config
	Logger      *zerolog.Logger
	HTTPClient  *http.Client
	Metrics     *metrics.Metrics
	Search      *serpapi.Client
	SearchCache *cache.SearchCache
	Proxies     *proxy.ProxyPool
	PageFetcher engine.Fetcher
	Resolver    *product.Resolver
	Researcher  *seo.Researcher
	Outliner    *seo.Outliner
	Snippets    *snippet.Renderer
	Credentials *credentials.Store

	BrowserPool *dynamic.BrowserPool
	poolMu      sync.Mutex

	plannerOnce sync.Once
	planner     *planner.Store

	startTime time.Time
}

// New creates and initializes a new Application with all dependencies.
//
// It performs the following initialization steps:
//   - Configures logging based on the provided config
//   - Creates the per-host rate limiters for the search API and product pages
//   - Creates the search client and the research cache
//   - Creates the static, rendering and hybrid page fetchers
//   - Assembles the product resolver with its metrics observer
//
// The browser pool is not started here; it is created on first use.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logLevel := zerolog.ErrorLevel
	switch cfg.LogLevel {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	var logWriter io.Writer
	if cfg.JSONLog {
		logWriter = os.Stderr
	} else {
		logWriter = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	logger := zerolog.New(logWriter).With().Timestamp().Logger()
	log.Logger = logger

	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Str("config_file", cfg.ConfigFile).
		Msg("Logger initialized")

	m := metrics.New()

	searchLimiter := ratelimit.NewDomainLimiter(cfg.SearchRateLimitRPS, cfg.SearchRateLimitBurst)
	pageLimiter := ratelimit.NewDomainLimiter(cfg.PageRateLimitRPS, cfg.PageRateLimitBurst)
	logger.Debug().
		Float64("search_rps", cfg.SearchRateLimitRPS).
		Float64("page_rps", cfg.PageRateLimitRPS).
		Msg("Rate limiters initialized")

	search := serpapi.NewClient(serpapi.Options{
		BaseURL:   cfg.SerpAPIBaseURL,
		Timeout:   cfg.HTTPTimeout,
		UserAgent: "affkit",
		Limiter:   searchLimiter,
	})
	searchCache := cache.New(search, cfg.CacheSize, cfg.CacheTTL)
	m.RegisterCacheStats(func() (uint64, uint64) {
		s := searchCache.Stats()
		return s.Hits, s.Misses
	})

	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	proxies := proxy.NewProxyPool(proxy.ParseList(cfg.Proxy))
	staticFetcher, err := static.New(static.Options{
		Client:    httpClient,
		Limiter:   pageLimiter,
		Proxies:   proxies,
		Timeout:   cfg.HTTPTimeout,
		UserAgent: cfg.UserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create page fetcher: %w", err)
	}

	creds, err := credentials.NewStore("")
	if err != nil {
		return nil, err
	}

	a := &Application{
		Config:      cfg,
		Logger:      &logger,
		HTTPClient:  httpClient,
		Metrics:     m,
		Search:      search,
		SearchCache: searchCache,
		Proxies:     proxies,
		Researcher:  seo.NewResearcher(searchCache),
		Outliner: seo.NewOutliner(seo.OutlinerOptions{
			UserAgent:   cfg.UserAgent,
			Parallelism: config.DefaultOutlineParallelism,
			Timeout:     cfg.HTTPTimeout,
		}),
		Snippets:    snippet.NewRenderer(),
		Credentials: creds,
		startTime:   time.Now(),
	}

	rendered := dynamic.New(a.browserPool, pageLimiter, config.DefaultRenderedPageTimeout)
	pageFetcher, err := hybrid.New(models.RenderMode(cfg.RenderMode), staticFetcher, rendered)
	if err != nil {
		return nil, fmt.Errorf("failed to create page fetcher: %w", err)
	}
	a.PageFetcher = pageFetcher

	a.Resolver = a.newResolver(nil)

	logger.Debug().
		Str("render_mode", cfg.RenderMode).
		Bool("page_strategy", cfg.PageStrategy).
		Int("proxies", proxies.Len()).
		Msg("Application initialized")
	return a, nil
}

// browserPool lazily creates the browser pool on first use.
func (a *Application) browserPool() (*dynamic.BrowserPool, error) {
	a.poolMu.Lock()
	defer a.poolMu.Unlock()

	if a.BrowserPool != nil {
		return a.BrowserPool, nil
	}

	a.Logger.Debug().Msg("Initializing browser pool on demand")
	pool, err := dynamic.NewBrowserPool(dynamic.PoolOptions{
		Size:       a.Config.BrowserPoolSize,
		Headless:   a.Config.BrowserHeadless,
		UserAgent:  a.Config.UserAgent,
		Proxy:      a.Proxies.GetNext(),
		ChromePath: a.Config.ChromePath,
	})
	if err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to create browser pool on demand")
		return nil, err
	}

	a.BrowserPool = pool
	a.Logger.Debug().Int("pool_size", pool.Size()).Msg("Browser pool initialized on demand")
	return pool, nil
}

func (a *Application) newResolver(pageHeaders map[string]string) *product.Resolver {
	var page *product.PageParse
	if a.Config.PageStrategy {
		page = product.NewPageParse(a.PageFetcher, pageHeaders)
	}
	return product.NewResolver(
		product.DefaultStrategies(a.Search, page),
		product.WithObserver(a.Metrics),
	)
}

// UsePageHeaders rebuilds the resolver so direct page fetches send headers.
// It must be called before any resolution starts.
func (a *Application) UsePageHeaders(headers map[string]string) {
	a.Resolver = a.newResolver(headers)
}

// APIKey picks the search API key: override first, then configuration,
// then the stored key.
func (a *Application) APIKey(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if a.Config.SerpAPIKey != "" {
		return a.Config.SerpAPIKey, nil
	}
	key, err := a.Credentials.Load(credentials.SerpAPIAccount)
	if errors.Is(err, credentials.ErrNotFound) {
		return "", ErrNoAPIKey
	}
	if err != nil {
		return "", err
	}
	return key, nil
}

// ResolveProduct resolves one product URL and counts the outcome.
func (a *Application) ResolveProduct(ctx context.Context, req product.Request) (*product.Record, product.Diagnostics, error) {
	rec, diags, err := a.Resolver.Resolve(ctx, req)
	a.Metrics.ObserveResolution(resolutionResult(err))
	return rec, diags, err
}

func resolutionResult(err error) string {
	switch {
	case err == nil:
		return "resolved"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, product.ErrAllStrategiesExhausted):
		return "exhausted"
	}
	return "unidentifiable"
}

// Planner opens the content plan on first use.
func (a *Application) Planner() *planner.Store {
	a.plannerOnce.Do(func() {
		a.planner = planner.Open(a.Config.PlannerFile)
	})
	return a.planner
}

// Downloads returns a worker pool for image downloads. A non-positive
// concurrency uses the configured value.
func (a *Application) Downloads(concurrency int) *downloader.WorkerPool {
	if concurrency <= 0 {
		concurrency = a.Config.DownloadConcurrency
	}
	d := downloader.NewDownloader(downloader.Options{
		Timeout:   a.Config.HTTPTimeout,
		UserAgent: a.Config.UserAgent,
		Retries:   a.Config.DownloadRetries,
	})
	return downloader.NewWorkerPool(concurrency, d)
}

// Close gracefully shuts down the application and all its resources.
//
// It closes the browser pool, drops idle connections and writes the metrics
// textfile when one is configured. Errors are logged and the first one is
// returned.
func (a *Application) Close(ctx context.Context) error {
	var firstErr error

	a.poolMu.Lock()
	if a.BrowserPool != nil {
		if err := a.BrowserPool.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Error closing browser pool")
			firstErr = err
		}
		a.BrowserPool = nil
	}
	a.poolMu.Unlock()

	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}
	a.Search.HTTPClient().CloseIdleConnections()

	if err := a.Metrics.WriteTextfile(a.Config.MetricsFile); err != nil {
		a.Logger.Warn().Err(err).Msg("Error writing metrics")
		if firstErr == nil {
			firstErr = err
		}
	}

	a.Logger.Debug().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")
	return firstErr
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
