package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel             = "error"
	DefaultJSONLog              = false
	DefaultUserAgent            = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	DefaultHTTPTimeout          = 30 * time.Second
	DefaultSerpAPIBaseURL       = "https://serpapi.com"
	DefaultSearchRateLimitRPS   = 2.0
	DefaultSearchRateLimitBurst = 4
	DefaultPageRateLimitRPS     = 1.0
	DefaultPageRateLimitBurst   = 2
	DefaultBrowserPoolSize      = 2
	DefaultMaxBrowserPoolSize   = 10
	DefaultBrowserHeadless      = true
	DefaultRenderMode           = "auto"
	DefaultPageStrategy         = true
	DefaultCacheTTL             = 30 * time.Minute
	DefaultCacheSize            = 256
	DefaultPlannerFile          = "content_planner.json"
	DefaultServeAddr            = "127.0.0.1:8080"
	DefaultDownloadConcurrency  = 4
	DefaultDownloadRetries      = 3
	DefaultBatchConcurrency     = 0 // auto
	DefaultRenderedPageTimeout  = 45 * time.Second
	DefaultOutlineParallelism   = 4
)

// DefaultAllowedOrigins are the CORS origins accepted by `affkit serve`.
var DefaultAllowedOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
