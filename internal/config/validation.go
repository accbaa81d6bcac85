package config

import "fmt"

func validate(c *Config) error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be > 0")
	}
	if c.SearchRateLimitRPS <= 0 || c.SearchRateLimitBurst <= 0 {
		return fmt.Errorf("search rate limit and burst must be > 0")
	}
	if c.PageRateLimitRPS <= 0 || c.PageRateLimitBurst <= 0 {
		return fmt.Errorf("page rate limit and burst must be > 0")
	}
	switch c.RenderMode {
	case "auto", "static", "browser":
	default:
		return fmt.Errorf("render mode must be auto, static or browser, got %q", c.RenderMode)
	}
	if c.BrowserPoolSize <= 0 || c.BrowserPoolSize > DefaultMaxBrowserPoolSize {
		return fmt.Errorf("browser pool size must be between 1 and %d", DefaultMaxBrowserPoolSize)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache ttl must be > 0")
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("cache size must be > 0")
	}
	if c.BatchConcurrency < 0 || c.DownloadConcurrency <= 0 || c.DownloadRetries < 0 {
		return fmt.Errorf("worker counts must not be negative")
	}
	if c.SerpAPIBaseURL == "" {
		return fmt.Errorf("serpapi base url is required")
	}
	if c.ServeAddr == "" {
		return fmt.Errorf("serve address is required")
	}
	return nil
}
