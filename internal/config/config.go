package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. AFFKIT_PROXY.
const EnvPrefix = "AFFKIT"

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string `mapstructure:"log_level"`
	JSONLog  bool   `mapstructure:"json"`

	// HTTP
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
	Proxy       string        `mapstructure:"proxy"`

	// Search API
	SerpAPIBaseURL string `mapstructure:"serpapi_base_url"`
	SerpAPIKey     string `mapstructure:"serpapi_key"`

	// Rate Limiting
	SearchRateLimitRPS   float64 `mapstructure:"search_rate"`
	SearchRateLimitBurst int     `mapstructure:"search_burst"`
	PageRateLimitRPS     float64 `mapstructure:"page_rate"`
	PageRateLimitBurst   int     `mapstructure:"page_burst"`

	// Page fetching
	RenderMode      string `mapstructure:"render_mode"`
	PageStrategy    bool   `mapstructure:"page_strategy"`
	BrowserPoolSize int    `mapstructure:"browser_pool_size"`
	BrowserHeadless bool   `mapstructure:"browser_headless"`
	ChromePath      string `mapstructure:"chrome_path"`

	// Caching
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	CacheSize int           `mapstructure:"cache_size"`

	// Outputs and workers
	PlannerFile         string `mapstructure:"planner_file"`
	MetricsFile         string `mapstructure:"metrics_file"`
	BatchConcurrency    int    `mapstructure:"batch_concurrency"`
	DownloadConcurrency int    `mapstructure:"download_concurrency"`
	DownloadRetries     int    `mapstructure:"download_retries"`

	// Serve
	ServeAddr      string   `mapstructure:"serve_addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// ConfigFile is the file that was read, if any.
	ConfigFile string `mapstructure:"-"`
}

// flagKeys maps config keys to the persistent flags that override them.
var flagKeys = map[string]string{
	"json":         "json",
	"http_timeout": "timeout",
	"user_agent":   "user-agent",
	"proxy":        "proxy",
	"serpapi_key":  "api-key",
	"render_mode":  "render",
	"metrics_file": "metrics-file",
	"planner_file": "planner-file",
}

// Load builds a Config by combining defaults, an optional config file,
// environment variables, and CLI flags, in increasing precedence.
// Caller should pass the executing *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// the search API's own variable name is honored too
	if err := v.BindEnv("serpapi_key", EnvPrefix+"_SERPAPI_KEY", "SERPAPI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	configFile := ""
	if cmd != nil {
		if f := cmd.Flags().Lookup("config"); f != nil {
			configFile = f.Value.String()
		}
		for key, name := range flagKeys {
			if f := cmd.Flags().Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("affkit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".affkit"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	if cmd != nil {
		if verbose, err := cmd.Flags().GetBool("verbose"); err == nil && verbose {
			cfg.LogLevel = "debug"
		}
		if quiet, err := cmd.Flags().GetBool("quiet"); err == nil && quiet {
			cfg.LogLevel = "error"
		}
		if noPage, err := cmd.Flags().GetBool("no-page"); err == nil && noPage {
			cfg.PageStrategy = false
		}
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.RenderMode = strings.ToLower(strings.TrimSpace(cfg.RenderMode))
	cfg.SerpAPIKey = strings.TrimSpace(cfg.SerpAPIKey)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("json", DefaultJSONLog)
	v.SetDefault("http_timeout", DefaultHTTPTimeout)
	v.SetDefault("user_agent", DefaultUserAgent)
	v.SetDefault("proxy", "")
	v.SetDefault("serpapi_base_url", DefaultSerpAPIBaseURL)
	v.SetDefault("serpapi_key", "")
	v.SetDefault("search_rate", DefaultSearchRateLimitRPS)
	v.SetDefault("search_burst", DefaultSearchRateLimitBurst)
	v.SetDefault("page_rate", DefaultPageRateLimitRPS)
	v.SetDefault("page_burst", DefaultPageRateLimitBurst)
	v.SetDefault("render_mode", DefaultRenderMode)
	v.SetDefault("page_strategy", DefaultPageStrategy)
	v.SetDefault("browser_pool_size", DefaultBrowserPoolSize)
	v.SetDefault("browser_headless", DefaultBrowserHeadless)
	v.SetDefault("chrome_path", "")
	v.SetDefault("cache_ttl", DefaultCacheTTL)
	v.SetDefault("cache_size", DefaultCacheSize)
	v.SetDefault("planner_file", DefaultPlannerFile)
	v.SetDefault("metrics_file", "")
	v.SetDefault("batch_concurrency", DefaultBatchConcurrency)
	v.SetDefault("download_concurrency", DefaultDownloadConcurrency)
	v.SetDefault("download_retries", DefaultDownloadRetries)
	v.SetDefault("serve_addr", DefaultServeAddr)
	v.SetDefault("allowed_origins", DefaultAllowedOrigins)
}
