// Package config provides configuration management for the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/amaumene/animesearch/internal/constants"
	"github.com/amaumene/animesearch/pkg/logger"
	"github.com/amaumene/animesearch/pkg/security"
	"github.com/amaumene/animesearch/pkg/torrentsearch/models"
	"github.com/amaumene/animesearch/pkg/torrentsearch/providers"
)

const (
	// Default configuration file name, searched in the working directory
	defaultConfigName = "config"
	// Default dotenv file
	defaultEnvFile = ".env"
)

// Config holds the application configuration.
// Values come from defaults, then an optional config file, then the
// environment (a .env file is loaded into the environment first).
type Config struct {
	Port   string
	APIKey string // guards /search when set

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string

	// Indexers
	NyaaURL         string
	SubsPleaseURL   string
	TrustedUploader string
	Resolutions     []string // SubsPlease feeds in priority order

	// Transport
	FetchConcurrency int
	HTTPTimeout      time.Duration
	HTTPRetries      int // attempts per fetch, 1 disables retries
	RateLimit        int
	RateBurst        int
	FeedCacheSize    int
	FeedCacheTTL     time.Duration

	// Search chain
	MergeMode     string
	Rank          bool
	MinConfidence float64 // title confidence floor, 0 to 100

	// Storage settings
	DatabasePath string
}

// keys maps each config key to its environment variable.
var keys = map[string]string{
	"port":              "PORT",
	"api_key":           "API_KEY",
	"log_level":         "LOG_LEVEL",
	"log_format":        "LOG_FORMAT",
	"log_file":          "LOG_FILE",
	"nyaa_url":          "NYAA_URL",
	"subsplease_url":    "SUBSPLEASE_URL",
	"trusted_uploader":  "TRUSTED_UPLOADER",
	"resolutions":       "RESOLUTIONS",
	"fetch_concurrency": "FETCH_CONCURRENCY",
	"http_timeout":      "HTTP_TIMEOUT",
	"http_retries":      "HTTP_RETRIES",
	"rate_limit":        "RATE_LIMIT",
	"rate_burst":        "RATE_BURST",
	"feed_cache_size":   "FEED_CACHE_SIZE",
	"feed_cache_ttl":    "FEED_CACHE_TTL",
	"merge_mode":        "MERGE_MODE",
	"rank":              "RANK",
	"min_confidence":    "MIN_CONFIDENCE",
	"database_path":     "DATABASE_PATH",
}

// Load reads configuration from the environment and an optional config file.
// Environment variables take precedence over file values.
// Returns an error if the configuration is invalid.
func Load() (*Config, error) {
	// A missing .env is normal; variables already set are not overridden.
	_ = godotenv.Load(getEnvOrDefault("ENV_FILE", defaultEnvFile))

	v := viper.New()
	setDefaults(v)

	if err := readConfigFile(v, os.Getenv("CONFIG_FILE")); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	for key, env := range keys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	cfg := &Config{
		Port:             v.GetString("port"),
		APIKey:           v.GetString("api_key"),
		LogLevel:         v.GetString("log_level"),
		LogFormat:        v.GetString("log_format"),
		LogFile:          v.GetString("log_file"),
		NyaaURL:          v.GetString("nyaa_url"),
		SubsPleaseURL:    v.GetString("subsplease_url"),
		TrustedUploader:  v.GetString("trusted_uploader"),
		Resolutions:      stringList(v, "resolutions"),
		FetchConcurrency: v.GetInt("fetch_concurrency"),
		HTTPTimeout:      v.GetDuration("http_timeout"),
		HTTPRetries:      v.GetInt("http_retries"),
		RateLimit:        v.GetInt("rate_limit"),
		RateBurst:        v.GetInt("rate_burst"),
		FeedCacheSize:    v.GetInt("feed_cache_size"),
		FeedCacheTTL:     v.GetDuration("feed_cache_ttl"),
		MergeMode:        strings.ToLower(v.GetString("merge_mode")),
		Rank:             v.GetBool("rank"),
		MinConfidence:    v.GetFloat64("min_confidence"),
		DatabasePath:     v.GetString("database_path"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", constants.DefaultPort)
	v.SetDefault("api_key", "")
	v.SetDefault("log_level", constants.DefaultLogLevel)
	v.SetDefault("log_format", constants.DefaultLogFormat)
	v.SetDefault("log_file", "")
	v.SetDefault("nyaa_url", providers.DefaultNyaaURL)
	v.SetDefault("subsplease_url", providers.DefaultSubsPleaseURL)
	v.SetDefault("trusted_uploader", providers.DefaultTrustedUploader)
	v.SetDefault("resolutions", constants.DefaultResolutions)
	v.SetDefault("fetch_concurrency", constants.DefaultFetchConcurrency)
	v.SetDefault("http_timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("http_retries", constants.DefaultHTTPRetries)
	v.SetDefault("rate_limit", constants.DefaultRateLimit)
	v.SetDefault("rate_burst", constants.DefaultRateBurst)
	v.SetDefault("feed_cache_size", constants.DefaultFeedCacheSize)
	v.SetDefault("feed_cache_ttl", time.Duration(constants.DefaultFeedCacheTTL)*time.Minute)
	v.SetDefault("merge_mode", constants.DefaultMergeMode)
	v.SetDefault("rank", false)
	v.SetDefault("min_confidence", 0.0)
	v.SetDefault("database_path", constants.DefaultDatabasePath)
}

// readConfigFile reads path, or config.{json,yaml,toml} from the working
// directory when path is empty. A missing file is not an error.
func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(defaultConfigName)
		v.AddConfigPath(".")
	}

	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Validate checks if the configuration is valid and normalizes list values.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port)
	}

	if c.APIKey != "" && !security.NewAPIKeyValidator().ValidateAPIKey(c.APIKey) {
		return fmt.Errorf("API_KEY must be 8 to 128 letters, digits, '-' or '_'")
	}

	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("unknown LOG_LEVEL %q", c.LogLevel)
	}

	for name, raw := range map[string]string{"NYAA_URL": c.NyaaURL, "SUBSPLEASE_URL": c.SubsPleaseURL} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
		}
	}

	if len(c.Resolutions) == 0 {
		c.Resolutions = constants.DefaultResolutions
	}
	normalized := make([]string, 0, len(c.Resolutions))
	for _, res := range c.Resolutions {
		q := models.ParseQuality(res)
		if q == "" {
			return fmt.Errorf("unsupported resolution %q in RESOLUTIONS", res)
		}
		normalized = append(normalized, string(q))
	}
	c.Resolutions = normalized

	positive := map[string]int{
		"FETCH_CONCURRENCY": c.FetchConcurrency,
		"HTTP_RETRIES":      c.HTTPRetries,
		"RATE_LIMIT":        c.RateLimit,
		"RATE_BURST":        c.RateBurst,
		"FEED_CACHE_SIZE":   c.FeedCacheSize,
	}
	for name, n := range positive {
		if n < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", name, n)
		}
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	if c.FeedCacheTTL <= 0 {
		return fmt.Errorf("FEED_CACHE_TTL must be positive, got %s", c.FeedCacheTTL)
	}

	if c.MinConfidence < 0 || c.MinConfidence > 100 {
		return fmt.Errorf("MIN_CONFIDENCE must be between 0 and 100, got %g", c.MinConfidence)
	}

	switch c.MergeMode {
	case "first", "all":
	default:
		return fmt.Errorf("MERGE_MODE must be first or all, got %q", c.MergeMode)
	}

	return nil
}

// Qualities returns Resolutions as quality values.
func (c *Config) Qualities() []models.Quality {
	qs := make([]models.Quality, 0, len(c.Resolutions))
	for _, res := range c.Resolutions {
		if q := models.ParseQuality(res); q != "" {
			qs = append(qs, q)
		}
	}
	return qs
}

// stringList reads key as a list. Environment values are comma separated.
func stringList(v *viper.Viper, key string) []string {
	if s, ok := v.Get(key).(string); ok {
		return splitList(s)
	}
	return v.GetStringSlice(key)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvOrDefault returns environment variable value or default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
