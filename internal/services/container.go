// Package services provides dependency injection container for application services.
package services

import (
	"time"

	"github.com/amaumene/animesearch/internal/cache"
	"github.com/amaumene/animesearch/internal/config"
	"github.com/amaumene/animesearch/internal/database"
	"github.com/amaumene/animesearch/internal/metrics"
	"github.com/amaumene/animesearch/pkg/httputil"
	"github.com/amaumene/animesearch/pkg/logger"
	"github.com/amaumene/animesearch/pkg/ratelimiter"
	"github.com/amaumene/animesearch/pkg/torrentsearch"
	"github.com/amaumene/animesearch/pkg/torrentsearch/providers"
)

// Container holds all application services for dependency injection.
type Container struct {
	Config        *config.Config
	Logger        logger.Logger
	FeedCache     *cache.LRUCache[string]
	Limiter       ratelimiter.RateLimiter
	Fetcher       *httputil.Fetcher
	TorrentSearch *torrentsearch.TorrentSearch
	Metrics       *metrics.Metrics
	DB            database.Database // nil when probe history is not kept
	clock         torrentsearch.Clock
}

// NewContainer wires the search stack from cfg. The provider chain is
// SubsPlease first, with Nyaa as both its uploader fallback and the next
// link in the chain.
func NewContainer(cfg *config.Config, log logger.Logger, db database.Database) *Container {
	m := metrics.New()
	feedCache := cache.New[string](cfg.FeedCacheSize, cfg.FeedCacheTTL)
	limiter := ratelimiter.NewTokenBucket(int64(cfg.RateBurst), int64(cfg.RateLimit))

	fetcher := httputil.NewFetcher(httputil.FetcherOptions{
		Client:   httputil.NewHTTPClient(cfg.HTTPTimeout),
		Limiter:  limiter,
		Cache:    feedCache,
		Retries:  uint(cfg.HTTPRetries),
		Observer: m.ObserveFetch,
	})

	clock := providers.SystemClock{}
	nyaa := providers.NewNyaaProvider(fetcher, cfg.NyaaURL, log)
	subsplease := providers.NewSubsPleaseProvider(fetcher, providers.SubsPleaseOptions{
		BaseURL:     cfg.SubsPleaseURL,
		Resolutions: cfg.Qualities(),
		Concurrency: cfg.FetchConcurrency,
		Uploader:    cfg.TrustedUploader,
		Fallback:    nyaa,
		Clock:       clock,
		Logger:      log,
	})

	search := torrentsearch.New(torrentsearch.Options{
		MergeMode:     torrentsearch.MergeMode(cfg.MergeMode),
		Rank:          cfg.Rank,
		MinConfidence: cfg.MinConfidence,
		Logger:        log,
		Observer:      m,
	})
	search.RegisterProvider(subsplease)
	search.RegisterProvider(nyaa)

	return &Container{
		Config:        cfg,
		Logger:        log,
		FeedCache:     feedCache,
		Limiter:       limiter,
		Fetcher:       fetcher,
		TorrentSearch: search,
		Metrics:       m,
		DB:            db,
		clock:         clock,
	}
}

// Close releases resources held by the container.
func (c *Container) Close() error {
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}

func (c *Container) now() time.Time {
	if c.clock == nil {
		return time.Now()
	}
	return c.clock.Now()
}
