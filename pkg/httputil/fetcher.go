package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go"
	"github.com/pkg/errors"

	"github.com/amaumene/animesearch/pkg/ratelimiter"
	searcherr "github.com/amaumene/animesearch/pkg/torrentsearch/errors"
)

const (
	defaultRetries    = 2
	defaultRetryDelay = 500 * time.Millisecond
	maxBodyBytes      = 8 << 20 // 8 MiB, feeds are far smaller
	defaultUserAgent  = "animesearch/1.0"
)

// Fetch outcomes reported to the observer.
const (
	OutcomeOK     = "ok"
	OutcomeCached = "cached"
	OutcomeStatus = "status"
	OutcomeError  = "error"
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned status %d", e.URL, e.StatusCode)
}

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// TextCache stores response bodies keyed by URL.
type TextCache interface {
	Get(key string) (string, bool)
	Set(key string, value string)
}

// FetchObserver is told about every fetch with the target host, an Outcome*
// constant and how long the fetch took.
type FetchObserver func(host, outcome string, elapsed time.Duration)

// FetcherOptions configures a Fetcher. Only Client is required.
type FetcherOptions struct {
	Client     *http.Client
	Limiter    ratelimiter.RateLimiter
	Cache      TextCache
	Retries    uint // attempts per fetch; 1 disables retries, 0 takes the default
	RetryDelay time.Duration
	UserAgent  string
	Observer   FetchObserver
}

// Fetcher retrieves feed and page text for the search providers.
type Fetcher struct {
	client     *http.Client
	limiter    ratelimiter.RateLimiter
	cache      TextCache
	retries    uint
	retryDelay time.Duration
	userAgent  string
	observe    FetchObserver
}

// NewFetcher creates a Fetcher from opts, filling in defaults.
func NewFetcher(opts FetcherOptions) *Fetcher {
	f := &Fetcher{
		client:     opts.Client,
		limiter:    opts.Limiter,
		cache:      opts.Cache,
		retries:    opts.Retries,
		retryDelay: opts.RetryDelay,
		userAgent:  opts.UserAgent,
		observe:    opts.Observer,
	}
	if f.client == nil {
		f.client = NewDefaultHTTPClient()
	}
	if f.retries == 0 {
		f.retries = defaultRetries
	}
	if f.retryDelay <= 0 {
		f.retryDelay = defaultRetryDelay
	}
	if f.userAgent == "" {
		f.userAgent = defaultUserAgent
	}
	if f.observe == nil {
		f.observe = func(string, string, time.Duration) {}
	}
	return f
}

// FetchText GETs rawURL and returns the body. Network failures and non-2xx
// responses come back as transport errors; a 2xx with an empty body is not
// an error.
func (f *Fetcher) FetchText(ctx context.Context, rawURL string, headers map[string]string) (string, error) {
	host := hostOf(rawURL)
	start := time.Now()

	if f.cache != nil {
		if body, ok := f.cache.Get(rawURL); ok {
			f.observe(host, OutcomeCached, time.Since(start))
			return body, nil
		}
	}

	var body string
	err := retry.Do(
		func() error {
			var err error
			body, err = f.get(ctx, rawURL, headers)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(f.retries),
		retry.Delay(f.retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			if !retry.IsRecoverable(err) {
				return false
			}
			var se *StatusError
			if errors.As(err, &se) {
				return se.Retryable()
			}
			return ctx.Err() == nil
		}),
	)
	if err != nil {
		outcome := OutcomeError
		var se *StatusError
		if errors.As(err, &se) {
			outcome = OutcomeStatus
		}
		f.observe(host, outcome, time.Since(start))
		return "", searcherr.NewTransportError(fmt.Sprintf("fetch %s", rawURL), err)
	}

	f.observe(host, OutcomeOK, time.Since(start))
	if f.cache != nil {
		f.cache.Set(rawURL, body)
	}
	return body, nil
}

// Probe issues a single GET and reports whether the status was 2xx.
// The body is never read beyond what closing requires.
func (f *Fetcher) Probe(ctx context.Context, rawURL string) (bool, error) {
	resp, err := f.do(ctx, rawURL, nil)
	if err != nil {
		return false, searcherr.NewTransportError(fmt.Sprintf("probe %s", rawURL), err)
	}
	resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string, headers map[string]string) (string, error) {
	resp, err := f.do(ctx, rawURL, headers)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{StatusCode: resp.StatusCode, URL: rawURL}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", errors.Wrap(err, "read body")
	}
	return string(data), nil
}

func (f *Fetcher) do(ctx context.Context, rawURL string, headers map[string]string) (*http.Response, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "rate limiter")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, retry.Unrecoverable(errors.Wrap(err, "build request"))
	}
	req.Header.Set("User-Agent", f.userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", rawURL)
	}
	return resp, nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}
