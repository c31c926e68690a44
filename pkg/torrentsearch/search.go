// Package torrentsearch provides torrent search functionality across multiple providers.
// Providers are tried in registration order and later ones are only asked
// when earlier ones come back empty or fail to fetch.
package torrentsearch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/amaumene/animesearch/pkg/logger"
	"github.com/amaumene/animesearch/pkg/torrentsearch/dedup"
	searcherr "github.com/amaumene/animesearch/pkg/torrentsearch/errors"
	"github.com/amaumene/animesearch/pkg/torrentsearch/models"
	"github.com/amaumene/animesearch/pkg/torrentsearch/providers"
	"github.com/amaumene/animesearch/pkg/torrentsearch/sorter"
)

// TorrentProvider defines the interface for torrent search providers.
type TorrentProvider interface {
	Name() string
	Single(ctx context.Context, req models.SearchRequest) ([]models.Candidate, error)
	Batch(ctx context.Context, req models.SearchRequest) ([]models.Candidate, error)
	Movie(ctx context.Context, req models.SearchRequest) ([]models.Candidate, error)
	Test(ctx context.Context) bool
}

// Transport and Clock are the collaborators providers are built on.
type (
	Transport = providers.Transport
	Clock     = providers.Clock
)

// Kind selects which provider operation a search runs.
type Kind string

const (
	KindSingle Kind = "single"
	KindBatch  Kind = "batch"
	KindMovie  Kind = "movie"
)

// ParseKind accepts single, batch or movie in any case.
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindSingle, KindBatch, KindMovie:
		return k, true
	}
	return "", false
}

// MergeMode decides whether the chain stops at the first provider with results.
type MergeMode string

const (
	MergeFirst MergeMode = "first"
	MergeAll   MergeMode = "all"
)

// Skip reasons reported to the Observer.
const (
	SkipError = "error"
	SkipEmpty = "empty"
)

// Observer is notified about the chain's progress.
type Observer interface {
	ProviderSkipped(provider, reason string)
	ResultsReturned(kind Kind, count int)
}

// Options configures a TorrentSearch.
type Options struct {
	MergeMode     MergeMode // MergeFirst when empty
	Rank          bool      // sort the final list by seeders and title confidence
	MinConfidence float64   // drop titles parsing below this score (0-100); 0 keeps all
	Logger        logger.Logger
	Observer      Observer
}

// TorrentSearch orchestrates search across multiple torrent providers.
type TorrentSearch struct {
	providers []TorrentProvider
	sorter    *sorter.TorrentSorter
	mergeMode MergeMode
	rank      bool
	minConf   float64
	logger    logger.Logger
	observer  Observer
}

// New creates a new TorrentSearch instance with no providers.
func New(opts Options) *TorrentSearch {
	ts := &TorrentSearch{
		sorter:    sorter.NewTorrentSorter(),
		mergeMode: opts.MergeMode,
		rank:      opts.Rank,
		minConf:   opts.MinConfidence,
		logger:    opts.Logger,
		observer:  opts.Observer,
	}
	if ts.mergeMode == "" {
		ts.mergeMode = MergeFirst
	}
	if ts.logger == nil {
		ts.logger = logger.Nop()
	}
	if ts.observer == nil {
		ts.observer = nopObserver{}
	}
	return ts
}

// RegisterProvider appends a provider to the fallback chain.
func (ts *TorrentSearch) RegisterProvider(provider TorrentProvider) {
	ts.providers = append(ts.providers, provider)
}

// Providers returns the registered provider names in priority order.
func (ts *TorrentSearch) Providers() []string {
	names := make([]string, len(ts.providers))
	for i, p := range ts.providers {
		names[i] = p.Name()
	}
	return names
}

// Single searches for individual episodes.
func (ts *TorrentSearch) Single(ctx context.Context, req models.SearchRequest) ([]models.Candidate, error) {
	return ts.Search(ctx, KindSingle, req)
}

// Batch searches for compilation releases.
func (ts *TorrentSearch) Batch(ctx context.Context, req models.SearchRequest) ([]models.Candidate, error) {
	return ts.Search(ctx, KindBatch, req)
}

// Movie searches for films.
func (ts *TorrentSearch) Movie(ctx context.Context, req models.SearchRequest) ([]models.Candidate, error) {
	return ts.Search(ctx, KindMovie, req)
}

// Search runs kind across the providers in order. A request error stops the
// chain at once; a failed or empty provider hands over to the next one.
// The returned slice is never nil.
func (ts *TorrentSearch) Search(ctx context.Context, kind Kind, req models.SearchRequest) ([]models.Candidate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, ok := ParseKind(string(kind)); !ok {
		return nil, searcherr.NewRequestError(fmt.Sprintf("unknown search kind %q", kind), nil)
	}

	seen := dedup.NewSet()
	results := []models.Candidate{}

	for _, p := range ts.providers {
		cands, err := ts.run(ctx, p, kind, req)
		if err != nil {
			if searcherr.IsRequestError(err) {
				return nil, err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			ts.logger.Warnf("[SEARCH] %s %s failed, trying next provider: %v", p.Name(), kind, err)
			ts.observer.ProviderSkipped(p.Name(), SkipError)
			continue
		}

		cands = seen.Filter(cands)
		if len(cands) == 0 {
			ts.logger.Debugf("[SEARCH] %s %s returned nothing for %q", p.Name(), kind, req.PrimaryTitle())
			ts.observer.ProviderSkipped(p.Name(), SkipEmpty)
			continue
		}

		ts.logger.Infof("[SEARCH] %s %s returned %d results for %q", p.Name(), kind, len(cands), req.PrimaryTitle())
		results = append(results, cands...)
		if ts.mergeMode == MergeFirst {
			break
		}
	}

	if ts.rank {
		results = ts.sorter.Rank(results)
	}
	if ts.minConf > 0 {
		before := len(results)
		results = ts.sorter.FilterByMinConfidence(results, ts.minConf)
		if dropped := before - len(results); dropped > 0 {
			ts.logger.Debugf("[SEARCH] dropped %d results below %.0f%% confidence", dropped, ts.minConf)
		}
	}
	ts.observer.ResultsReturned(kind, len(results))
	return results, nil
}

func (ts *TorrentSearch) run(ctx context.Context, p TorrentProvider, kind Kind, req models.SearchRequest) ([]models.Candidate, error) {
	switch kind {
	case KindBatch:
		return p.Batch(ctx, req)
	case KindMovie:
		return p.Movie(ctx, req)
	default:
		return p.Single(ctx, req)
	}
}

// Test probes every provider concurrently and reports reachability by name.
func (ts *TorrentSearch) Test(ctx context.Context) map[string]bool {
	status := make(map[string]bool, len(ts.providers))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, p := range ts.providers {
		wg.Add(1)
		go func(p TorrentProvider) {
			defer wg.Done()
			ok := p.Test(ctx)

			mu.Lock()
			defer mu.Unlock()
			status[p.Name()] = ok
		}(p)
	}

	wg.Wait()
	return status
}

// DebugInfo returns one line per candidate describing how it ranks.
func (ts *TorrentSearch) DebugInfo(cands []models.Candidate) []string {
	return ts.sorter.DebugInfo(cands)
}

type nopObserver struct{}

func (nopObserver) ProviderSkipped(string, string) {}

func (nopObserver) ResultsReturned(Kind, int) {}
