// Package providers contains torrent search provider implementations.
package providers

import (
	"context"

	"github.com/amaumene/animesearch/pkg/logger"
	"github.com/amaumene/animesearch/pkg/torrentsearch/dedup"
	searcherr "github.com/amaumene/animesearch/pkg/torrentsearch/errors"
	"github.com/amaumene/animesearch/pkg/torrentsearch/feed"
	"github.com/amaumene/animesearch/pkg/torrentsearch/filter"
	"github.com/amaumene/animesearch/pkg/torrentsearch/models"
	"github.com/amaumene/animesearch/pkg/torrentsearch/query"
)

var nyaaSchema = feed.Schema{
	Magnet:         []string{"torrent:magnetURI"},
	Size:           []string{"torrent:contentLength"},
	Seeds:          []string{"torrent:seeds", "nyaa:seeders"},
	Peers:          []string{"torrent:peers", "nyaa:leechers"},
	Downloads:      []string{"nyaa:downloads"},
	InfoHash:       []string{"nyaa:infoHash"},
	EmbeddedMagnet: []string{"description", "content:encoded"},
}

// NyaaProvider searches the Nyaa RSS feed.
type NyaaProvider struct {
	baseURL   string
	transport Transport
	logger    logger.Logger
}

// NewNyaaProvider creates a Nyaa provider. An empty baseURL selects
// DefaultNyaaURL; a nil log discards output.
func NewNyaaProvider(transport Transport, baseURL string, log logger.Logger) *NyaaProvider {
	if baseURL == "" {
		baseURL = DefaultNyaaURL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &NyaaProvider{
		baseURL:   baseURL,
		transport: transport,
		logger:    log,
	}
}

func (n *NyaaProvider) Name() string { return ProviderNyaa }

// Single searches for individual episodes.
func (n *NyaaProvider) Single(ctx context.Context, req models.SearchRequest) ([]models.Candidate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return n.search(ctx, req, req.PrimaryTitle())
}

// Batch searches with the batch term appended and tags every result as a batch.
func (n *NyaaProvider) Batch(ctx context.Context, req models.SearchRequest) ([]models.Candidate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	cands, err := n.search(ctx, req, query.BatchTitle(req.PrimaryTitle()))
	if err != nil {
		return nil, err
	}
	return models.WithType(cands, models.TypeBatch), nil
}

// Movie behaves like Single; Nyaa makes no movie/series distinction.
func (n *NyaaProvider) Movie(ctx context.Context, req models.SearchRequest) ([]models.Candidate, error) {
	return n.Single(ctx, req)
}

// Test reports whether the feed answers with a 2xx status.
func (n *NyaaProvider) Test(ctx context.Context) bool {
	ok, err := n.transport.Probe(ctx, n.baseURL)
	if err != nil {
		n.logger.Warnf("[NYAA] probe failed: %v", err)
		return false
	}
	return ok
}

func (n *NyaaProvider) search(ctx context.Context, req models.SearchRequest, title string) ([]models.Candidate, error) {
	apiURL := n.buildAPIURL(req, title)
	n.logger.Debugf("[NYAA] fetching %s", apiURL)

	text, err := n.transport.FetchText(ctx, apiURL, rssHeaders)
	if err != nil {
		return nil, searcherr.NewTransportError("failed to search Nyaa", err)
	}

	cands := toCandidates(feed.Parse(text, nyaaSchema), models.AccuracyMedium)
	cands = filter.Apply(cands, filter.Options{
		Resolution: req.Resolution,
		Exclusions: req.Exclusions,
	})
	cands = dedup.Candidates(cands)

	n.logger.Debugf("[NYAA] %d results for %q", len(cands), title)
	return cands, nil
}

// buildAPIURL constructs the feed URL with the assembled search terms.
func (n *NyaaProvider) buildAPIURL(req models.SearchRequest, title string) string {
	return query.Build(n.baseURL,
		query.Param{Key: "f", Value: "0"},
		query.Param{Key: "q", Value: query.Terms(title, req.Resolution, req.Exclusions)},
		query.Param{Key: "u", Value: req.Uploader},
	)
}
