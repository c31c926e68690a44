package providers

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/amaumene/animesearch/pkg/logger"
	"github.com/amaumene/animesearch/pkg/torrentsearch/dedup"
	searcherr "github.com/amaumene/animesearch/pkg/torrentsearch/errors"
	"github.com/amaumene/animesearch/pkg/torrentsearch/feed"
	"github.com/amaumene/animesearch/pkg/torrentsearch/filter"
	"github.com/amaumene/animesearch/pkg/torrentsearch/models"
	"github.com/amaumene/animesearch/pkg/torrentsearch/query"
)

const defaultFetchConcurrency = 2

var defaultResolutions = []models.Quality{models.Quality1080, models.Quality720}

// The SubsPlease feed is plain RSS; the magnet may sit in link or guid.
var subsPleaseSchema = feed.Schema{
	Magnet:         []string{"magnet"},
	EmbeddedMagnet: []string{"description"},
}

// FallbackSearcher is the generic indexer queried when the native feed
// has nothing. NyaaProvider implements it.
type FallbackSearcher interface {
	Single(ctx context.Context, req models.SearchRequest) ([]models.Candidate, error)
	Batch(ctx context.Context, req models.SearchRequest) ([]models.Candidate, error)
}

// SubsPleaseOptions configures a SubsPleaseProvider. Zero values take defaults.
type SubsPleaseOptions struct {
	BaseURL     string
	Resolutions []models.Quality // priority order when the request names none
	Concurrency int              // parallel resolution fetches
	Uploader    string           // trusted uploader passed to the fallback
	Fallback    FallbackSearcher // nil disables the secondary round
	Clock       Clock
	Logger      logger.Logger
}

// SubsPleaseProvider searches the SubsPlease release feeds and falls back to
// a generic indexer filtered to the SubsPlease uploader.
type SubsPleaseProvider struct {
	baseURL     string
	transport   Transport
	resolutions []models.Quality
	concurrency int
	uploader    string
	fallback    FallbackSearcher
	clock       Clock
	logger      logger.Logger
}

// NewSubsPleaseProvider creates a SubsPlease provider.
func NewSubsPleaseProvider(transport Transport, opts SubsPleaseOptions) *SubsPleaseProvider {
	s := &SubsPleaseProvider{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		transport:   transport,
		resolutions: opts.Resolutions,
		concurrency: opts.Concurrency,
		uploader:    opts.Uploader,
		fallback:    opts.Fallback,
		clock:       opts.Clock,
		logger:      opts.Logger,
	}
	if s.baseURL == "" {
		s.baseURL = DefaultSubsPleaseURL
	}
	if len(s.resolutions) == 0 {
		s.resolutions = defaultResolutions
	}
	if s.concurrency <= 0 {
		s.concurrency = defaultFetchConcurrency
	}
	if s.uploader == "" {
		s.uploader = DefaultTrustedUploader
	}
	if s.clock == nil {
		s.clock = SystemClock{}
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	return s
}

func (s *SubsPleaseProvider) Name() string { return ProviderSubsPlease }

// Single returns native feed matches with batch releases excluded when the
// episode count calls for it. When the native feed has nothing, the
// fallback indexer's results are returned tagged as alternates.
func (s *SubsPleaseProvider) Single(ctx context.Context, req models.SearchRequest) ([]models.Candidate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	native, err := s.native(ctx, req)
	if err != nil {
		return nil, err
	}
	if native = filter.ExcludeBatches(native, req.EpisodeCount); len(native) > 0 {
		return native, nil
	}

	if s.fallback == nil {
		return native, nil
	}
	cands, err := s.fallback.Single(ctx, s.fallbackRequest(req))
	if err != nil {
		return s.fallbackFailed(ctx, err)
	}
	cands = filter.ExcludeBatches(cands, req.EpisodeCount)
	return models.WithType(cands, models.TypeAlt), nil
}

// Batch runs the native rounds without the batch exclusion and falls back
// to the generic indexer's batch search.
func (s *SubsPleaseProvider) Batch(ctx context.Context, req models.SearchRequest) ([]models.Candidate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	native, err := s.native(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(native) > 0 || s.fallback == nil {
		return native, nil
	}

	cands, err := s.fallback.Batch(ctx, s.fallbackRequest(req))
	if err != nil {
		return s.fallbackFailed(ctx, err)
	}
	return models.WithType(cands, models.TypeBatch), nil
}

// fallbackFailed turns a failed fallback round into an empty result.
// Request errors and cancellation are passed through.
func (s *SubsPleaseProvider) fallbackFailed(ctx context.Context, err error) ([]models.Candidate, error) {
	if searcherr.IsRequestError(err) {
		return nil, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	s.logger.Warnf("[SUBSPLEASE] fallback search failed: %v", err)
	return []models.Candidate{}, nil
}

// Movie behaves like Single.
func (s *SubsPleaseProvider) Movie(ctx context.Context, req models.SearchRequest) ([]models.Candidate, error) {
	return s.Single(ctx, req)
}

// Test probes the site root.
func (s *SubsPleaseProvider) Test(ctx context.Context) bool {
	ok, err := s.transport.Probe(ctx, s.baseURL)
	if err != nil {
		s.logger.Warnf("[SUBSPLEASE] probe failed: %v", err)
		return false
	}
	return ok
}

// native fetches one feed per resolution and merges them in resolution
// priority order. A failed fetch only loses that resolution; the only
// error returned is the context's.
func (s *SubsPleaseProvider) native(ctx context.Context, req models.SearchRequest) ([]models.Candidate, error) {
	resolutions := s.resolutionsFor(req)
	titles := req.MatchTitles()
	rounds := make([][]models.Candidate, len(resolutions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, res := range resolutions {
		g.Go(func() error {
			cands, err := s.fetchRound(gctx, res, titles, req.Exclusions)
			if err != nil {
				s.logger.Warnf("[SUBSPLEASE] %s feed failed: %v", res.Token(), err)
				return nil
			}
			rounds[i] = cands
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := dedup.NewSet()
	out := []models.Candidate{}
	for _, round := range rounds {
		out = append(out, seen.Filter(round)...)
	}
	s.logger.Debugf("[SUBSPLEASE] %d native results for %q", len(out), req.PrimaryTitle())
	return out, nil
}

// fetchRound reads one resolution feed and keeps the items matching titles
// that survive the post-filter. Detail pages are only fetched for those.
func (s *SubsPleaseProvider) fetchRound(ctx context.Context, res models.Quality, titles, exclusions []string) ([]models.Candidate, error) {
	feedURL := s.buildFeedURL(res)
	text, err := s.transport.FetchText(ctx, feedURL, rssHeaders)
	if err != nil {
		return nil, searcherr.NewTransportError("failed to fetch SubsPlease feed", err)
	}

	items := feed.Parse(text, subsPleaseSchema)
	cands := filter.MatchTitles(toCandidates(items, models.AccuracyLow), titles)
	cands = filter.Apply(cands, filter.Options{
		Resolution: res,
		Exclusions: exclusions,
	})

	now := s.clock.Now()
	for i := range cands {
		c := &cands[i]
		if !feed.IsMagnet(c.Link) && c.Link != "" {
			magnet, err := s.resolveMagnet(ctx, c.Link)
			if err != nil {
				s.logger.Debugf("[SUBSPLEASE] no magnet for %q: %v", c.Title, err)
			} else {
				c.Link = magnet
			}
		}
		if c.Hash == "" {
			c.Hash = feed.HashFromMagnet(c.Link)
		}
		if c.Date == nil {
			date := now
			c.Date = &date
		}
	}
	return cands, nil
}

func (s *SubsPleaseProvider) buildFeedURL(res models.Quality) string {
	return query.Build(s.baseURL+"/rss/?t", query.Param{Key: "r", Value: string(res)})
}

func (s *SubsPleaseProvider) resolutionsFor(req models.SearchRequest) []models.Quality {
	if req.Resolution != "" {
		return []models.Quality{req.Resolution}
	}
	return s.resolutions
}

func (s *SubsPleaseProvider) fallbackRequest(req models.SearchRequest) models.SearchRequest {
	fb := req
	fb.Title = req.PrimaryTitle()
	fb.Uploader = s.uploader
	return fb
}
