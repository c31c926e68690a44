package providers

import (
	"context"
	"time"

	"github.com/amaumene/animesearch/pkg/torrentsearch/feed"
	"github.com/amaumene/animesearch/pkg/torrentsearch/models"
)

// Transport fetches indexer text. Implementations follow redirects and
// report non-2xx responses as errors, never as an empty body.
type Transport interface {
	FetchText(ctx context.Context, url string, headers map[string]string) (string, error)
	Probe(ctx context.Context, url string) (bool, error)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func toCandidates(items []feed.Item, accuracy models.Accuracy) []models.Candidate {
	cands := make([]models.Candidate, 0, len(items))
	for _, it := range items {
		cands = append(cands, models.Candidate{
			Title:     it.Title,
			Link:      it.Link,
			Hash:      it.Hash,
			Size:      it.Size,
			Seeders:   it.Seeders,
			Leechers:  it.Leechers,
			Downloads: it.Downloads,
			Accuracy:  accuracy,
			Date:      it.Date,
		})
	}
	return cands
}
