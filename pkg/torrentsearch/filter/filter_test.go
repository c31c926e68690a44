package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amaumene/animesearch/pkg/torrentsearch/models"
)

func titles(cands []models.Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Title
	}
	return out
}

func cands(ts ...string) []models.Candidate {
	out := make([]models.Candidate, len(ts))
	for i, t := range ts {
		out[i] = models.Candidate{Title: t, Link: "link-" + t}
	}
	return out
}

func TestApplyResolution(t *testing.T) {
	in := cands("Show 720p", "Show", "Show 1080p", "Show 480P")
	got := Apply(in, Options{Resolution: models.Quality1080})
	assert.Equal(t, []string{"Show", "Show 1080p"}, titles(got))
}

func TestApplyExclusions(t *testing.T) {
	in := cands("Show RAW", "Show", "Show [Dub]")
	got := Apply(in, Options{Exclusions: []string{"raw", "", "DUB"}})
	assert.Equal(t, []string{"Show"}, titles(got))
}

func TestApplyNoConstraints(t *testing.T) {
	in := cands("Show 720p", "Show 1080p")
	assert.Equal(t, titles(in), titles(Apply(in, Options{})))
}

func TestApplyIdempotent(t *testing.T) {
	in := cands("A 1080p", "B 720p", "C raw", "D", "E 540p", "F 1080p batch")
	opts := Options{Resolution: models.Quality1080, Exclusions: []string{"raw"}}
	once := Apply(in, opts)
	twice := Apply(once, opts)
	assert.Equal(t, once, twice)
	assert.Equal(t, []string{"A 1080p", "D", "F 1080p batch"}, titles(once))
}

func TestExcludeBatches(t *testing.T) {
	in := cands("Show - 01", "Show (01-12) [Batch]", "Show Complete Series", "Show Batchelor", "Show incomplete")

	assert.Equal(t, []string{"Show - 01", "Show Batchelor", "Show incomplete"}, titles(ExcludeBatches(in, 12)))
	assert.Equal(t, titles(in), titles(ExcludeBatches(in, 1)))
	assert.Equal(t, titles(in), titles(ExcludeBatches(in, 0)))
}

func TestMatchTitles(t *testing.T) {
	in := cands("[SubsPlease] Sousou no Frieren - 01", "[SubsPlease] Other - 01", "Frieren Beyond Journey's End")

	got := MatchTitles(in, []string{"sousou no frieren", "Journey's End"})
	assert.Equal(t, []string{"[SubsPlease] Sousou no Frieren - 01", "Frieren Beyond Journey's End"}, titles(got))

	assert.Empty(t, MatchTitles(in, nil))
	assert.Empty(t, MatchTitles(in, []string{" "}))
}
