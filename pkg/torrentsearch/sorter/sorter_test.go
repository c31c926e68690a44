package sorter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/animesearch/pkg/torrentsearch/models"
)

func TestRankBySeeders(t *testing.T) {
	in := []models.Candidate{
		{Title: "a", Seeders: 3},
		{Title: "b", Seeders: 30},
		{Title: "c", Seeders: 10},
	}
	got := NewTorrentSorter().Rank(in)
	require.Len(t, got, 3)
	assert.Equal(t, "b", got[0].Title)
	assert.Equal(t, "c", got[1].Title)
	assert.Equal(t, "a", got[2].Title)

	assert.Equal(t, "a", in[0].Title, "input must not be reordered")
}

func TestRankTieBreaksOnConfidence(t *testing.T) {
	s := NewTorrentSorter()
	rich := "[SubsPlease] Sousou no Frieren - 01 (1080p) [ABCD1234].mkv"
	bare := "frieren"
	in := []models.Candidate{
		{Title: bare, Seeders: 5},
		{Title: rich, Seeders: 5},
	}

	got := s.Rank(in)
	if s.Confidence(rich) > s.Confidence(bare) {
		assert.Equal(t, rich, got[0].Title)
	} else {
		assert.Equal(t, bare, got[0].Title, "equal scores keep input order")
	}
}

func TestRankIsStable(t *testing.T) {
	in := []models.Candidate{
		{Title: "same", Link: "1"},
		{Title: "same", Link: "2"},
		{Title: "same", Link: "3"},
	}
	got := NewTorrentSorter().Rank(in)
	assert.Equal(t, []string{"1", "2", "3"}, []string{got[0].Link, got[1].Link, got[2].Link})
}

func TestConfidenceRange(t *testing.T) {
	s := NewTorrentSorter()
	for _, title := range []string{"x", "The.Matrix.1999.1080p.BluRay.x264-SPARKS"} {
		c := s.Confidence(title)
		assert.GreaterOrEqual(t, c, 0.0, title)
		assert.LessOrEqual(t, c, 100.0, title)
	}
}

func TestDebugInfo(t *testing.T) {
	lines := NewTorrentSorter().DebugInfo([]models.Candidate{{Title: "Show - 01", Seeders: 4}})
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "1. 4 seeders")
	assert.Contains(t, lines[0], "Show - 01")
}

func TestFilterByMinConfidence(t *testing.T) {
	s := NewTorrentSorter()
	rich := "[SubsPlease] Sousou no Frieren - 01 (1080p) [ABCD1234].mkv"
	in := []models.Candidate{{Title: rich, Link: "1"}, {Title: rich, Link: "2"}}

	got := s.FilterByMinConfidence(in, s.Confidence(rich))
	assert.Equal(t, in, got, "scores equal to the threshold are kept")

	got = s.FilterByMinConfidence(in, 101)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
