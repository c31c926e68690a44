package sorter

import (
	"fmt"
	"sort"

	"github.com/cehbz/torrentname"

	"github.com/amaumene/animesearch/pkg/torrentsearch/models"
)

type TorrentSorter struct{}

func NewTorrentSorter() *TorrentSorter {
	return &TorrentSorter{}
}

// Confidence returns how well title parses as a release name, 0 to 100.
func (ts *TorrentSorter) Confidence(title string) float64 {
	parsed := torrentname.Parse(title)
	if parsed == nil {
		return 0
	}
	return float64(parsed.Confidence)
}

// Rank returns a copy of cands ordered by seeders, then by title
// confidence. Ties keep their input order.
func (ts *TorrentSorter) Rank(cands []models.Candidate) []models.Candidate {
	scores := make(map[string]float64, len(cands))
	for _, c := range cands {
		if _, ok := scores[c.Title]; !ok {
			scores[c.Title] = ts.Confidence(c.Title)
		}
	}

	ranked := make([]models.Candidate, len(cands))
	copy(ranked, cands)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Seeders != ranked[j].Seeders {
			return ranked[i].Seeders > ranked[j].Seeders
		}
		return scores[ranked[i].Title] > scores[ranked[j].Title]
	})
	return ranked
}

// FilterByMinConfidence keeps candidates whose title scores at least
// minConfidence, in input order. The result is never nil.
func (ts *TorrentSorter) FilterByMinConfidence(cands []models.Candidate, minConfidence float64) []models.Candidate {
	filtered := make([]models.Candidate, 0, len(cands))
	for _, c := range cands {
		if ts.Confidence(c.Title) >= minConfidence {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// DebugInfo describes each candidate's rank inputs, one line per candidate.
func (ts *TorrentSorter) DebugInfo(cands []models.Candidate) []string {
	var debugInfo []string
	for i, c := range cands {
		var details string
		if parsed := torrentname.Parse(c.Title); parsed != nil {
			details = fmt.Sprintf(" [%s, %s, %s]",
				parsed.Title,
				parsed.Resolution,
				parsed.Codec)
		}
		debugInfo = append(debugInfo, fmt.Sprintf("%d. %d seeders, %.0f%% - %s%s",
			i+1,
			c.Seeders,
			ts.Confidence(c.Title),
			c.Title,
			details))
	}
	return debugInfo
}
