// Package filter removes candidates that violate a search's constraints.
// Every function preserves input order and returns a new slice.
package filter

import (
	"regexp"
	"strings"

	"github.com/amaumene/animesearch/pkg/torrentsearch/models"
)

var batchWords = regexp.MustCompile(`(?i)\b(batch|complete)\b`)

// Options are the constraints applied by Apply.
type Options struct {
	Resolution models.Quality
	Exclusions []string
}

// Apply drops candidates whose title contains an exclusion term or
// advertises a resolution other than the requested one. Titles that say
// nothing about resolution pass. Apply is idempotent.
func Apply(cands []models.Candidate, opts Options) []models.Candidate {
	exclusions := lowerNonEmpty(opts.Exclusions)

	var rivals []string
	if opts.Resolution != "" {
		for _, q := range models.Qualities {
			if q != opts.Resolution {
				rivals = append(rivals, q.Token())
			}
		}
	}

	out := make([]models.Candidate, 0, len(cands))
	for _, c := range cands {
		title := strings.ToLower(c.Title)
		if containsAny(title, exclusions) || containsAny(title, rivals) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ExcludeBatches drops batch or complete releases when the episode count
// is known and is not 1. With an unknown count (<= 0) or a single episode
// the input is returned unchanged.
func ExcludeBatches(cands []models.Candidate, episodeCount int) []models.Candidate {
	if episodeCount <= 0 || episodeCount == 1 {
		return cands
	}
	out := make([]models.Candidate, 0, len(cands))
	for _, c := range cands {
		if IsBatchTitle(c.Title) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// IsBatchTitle reports whether title contains the word "batch" or "complete".
func IsBatchTitle(title string) bool {
	return batchWords.MatchString(title)
}

// MatchTitles keeps candidates whose title contains any of titles,
// case-insensitively. An empty titles list matches nothing.
func MatchTitles(cands []models.Candidate, titles []string) []models.Candidate {
	wanted := lowerNonEmpty(titles)
	out := make([]models.Candidate, 0, len(cands))
	for _, c := range cands {
		if containsAny(strings.ToLower(c.Title), wanted) {
			out = append(out, c)
		}
	}
	return out
}

func lowerNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
