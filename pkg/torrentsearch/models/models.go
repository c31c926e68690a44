// Package models defines data structures for torrent search operations.
package models

import (
	"strings"
	"time"

	searcherr "github.com/amaumene/animesearch/pkg/torrentsearch/errors"
)

// Quality is a vertical resolution in pixels.
type Quality string

// Supported qualities, highest first.
const (
	Quality1080 Quality = "1080"
	Quality720  Quality = "720"
	Quality540  Quality = "540"
	Quality480  Quality = "480"
)

// Qualities lists every known quality in preference order.
var Qualities = []Quality{Quality1080, Quality720, Quality540, Quality480}

// Token returns the quality as it appears in release titles, e.g. "1080p".
func (q Quality) Token() string {
	if q == "" {
		return ""
	}
	return string(q) + "p"
}

// Valid reports whether q is one of the known qualities.
func (q Quality) Valid() bool {
	for _, known := range Qualities {
		if q == known {
			return true
		}
	}
	return false
}

// ParseQuality accepts "1080" or "1080p" (any case). Unknown values yield "".
func ParseQuality(s string) Quality {
	s = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "p")
	q := Quality(s)
	if !q.Valid() {
		return ""
	}
	return q
}

// Accuracy is the confidence that a candidate's size and peer counts are right.
type Accuracy string

const (
	AccuracyHigh   Accuracy = "high"
	AccuracyMedium Accuracy = "medium"
	AccuracyLow    Accuracy = "low"
)

// ReleaseType is a scoring hint for downstream consumers.
type ReleaseType string

const (
	TypeUndefined ReleaseType = ""
	TypeBatch     ReleaseType = "batch"
	TypeAlt       ReleaseType = "alt"
)

// SearchRequest describes what a caller is looking for.
type SearchRequest struct {
	Title        string   `json:"title"`
	Resolution   Quality  `json:"resolution,omitempty"`
	Exclusions   []string `json:"exclusions,omitempty"`
	Uploader     string   `json:"uploader,omitempty"`
	Titles       []string `json:"titles,omitempty"`
	EpisodeCount int      `json:"episodeCount,omitempty"`
}

// Validate returns a request error when neither a title nor any alternate
// title is usable.
func (r SearchRequest) Validate() error {
	if strings.TrimSpace(r.Title) != "" {
		return nil
	}
	if len(r.AlternateTitles()) > 0 {
		return nil
	}
	return searcherr.NewRequestError("no title provided", nil)
}

// AlternateTitles returns the non-blank entries of Titles.
func (r SearchRequest) AlternateTitles() []string {
	var titles []string
	for _, t := range r.Titles {
		if t = strings.TrimSpace(t); t != "" {
			titles = append(titles, t)
		}
	}
	return titles
}

// MatchTitles returns every title the request accepts: the main title
// followed by the alternates.
func (r SearchRequest) MatchTitles() []string {
	var titles []string
	if t := strings.TrimSpace(r.Title); t != "" {
		titles = append(titles, t)
	}
	return append(titles, r.AlternateTitles()...)
}

// PrimaryTitle is the title used for indexers that take a single query.
func (r SearchRequest) PrimaryTitle() string {
	if titles := r.MatchTitles(); len(titles) > 0 {
		return titles[0]
	}
	return ""
}

// Candidate is a normalized search hit.
type Candidate struct {
	Title     string      `json:"title"`
	Link      string      `json:"link"`
	Hash      string      `json:"hash,omitempty"`
	Size      int64       `json:"size,omitempty"` // bytes, 0 when unknown
	Seeders   int         `json:"seeders"`
	Leechers  int         `json:"leechers"`
	Downloads int         `json:"downloads"`
	Accuracy  Accuracy    `json:"accuracy"`
	Type      ReleaseType `json:"type,omitempty"`
	Date      *time.Time  `json:"date,omitempty"`
}

// WithType returns a copy of cands with Type set on every element.
func WithType(cands []Candidate, t ReleaseType) []Candidate {
	out := make([]Candidate, len(cands))
	for i, c := range cands {
		c.Type = t
		out[i] = c
	}
	return out
}
