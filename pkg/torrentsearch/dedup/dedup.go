// Package dedup collapses candidates that point at the same torrent.
package dedup

import (
	"strings"

	"github.com/amaumene/animesearch/pkg/torrentsearch/models"
)

// Set tracks what one search call has already returned. The zero value is
// not usable; create one per call with NewSet.
type Set struct {
	hashes map[string]struct{}
	links  map[string]struct{}
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{
		hashes: make(map[string]struct{}),
		links:  make(map[string]struct{}),
	}
}

// Add records c and reports whether it is new. Candidates with a hash are
// compared by hash only; hash-less ones by exact link.
func (s *Set) Add(c models.Candidate) bool {
	if hash := strings.ToLower(c.Hash); hash != "" {
		if _, seen := s.hashes[hash]; seen {
			return false
		}
		s.hashes[hash] = struct{}{}
		if c.Link != "" {
			s.links[c.Link] = struct{}{}
		}
		return true
	}

	if c.Link != "" {
		if _, seen := s.links[c.Link]; seen {
			return false
		}
		s.links[c.Link] = struct{}{}
	}
	return true
}

// Filter returns the candidates of cands not seen before, in order.
func (s *Set) Filter(cands []models.Candidate) []models.Candidate {
	out := make([]models.Candidate, 0, len(cands))
	for _, c := range cands {
		if s.Add(c) {
			out = append(out, c)
		}
	}
	return out
}

// Candidates keeps the first candidate for each hash, and each link for
// candidates without a hash.
func Candidates(cands []models.Candidate) []models.Candidate {
	return NewSet().Filter(cands)
}
