// Package query builds indexer search terms and URLs.
package query

import (
	"net/url"
	"strings"

	"github.com/amaumene/animesearch/pkg/torrentsearch/models"
)

// Param is one extra query parameter. Empty values are skipped.
type Param struct {
	Key   string
	Value string
}

// Terms assembles "title [res]p [-exclusion ...]" joined by single spaces.
func Terms(title string, resolution models.Quality, exclusions []string) string {
	terms := make([]string, 0, 2+len(exclusions))
	if title = strings.TrimSpace(title); title != "" {
		terms = append(terms, title)
	}
	if resolution != "" {
		terms = append(terms, resolution.Token())
	}
	for _, ex := range exclusions {
		if ex = strings.TrimSpace(ex); ex == "" {
			continue
		}
		terms = append(terms, "-"+ex)
	}
	return strings.TrimSpace(strings.Join(terms, " "))
}

// BatchTitle biases a title toward compilation releases.
func BatchTitle(title string) string {
	return strings.TrimSpace(title) + " batch"
}

// Build appends params to base in the given order, keeping any query
// already present in base. Empty values are skipped except for "q".
func Build(base string, params ...Param) string {
	var b strings.Builder
	b.WriteString(base)
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	for _, p := range params {
		if p.Value == "" && p.Key != "q" {
			continue
		}
		b.WriteString(sep)
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(Escape(p.Value))
		sep = "&"
	}
	return b.String()
}

// Escape percent-encodes s for a query value, spaces as %20.
func Escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
