package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/amaumene/animesearch/pkg/torrentsearch/feed"
)

// resolveMagnet follows an item's page link and returns the first magnet
// link on it that parses.
func (s *SubsPleaseProvider) resolveMagnet(ctx context.Context, pageURL string) (string, error) {
	html, err := s.transport.FetchText(ctx, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to fetch detail page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse detail page: %w", err)
	}

	var magnet string
	doc.Find("a[href^='magnet:']").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if href, ok := sel.Attr("href"); ok && feed.ValidMagnet(href) {
			magnet = href
			return false
		}
		return true
	})

	// Pages that build their links in script still carry the URI in text.
	if magnet == "" {
		if found := feed.FindMagnet(html); feed.ValidMagnet(found) {
			magnet = found
		}
	}
	if magnet == "" {
		return "", fmt.Errorf("no magnet link found on %s", pageURL)
	}
	return magnet, nil
}
