// Package feed turns raw indexer RSS text into normalized items.
//
// The scanner is deliberately not an XML parser: it splits the text on item
// tags and pulls fields out by substring search, so feeds with stray
// entities or unbalanced markup still yield whatever can be recovered.
package feed

import (
	"strconv"
	"strings"
	"time"
)

// Schema names the tags a given indexer uses. Each slice is tried in order
// and the first non-empty value wins.
type Schema struct {
	Magnet         []string
	Size           []string
	Seeds          []string
	Peers          []string
	Downloads      []string
	InfoHash       []string
	EmbeddedMagnet []string // blobs scanned for a magnet URI (description, content:encoded)
}

// Item is one parsed feed record.
type Item struct {
	Title     string
	Link      string // magnet when one was found, item link otherwise
	PageLink  string // raw <link> value
	GUID      string
	Magnet    string
	Hash      string
	Size      int64
	Seeders   int
	Leechers  int
	Downloads int
	Date      *time.Time
}

var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
}

// Parse splits text into records and extracts every item it can.
// It never fails; records without both a title and a link are dropped.
func Parse(text string, schema Schema) []Item {
	records := splitItems(text)
	items := make([]Item, 0, len(records))
	for _, raw := range records {
		item, ok := parseItem(raw, schema)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items
}

// splitItems returns the text following each opening item tag, preamble excluded.
func splitItems(text string) []string {
	var records []string
	start := indexOpenTag(text, "item")
	for start >= 0 {
		text = text[start+len("<item"):]
		next := indexOpenTag(text, "item")
		if next < 0 {
			return append(records, text)
		}
		records = append(records, text[:next])
		start = next
	}
	return records
}

func parseItem(raw string, schema Schema) (Item, bool) {
	item := Item{
		Title:    Extract(raw, "title"),
		PageLink: Extract(raw, "link"),
		GUID:     Extract(raw, "guid"),
	}
	if item.Title == "" && item.PageLink == "" {
		return item, false
	}

	item.Magnet = firstOf(raw, schema.Magnet)
	if item.Magnet == "" && IsMagnet(item.GUID) {
		item.Magnet = item.GUID
	}
	if item.Magnet == "" && IsMagnet(item.PageLink) {
		item.Magnet = item.PageLink
	}
	if item.Magnet == "" {
		for _, tag := range schema.EmbeddedMagnet {
			if m := FindMagnet(extractRaw(raw, tag)); m != "" {
				item.Magnet = m
				break
			}
		}
	}

	item.Magnet = strings.ReplaceAll(item.Magnet, "&amp;", "&")

	item.Hash = HashFromMagnet(item.Magnet)
	if item.Hash == "" {
		if h := NormalizeHash(firstOf(raw, schema.InfoHash)); h != "" {
			item.Hash = h
			if item.Magnet == "" {
				item.Magnet = MagnetFromHash(h, item.Title)
			}
		}
	}

	item.Link = item.PageLink
	if item.Magnet != "" {
		item.Link = item.Magnet
	}

	if size, err := strconv.ParseInt(firstOf(raw, schema.Size), 10, 64); err == nil && size > 0 {
		item.Size = size
	}
	item.Seeders = atoi(firstOf(raw, schema.Seeds))
	item.Leechers = atoi(firstOf(raw, schema.Peers))
	item.Downloads = atoi(firstOf(raw, schema.Downloads))
	item.Date = ParseDate(Extract(raw, "pubDate"))

	return item, true
}

// Extract returns the trimmed, CDATA-stripped text between the first open
// tag named tag and the first matching close tag after it.
func Extract(raw, tag string) string {
	return StripCDATA(extractRaw(raw, tag))
}

func extractRaw(raw, tag string) string {
	start := indexOpenTag(raw, tag)
	if start < 0 {
		return ""
	}
	gt := strings.IndexByte(raw[start:], '>')
	if gt < 0 {
		return ""
	}
	body := raw[start+gt+1:]
	if raw[start+gt-1] == '/' {
		return "" // self-closing
	}
	end := strings.Index(body, "</"+tag+">")
	if end < 0 {
		return ""
	}
	return body[:end]
}

// indexOpenTag finds "<tag>" or "<tag attr...>", never "<tagsuffix".
func indexOpenTag(s, tag string) int {
	open := "<" + tag
	offset := 0
	for {
		i := strings.Index(s[offset:], open)
		if i < 0 {
			return -1
		}
		pos := offset + i
		after := pos + len(open)
		if after < len(s) {
			switch s[after] {
			case '>', ' ', '\t', '\n', '\r', '/':
				return pos
			}
		}
		offset = after
	}
}

// StripCDATA removes every CDATA marker and trims the result.
func StripCDATA(s string) string {
	s = strings.ReplaceAll(s, "<![CDATA[", "")
	s = strings.ReplaceAll(s, "]]>", "")
	return strings.TrimSpace(s)
}

func firstOf(raw string, tags []string) string {
	for _, tag := range tags {
		if v := Extract(raw, tag); v != "" {
			return v
		}
	}
	return ""
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParseDate parses an RSS publish date, returning nil when it cannot.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
