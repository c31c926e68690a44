package feed

import (
	"regexp"
	"strings"

	"github.com/anacrolix/torrent/metainfo"
)

var (
	magnetPattern = regexp.MustCompile(`magnet:\?xt=urn:[^"'<>\s]+`)
	btihPattern   = regexp.MustCompile(`(?i)btih:([0-9a-f]{40}|[a-z2-7]{32})`)
	hexHash       = regexp.MustCompile(`^[0-9a-f]{40}$`)
	base32Hash    = regexp.MustCompile(`^[a-z2-7]{32}$`)
)

// IsMagnet reports whether s looks like a magnet URI.
func IsMagnet(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "magnet:")
}

// FindMagnet returns the first magnet URI embedded in s, or "".
// HTML-escaped ampersands are restored.
func FindMagnet(s string) string {
	m := magnetPattern.FindString(s)
	return strings.ReplaceAll(m, "&amp;", "&")
}

// HashFromMagnet extracts the lowercase btih token from a magnet URI.
func HashFromMagnet(magnet string) string {
	if magnet == "" {
		return ""
	}
	match := btihPattern.FindStringSubmatch(magnet)
	if len(match) < 2 {
		return ""
	}
	return strings.ToLower(match[1])
}

// NormalizeHash lowercases s and returns it when it is a 40-char hex or
// 32-char base32 info hash.
func NormalizeHash(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if hexHash.MatchString(s) || base32Hash.MatchString(s) {
		return s
	}
	return ""
}

// MagnetFromHash builds a magnet URI for an info hash. Base32 hashes are
// returned as a bare btih URN.
func MagnetFromHash(hash, displayName string) string {
	if !hexHash.MatchString(hash) {
		return "magnet:?xt=urn:btih:" + hash
	}
	m := metainfo.Magnet{
		InfoHash:    metainfo.NewHashFromHex(hash),
		DisplayName: displayName,
	}
	return m.String()
}

// ValidMagnet reports whether uri parses as a BitTorrent magnet link.
func ValidMagnet(uri string) bool {
	if !IsMagnet(uri) {
		return false
	}
	_, err := metainfo.ParseMagnetUri(uri)
	return err == nil
}
