package providers

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	searcherr "github.com/amaumene/animesearch/pkg/torrentsearch/errors"
	"github.com/amaumene/animesearch/pkg/torrentsearch/models"
)

// fakeTransport serves canned bodies keyed by URL and records every call.
type fakeTransport struct {
	mu      sync.Mutex
	pages   map[string]string
	errs    map[string]error
	probeOK bool
	calls   []string
	headers []map[string]string
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		pages: make(map[string]string),
		errs:  make(map[string]error),
	}
}

func (f *fakeTransport) FetchText(ctx context.Context, url string, headers map[string]string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	f.headers = append(f.headers, headers)
	if err, ok := f.errs[url]; ok {
		return "", err
	}
	if body, ok := f.pages[url]; ok {
		return body, nil
	}
	return "", searcherr.NewTransportError("GET "+url+" returned status 404", nil)
}

func (f *fakeTransport) Probe(ctx context.Context, url string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "probe "+url)
	if err, ok := f.errs[url]; ok {
		return false, err
	}
	return f.probeOK, nil
}

func (f *fakeTransport) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func item(title, link string, extra ...string) string {
	return "<item><title>" + title + "</title><link>" + link + "</link>" + strings.Join(extra, "") + "</item>\n"
}

func rss(items ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>feed</title>` +
		strings.Join(items, "") + `</channel></rss>`
}

func hashOf(c byte) string { return strings.Repeat(string(c), 40) }

var nyaaFeed = rss(
	item("[Group] Show - 01 [1080p].mkv", "https://nyaa.si/download/1.torrent",
		"<nyaa:seeders>50</nyaa:seeders><nyaa:leechers>5</nyaa:leechers><nyaa:downloads>900</nyaa:downloads>",
		"<nyaa:infoHash>"+hashOf('1')+"</nyaa:infoHash>",
		"<pubDate>Mon, 02 Oct 2023 10:00:00 -0000</pubDate>"),
	item("[Group] Show - 01 [720p].mkv", "https://nyaa.si/download/2.torrent",
		"<nyaa:infoHash>"+hashOf('2')+"</nyaa:infoHash>"),
	item("[Group] Show - 01 [1080p] RAW", "https://nyaa.si/download/3.torrent",
		"<nyaa:infoHash>"+hashOf('3')+"</nyaa:infoHash>"),
	item("[Other] Show - 01 (1080p)", "https://nyaa.si/download/4.torrent",
		"<nyaa:infoHash>"+hashOf('1')+"</nyaa:infoHash>"),
)

func TestNyaaSingle(t *testing.T) {
	tr := newFakeTransport()
	url := "https://nyaa.si/?page=rss&c=1_2&f=0&q=Show%201080p%20-raw"
	tr.pages[url] = nyaaFeed

	n := NewNyaaProvider(tr, "", nil)
	got, err := n.Single(context.Background(), models.SearchRequest{
		Title:      "Show",
		Resolution: models.Quality1080,
		Exclusions: []string{"raw"},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)

	c := got[0]
	assert.Equal(t, "[Group] Show - 01 [1080p].mkv", c.Title)
	assert.Equal(t, hashOf('1'), c.Hash)
	assert.True(t, strings.HasPrefix(c.Link, "magnet:"))
	assert.Equal(t, 50, c.Seeders)
	assert.Equal(t, 5, c.Leechers)
	assert.Equal(t, 900, c.Downloads)
	assert.Equal(t, models.AccuracyMedium, c.Accuracy)
	assert.Equal(t, models.TypeUndefined, c.Type)
	assert.NotNil(t, c.Date)

	require.Len(t, tr.headers, 1)
	assert.Equal(t, rssAccept, tr.headers[0]["Accept"])
}

func TestNyaaUploaderQuery(t *testing.T) {
	n := NewNyaaProvider(newFakeTransport(), "", nil)
	got := n.buildAPIURL(models.SearchRequest{Uploader: "subsplease"}, "Frieren")
	assert.Equal(t, "https://nyaa.si/?page=rss&c=1_2&f=0&q=Frieren&u=subsplease", got)
}

func TestNyaaBatch(t *testing.T) {
	tr := newFakeTransport()
	tr.pages["https://nyaa.si/?page=rss&c=1_2&f=0&q=Show%20batch"] = rss(
		item("[Group] Show (01-12) [Batch]", "https://nyaa.si/download/5.torrent", "<nyaa:infoHash>"+hashOf('5')+"</nyaa:infoHash>"),
		item("[Group] Show Complete", "https://nyaa.si/download/6.torrent", "<nyaa:infoHash>"+hashOf('6')+"</nyaa:infoHash>"),
	)

	n := NewNyaaProvider(tr, "", nil)
	got, err := n.Batch(context.Background(), models.SearchRequest{Title: "Show"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, c := range got {
		assert.Equal(t, models.TypeBatch, c.Type)
	}
}

func TestNyaaMovieMatchesSingle(t *testing.T) {
	tr := newFakeTransport()
	tr.pages["https://nyaa.si/?page=rss&c=1_2&f=0&q=Show"] = nyaaFeed

	n := NewNyaaProvider(tr, "", nil)
	single, err := n.Single(context.Background(), models.SearchRequest{Title: "Show"})
	require.NoError(t, err)
	movie, err := n.Movie(context.Background(), models.SearchRequest{Title: "Show"})
	require.NoError(t, err)
	assert.Equal(t, single, movie)
	assert.Len(t, single, 3)
}

func TestNyaaRejectsEmptyTitle(t *testing.T) {
	tr := newFakeTransport()
	n := NewNyaaProvider(tr, "", nil)

	for name, op := range map[string]func(context.Context, models.SearchRequest) ([]models.Candidate, error){
		"single": n.Single,
		"batch":  n.Batch,
		"movie":  n.Movie,
	} {
		_, err := op(context.Background(), models.SearchRequest{Title: ""})
		assert.True(t, searcherr.IsRequestError(err), name)
	}
	assert.Zero(t, tr.callCount())
}

func TestNyaaTransportError(t *testing.T) {
	tr := newFakeTransport()
	tr.errs["https://nyaa.si/?page=rss&c=1_2&f=0&q=Show"] = errors.New("connection reset")

	n := NewNyaaProvider(tr, "", nil)
	_, err := n.Single(context.Background(), models.SearchRequest{Title: "Show"})
	require.Error(t, err)
	assert.True(t, searcherr.IsTransportError(err))
	assert.False(t, searcherr.IsRequestError(err))
}

func TestNyaaEmptyBodyIsNotAnError(t *testing.T) {
	tr := newFakeTransport()
	tr.pages["https://nyaa.si/?page=rss&c=1_2&f=0&q=Show"] = ""

	n := NewNyaaProvider(tr, "", nil)
	got, err := n.Single(context.Background(), models.SearchRequest{Title: "Show"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNyaaTest(t *testing.T) {
	tr := newFakeTransport()
	n := NewNyaaProvider(tr, "", nil)
	assert.False(t, n.Test(context.Background()))

	tr.probeOK = true
	assert.True(t, n.Test(context.Background()))

	tr.errs[DefaultNyaaURL] = errors.New("dial tcp: timeout")
	assert.False(t, n.Test(context.Background()))
}
