package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/animesearch/internal/config"
	"github.com/amaumene/animesearch/internal/database"
	"github.com/amaumene/animesearch/internal/services"
	"github.com/amaumene/animesearch/pkg/logger"
	"github.com/amaumene/animesearch/pkg/torrentsearch/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const nyaaFeed = `<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>Nyaa</title>
<item><title>[Group] Frieren - 01 [1080p].mkv</title><link>https://nyaa.si/download/1.torrent</link>
<nyaa:seeders>12</nyaa:seeders><nyaa:infoHash>1111111111111111111111111111111111111111</nyaa:infoHash></item>
<item><title>[Group] Frieren - 01 [720p].mkv</title><link>https://nyaa.si/download/2.torrent</link>
<nyaa:seeders>3</nyaa:seeders><nyaa:infoHash>2222222222222222222222222222222222222222</nyaa:infoHash></item>
</channel></rss>`

const emptyFeed = `<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>empty</title></channel></rss>`

type fixture struct {
	router    *gin.Engine
	cfg       *config.Config
	container *services.Container
	mu        sync.Mutex
	requests  []string
}

func (f *fixture) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// newFixture serves an empty SubsPlease site and a Nyaa feed that answers
// only queries without an uploader.
func newFixture(t *testing.T, withDB bool) *fixture {
	t.Helper()
	f := &fixture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.URL.String())
		f.mu.Unlock()
		switch {
		case strings.HasPrefix(r.URL.Path, "/sp"):
			w.Write([]byte(emptyFeed))
		case strings.HasPrefix(r.URL.Path, "/nyaa") && r.URL.Query().Get("u") == "":
			w.Write([]byte(nyaaFeed))
		default:
			w.Write([]byte(emptyFeed))
		}
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Port:             "5000",
		LogLevel:         "info",
		NyaaURL:          srv.URL + "/nyaa?page=rss",
		SubsPleaseURL:    srv.URL + "/sp",
		TrustedUploader:  "subsplease",
		Resolutions:      []string{"1080"},
		FetchConcurrency: 1,
		HTTPTimeout:      5 * time.Second,
		HTTPRetries:      1,
		RateLimit:        100,
		RateBurst:        100,
		FeedCacheSize:    16,
		FeedCacheTTL:     time.Minute,
		MergeMode:        "first",
	}

	var db database.Database
	if withDB {
		bolt, err := database.NewBolt(filepath.Join(t.TempDir(), "probes.db"))
		require.NoError(t, err)
		db = bolt
	}
	container := services.NewContainer(cfg, logger.Nop(), db)
	t.Cleanup(func() { container.Close() })

	f.cfg = cfg
	f.container = container
	f.router = gin.New()
	New(container, cfg).RegisterRoutes(f.router)
	return f
}

func (f *fixture) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestSearchSingle(t *testing.T) {
	f := newFixture(t, false)

	rec := f.get(t, "/search/single?title=Frieren&resolution=1080p&exclude=raw")
	require.Equal(t, http.StatusOK, rec.Code)

	var body searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Total)
	require.Len(t, body.Results, 1)
	assert.Equal(t, "[Group] Frieren - 01 [1080p].mkv", body.Results[0].Title)
	assert.Equal(t, models.TypeUndefined, body.Results[0].Type)
	assert.True(t, strings.HasPrefix(body.Results[0].Link, "magnet:"))
}

func TestSearchBatchTagsResults(t *testing.T) {
	f := newFixture(t, false)

	rec := f.get(t, "/search/batch.json?title=Frieren")
	require.Equal(t, http.StatusOK, rec.Code)

	var body searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotZero(t, body.Total)
	for _, c := range body.Results {
		assert.Equal(t, models.TypeBatch, c.Type)
	}
}

func TestSearchEmptyResultsIsArray(t *testing.T) {
	f := newFixture(t, false)

	rec := f.get(t, "/search/single?title=Frieren&exclude=frieren")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"results":[],"total":0}`, rec.Body.String())
}

func TestSearchBadRequests(t *testing.T) {
	f := newFixture(t, false)

	tests := []struct {
		name   string
		target string
	}{
		{"unknown kind", "/search/season?title=Frieren"},
		{"missing title", "/search/single"},
		{"blank alternates only", "/search/single?alt=%20,%20"},
		{"bad resolution", "/search/single?title=Frieren&resolution=4k"},
		{"bad episodes", "/search/single?title=Frieren&episodes=many"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := f.requestCount()
			rec := f.get(t, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
			assert.Equal(t, before, f.requestCount(), "no indexer traffic")
		})
	}
}

func TestParseSearchRequestLists(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/search/single?title=A&alt=B,C&alt=D&exclude=raw&exclude=,hevc&episodes=12&uploader=subsplease", nil)

	req, err := parseSearchRequest(c)
	require.NoError(t, err)
	assert.Equal(t, "A", req.Title)
	assert.Equal(t, []string{"B", "C", "D"}, req.Titles)
	assert.Equal(t, []string{"raw", "hevc"}, req.Exclusions)
	assert.Equal(t, 12, req.EpisodeCount)
	assert.Equal(t, "subsplease", req.Uploader)
}

func TestHealthRecordsProbes(t *testing.T) {
	f := newFixture(t, true)

	rec := f.get(t, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","providers":{"nyaa":true,"subsplease":true}}`, rec.Body.String())

	rec = f.get(t, "/health/history?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	var history map[string][]database.ProbeRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history["nyaa"], 1)
	assert.Len(t, history["subsplease"], 1)

	rec = f.get(t, "/health/history?limit=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, false)
	f.get(t, "/search/single?title=Frieren")

	rec := f.get(t, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "animesearch_feed_fetches_total")
	assert.Contains(t, rec.Body.String(), `animesearch_provider_fallbacks_total{provider="subsplease",reason="empty"} 1`)
}

func TestHome(t *testing.T) {
	f := newFixture(t, false)

	rec := f.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"providers":["subsplease","nyaa"]`)
}

func TestSearchRequiresConfiguredAPIKey(t *testing.T) {
	f := newFixture(t, false)
	f.cfg.APIKey = "secret-key-1"
	f.router = gin.New()
	New(f.container, f.cfg).RegisterRoutes(f.router)

	rec := f.get(t, "/search/single?title=Frieren")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.get(t, "/search/single?title=Frieren&apikey=secret-key-1")
	assert.Equal(t, http.StatusOK, rec.Code)
}
