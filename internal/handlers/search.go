package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/amaumene/animesearch/pkg/torrentsearch"
	searcherr "github.com/amaumene/animesearch/pkg/torrentsearch/errors"
	"github.com/amaumene/animesearch/pkg/torrentsearch/models"
)

type searchResponse struct {
	Results []models.Candidate `json:"results"`
	Total   int                `json:"total"`
}

// handleSearch runs one search across the provider chain.
//
//	GET /search/:kind?title=&resolution=&exclude=&uploader=&alt=&episodes=
//
// exclude and alt may repeat or hold comma separated values.
func (h *Handler) handleSearch(c *gin.Context) {
	stripJSONExtension(c, "kind")

	kind, ok := torrentsearch.ParseKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be single, batch or movie"})
		return
	}

	req, err := parseSearchRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.services.TorrentSearch.Search(c.Request.Context(), kind, req)
	if err != nil {
		h.writeSearchError(c, err)
		return
	}

	c.JSON(http.StatusOK, searchResponse{Results: results, Total: len(results)})
}

func parseSearchRequest(c *gin.Context) (models.SearchRequest, error) {
	req := models.SearchRequest{
		Title:      c.Query("title"),
		Exclusions: queryList(c, "exclude"),
		Uploader:   c.Query("uploader"),
		Titles:     queryList(c, "alt"),
	}

	if raw := c.Query("resolution"); raw != "" {
		req.Resolution = models.ParseQuality(raw)
		if req.Resolution == "" {
			return req, errors.Errorf("unsupported resolution %q", raw)
		}
	}

	if raw := c.Query("episodes"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return req, errors.Errorf("episodes must be a non-negative integer, got %q", raw)
		}
		req.EpisodeCount = n
	}

	return req, nil
}

func (h *Handler) writeSearchError(c *gin.Context, err error) {
	switch {
	case searcherr.IsRequestError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "search timed out"})
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads the body.
		c.Status(499)
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
	}
}
