// Package handlers implements the HTTP API over the torrent search chain.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/animesearch/internal/config"
	"github.com/amaumene/animesearch/internal/constants"
	"github.com/amaumene/animesearch/internal/middleware"
	"github.com/amaumene/animesearch/internal/services"
)

// Handler handles HTTP requests for the search API.
type Handler struct {
	services *services.Container
	config   *config.Config
}

// New creates a new Handler with the provided services and configuration.
func New(services *services.Container, config *config.Config) *Handler {
	return &Handler{
		services: services,
		config:   config,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.handleHome)

	// Search routes, "/search/single" and "/search/single.json" alike
	r.GET("/search/:kind", middleware.APIKey(h.config.APIKey), h.handleSearch)

	r.GET("/health", h.handleHealth)
	r.GET("/health/history", h.handleProbeHistory)

	r.GET("/metrics", gin.WrapH(h.services.Metrics.Handler()))
}

func (h *Handler) handleHome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":      constants.AppName,
		"version":   constants.AppVersion,
		"providers": h.services.TorrentSearch.Providers(),
		"mergeMode": h.config.MergeMode,
	})
}

// stripJSONExtension removes .json extension from a parameter if present
func stripJSONExtension(c *gin.Context, paramName string) {
	value := c.Param(paramName)
	if strings.HasSuffix(value, ".json") {
		for i, param := range c.Params {
			if param.Key == paramName {
				c.Params[i].Value = strings.TrimSuffix(value, ".json")
				break
			}
		}
	}
}

// queryList collects every value of key, splitting comma separated entries.
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
