package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/animesearch/internal/constants"
)

const defaultHistoryLimit = 10

// handleHealth probes every provider. It answers 503 only when none is reachable.
func (h *Handler) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.ProbeTimeout)
	defer cancel()

	status := h.services.ProbeProviders(ctx)

	up := 0
	for _, ok := range status {
		if ok {
			up++
		}
	}

	code, state := http.StatusOK, "ok"
	switch {
	case up == 0:
		code, state = http.StatusServiceUnavailable, "down"
	case up < len(status):
		state = "degraded"
	}

	c.JSON(code, gin.H{
		"status":    state,
		"providers": status,
	})
}

// handleProbeHistory returns recent probes per provider, newest first.
func (h *Handler) handleProbeHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > constants.MaxProbeHistory {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and " + strconv.Itoa(constants.MaxProbeHistory)})
			return
		}
		limit = n
	}

	history, err := h.services.ProbeHistory(limit)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read probe history"})
		return
	}
	c.JSON(http.StatusOK, history)
}
