package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/animesearch/pkg/security"
)

// APIKeyHeader carries the key; the apikey query parameter is accepted too.
const APIKeyHeader = "X-API-Key"

// APIKey rejects requests that do not present key. An empty key disables the check.
func APIKey(key string) gin.HandlerFunc {
	validator := security.NewAPIKeyValidator()
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}

		presented := c.GetHeader(APIKeyHeader)
		if presented == "" {
			presented = c.Query("apikey")
		}
		presented = validator.SanitizeAPIKey(presented)

		if presented == "" || !validator.SecureCompare(presented, key) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing API key"})
			return
		}
		c.Next()
	}
}
