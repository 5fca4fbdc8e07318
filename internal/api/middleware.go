package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AdminKeyHeader carries the shared admin secret on management requests.
const AdminKeyHeader = "X-Admin-Key"

// RequireAdminKey guards the management endpoints. The presented key is
// checked against the configured bcrypt hash; an empty hash means the
// deployment runs without admin access at all.
func RequireAdminKey(keyHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if keyHash == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access is not configured"})
			return
		}

		key := c.GetHeader(AdminKeyHeader)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing admin key"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(key)); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid admin key"})
			return
		}

		c.Next()
	}
}
