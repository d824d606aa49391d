package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminTokenHeader carries the shared secret for administrative endpoints
const AdminTokenHeader = "X-Admin-Token"

// AdminAuth guards administrative routes with a shared-secret header. An
// empty configured token disables the admin surface entirely: requests are
// answered with a 500 rather than silently letting everyone through.
func AdminAuth(logger *slog.Logger, token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			logger.Error("Admin endpoint hit but no admin token is configured", "path", c.Request.URL.Path)
			abortWithError(c, http.StatusInternalServerError, "ADMIN_DISABLED", "Administrative access is not configured")
			return
		}

		provided := c.GetHeader(AdminTokenHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			logger.Warn("Rejected admin request with bad token", "path", c.Request.URL.Path, "client_ip", c.ClientIP())
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing admin token")
			return
		}

		c.Next()
	}
}

func abortWithError(c *gin.Context, status int, code, message string) {
	response := gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
	if id := GetCorrelationID(c); id != "" {
		response["correlation_id"] = id
	}
	c.AbortWithStatusJSON(status, response)
}
