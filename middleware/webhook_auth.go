package middleware

import (
	"net/http"

	"deposit-service/providers"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookAuthMiddleware rejects webhook deliveries whose verif-hash header
// does not match the configured secret hash. With an empty secret the check
// is skipped, matching gateways that have no hash configured.
func WebhookAuthMiddleware(secretHash string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretHash == "" {
			c.Next()
			return
		}
		if !providers.VerifySignature(c.GetHeader("verif-hash"), secretHash) {
			logger.Warn("Webhook signature verification failed",
				zap.String("remote_addr", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}
		c.Next()
	}
}
