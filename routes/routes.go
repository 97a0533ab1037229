package routes

import (
	"deposit-service/controllers"
	"deposit-service/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterDepositRoutes sets up all deposit-related routes.
func RegisterDepositRoutes(r *gin.Engine, dc *controllers.DepositController, webhookSecretHash string, logger *zap.Logger) {
	// Static deposit form
	r.StaticFile("/", "./public/deposit.html")

	r.POST("/deposit", dc.CreateDeposit)
	r.GET("/deposits/:id", dc.GetDeposit)

	// Gateway callback; signature-checked when a secret hash is configured
	r.POST("/webhook", middleware.WebhookAuthMiddleware(webhookSecretHash, logger), dc.Webhook)
}
