package controllers

import (
	"net/http"
	"strconv"

	"deposit-service/models"
	"deposit-service/services"

	"github.com/gin-gonic/gin"
)

// DepositController handles HTTP requests for deposit operations.
type DepositController struct {
	depositService services.DepositService
}

// NewDepositController creates a new DepositController.
func NewDepositController(svc services.DepositService) *DepositController {
	return &DepositController{depositService: svc}
}

// CreateDeposit handles POST /deposit. On success it relays the gateway's
// acknowledgment body verbatim.
func (dc *DepositController) CreateDeposit(ctx *gin.Context) {
	var req models.DepositRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	ack, svcErr := dc.depositService.SubmitDeposit(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.Data(http.StatusOK, "application/json", ack.Raw)
}

// GetDeposit handles GET /deposits/:id
func (dc *DepositController) GetDeposit(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deposit id"})
		return
	}

	status, svcErr := dc.depositService.GetDeposit(ctx.Request.Context(), uint(id))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, status)
}

// Webhook handles POST /webhook, the gateway's asynchronous outcome
// callback. Any structurally valid payload is acknowledged with 200 so
// the gateway does not retry-storm on application-side failures.
func (dc *DepositController) Webhook(ctx *gin.Context) {
	var payload models.WebhookPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		ctx.String(http.StatusBadRequest, "Invalid webhook")
		return
	}

	if svcErr := dc.depositService.HandleWebhook(ctx.Request.Context(), &payload); svcErr != nil {
		ctx.String(svcErr.StatusCode, svcErr.Message)
		return
	}

	ctx.String(http.StatusOK, "OK")
}
