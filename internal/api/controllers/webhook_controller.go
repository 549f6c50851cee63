package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"submgmt/internal/services"
	"submgmt/pkg/utils"
)

type WebhookController struct {
	paymentService services.PaymentService
}

func NewWebhookController(paymentService services.PaymentService) *WebhookController {
	return &WebhookController{paymentService: paymentService}
}

// HandleRazorpay godoc
// @Summary Razorpay webhook receiver
// @Description Verifies the webhook signature against the raw body and applies payment.captured / payment.failed events.
// @Tags Webhooks
// @Accept json
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /webhooks/razorpay [post]
func (w *WebhookController) HandleRazorpay(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		utils.RespondError(c, http.StatusBadRequest, "Empty webhook body")
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if signature == "" {
		utils.RespondError(c, http.StatusBadRequest, "Missing webhook signature")
		return
	}

	err = w.paymentService.HandleWebhook(c.Request.Context(), body, signature)
	if err != nil {
		if errors.Is(err, utils.ErrSignatureMismatch) {
			utils.RespondError(c, http.StatusBadRequest, "Invalid webhook signature")
			return
		}
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Webhook processed")
}
