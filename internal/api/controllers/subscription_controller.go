package controllers

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"submgmt/internal/models/request_models"
	"submgmt/internal/models/response_models"
	"submgmt/internal/services"
	"submgmt/pkg/utils"
)

type SubscriptionController struct {
	paymentService      services.PaymentService
	subscriptionService services.SubscriptionService
}

func NewSubscriptionController(
	paymentService services.PaymentService,
	subscriptionService services.SubscriptionService,
) *SubscriptionController {
	return &SubscriptionController{
		paymentService:      paymentService,
		subscriptionService: subscriptionService,
	}
}

// Purchase godoc
// @Summary Start a subscription purchase
// @Description Validates eligibility and either records a trial or creates a gateway order. The response always carries HTTP 200; the body status field says 1 for ok, 0 for malformed input, -1 for rejection.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body request_models.PurchaseRequest true "Purchase payload"
// @Success 200 {object} response_models.PurchaseResponse
// @Router /subscriptions/purchase [post]
func (s *SubscriptionController) Purchase(c *gin.Context) {
	var req request_models.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, response_models.PurchaseResponse{
			Status:  response_models.StatusBadInput,
			Message: "Invalid request payload",
		})
		return
	}

	if !s.authorizedFor(c, req.UserID) {
		utils.RespondError(c, http.StatusForbidden, "Forbidden")
		return
	}

	amount, ok := decodeAmount(req.PlanAmount)
	if !ok {
		c.JSON(http.StatusOK, response_models.PurchaseResponse{
			Status:  response_models.StatusBadInput,
			Message: "Invalid plan amount",
		})
		return
	}
	months, ok := decodeMonths(req.PlanExpiryInMonths)
	if !ok {
		c.JSON(http.StatusOK, response_models.PurchaseResponse{
			Status:  response_models.StatusBadInput,
			Message: "Invalid plan expiry",
		})
		return
	}

	result, err := s.paymentService.Purchase(c.Request.Context(), services.PurchaseInput{
		UserID:         req.UserID,
		PlanID:         req.PlanID,
		PlanAmount:     amount,
		ExpiryInMonths: months,
		Notes:          req.Notes,
	})
	if err != nil {
		s.respondPurchaseError(c, err)
		return
	}

	resp := response_models.PurchaseResponse{
		Status:         response_models.StatusOK,
		Trial:          result.Trial,
		SubscriptionID: result.SubscriptionID,
		Notes:          result.Notes,
	}
	if result.Trial {
		resp.Message = "Trial subscription activated"
	} else {
		resp.Message = "Order created"
		resp.PaymentData = &response_models.PaymentData{
			OrderID:  result.OrderID,
			KeyID:    result.KeyID,
			Amount:   result.Amount,
			Currency: result.Currency,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// CompletePayment godoc
// @Summary Complete a purchase
// @Description Verifies the gateway signature and commits the subscription, or finalizes a trial. Same 1/0/-1 body status convention as purchase.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body request_models.CompletePaymentRequest true "Completion payload"
// @Success 200 {object} response_models.CompletePaymentResponse
// @Router /subscriptions/complete-payment [post]
func (s *SubscriptionController) CompletePayment(c *gin.Context) {
	var req request_models.CompletePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, response_models.CompletePaymentResponse{
			Status:  response_models.StatusBadInput,
			Message: "Invalid request payload",
		})
		return
	}

	var result *services.CompleteResult
	var err error
	if req.Trial {
		if req.SubscriptionID == nil {
			c.JSON(http.StatusOK, response_models.CompletePaymentResponse{
				Status:  response_models.StatusBadInput,
				Message: "subscription_id is required for trial completion",
			})
			return
		}
		result, err = s.paymentService.CompleteTrial(c.Request.Context(), *req.SubscriptionID, req.Notes)
	} else {
		if req.PaymentID == "" || req.OrderID == "" || req.Signature == "" {
			c.JSON(http.StatusOK, response_models.CompletePaymentResponse{
				Status:  response_models.StatusBadInput,
				Message: "payment_id, order_id and signature are required",
			})
			return
		}
		result, err = s.paymentService.CompletePayment(c.Request.Context(), services.CompleteInput{
			SubscriptionID: req.SubscriptionID,
			PaymentID:      req.PaymentID,
			OrderID:        req.OrderID,
			Signature:      req.Signature,
		})
	}
	if err != nil {
		c.JSON(http.StatusOK, response_models.CompletePaymentResponse{
			Status:  response_models.StatusRejected,
			Message: completionErrorMessage(err),
		})
		return
	}

	c.JSON(http.StatusOK, response_models.CompletePaymentResponse{
		Status:        response_models.StatusOK,
		Message:       "Payment recorded",
		TransactionID: &result.TransactionID,
		PaymentStatus: result.PaymentStatus,
		Trial:         result.Trial,
	})
}

// Me godoc
// @Summary Current active subscription
// @Tags Subscriptions
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /subscriptions/me [get]
func (s *SubscriptionController) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	detail, err := s.subscriptionService.GetActiveForUser(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, detail, "Active subscription fetched successfully")
}

// History godoc
// @Summary Subscription history
// @Tags Subscriptions
// @Success 200 {object} utils.APIResponse
// @Router /subscriptions/history [get]
func (s *SubscriptionController) History(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	history, err := s.subscriptionService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, history, "Subscription history fetched successfully")
}

// Stats godoc
// @Summary Aggregate subscription statistics
// @Tags Admin
// @Success 200 {object} utils.APIResponse
// @Router /admin/stats [get]
func (s *SubscriptionController) Stats(c *gin.Context) {
	stats, err := s.subscriptionService.Stats(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, stats, "Stats fetched successfully")
}

func (s *SubscriptionController) respondPurchaseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrPlanNotFound), errors.Is(err, utils.ErrValidation):
		c.JSON(http.StatusOK, response_models.PurchaseResponse{
			Status:  response_models.StatusBadInput,
			Message: err.Error(),
		})
	case errors.Is(err, utils.ErrNotEligible), errors.Is(err, utils.ErrAlreadySubscribed),
		errors.Is(err, utils.ErrUpcomingLimit), errors.Is(err, utils.ErrTrialAlreadyUsed):
		c.JSON(http.StatusOK, response_models.PurchaseResponse{
			Status:  response_models.StatusRejected,
			Message: err.Error(),
		})
	default:
		utils.HandleServiceError(c, err)
	}
}

func completionErrorMessage(err error) string {
	switch {
	case errors.Is(err, utils.ErrSignatureMismatch):
		return "Payment signature verification failed"
	case errors.Is(err, utils.ErrSubscriptionNotFound):
		return "Subscription not found or payment session expired"
	case errors.Is(err, utils.ErrAlreadySubscribed), errors.Is(err, utils.ErrUpcomingLimit):
		return err.Error()
	case errors.Is(err, utils.ErrGatewayUnavailable):
		return "Payment gateway is unavailable, please retry"
	default:
		return "Payment could not be recorded"
	}
}

// authorizedFor allows a user to purchase for themselves and admins to
// purchase on behalf of anyone.
func (s *SubscriptionController) authorizedFor(c *gin.Context, userID uuid.UUID) bool {
	if c.GetString("Role") == "admin" {
		return true
	}
	current, ok := currentUserID(c)
	return ok && current == userID
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// decodeAmount reverses the frontend's base64 wrapping of the plan
// amount. Plain numbers are accepted when the decoded bytes are not a
// number themselves.
func decodeAmount(v string) (float64, bool) {
	for _, candidate := range decodeCandidates(v) {
		amount, err := strconv.ParseFloat(candidate, 64)
		if err == nil && amount >= 0 {
			return amount, true
		}
	}
	return 0, false
}

func decodeMonths(v string) (int, bool) {
	for _, candidate := range decodeCandidates(v) {
		months, err := strconv.Atoi(candidate)
		if err == nil && months >= 1 {
			return months, true
		}
	}
	return 0, false
}

// decodeCandidates yields the base64-decoded form first, then the raw
// value. A plain "1200" is itself valid base64 but decodes to garbage,
// so decoding alone cannot tell wrapped from unwrapped input.
func decodeCandidates(v string) []string {
	var out []string
	if decoded, err := base64.StdEncoding.DecodeString(v); err == nil {
		out = append(out, strings.TrimSpace(string(decoded)))
	}
	return append(out, strings.TrimSpace(v))
}
