package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return TraceIDFromContext(c.Request.Context())
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrPlanNotFound), errors.Is(err, ErrSubscriptionNotFound):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrValidation):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotEligible), errors.Is(err, ErrAlreadySubscribed),
		errors.Is(err, ErrUpcomingLimit), errors.Is(err, ErrTrialAlreadyUsed):
		RespondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrSignatureMismatch):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrGatewayUnavailable):
		log.Printf("Gateway error: %v", err)
		RespondError(c, http.StatusBadGateway, "Payment gateway is unavailable, please retry")
	case errors.Is(err, ErrDatabaseError):
		log.Printf("Database error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
