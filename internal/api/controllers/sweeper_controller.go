package controllers

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"submgmt/internal/services"
	"submgmt/pkg/utils"
)

// SweeperController exposes the sweeps to external cron. If CRON_TOKEN
// is set, callers must present it in X-Cron-Token.
type SweeperController struct {
	sweeper services.SweeperService
}

func NewSweeperController(sweeper services.SweeperService) *SweeperController {
	return &SweeperController{sweeper: sweeper}
}

// RunExpiry godoc
// @Summary Expire overdue subscriptions and promote queued ones
// @Tags Cron
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /cron/expire-subscriptions [post]
func (s *SweeperController) RunExpiry(c *gin.Context) {
	if !s.authorized(c) {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid cron token")
		return
	}

	count, err := s.sweeper.ExpireSubscriptions(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"expired": count}, "Expiry sweep completed")
}

// RunReminders godoc
// @Summary Send renewal reminder emails
// @Tags Cron
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /cron/send-renewal-reminders [post]
func (s *SweeperController) RunReminders(c *gin.Context) {
	if !s.authorized(c) {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid cron token")
		return
	}

	count, err := s.sweeper.SendRenewalReminders(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"sent": count}, "Reminder sweep completed")
}

func (s *SweeperController) authorized(c *gin.Context) bool {
	token := os.Getenv("CRON_TOKEN")
	if token == "" {
		return true
	}
	presented := c.GetHeader("X-Cron-Token")
	return subtle.ConstantTimeCompare([]byte(token), []byte(presented)) == 1
}
