package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"submgmt/internal/models/request_models"
	"submgmt/internal/services"
	"submgmt/pkg/utils"
)

type PlanController struct {
	planService services.PlanService
}

func NewPlanController(planService services.PlanService) *PlanController {
	return &PlanController{planService: planService}
}

// ListPlans godoc
// @Summary List plans
// @Description List subscription plans, active ones only unless all=true
// @Tags Plans
// @Param all query bool false "Include inactive plans"
// @Success 200 {object} utils.APIResponse
// @Router /plans [get]
func (p *PlanController) ListPlans(c *gin.Context) {
	activeOnly := c.Query("all") != "true"

	plans, err := p.planService.ListPlans(c.Request.Context(), activeOnly)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plans, "Plans fetched successfully")
}

// GetPlan godoc
// @Summary Get a plan
// @Tags Plans
// @Param id path string true "Plan ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /plans/{id} [get]
func (p *PlanController) GetPlan(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid plan ID")
		return
	}

	plan, err := p.planService.GetPlan(c.Request.Context(), planID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plan, "Plan fetched successfully")
}

// CreatePlan godoc
// @Summary Create a plan
// @Tags Plans
// @Accept json
// @Param request body request_models.CreatePlanRequest true "Plan payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /plans [post]
func (p *PlanController) CreatePlan(c *gin.Context) {
	var req request_models.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	plan, err := p.planService.CreatePlan(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plan, "Plan created successfully")
}

// UpdatePlan godoc
// @Summary Update a plan
// @Tags Plans
// @Accept json
// @Param id path string true "Plan ID"
// @Param request body request_models.UpdatePlanRequest true "Fields to update"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /plans/{id} [put]
func (p *PlanController) UpdatePlan(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid plan ID")
		return
	}

	var req request_models.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	plan, err := p.planService.UpdatePlan(c.Request.Context(), planID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plan, "Plan updated successfully")
}

// DeletePlan godoc
// @Summary Delete a plan
// @Tags Plans
// @Param id path string true "Plan ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /plans/{id} [delete]
func (p *PlanController) DeletePlan(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid plan ID")
		return
	}

	if err := p.planService.DeletePlan(c.Request.Context(), planID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Plan deleted successfully")
}
