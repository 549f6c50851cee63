package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"submgmt/internal/models/db_models"
	"submgmt/internal/models/request_models"
	"submgmt/internal/models/response_models"
	"submgmt/internal/repositories"
	"submgmt/pkg/utils"
)

type PlanService interface {
	CreatePlan(ctx context.Context, req request_models.CreatePlanRequest) (*response_models.PlanDetail, error)
	UpdatePlan(ctx context.Context, planID uuid.UUID, req request_models.UpdatePlanRequest) (*response_models.PlanDetail, error)
	DeletePlan(ctx context.Context, planID uuid.UUID) error
	GetPlan(ctx context.Context, planID uuid.UUID) (*response_models.PlanDetail, error)
	ListPlans(ctx context.Context, activeOnly bool) ([]response_models.PlanDetail, error)
}

type planService struct {
	plans repositories.IPlanRepository
}

func NewPlanService(plans repositories.IPlanRepository) PlanService {
	return &planService{plans: plans}
}

func (p *planService) CreatePlan(ctx context.Context, req request_models.CreatePlanRequest) (*response_models.PlanDetail, error) {
	if req.Amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", utils.ErrValidation)
	}
	if req.ExpiryInMonths < 1 {
		return nil, fmt.Errorf("%w: expiry_in_months must be at least 1", utils.ErrValidation)
	}

	status := db_models.PlanStatus(req.Status)
	switch status {
	case "":
		status = db_models.PlanStatusActive
	case db_models.PlanStatusActive, db_models.PlanStatusInactive:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", utils.ErrValidation, req.Status)
	}

	slug := req.Slug
	if slug == "" {
		slug = utils.Slugify(req.Name)
	}

	plan := &db_models.Plan{
		Name:           req.Name,
		Slug:           slug,
		Description:    req.Description,
		Amount:         req.Amount,
		ExpiryInMonths: req.ExpiryInMonths,
		IsTrial:        req.IsTrial,
		Sequence:       req.Sequence,
		Status:         status,
	}
	if err := p.plans.Create(ctx, plan); err != nil {
		return nil, err
	}
	return toPlanDetail(plan), nil
}

func (p *planService) UpdatePlan(ctx context.Context, planID uuid.UUID, req request_models.UpdatePlanRequest) (*response_models.PlanDetail, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", utils.ErrValidation)
		}
		fields["name"] = *req.Name
	}
	if req.Slug != nil {
		slug := *req.Slug
		if slug == "" && req.Name != nil {
			slug = utils.Slugify(*req.Name)
		}
		fields["slug"] = slug
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Amount != nil {
		if *req.Amount < 0 {
			return nil, fmt.Errorf("%w: amount must not be negative", utils.ErrValidation)
		}
		fields["amount"] = *req.Amount
	}
	if req.ExpiryInMonths != nil {
		if *req.ExpiryInMonths < 1 {
			return nil, fmt.Errorf("%w: expiry_in_months must be at least 1", utils.ErrValidation)
		}
		fields["expiry_in_months"] = *req.ExpiryInMonths
	}
	if req.IsTrial != nil {
		fields["is_trial"] = *req.IsTrial
	}
	if req.Sequence != nil {
		fields["sequence"] = *req.Sequence
	}
	if req.Status != nil {
		status := db_models.PlanStatus(*req.Status)
		if status != db_models.PlanStatusActive && status != db_models.PlanStatusInactive {
			return nil, fmt.Errorf("%w: unknown status %q", utils.ErrValidation, *req.Status)
		}
		fields["status"] = status
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", utils.ErrValidation)
	}

	if err := p.plans.Update(ctx, planID, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrPlanNotFound
		}
		return nil, err
	}
	plan, err := p.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}
	return toPlanDetail(plan), nil
}

func (p *planService) DeletePlan(ctx context.Context, planID uuid.UUID) error {
	plan, err := p.plans.GetByID(ctx, planID)
	if err != nil {
		return err
	}
	if plan == nil {
		return utils.ErrPlanNotFound
	}
	return p.plans.Delete(ctx, planID)
}

func (p *planService) GetPlan(ctx context.Context, planID uuid.UUID) (*response_models.PlanDetail, error) {
	plan, err := p.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}
	return toPlanDetail(plan), nil
}

func (p *planService) ListPlans(ctx context.Context, activeOnly bool) ([]response_models.PlanDetail, error) {
	plans, err := p.plans.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	details := make([]response_models.PlanDetail, 0, len(plans))
	for i := range plans {
		details = append(details, *toPlanDetail(&plans[i]))
	}
	return details, nil
}

func toPlanDetail(plan *db_models.Plan) *response_models.PlanDetail {
	return &response_models.PlanDetail{
		ID:             plan.ID,
		Name:           plan.Name,
		Slug:           plan.Slug,
		Description:    plan.Description,
		Amount:         plan.Amount,
		ExpiryInMonths: plan.ExpiryInMonths,
		IsTrial:        plan.IsTrial,
		Sequence:       plan.Sequence,
		Status:         string(plan.Status),
	}
}
