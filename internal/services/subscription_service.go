package services

import (
	"context"

	"github.com/google/uuid"

	"submgmt/internal/models/db_models"
	"submgmt/internal/models/response_models"
	"submgmt/internal/repositories"
	"submgmt/pkg/utils"
)

type SubscriptionService interface {
	GetActiveForUser(ctx context.Context, userID uuid.UUID) (*response_models.SubscriptionDetail, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]response_models.SubscriptionDetail, error)
	Stats(ctx context.Context) (response_models.SubscriptionStats, error)
}

type subscriptionService struct {
	subs  repositories.ISubscriptionRepository
	plans repositories.IPlanRepository
}

func NewSubscriptionService(subs repositories.ISubscriptionRepository, plans repositories.IPlanRepository) SubscriptionService {
	return &subscriptionService{subs: subs, plans: plans}
}

func (s *subscriptionService) GetActiveForUser(ctx context.Context, userID uuid.UUID) (*response_models.SubscriptionDetail, error) {
	sub, err := s.subs.FindActiveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, utils.ErrSubscriptionNotFound
	}
	detail := s.toDetail(ctx, sub)
	return &detail, nil
}

func (s *subscriptionService) ListForUser(ctx context.Context, userID uuid.UUID) ([]response_models.SubscriptionDetail, error) {
	subs, err := s.subs.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	details := make([]response_models.SubscriptionDetail, 0, len(subs))
	for i := range subs {
		details = append(details, s.toDetail(ctx, &subs[i]))
	}
	return details, nil
}

func (s *subscriptionService) Stats(ctx context.Context) (response_models.SubscriptionStats, error) {
	return s.subs.Stats(ctx)
}

func (s *subscriptionService) toDetail(ctx context.Context, sub *db_models.Subscription) response_models.SubscriptionDetail {
	// Soft-deleted plans leave history rows behind; fall back to a
	// placeholder name and keep the snapshot numbers.
	planName := "unknown"
	if plan, err := s.plans.GetByID(ctx, sub.PlanID); err == nil && plan != nil {
		planName = plan.Name
	}

	detail := response_models.SubscriptionDetail{
		ID:                 sub.ID,
		PlanID:             sub.PlanID,
		PlanName:           planName,
		PlanAmount:         sub.PlanAmount,
		PlanExpiryInMonths: sub.PlanExpiryInMonths,
		Currency:           sub.CurrencyCode,
		AmountPaid:         sub.AmountPaid,
		Status:             string(sub.Status),
		StartsOn:           sub.SubscriptionStartsOn,
		EndsOn:             sub.SubscriptionEndsOn,
		SubscribedOn:       sub.SubscribedOn,
	}
	if sub.PaymentStatus != nil {
		detail.PaymentStatus = *sub.PaymentStatus
	}
	return detail
}
