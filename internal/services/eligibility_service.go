package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"submgmt/internal/config"
	"submgmt/internal/repositories"
	"submgmt/pkg/utils"
)

// EligibilityService decides whether a user may start a new purchase and
// where on the calendar the resulting subscription begins.
type EligibilityService interface {
	// CanPurchase returns nil when the user may purchase now, or one of
	// utils.ErrNotEligible / utils.ErrUpcomingLimit describing the block.
	CanPurchase(ctx context.Context, userID uuid.UUID) error
	// ComputeStart returns the start time for a new subscription and
	// whether it is future-dated (queued behind the current active one).
	ComputeStart(ctx context.Context, userID uuid.UUID) (time.Time, bool, error)
}

type eligibilityService struct {
	subs     repositories.ISubscriptionRepository
	settings config.Provider
	now      func() time.Time
}

func NewEligibilityService(subs repositories.ISubscriptionRepository, settings config.Provider) EligibilityService {
	return &eligibilityService{
		subs:     subs,
		settings: settings,
		now:      time.Now,
	}
}

func (e *eligibilityService) CanPurchase(ctx context.Context, userID uuid.UUID) error {
	active, err := e.subs.FindActiveForUser(ctx, userID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if active == nil {
		return nil
	}

	cfg, err := e.settings.Load(ctx)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if !cfg.EarlyRenewalEnabled {
		return utils.ErrNotEligible
	}

	daysRemaining := utils.DaysRemaining(e.now(), active.SubscriptionEndsOn)
	if daysRemaining > cfg.EarlyRenewalWindowDays {
		return utils.ErrNotEligible
	}

	// The purchase itself creates a future row, so the cap is checked
	// as current count < max; max of zero blocks early renewal outright.
	if cfg.MaxFutureSubscriptions == 0 {
		return utils.ErrNotEligible
	}
	upcoming, err := e.subs.CountUpcomingForUser(ctx, userID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if int(upcoming) >= cfg.MaxFutureSubscriptions {
		return utils.ErrUpcomingLimit
	}
	return nil
}

func (e *eligibilityService) ComputeStart(ctx context.Context, userID uuid.UUID) (time.Time, bool, error) {
	now := e.now()

	active, err := e.subs.FindActiveForUser(ctx, userID)
	if err != nil {
		return time.Time{}, false, utils.ErrDatabaseError
	}
	if active == nil {
		return now, false, nil
	}

	cfg, err := e.settings.Load(ctx)
	if err != nil {
		return time.Time{}, false, utils.ErrDatabaseError
	}
	if cfg.EarlyRenewalEnabled && active.SubscriptionEndsOn.After(now) {
		return active.SubscriptionEndsOn.Add(time.Second), true, nil
	}
	return now, false, nil
}
