package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"submgmt/internal/config"
	"submgmt/internal/models/db_models"
	"submgmt/pkg/utils"
)

func newEligibilityForTest(subs *fakeSubscriptionRepo, cfg config.Settings, now time.Time) *eligibilityService {
	return &eligibilityService{
		subs:     subs,
		settings: config.StaticProvider{Settings: cfg},
		now:      func() time.Time { return now },
	}
}

func activeSubEnding(endsOn time.Time) *db_models.Subscription {
	sub := &db_models.Subscription{
		UserID:             uuid.New(),
		PlanID:             uuid.New(),
		Status:             db_models.SubStatusActive,
		IsActivePlan:       db_models.LifecycleCurrent,
		ProcessingStatus:   db_models.ProcessingPaid,
		SubscriptionEndsOn: endsOn,
	}
	sub.ID = uuid.New()
	return sub
}

func TestCanPurchase(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	t.Run("no active subscription is always eligible", func(t *testing.T) {
		svc := newEligibilityForTest(newFakeSubscriptionRepo(), config.Settings{}, now)
		assert.NoError(t, svc.CanPurchase(context.Background(), userID))
	})

	t.Run("active subscription blocks when early renewal is disabled", func(t *testing.T) {
		subs := newFakeSubscriptionRepo()
		subs.active = activeSubEnding(now.AddDate(0, 0, 3))
		svc := newEligibilityForTest(subs, config.Settings{EarlyRenewalEnabled: false}, now)
		assert.ErrorIs(t, svc.CanPurchase(context.Background(), userID), utils.ErrNotEligible)
	})

	t.Run("outside the early renewal window", func(t *testing.T) {
		subs := newFakeSubscriptionRepo()
		subs.active = activeSubEnding(now.AddDate(0, 0, 10))
		cfg := config.Settings{
			EarlyRenewalEnabled:    true,
			EarlyRenewalWindowDays: 7,
			MaxFutureSubscriptions: 1,
		}
		svc := newEligibilityForTest(subs, cfg, now)
		assert.ErrorIs(t, svc.CanPurchase(context.Background(), userID), utils.ErrNotEligible)
	})

	t.Run("inside the window with room in the queue", func(t *testing.T) {
		subs := newFakeSubscriptionRepo()
		subs.active = activeSubEnding(now.AddDate(0, 0, 3))
		cfg := config.Settings{
			EarlyRenewalEnabled:    true,
			EarlyRenewalWindowDays: 7,
			MaxFutureSubscriptions: 1,
		}
		svc := newEligibilityForTest(subs, cfg, now)
		assert.NoError(t, svc.CanPurchase(context.Background(), userID))
	})

	t.Run("zero future cap blocks early renewal outright", func(t *testing.T) {
		subs := newFakeSubscriptionRepo()
		subs.active = activeSubEnding(now.AddDate(0, 0, 3))
		cfg := config.Settings{
			EarlyRenewalEnabled:    true,
			EarlyRenewalWindowDays: 7,
			MaxFutureSubscriptions: 0,
		}
		svc := newEligibilityForTest(subs, cfg, now)
		assert.ErrorIs(t, svc.CanPurchase(context.Background(), userID), utils.ErrNotEligible)
	})

	t.Run("queue already full", func(t *testing.T) {
		subs := newFakeSubscriptionRepo()
		subs.active = activeSubEnding(now.AddDate(0, 0, 3))
		subs.upcoming = []db_models.Subscription{{Status: db_models.SubStatusUpcoming}}
		cfg := config.Settings{
			EarlyRenewalEnabled:    true,
			EarlyRenewalWindowDays: 7,
			MaxFutureSubscriptions: 1,
		}
		svc := newEligibilityForTest(subs, cfg, now)
		assert.ErrorIs(t, svc.CanPurchase(context.Background(), userID), utils.ErrUpcomingLimit)
	})

	t.Run("window boundary counts as eligible", func(t *testing.T) {
		subs := newFakeSubscriptionRepo()
		subs.active = activeSubEnding(now.AddDate(0, 0, 7))
		cfg := config.Settings{
			EarlyRenewalEnabled:    true,
			EarlyRenewalWindowDays: 7,
			MaxFutureSubscriptions: 1,
		}
		svc := newEligibilityForTest(subs, cfg, now)
		assert.NoError(t, svc.CanPurchase(context.Background(), userID))
	})
}

func TestComputeStart(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	t.Run("no active subscription starts immediately", func(t *testing.T) {
		svc := newEligibilityForTest(newFakeSubscriptionRepo(), config.Settings{}, now)
		start, future, err := svc.ComputeStart(context.Background(), userID)
		require.NoError(t, err)
		assert.False(t, future)
		assert.Equal(t, now, start)
	})

	t.Run("early renewal queues one second after expiry", func(t *testing.T) {
		endsOn := now.AddDate(0, 0, 3)
		subs := newFakeSubscriptionRepo()
		subs.active = activeSubEnding(endsOn)
		svc := newEligibilityForTest(subs, config.Settings{EarlyRenewalEnabled: true}, now)

		start, future, err := svc.ComputeStart(context.Background(), userID)
		require.NoError(t, err)
		assert.True(t, future)
		assert.Equal(t, endsOn.Add(time.Second), start)
	})

	t.Run("expired active row starts immediately", func(t *testing.T) {
		subs := newFakeSubscriptionRepo()
		subs.active = activeSubEnding(now.AddDate(0, 0, -1))
		svc := newEligibilityForTest(subs, config.Settings{EarlyRenewalEnabled: true}, now)

		start, future, err := svc.ComputeStart(context.Background(), userID)
		require.NoError(t, err)
		assert.False(t, future)
		assert.Equal(t, now, start)
	})
}
