package services

import (
	"context"
	"log"
	"time"

	"submgmt/internal/config"
	"submgmt/internal/models/db_models"
	"submgmt/internal/repositories"
	"submgmt/pkg/utils"
)

// SweeperService runs the periodic batch jobs. Both sweeps are
// idempotent and best-effort: one bad row never aborts the batch.
type SweeperService interface {
	ExpireSubscriptions(ctx context.Context) (int, error)
	SendRenewalReminders(ctx context.Context) (int, error)
}

type sweeperService struct {
	subs     repositories.ISubscriptionRepository
	plans    repositories.IPlanRepository
	users    repositories.IUserDirectory
	mail     IMailService
	settings config.Provider
	now      func() time.Time
}

func NewSweeperService(
	subs repositories.ISubscriptionRepository,
	plans repositories.IPlanRepository,
	users repositories.IUserDirectory,
	mail IMailService,
	settings config.Provider,
) SweeperService {
	return &sweeperService{
		subs:     subs,
		plans:    plans,
		users:    users,
		mail:     mail,
		settings: settings,
		now:      time.Now,
	}
}

// ExpireSubscriptions marks every overdue subscription expired and,
// per expiry, promotes that user's earliest queued upcoming row. The
// promotion is per-row on purpose: each expiry can trigger a distinct
// activation.
func (s *sweeperService) ExpireSubscriptions(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.subs.ListExpiringBefore(ctx, now)
	if err != nil {
		return 0, utils.ErrDatabaseError
	}

	expired := 0
	for _, sub := range due {
		err := s.subs.Update(ctx, sub.ID, map[string]interface{}{
			"is_active_plan": db_models.LifecycleExpired,
			"status":         db_models.SubStatusExpired,
		})
		if err != nil {
			log.Printf("sweep: failed to expire subscription %s: %v", sub.ID, err)
			continue
		}
		expired++
		log.Printf("sweep: marked subscription %s (user %s) as expired", sub.ID, sub.UserID)

		next, err := s.subs.FindNextUpcoming(ctx, sub.UserID, sub.SubscriptionEndsOn)
		if err != nil {
			log.Printf("sweep: failed to look up upcoming subscription for user %s: %v", sub.UserID, err)
			continue
		}
		if next == nil {
			continue
		}
		err = s.subs.Update(ctx, next.ID, map[string]interface{}{
			"is_active_plan":    db_models.LifecycleCurrent,
			"processing_status": db_models.ProcessingPaid,
			"status":            db_models.SubStatusActive,
		})
		if err != nil {
			log.Printf("sweep: failed to activate upcoming subscription %s for user %s: %v", next.ID, next.UserID, err)
			continue
		}
		log.Printf("sweep: activated upcoming subscription %s for user %s (replaced %s)", next.ID, next.UserID, sub.ID)
	}

	if expired > 0 {
		log.Printf("sweep: total subscriptions marked expired: %d", expired)
	}
	return expired, nil
}

// SendRenewalReminders emails users whose active subscription ends
// within the configured window. The sent flag is one-shot: rows flagged
// once are never reminded again, even if the window widens later.
func (s *sweeperService) SendRenewalReminders(ctx context.Context) (int, error) {
	cfg, err := s.settings.Load(ctx)
	if err != nil {
		return 0, utils.ErrDatabaseError
	}
	if !cfg.EmailEnabled || cfg.EarlyRenewalWindowDays <= 0 {
		return 0, nil
	}

	now := s.now()
	windowEnd := now.AddDate(0, 0, cfg.EarlyRenewalWindowDays)
	due, err := s.subs.ListDueForReminder(ctx, windowEnd, now)
	if err != nil {
		return 0, utils.ErrDatabaseError
	}

	sent := 0
	for _, sub := range due {
		daysRemaining := utils.DaysRemaining(now, sub.SubscriptionEndsOn)
		if daysRemaining <= 0 || daysRemaining > cfg.EarlyRenewalWindowDays {
			continue
		}

		user, err := s.users.GetByID(ctx, sub.UserID)
		if err != nil || user == nil {
			log.Printf("sweep: no user record for %s, skipping reminder: %v", sub.UserID, err)
			continue
		}

		planName := "unknown"
		if plan, err := s.plans.GetByID(ctx, sub.PlanID); err == nil && plan != nil {
			planName = plan.Name
		}
		email := SubscriptionEmail{
			PlanName:       planName,
			PlanAmount:     sub.PlanAmount,
			Currency:       sub.CurrencyCode,
			DurationMonths: sub.PlanExpiryInMonths,
			StartsOn:       sub.SubscriptionStartsOn,
			EndsOn:         sub.SubscriptionEndsOn,
			DaysRemaining:  daysRemaining,
		}
		err = s.mail.SendRenewalReminder(ctx, user.Email, user.DisplayName, email, cfg)
		if err != nil {
			log.Printf("sweep: failed to send renewal reminder for subscription %s: %v", sub.ID, err)
			continue
		}

		err = s.subs.Update(ctx, sub.ID, map[string]interface{}{"renewal_reminder_sent": true})
		if err != nil {
			log.Printf("sweep: reminder sent but flag update failed for subscription %s: %v", sub.ID, err)
			continue
		}
		sent++
		log.Printf("sweep: renewal reminder sent to user %s for subscription %s", sub.UserID, sub.ID)
	}
	return sent, nil
}
