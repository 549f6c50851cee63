package services

import (
	"context"
	"log"

	"submgmt/internal/config"
	"submgmt/internal/events"
	"submgmt/internal/repositories"
	"submgmt/pkg/utils"
)

// NotificationListener turns billing events into customer emails. Mail
// failures are logged, never propagated; the purchase already committed.
type NotificationListener struct {
	subs     repositories.ISubscriptionRepository
	plans    repositories.IPlanRepository
	users    repositories.IUserDirectory
	mail     IMailService
	settings config.Provider
}

func NewNotificationListener(
	subs repositories.ISubscriptionRepository,
	plans repositories.IPlanRepository,
	users repositories.IUserDirectory,
	mail IMailService,
	settings config.Provider,
) *NotificationListener {
	return &NotificationListener{
		subs:     subs,
		plans:    plans,
		users:    users,
		mail:     mail,
		settings: settings,
	}
}

func (n *NotificationListener) Register(bus *events.Bus) {
	bus.SubscribeSubscriptionCreated(n)
}

func (n *NotificationListener) OnSubscriptionCreated(ctx context.Context, e events.SubscriptionCreated) {
	cfg, err := n.settings.Load(ctx)
	if err != nil {
		log.Printf("notification: load settings: %v", err)
		return
	}
	if !cfg.EmailEnabled {
		return
	}

	sub, err := n.subs.GetByID(ctx, e.SubscriptionID)
	if err != nil || sub == nil {
		log.Printf("notification: subscription %s not found: %v", e.SubscriptionID, err)
		return
	}
	user, err := n.users.GetByID(ctx, e.UserID)
	if err != nil || user == nil || user.Email == "" {
		log.Printf("notification: no contact for user %s: %v", e.UserID, err)
		return
	}

	planName := "unknown"
	if plan, perr := n.plans.GetByID(ctx, e.PlanID); perr == nil && plan != nil {
		planName = plan.Name
	}

	email := SubscriptionEmail{
		PlanName:       planName,
		PlanAmount:     sub.PlanAmount,
		Currency:       sub.CurrencyCode,
		DurationMonths: sub.PlanExpiryInMonths,
		StartsOn:       sub.SubscriptionStartsOn,
		EndsOn:         sub.SubscriptionEndsOn,
		DaysRemaining:  utils.DaysRemaining(sub.SubscriptionStartsOn, sub.SubscriptionEndsOn),
	}
	if err := n.mail.SendSubscriptionSuccess(ctx, user.Email, user.DisplayName, email, cfg); err != nil {
		log.Printf("notification: send success mail to %s: %v", user.Email, err)
	}
}
