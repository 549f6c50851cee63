package billing_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"submgmt/internal/config"
	"submgmt/internal/events"
	"submgmt/internal/gateway"
	"submgmt/internal/repositories"
	"submgmt/internal/services"
)

var Module = fx.Provide(
	provideSubscriptionRepo,
	provideTransactionRepo,
	providePendingIntentRepo,
	provideUserDirectory,
	provideEligibilityService,
	providePaymentService,
	provideSubscriptionService,
)

func provideSubscriptionRepo(db *gorm.DB) repositories.ISubscriptionRepository {
	return repositories.NewSubscriptionRepository(db)
}

func provideTransactionRepo(db *gorm.DB) repositories.ITransactionRepository {
	return repositories.NewTransactionRepository(db)
}

func providePendingIntentRepo(db *gorm.DB) repositories.IPendingIntentRepository {
	return repositories.NewPendingIntentRepository(db)
}

func provideUserDirectory(db *gorm.DB) repositories.IUserDirectory {
	return repositories.NewUserDirectory(db)
}

func provideEligibilityService(
	subs repositories.ISubscriptionRepository,
	settings config.Provider,
) services.EligibilityService {
	return services.NewEligibilityService(subs, settings)
}

func providePaymentService(
	plans repositories.IPlanRepository,
	subs repositories.ISubscriptionRepository,
	txns repositories.ITransactionRepository,
	intents repositories.IPendingIntentRepository,
	eligibility services.EligibilityService,
	client gateway.Client,
	settings config.Provider,
	bus *events.Bus,
) services.PaymentService {
	return services.NewPaymentService(plans, subs, txns, intents, eligibility, client, settings, bus)
}

func provideSubscriptionService(
	subs repositories.ISubscriptionRepository,
	plans repositories.IPlanRepository,
) services.SubscriptionService {
	return services.NewSubscriptionService(subs, plans)
}
