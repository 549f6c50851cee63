package controllers_fx

import (
	"go.uber.org/fx"

	"submgmt/internal/api/controllers"
	"submgmt/internal/services"
)

var Module = fx.Provide(
	provideSubscriptionController,
	provideWebhookController,
	provideSweeperController,
)

func provideSubscriptionController(
	paymentService services.PaymentService,
	subscriptionService services.SubscriptionService,
) *controllers.SubscriptionController {
	return controllers.NewSubscriptionController(paymentService, subscriptionService)
}

func provideWebhookController(paymentService services.PaymentService) *controllers.WebhookController {
	return controllers.NewWebhookController(paymentService)
}

func provideSweeperController(sweeper services.SweeperService) *controllers.SweeperController {
	return controllers.NewSweeperController(sweeper)
}
