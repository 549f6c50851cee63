package events_fx

import (
	"go.uber.org/fx"

	"submgmt/internal/config"
	"submgmt/internal/events"
	"submgmt/internal/repositories"
	"submgmt/internal/services"
)

var Module = fx.Options(
	fx.Provide(provideBus, provideNotificationListener),
	fx.Invoke(registerListeners),
)

func provideBus() *events.Bus {
	return events.NewBus()
}

func provideNotificationListener(
	subs repositories.ISubscriptionRepository,
	plans repositories.IPlanRepository,
	users repositories.IUserDirectory,
	mail services.IMailService,
	settings config.Provider,
) *services.NotificationListener {
	return services.NewNotificationListener(subs, plans, users, mail, settings)
}

func registerListeners(bus *events.Bus, listener *services.NotificationListener) {
	listener.Register(bus)
}
