package sweeper_fx

import (
	"context"

	"go.uber.org/fx"

	"submgmt/internal/config"
	"submgmt/internal/repositories"
	"submgmt/internal/services"
)

var Module = fx.Options(
	fx.Provide(provideSweeperService, provideScheduler),
	fx.Invoke(startScheduler),
)

func provideSweeperService(
	subs repositories.ISubscriptionRepository,
	plans repositories.IPlanRepository,
	users repositories.IUserDirectory,
	mail services.IMailService,
	settings config.Provider,
) services.SweeperService {
	return services.NewSweeperService(subs, plans, users, mail, settings)
}

func provideScheduler(sweeper services.SweeperService, settings config.Provider) *services.SweepScheduler {
	return services.NewSweepScheduler(sweeper, settings)
}

func startScheduler(lc fx.Lifecycle, scheduler *services.SweepScheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			scheduler.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			scheduler.Stop()
			return nil
		},
	})
}
