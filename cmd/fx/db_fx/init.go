package db_fx

import (
	"context"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"submgmt/internal/infra"
)

var Module = fx.Options(
	fx.Provide(provideDB),
	fx.Invoke(runMigrations),
)

func provideDB(lc fx.Lifecycle) *gorm.DB {
	db := infra.InitPostgresql()
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.ClosePostgresql(db)
			return nil
		},
	})
	return db
}

func runMigrations(db *gorm.DB) error {
	return infra.Migrate(db)
}
