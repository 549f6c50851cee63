package config_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"submgmt/internal/config"
	"submgmt/internal/repositories"
)

var Module = fx.Provide(
	provideSettingsRepo, provideSettingsProvider,
)

func provideSettingsRepo(db *gorm.DB) repositories.ISettingsRepository {
	return repositories.NewSettingsRepository(db)
}

func provideSettingsProvider(settings repositories.ISettingsRepository) config.Provider {
	return config.NewStoreProvider(settings)
}
