package config

import (
	"context"

	"submgmt/internal/repositories"
)

type storeProvider struct {
	settings repositories.ISettingsRepository
}

// NewStoreProvider reads settings from the settings table on every Load.
func NewStoreProvider(settings repositories.ISettingsRepository) Provider {
	return &storeProvider{settings: settings}
}

func (p *storeProvider) Load(ctx context.Context) (Settings, error) {
	raw, err := p.settings.GetAll(ctx)
	if err != nil {
		return Settings{}, err
	}
	return FromMap(raw), nil
}

// StaticProvider returns the same Settings every time. Used in tests and
// available for single-tenant deployments configured purely by env.
type StaticProvider struct {
	Settings Settings
}

func (p StaticProvider) Load(ctx context.Context) (Settings, error) {
	return p.Settings, nil
}
