package db_models

// Setting is one admin-mutable configuration option. Options the admin
// never touched fall back to defaults in the config package.
type Setting struct {
	Key       string `gorm:"size:64;primaryKey"`
	Value     string
	UpdatedAt int64 `gorm:"autoUpdateTime"`
}
