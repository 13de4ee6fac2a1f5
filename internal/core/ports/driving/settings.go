package driving

import "github.com/custodia-labs/lexica-cli/internal/core/domain"

// SettingsService manages the persisted engine configuration.
type SettingsService interface {
	// Get returns the current settings, with defaults filled in for
	// anything the config store does not hold.
	Get() (domain.Settings, error)

	// Save validates and persists settings.
	Save(settings domain.Settings) error
}
