// Package settings persists the user's display preferences.
package settings

import (
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/validation"
)

// Service reads and writes the settings blob.
type Service struct {
	provider storage.Provider
}

func NewService(provider storage.Provider) *Service {
	return &Service{provider: provider}
}

// Get returns the stored settings with defaults filled in. Unreadable
// settings are logged and replaced by the defaults.
func (s *Service) Get() models.Settings {
	var settings models.Settings
	if _, err := storage.GetJSON(s.provider, constants.KeySettings, &settings); err != nil {
		logger.Warn("Failed to read settings, using defaults", "key", constants.KeySettings, "error", err)
		settings = models.Settings{}
	}
	models.ApplyDefaultSettings(&settings)
	return settings
}

// Save validates and persists settings. Validation errors are returned;
// write failures are logged and swallowed like every other store write.
func (s *Service) Save(settings models.Settings) (models.Settings, error) {
	models.ApplyDefaultSettings(&settings)
	if err := validation.ValidateTheme(settings.Theme); err != nil {
		return models.Settings{}, err
	}
	if err := validation.ValidateHexColor(settings.AccentColor); err != nil {
		return models.Settings{}, err
	}

	if err := storage.SetJSON(s.provider, constants.KeySettings, settings); err != nil {
		logger.Error("Failed to persist settings", "key", constants.KeySettings, "error", err)
	}
	return settings, nil
}

// Set updates individual settings by key, as accepted by the CLI.
func (s *Service) Set(values map[string]string) (models.Settings, error) {
	patch, err := models.MapToSettings(values)
	if err != nil {
		return models.Settings{}, err
	}

	current := s.Get()
	if patch.Theme != "" {
		current.Theme = patch.Theme
	}
	if patch.AccentColor != "" {
		current.AccentColor = patch.AccentColor
	}
	return s.Save(current)
}
