package models

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/constants"
)

// Settings represents application-wide settings
type Settings struct {
	Theme       string `json:"theme"`       // "light" or "dark"
	AccentColor string `json:"accentColor"` // hex color, e.g. "#FF8C42"
}

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingTheme:
			settings.Theme = value
		case constants.SettingAccentColor:
			settings.AccentColor = value
		default:
			return Settings{}, fmt.Errorf("unknown setting %q", key)
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTheme:       settings.Theme,
		constants.SettingAccentColor: settings.AccentColor,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Theme == "" {
		settings.Theme = constants.DefaultTheme
	}
	if settings.AccentColor == "" {
		settings.AccentColor = constants.DefaultAccentColor
	}
}
