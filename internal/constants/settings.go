package constants

const (
	// Settings keys
	SettingTheme       = "theme"
	SettingAccentColor = "accent_color"

	ThemeLight = "light"
	ThemeDark  = "dark"

	// Default Settings Values
	DefaultTheme       = ThemeLight
	DefaultAccentColor = "#FF8C42"
	DefaultTimezone    = "Local" // Use system local timezone by default
)
