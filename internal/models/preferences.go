package models

import "github.com/julianstephens/captainslog/internal/constants"

// Preferences represents the user's application preferences
type Preferences struct {
	ThemeMode        constants.ThemeMode `json:"theme_mode"`        // system, light or dark
	LocationTracking bool                `json:"location_tracking"` // whether new entries may look up the current place
}

// DefaultPreferences returns the preferences used before anything is saved.
func DefaultPreferences() Preferences {
	return Preferences{
		ThemeMode:        constants.DefaultThemeMode,
		LocationTracking: constants.DefaultLocationTracking,
	}
}

// ParseThemeMode validates a theme mode string.
func ParseThemeMode(s string) (constants.ThemeMode, bool) {
	switch constants.ThemeMode(s) {
	case constants.ThemeSystem, constants.ThemeLight, constants.ThemeDark:
		return constants.ThemeMode(s), true
	}
	return "", false
}
