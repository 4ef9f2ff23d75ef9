package constants

import "time"

// ThemeMode represents the user's colour scheme preference
type ThemeMode string

// BackendType represents the kind of key-value backend holding the collection
type BackendType string

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "captainslog"
	DisplayName        = "Captain's Log"
	Version            = "v0.3.0"
	DefaultConfigDir   = "~/.config/captainslog"
	DefaultConfigFile  = "config.yaml"
	DefaultSQLiteFile  = "captainslog.db"
	DefaultJSONFile    = "captainslog.json"
	DefaultKeyringUser = "backend-secret"

	// LogsStorageKey is the single key the whole collection is stored under.
	LogsStorageKey = "@user_logs"

	// Preference keys share the backend with the collection.
	ThemeModeKey        = "@theme_mode"
	LocationTrackingKey = "@location_tracking"

	// TitleMaxLength is the display width titles are bounded to in list views.
	TitleMaxLength = 50
	TitleEllipsis  = "..."

	// DateFormat is the date format used in list rendering (YYYY-MM-DD)
	DateFormat = "2006-01-02"
	// TimeFormat is the time-of-day format used in list rendering (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups        = 14
	BackupDirName     = "backups"
	BackupFilePrefix  = "captainslog-"
	BackupFileSuffix  = ".json"
	CorruptFileSuffix = ".corrupt"

	// Instance lock constants
	LockfileName = "captainslog.lock"

	// Geolocation constants
	DefaultGeocoderURL   = "https://nominatim.openstreetmap.org/reverse"
	GeocoderTimeout      = 5 * time.Second
	CoordinatePrecision  = 5
	DefaultDictationLang = "en-US"

	// Backend types
	BackendSQLite   BackendType = "sqlite"
	BackendPostgres BackendType = "postgres"
	BackendRedis    BackendType = "redis"
	BackendFile     BackendType = "file"
	BackendMemory   BackendType = "memory"

	// Theme modes
	ThemeSystem ThemeMode = "system"
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"

	// Default preference values
	DefaultThemeMode        = ThemeSystem
	DefaultLocationTracking = true
)

// Session States
const (
	StateList SessionState = iota
	StateSearch
	StateDetail
	StateNew
	StateEdit
	StateConfirmDelete
	StateSettings
)
