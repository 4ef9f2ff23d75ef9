// Package config resolves runtime settings. Sources are layered: built-in
// defaults, then the YAML config file, then command-line flags and
// CAPTAINSLOG_* environment variables. Later sources take precedence.
//
// Secrets never live in the file. The postgres password (as a full
// connection string) and the redis password come from the OS keyring or the
// CAPTAINSLOG_SECRET environment variable.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/captainslog/internal/constants"
)

// SecretEnvVar overrides the keyring secret when set.
const SecretEnvVar = "CAPTAINSLOG_SECRET"

// Config holds runtime settings for captainslog.
type Config struct {
	Backend        constants.BackendType `yaml:"backend"`
	Path           string                `yaml:"path,omitempty"`
	DSN            string                `yaml:"dsn,omitempty"`
	Redis          RedisConfig           `yaml:"redis"`
	RequireContent bool                  `yaml:"require_content"`
	Debug          bool                  `yaml:"debug"`
	Geocoder       GeocoderConfig        `yaml:"geocoder"`
	Home           *Coordinates          `yaml:"home,omitempty"`

	// ConfigDir holds logs, backups and the instance lockfile.
	ConfigDir string `yaml:"-"`
}

type RedisConfig struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
}

type GeocoderConfig struct {
	URL       string `yaml:"url"`
	UserAgent string `yaml:"user_agent,omitempty"`
	Disabled  bool   `yaml:"disabled"`
}

// Coordinates is the fixed position used by `new --here`.
type Coordinates struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// Overrides carries flag and environment values. Empty fields are ignored.
type Overrides struct {
	Backend string
	Path    string
	DSN     string
	Debug   bool
}

// Default returns the built-in configuration rooted at configDir.
func Default(configDir string) *Config {
	return &Config{
		Backend:        constants.BackendSQLite,
		Path:           filepath.Join(configDir, constants.DefaultSQLiteFile),
		Redis:          RedisConfig{Addr: "localhost:6379"},
		RequireContent: true,
		Geocoder:       GeocoderConfig{URL: constants.DefaultGeocoderURL},
		ConfigDir:      configDir,
	}
}

// Load builds the configuration from defaults and the YAML file at path. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}
	configDir := filepath.Dir(path)
	cfg := Default(configDir)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.ConfigDir = configDir

	if cfg.Path == "" {
		cfg.Path = defaultPathFor(cfg.Backend, configDir)
	}
	if cfg.Path, err = ExpandPath(cfg.Path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply layers flag and environment values over cfg.
func (c *Config) Apply(o Overrides) error {
	if o.Backend != "" {
		prev := c.Backend
		c.Backend = constants.BackendType(strings.ToLower(o.Backend))
		if prev != c.Backend && o.Path == "" && c.Path == defaultPathFor(prev, c.ConfigDir) {
			c.Path = defaultPathFor(c.Backend, c.ConfigDir)
		}
	}
	if o.Path != "" {
		p, err := ExpandPath(o.Path)
		if err != nil {
			return err
		}
		c.Path = p
	}
	if o.DSN != "" {
		c.DSN = o.DSN
	}
	if o.Debug {
		c.Debug = true
	}
	return c.Validate()
}

// Validate checks field combinations.
func (c *Config) Validate() error {
	switch c.Backend {
	case constants.BackendSQLite, constants.BackendFile:
		if c.Path == "" {
			return fmt.Errorf("backend %s requires a path", c.Backend)
		}
	case constants.BackendPostgres:
		// DSN may be empty when the keyring holds the full connection string.
	case constants.BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("backend redis requires redis.addr")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("invalid redis db %d", c.Redis.DB)
		}
	case constants.BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q (expected sqlite, postgres, redis, file or memory)", c.Backend)
	}

	if c.Home != nil {
		if c.Home.Latitude < -90 || c.Home.Latitude > 90 {
			return fmt.Errorf("home latitude %v out of range", c.Home.Latitude)
		}
		if c.Home.Longitude < -180 || c.Home.Longitude > 180 {
			return fmt.Errorf("home longitude %v out of range", c.Home.Longitude)
		}
	}
	return nil
}

// Save writes cfg to path as YAML, creating the directory.
func (c *Config) Save(path string) error {
	path, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultPath returns the config file location.
func DefaultPath() string {
	return filepath.Join(constants.DefaultConfigDir, constants.DefaultConfigFile)
}

func defaultPathFor(backend constants.BackendType, configDir string) string {
	switch backend {
	case constants.BackendFile:
		return filepath.Join(configDir, constants.DefaultJSONFile)
	case constants.BackendSQLite:
		return filepath.Join(configDir, constants.DefaultSQLiteFile)
	}
	return ""
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
