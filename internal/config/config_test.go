package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/captainslog/internal/constants"
	"github.com/julianstephens/captainslog/internal/keyring"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, constants.BackendSQLite, cfg.Backend)
	assert.Equal(t, filepath.Join(dir, "captainslog.db"), cfg.Path)
	assert.True(t, cfg.RequireContent)
	assert.Equal(t, constants.DefaultGeocoderURL, cfg.Geocoder.URL)
	assert.Equal(t, dir, cfg.ConfigDir)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend: redis
redis:
  addr: cache:6380
  db: 3
require_content: false
home:
  latitude: 51.5
  longitude: -0.12
`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, constants.BackendRedis, cfg.Backend)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.False(t, cfg.RequireContent)
	require.NotNil(t, cfg.Home)
	assert.Equal(t, 51.5, cfg.Home.Latitude)
	assert.Equal(t, constants.DefaultGeocoderURL, cfg.Geocoder.URL)
}

func TestLoad_FileBackendDefaultPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: file\npath: \"\"\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "captainslog.json"), cfg.Path)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: [unterminated"), 0600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestApply(t *testing.T) {
	dir := t.TempDir()
	cfg := Default(dir)

	require.NoError(t, cfg.Apply(Overrides{Backend: "FILE", Debug: true}))
	assert.Equal(t, constants.BackendFile, cfg.Backend)
	assert.Equal(t, filepath.Join(dir, "captainslog.json"), cfg.Path)
	assert.True(t, cfg.Debug)

	require.NoError(t, cfg.Apply(Overrides{Path: filepath.Join(dir, "other.json")}))
	assert.Equal(t, filepath.Join(dir, "other.json"), cfg.Path)

	require.NoError(t, cfg.Apply(Overrides{Backend: "postgres", DSN: "postgres://captain@db/logs"}))
	assert.Equal(t, "postgres://captain@db/logs", cfg.DSN)
}

func TestApply_KeepsCustomPath(t *testing.T) {
	cfg := Default(t.TempDir())
	cfg.Path = "/data/logs.db"
	require.NoError(t, cfg.Apply(Overrides{Backend: "file"}))
	assert.Equal(t, "/data/logs.db", cfg.Path)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown backend", func(c *Config) { c.Backend = "mongo" }, "unknown backend"},
		{"sqlite without path", func(c *Config) { c.Path = "" }, "requires a path"},
		{"redis without addr", func(c *Config) { c.Backend = constants.BackendRedis; c.Redis.Addr = "" }, "redis.addr"},
		{"negative redis db", func(c *Config) { c.Backend = constants.BackendRedis; c.Redis.DB = -1 }, "invalid redis db"},
		{"latitude out of range", func(c *Config) { c.Home = &Coordinates{Latitude: 91} }, "latitude"},
		{"longitude out of range", func(c *Config) { c.Home = &Coordinates{Longitude: -181} }, "longitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default(t.TempDir())
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := Default(filepath.Join(dir, "nested"))
	cfg.Backend = constants.BackendFile
	cfg.Path = filepath.Join(dir, "nested", "captainslog.json")
	cfg.Home = &Coordinates{Latitude: 10, Longitude: 20}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/.config/captainslog")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config/captainslog"), got)

	got, err = ExpandPath("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)
}

func TestResolveSecret(t *testing.T) {
	old := keyringGet
	t.Cleanup(func() { keyringGet = old })

	keyringGet = func() (string, error) { return "from-keyring", nil }
	t.Setenv(SecretEnvVar, "")
	s, err := ResolveSecret()
	require.NoError(t, err)
	assert.Equal(t, "from-keyring", s)

	t.Setenv(SecretEnvVar, "from-env")
	s, err = ResolveSecret()
	require.NoError(t, err)
	assert.Equal(t, "from-env", s)

	t.Setenv(SecretEnvVar, "")
	keyringGet = func() (string, error) { return "", keyring.ErrNotFound }
	s, err = ResolveSecret()
	require.NoError(t, err)
	assert.Empty(t, s)

	keyringGet = func() (string, error) { return "", keyring.ErrKeyringUnavailable }
	_, err = ResolveSecret()
	assert.True(t, errors.Is(err, keyring.ErrKeyringUnavailable))
}
