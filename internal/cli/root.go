package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/captainslog/internal/backup"
	"github.com/julianstephens/captainslog/internal/config"
	"github.com/julianstephens/captainslog/internal/constants"
	"github.com/julianstephens/captainslog/internal/geo"
	"github.com/julianstephens/captainslog/internal/kv"
	"github.com/julianstephens/captainslog/internal/kv/file"
	"github.com/julianstephens/captainslog/internal/kv/postgres"
	"github.com/julianstephens/captainslog/internal/kv/redis"
	"github.com/julianstephens/captainslog/internal/kv/sqlite"
	"github.com/julianstephens/captainslog/internal/logger"
	"github.com/julianstephens/captainslog/internal/logstore"
	"github.com/julianstephens/captainslog/internal/settings"
)

type Context struct {
	Config     *config.Config
	ConfigPath string
	Backend    kv.Provider
	Store      *logstore.Store
	Settings   *settings.Store
	Locator    geo.Locator
	Geocoder   geo.Geocoder

	Out io.Writer
	In  io.Reader

	base   context.Context
	reader *bufio.Reader
}

// NewContext wires the log store, preferences and location services over
// backend. base is the context handed to store operations.
func NewContext(base context.Context, cfg *config.Config, configPath string, backend kv.Provider) *Context {
	c := &Context{
		Config:     cfg,
		ConfigPath: configPath,
		Backend:    backend,
		Store:      logstore.New(backend, logstore.WithRequireContent(cfg.RequireContent)),
		Settings:   settings.New(backend),
		Out:        os.Stdout,
		In:         os.Stdin,
		base:       base,
	}
	if cfg.Home != nil {
		c.Locator = geo.StaticLocator{Position: &geo.Coordinates{
			Latitude:  cfg.Home.Latitude,
			Longitude: cfg.Home.Longitude,
		}}
	}
	if !cfg.Geocoder.Disabled {
		c.Geocoder = geo.NewNominatimGeocoder(cfg.Geocoder.URL, cfg.Geocoder.UserAgent)
	}
	return c
}

// Ctx returns the context commands pass to blocking calls.
func (c *Context) Ctx() context.Context {
	if c.base == nil {
		return context.Background()
	}
	return c.base
}

// NewProvider returns the backend selected by cfg. secret is the keyring or
// environment secret: a full connection string for postgres, the password for
// redis. It is ignored by the local backends.
func NewProvider(cfg *config.Config, secret string) (kv.Provider, error) {
	switch cfg.Backend {
	case constants.BackendSQLite:
		return sqlite.New(cfg.Path), nil
	case constants.BackendFile:
		return file.New(cfg.Path), nil
	case constants.BackendMemory:
		return kv.NewMemory(), nil
	case constants.BackendPostgres:
		if secret != "" {
			// Keyring-held connection strings may carry the password.
			return postgres.New(secret), nil
		}
		if _, err := postgres.ValidateConnString(cfg.DSN); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL connection strings with embedded credentials are not allowed in the config file; store it with 'captainslog keyring set' or %s", config.SecretEnvVar)
			}
			return nil, err
		}
		return postgres.New(cfg.DSN), nil
	case constants.BackendRedis:
		return redis.New(redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: secret,
			DB:       cfg.Redis.DB,
		}), nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// Confirm prints prompt and reads a y/N answer from In.
func (c *Context) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(c.Out, "%s [y/N]: ", prompt)
	line, err := c.ReadLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(c.Out)
			return false, nil
		}
		return false, err
	}
	response := strings.TrimSpace(strings.ToLower(line))
	return response == "y" || response == "yes", nil
}

// ReadLine reads one line from In without the trailing newline. A final
// line without a newline is returned with a nil error.
func (c *Context) ReadLine() (string, error) {
	if c.reader == nil {
		in := c.In
		if in == nil {
			in = os.Stdin
		}
		c.reader = bufio.NewReader(in)
	}
	line, err := c.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if c.Store.Count(c.Ctx()) == 0 {
		return
	}
	mgr := backup.NewManager(c.Store, c.Config.ConfigDir)
	if _, err := mgr.CreateBackup(c.Ctx()); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}
