package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/captainslog/internal/cli"
	"github.com/julianstephens/captainslog/internal/cli/backups"
	"github.com/julianstephens/captainslog/internal/cli/logs"
	"github.com/julianstephens/captainslog/internal/cli/settings"
	"github.com/julianstephens/captainslog/internal/cli/system"
	"github.com/julianstephens/captainslog/internal/config"
	"github.com/julianstephens/captainslog/internal/constants"
	"github.com/julianstephens/captainslog/internal/errors"
	"github.com/julianstephens/captainslog/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"${config_path}" env:"CAPTAINSLOG_CONFIG"`
	Backend string `help:"Storage backend (sqlite, postgres, redis, file, memory)." env:"CAPTAINSLOG_BACKEND"`
	Path    string `help:"Database or JSON file path for the sqlite and file backends." env:"CAPTAINSLOG_PATH"`
	DSN     string `help:"PostgreSQL connection string. Credentials must NOT be embedded; use the keyring or CAPTAINSLOG_SECRET." name:"dsn" env:"CAPTAINSLOG_DSN"`
	Debug   bool   `help:"Log debug output to stderr." env:"CAPTAINSLOG_DEBUG"`

	Init   system.InitCmd `cmd:"" help:"Initialize captainslog storage."`
	New    logs.NewCmd    `cmd:"" help:"Write a new log entry."`
	List   logs.ListCmd   `cmd:"" help:"List log entries, newest first."`
	Show   logs.ShowCmd   `cmd:"" help:"Show a single log entry."`
	Edit   logs.EditCmd   `cmd:"" help:"Edit a log entry."`
	Delete logs.DeleteCmd `cmd:"" help:"Delete a log entry."`
	Search logs.SearchCmd `cmd:"" help:"Search entry content and location."`
	Count  logs.CountCmd  `cmd:"" help:"Print the number of log entries."`
	Clear  logs.ClearCmd  `cmd:"" help:"Delete every log entry."`
	Export logs.ExportCmd `cmd:"" help:"Export the log collection as JSON."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage log backups."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage preferences."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	DebugCmd system.DebugCmd      `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Keyring  struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the backend secret in the OS keyring."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the backend secret from the OS keyring."`
		Status system.KeyringStatusCmd `cmd:"" help:"Show whether a backend secret is stored."`
	} `cmd:"" help:"Manage the backend secret."`
	Tui system.TuiCmd `cmd:"" help:"Launch the interactive TUI." default:"1"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("A personal log book for your journey."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": config.DefaultPath(),
		},
	)

	configPath, err := config.ExpandPath(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		errors.Fatal(err)
	}
	if err := cfg.Apply(config.Overrides{
		Backend: CLI.Backend,
		Path:    CLI.Path,
		DSN:     CLI.DSN,
		Debug:   CLI.Debug,
	}); err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.ConfigDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging unavailable: %v\n", err)
	}
	logger.Debug("Configuration loaded", "backend", cfg.Backend, "location", cfg.Path, "config", configPath)

	var secret string
	if cfg.Backend == constants.BackendPostgres || cfg.Backend == constants.BackendRedis {
		if secret, err = config.ResolveSecret(); err != nil {
			logger.Warn("Failed to read backend secret from keyring", "error", err)
		}
	}

	backend, err := cli.NewProvider(cfg, secret)
	if err != nil {
		errors.Fatal(err)
	}

	base, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	appCtx := cli.NewContext(base, cfg, configPath, backend)

	// init creates the storage and doctor reports on it, so neither needs it loaded up front.
	if selected := ctx.Selected(); selected != nil && selected.Name != "init" && selected.Name != "doctor" {
		if err := backend.Load(); err != nil {
			stop()
			errors.Fatal(err)
		}
	}

	err = ctx.Run(appCtx)
	if cerr := backend.Close(); cerr != nil {
		logger.Warn("Failed to close storage", "error", cerr)
	}
	stop()
	errors.Fatal(err)
}
