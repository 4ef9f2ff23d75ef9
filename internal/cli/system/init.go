package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/captainslog/internal/cli"
	"github.com/julianstephens/captainslog/internal/constants"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting the existing database or file before initialization (sqlite and file backends)."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(ctx.Config.ConfigDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := ctx.Backend.Init(); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "Initialized %s storage at: %s\n", constants.AppName, ctx.Backend.Location())

	if ctx.ConfigPath != "" {
		if _, err := os.Stat(ctx.ConfigPath); os.IsNotExist(err) {
			if err := ctx.Config.Save(ctx.ConfigPath); err != nil {
				return err
			}
			fmt.Fprintf(ctx.Out, "Wrote config file: %s\n", ctx.ConfigPath)
		} else if err != nil {
			return fmt.Errorf("failed to access config file: %w", err)
		}
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	switch ctx.Config.Backend {
	case constants.BackendSQLite, constants.BackendFile:
	case constants.BackendMemory:
		return nil
	default:
		return fmt.Errorf("--force is only supported for the sqlite and file backends, not %s", ctx.Config.Backend)
	}

	dbPath := ctx.Config.Path
	if _, err := os.Stat(dbPath); err == nil {
		// Close first to prevent file locking issues
		if err := ctx.Backend.Close(); err != nil {
			return fmt.Errorf("failed to close existing storage: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing storage: %w", err)
		}
		fmt.Fprintf(ctx.Out, "Deleted existing storage at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		// Some other error occurred while checking the database; surface it to the user
		return fmt.Errorf("failed to access existing storage: %w", err)
	}
	return nil
}
