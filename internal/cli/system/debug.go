package system

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/julianstephens/captainslog/internal/cli"
	"github.com/julianstephens/captainslog/internal/constants"
)

type DebugCmd struct {
	Paths *DebugPathsCmd `cmd:"" help:"Show storage, config and log file locations."`
	Dump  *DebugDumpCmd  `cmd:"" help:"Print the raw value stored under a key."`
}

type DebugPathsCmd struct{}

func (cmd *DebugPathsCmd) Run(ctx *cli.Context) error {
	// Output in machine-readable format
	output := map[string]string{
		"backend":  string(ctx.Config.Backend),
		"location": ctx.Backend.Location(),
		"config":   ctx.ConfigPath,
		"backups":  filepath.Join(ctx.Config.ConfigDir, constants.BackupDirName),
		"log_file": filepath.Join(ctx.Config.ConfigDir, "logs", constants.AppName+".log"),
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	fmt.Fprintln(ctx.Out, string(jsonBytes))
	return nil
}

// DebugDumpCmd prints a stored value verbatim without parsing it.
type DebugDumpCmd struct {
	Key string `arg:"" optional:"" help:"Storage key to dump."`
}

func (cmd *DebugDumpCmd) Run(ctx *cli.Context) error {
	key := cmd.Key
	if key == "" {
		key = constants.LogsStorageKey
	}

	value, found, err := ctx.Backend.Get(ctx.Ctx(), key)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !found {
		return fmt.Errorf("no value stored under %s", key)
	}

	fmt.Fprintln(ctx.Out, value)
	return nil
}
