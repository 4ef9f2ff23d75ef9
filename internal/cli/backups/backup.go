package backups

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/captainslog/internal/backup"
	"github.com/julianstephens/captainslog/internal/cli"
	"github.com/julianstephens/captainslog/internal/constants"
	"github.com/julianstephens/captainslog/internal/instance"
	"github.com/julianstephens/captainslog/internal/logstore"
)

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store, ctx.Config.ConfigDir)
	backupPath, err := mgr.CreateBackup(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	fmt.Fprintf(ctx.Out, "✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store, ctx.Config.ConfigDir)
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Fprintln(ctx.Out, "No backups found.")
		fmt.Fprintf(ctx.Out, "Backups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	fmt.Fprintf(ctx.Out, "Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		timestamp := b.Timestamp.Format("2006-01-02 15:04:05")
		filename := filepath.Base(b.Path)
		fmt.Fprintf(ctx.Out, "  %s  %s  (%.1f KB)\n", timestamp, filename, sizeKB)
	}
	fmt.Fprintf(ctx.Out, "\nBackup directory: %s\n", mgr.GetBackupDir())

	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store, ctx.Config.ConfigDir)

	backupPath := resolveBackupPath(mgr.GetBackupDir(), c.BackupFile)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup file not found: %s", backupPath)
	}

	// Validate before asking so a bad file never gets as far as the prompt.
	entries, err := backup.ReadBackup(backupPath)
	if err != nil {
		if errors.Is(err, logstore.ErrInvalidCollection) {
			return fmt.Errorf("%s: %w", constants.MsgInvalidBackup, err)
		}
		return err
	}

	if !c.Yes {
		fmt.Fprintln(ctx.Out, "⚠️  WARNING: This will replace your current log entries with the backup.")
		fmt.Fprintln(ctx.Out, "A backup of your current entries will be created before restoring.")
		fmt.Fprintf(ctx.Out, "\nRestore %d entries from: %s\n", len(entries), filepath.Base(backupPath))
		confirmed, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(ctx.Out, "Restore cancelled.")
			return nil
		}
	}

	safetyPath, n, err := mgr.RestoreBackup(ctx.Ctx(), backupPath)
	if err != nil {
		var running *instance.RunningError
		if errors.As(err, &running) {
			return fmt.Errorf(constants.MsgInstanceRunning, running.PID)
		}
		return fmt.Errorf("restore failed: %w", err)
	}

	switch {
	case filepath.Ext(safetyPath) == constants.CorruptFileSuffix:
		fmt.Fprintf(ctx.Out, "Unreadable previous data saved to: %s\n", filepath.Base(safetyPath))
	case safetyPath != "":
		fmt.Fprintf(ctx.Out, "Previous entries saved to: %s\n", filepath.Base(safetyPath))
	}
	fmt.Fprintf(ctx.Out, "✓ "+constants.MsgRestoreSuccess+"\n", n, filepath.Base(backupPath))
	return nil
}

// resolveBackupPath accepts a bare filename from `backup list` as well as a
// path.
func resolveBackupPath(backupDir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	possiblePath := filepath.Join(backupDir, name)
	if _, err := os.Stat(possiblePath); err == nil {
		return possiblePath
	}
	return name
}
