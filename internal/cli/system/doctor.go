package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/captainslog/internal/backup"
	"github.com/julianstephens/captainslog/internal/cli"
	"github.com/julianstephens/captainslog/internal/instance"
	"github.com/julianstephens/captainslog/internal/logstore"
	"github.com/julianstephens/captainslog/internal/models"
)

// skippedError marks a check that cannot run or does not apply.
type skippedError struct{ reason string }

func (e skippedError) Error() string { return e.reason }

// schemaVersioner is implemented by the SQL backends.
type schemaVersioner interface {
	SchemaVersion() (current, latest int, err error)
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Fprintln(ctx.Out, "Running diagnostics...")
	fmt.Fprintln(ctx.Out)

	hasError := false
	var skipped skippedError
	report := func(name string, err error) {
		switch {
		case err == nil:
			fmt.Fprintf(ctx.Out, "✓ %s: OK\n", name)
		case errors.As(err, &skipped):
			fmt.Fprintf(ctx.Out, "⊘ %s: SKIPPED (%s)\n", name, skipped.reason)
		default:
			fmt.Fprintf(ctx.Out, "❌ %s: FAIL\n", name)
			fmt.Fprintf(ctx.Out, "   Error: %v\n", err)
			hasError = true
		}
	}
	unreachable := skippedError{reason: "storage not reachable"}

	// Check 1: Storage reachable
	reachErr := checkStorageReachable(ctx)
	report("Storage reachable", reachErr)

	// Check 2: Schema version (only if storage is reachable)
	if reachErr == nil {
		report("Schema version", checkSchemaVersion(ctx))
	} else {
		report("Schema version", unreachable)
	}

	// Check 3: Log collection readable
	var entries []models.LogEntry
	var readErr error
	if reachErr == nil {
		entries, readErr = ctx.Store.ReadAll(ctx.Ctx())
		report("Log collection readable", readErr)
	} else {
		readErr = unreachable
		report("Log collection readable", unreachable)
	}

	// Check 4: Log integrity (ids unique, timestamps ordered)
	if readErr == nil {
		report("Log integrity", logstore.ValidateCollection(entries))
	} else {
		report("Log integrity", skippedError{reason: "log collection not readable"})
	}

	// Check 5: Preferences readable
	if reachErr == nil {
		_, err := ctx.Settings.Load(ctx.Ctx())
		report("Preferences", err)
	} else {
		report("Preferences", unreachable)
	}

	// Check 6: Backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		fmt.Fprintf(ctx.Out, "⚠ Backups present: WARNING\n")
		fmt.Fprintf(ctx.Out, "   %v\n", err)
	} else {
		fmt.Fprintf(ctx.Out, "✓ Backups present: OK\n")
	}

	// Check 7: Running instance (informational)
	if pid, running := instance.Holder(ctx.Config.ConfigDir); running {
		fmt.Fprintf(ctx.Out, "ℹ Running instance: pid %d holds the lockfile\n", pid)
	}

	// Check 8: Clock/timezone sanity
	report("Clock/timezone", checkClockTimezone())

	fmt.Fprintln(ctx.Out)
	if hasError {
		fmt.Fprintln(ctx.Out, "Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Fprintln(ctx.Out, "All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *cli.Context) error {
	if err := ctx.Backend.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	if err := ctx.Backend.Ping(ctx.Ctx()); err != nil {
		return fmt.Errorf("failed to reach %s: %w", ctx.Backend.Location(), err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	versioned, ok := ctx.Backend.(schemaVersioner)
	if !ok {
		return skippedError{reason: fmt.Sprintf("%s backend has no schema", ctx.Config.Backend)}
	}

	currentVersion, latestVersion, err := versioned.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if currentVersion > latestVersion {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", currentVersion, latestVersion)
	}
	if currentVersion < latestVersion {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", currentVersion, latestVersion)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store, ctx.Config.ConfigDir)
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'captainslog backup create'")
	}

	return nil
}

func checkClockTimezone() error {
	// Check if system time is reasonable
	now := time.Now()

	// Check if time is in a reasonable range (after 2020 and before 2100)
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	return nil
}
