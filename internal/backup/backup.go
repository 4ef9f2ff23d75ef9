// Package backup writes and restores JSON snapshots of the log collection.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/captainslog/internal/constants"
	"github.com/julianstephens/captainslog/internal/instance"
	"github.com/julianstephens/captainslog/internal/logger"
	"github.com/julianstephens/captainslog/internal/logstore"
	"github.com/julianstephens/captainslog/internal/models"
)

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager handles backup operations
type Manager struct {
	store     *logstore.Store
	configDir string
	backupDir string
	now       func() time.Time
	guard     func() error
}

// NewManager creates a backup manager writing to <configDir>/backups
func NewManager(store *logstore.Store, configDir string) *Manager {
	return &Manager{
		store:     store,
		configDir: configDir,
		backupDir: filepath.Join(configDir, constants.BackupDirName),
		now:       time.Now,
		guard:     func() error { return instance.CheckNotRunning(configDir) },
	}
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

func (m *Manager) ensureBackupDir() error {
	return os.MkdirAll(m.backupDir, 0700)
}

// CreateBackup writes the current collection to a new backup file
func (m *Manager) CreateBackup(ctx context.Context) (string, error) {
	return m.createBackup(ctx, false)
}

// skipRotation keeps a pre-restore safety backup from rotating away older ones
func (m *Manager) createBackup(ctx context.Context, skipRotation bool) (string, error) {
	if err := m.ensureBackupDir(); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	data, err := m.store.Export(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to export log collection: %w", err)
	}

	backupPath, err := m.nextBackupPath()
	if err != nil {
		return "", err
	}

	if err := writeFileAtomic(backupPath, data); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			logger.Warn("Failed to rotate old backups", "error", err)
		}
	}

	return backupPath, nil
}

// nextBackupPath uses minute precision, then seconds, then a counter
func (m *Manager) nextBackupPath() (string, error) {
	now := m.now()
	timestamp := now.Format("20060102-1504")
	backupPath := filepath.Join(m.backupDir, constants.BackupFilePrefix+timestamp+constants.BackupFileSuffix)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return backupPath, nil
	}

	timestamp = now.Format("20060102-150405")
	backupPath = filepath.Join(m.backupDir, constants.BackupFilePrefix+timestamp+constants.BackupFileSuffix)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(backupPath); os.IsNotExist(err) {
			return backupPath, nil
		}
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		name := fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, timestamp, counter, constants.BackupFileSuffix)
		backupPath = filepath.Join(m.backupDir, name)
	}
}

// ListBackups returns all available backups, newest first
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	if _, err := os.Stat(m.backupDir); os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}

	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		timestamp, counter, ok := parseBackupName(name)
		if !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			Path:      filepath.Join(m.backupDir, name),
			Timestamp: timestamp.Add(time.Duration(counter) * time.Nanosecond),
			Size:      info.Size(),
		})
	}

	// Minute and second precision names can share a timestamp; the longer
	// name was written later.
	sort.Slice(backups, func(i, j int) bool {
		if !backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Timestamp.After(backups[j].Timestamp)
		}
		return len(backups[i].Path) > len(backups[j].Path)
	})

	return backups, nil
}

// parseBackupName accepts captainslog-YYYYMMDD-HHMM[SS][-N].json. The counter
// orders same-second backups.
func parseBackupName(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, 0, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	counter := 0
	parts := strings.Split(stamp, "-")
	if len(parts) == 3 {
		if _, err := fmt.Sscanf(parts[2], "%d", &counter); err != nil || counter < 1 {
			return time.Time{}, 0, false
		}
		stamp = parts[0] + "-" + parts[1]
	}

	for _, layout := range []string{"20060102-1504", "20060102-150405"} {
		if ts, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return ts, counter, true
		}
	}
	return time.Time{}, 0, false
}

func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}

	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// RestoreBackup replaces the collection with the contents of backupPath. The
// current collection is saved first, verbatim when it no longer parses. It
// refuses to run while another instance holds the lockfile. Returns the
// safety backup path (empty when the current collection was empty) and the
// number of restored entries.
func (m *Manager) RestoreBackup(ctx context.Context, backupPath string) (string, int, error) {
	if err := m.guard(); err != nil {
		return "", 0, err
	}

	entries, err := ReadBackup(backupPath)
	if err != nil {
		return "", 0, err
	}

	safety := ""
	current, err := m.store.ReadAll(ctx)
	switch {
	case err != nil:
		safety, err = m.saveUnreadable(ctx)
		if err != nil {
			return "", 0, fmt.Errorf("failed to backup current logs before restore: %w", err)
		}
		logger.Warn("Current log collection is unreadable, kept raw copy", "path", safety)
	case len(current) > 0:
		safety, err = m.createBackup(ctx, true)
		if err != nil {
			return "", 0, fmt.Errorf("failed to backup current logs before restore: %w", err)
		}
		logger.Info("Created pre-restore backup", "path", safety)
	}

	if err := m.store.ReplaceAll(ctx, entries); err != nil {
		return safety, 0, fmt.Errorf("failed to restore logs: %w", err)
	}
	return safety, len(entries), nil
}

// saveUnreadable writes the stored collection as-is to a .corrupt file, which
// ListBackups and rotation ignore.
func (m *Manager) saveUnreadable(ctx context.Context) (string, error) {
	raw, _, err := m.store.Raw(ctx)
	if err != nil {
		return "", err
	}
	if err := m.ensureBackupDir(); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	path, err := m.nextBackupPath()
	if err != nil {
		return "", err
	}
	path = strings.TrimSuffix(path, constants.BackupFileSuffix) + constants.CorruptFileSuffix
	if err := writeFileAtomic(path, []byte(raw)); err != nil {
		return "", fmt.Errorf("failed to write raw copy: %w", err)
	}
	return path, nil
}

// ReadBackup loads and validates a backup file.
func ReadBackup(path string) ([]models.LogEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("backup file does not exist: %s", path)
		}
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	entries, err := logstore.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}
	if err := logstore.ValidateCollection(entries); err != nil {
		return nil, fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}
	return entries, nil
}

// writeFileAtomic writes through a temp file and rename
func writeFileAtomic(path string, data []byte) error {
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return err
	}
	if err := os.Rename(tempPath, path); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tempPath, "error", removeErr)
		}
		return err
	}
	return nil
}
