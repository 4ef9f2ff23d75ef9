// Package instance guards against two interactive sessions, or a restore and a
// session, working on the same data at once. The guard is a lockfile holding
// "pid|executable" that is validated against the process table.
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/captainslog/internal/constants"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// ErrAlreadyRunning is matched by *RunningError.
var ErrAlreadyRunning = errors.New("another instance is running")

// RunningError reports the live process holding the lockfile.
type RunningError struct {
	PID int
}

func (e *RunningError) Error() string {
	return fmt.Sprintf("%s is already running (pid %d)", constants.AppName, e.PID)
}

func (e *RunningError) Is(target error) bool { return target == ErrAlreadyRunning }

// Lock is a held instance lockfile.
type Lock struct {
	path string
}

// LockfilePath returns the lockfile location inside configDir.
func LockfilePath(configDir string) string {
	return filepath.Join(configDir, constants.LockfileName)
}

// Acquire takes the lockfile in configDir. Stale lockfiles left by dead
// processes are replaced.
func Acquire(configDir string) (*Lock, error) {
	path := LockfilePath(configDir)
	if pid, running := Holder(configDir); running && pid != getpidFunc() {
		return nil, &RunningError{PID: pid}
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	exe := constants.AppName
	if p, err := os.Executable(); err == nil {
		exe = filepath.Base(p)
	}
	content := fmt.Sprintf("%d|%s", getpidFunc(), exe)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return &Lock{path: path}, nil
}

// Release removes the lockfile if it still belongs to this process.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	pid, _, err := readLockfile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if pid != getpidFunc() {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

// Holder returns the pid recorded in configDir's lockfile and whether that
// process is alive and looks like this application.
func Holder(configDir string) (int, bool) {
	pid, exe, err := readLockfile(LockfilePath(configDir))
	if err != nil {
		return 0, false
	}
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return pid, false
	}
	if !sameExecutable(process.Executable(), exe) {
		return pid, false
	}
	return pid, true
}

// CheckNotRunning returns a *RunningError when another live process holds the
// lockfile in configDir.
func CheckNotRunning(configDir string) error {
	if pid, running := Holder(configDir); running && pid != getpidFunc() {
		return &RunningError{PID: pid}
	}
	return nil
}

func readLockfile(path string) (int, string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, "", err
	}
	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return 0, "", errors.New("lockfile is malformed")
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return 0, "", errors.New("invalid process ID in lockfile")
	}
	if strings.TrimSpace(parts[1]) == "" {
		return 0, "", errors.New("executable in lockfile is empty")
	}
	return pid, parts[1], nil
}

// sameExecutable compares process names; the process table may truncate
// them, so a prefix match is enough.
func sameExecutable(actual, recorded string) bool {
	if actual == "" {
		return false
	}
	return strings.HasPrefix(recorded, actual) || strings.HasPrefix(actual, recorded)
}
