package instance

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	ps "github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func stubProcesses(t *testing.T, self int, table map[int]string) {
	t.Helper()
	oldFind, oldPid := findProcessFunc, getpidFunc
	t.Cleanup(func() { findProcessFunc, getpidFunc = oldFind, oldPid })

	getpidFunc = func() int { return self }
	findProcessFunc = func(pid int) (ps.Process, error) {
		exe, ok := table[pid]
		if !ok {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: exe}, nil
	}
}

func writeLockfile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "captainslog.lock"), []byte(content), 0600))
}

func TestAcquireAndRelease(t *testing.T) {
	dir := t.TempDir()
	stubProcesses(t, 100, map[int]string{})

	lock, err := Acquire(dir)
	require.NoError(t, err)
	_, err = os.Stat(LockfilePath(dir))
	require.NoError(t, err)

	require.NoError(t, lock.Release())
	_, err = os.Stat(LockfilePath(dir))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, lock.Release())
}

func TestAcquire_OtherInstanceRunning(t *testing.T) {
	dir := t.TempDir()
	stubProcesses(t, 100, map[int]string{200: "captainslog"})
	writeLockfile(t, dir, "200|captainslog")

	_, err := Acquire(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyRunning))

	var running *RunningError
	require.ErrorAs(t, err, &running)
	assert.Equal(t, 200, running.PID)
	assert.Error(t, CheckNotRunning(dir))
}

func TestAcquire_StaleLockfile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		table   map[int]string
	}{
		{"dead process", "200|captainslog", map[int]string{}},
		{"pid reused by other program", "200|captainslog", map[int]string{200: "bash"}},
		{"malformed", "garbage", map[int]string{}},
		{"bad pid", "abc|captainslog", map[int]string{}},
		{"empty executable", "200|", map[int]string{200: "captainslog"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			stubProcesses(t, 100, tt.table)
			writeLockfile(t, dir, tt.content)

			assert.NoError(t, CheckNotRunning(dir))
			lock, err := Acquire(dir)
			require.NoError(t, err)
			require.NoError(t, lock.Release())
		})
	}
}

func TestRelease_LeavesForeignLockfile(t *testing.T) {
	dir := t.TempDir()
	stubProcesses(t, 100, map[int]string{})

	lock, err := Acquire(dir)
	require.NoError(t, err)
	writeLockfile(t, dir, "300|captainslog")

	require.NoError(t, lock.Release())
	_, err = os.Stat(LockfilePath(dir))
	assert.NoError(t, err)
}

func TestHolder_OwnProcess(t *testing.T) {
	dir := t.TempDir()
	stubProcesses(t, 100, map[int]string{100: "captainslog"})
	writeLockfile(t, dir, "100|captainslog")

	pid, running := Holder(dir)
	assert.Equal(t, 100, pid)
	assert.True(t, running)
	assert.NoError(t, CheckNotRunning(dir))
}

func TestSameExecutable(t *testing.T) {
	assert.True(t, sameExecutable("captainslog", "captainslog"))
	assert.True(t, sameExecutable("captainslo", "captainslog"))
	assert.False(t, sameExecutable("", "captainslog"))
	assert.False(t, sameExecutable("bash", "captainslog"))
}
