package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/captainslog/internal/kv"
)

func TestStore_InitCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "captainslog.json")
	s := New(path)
	require.NoError(t, s.Init())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// Init on an existing file keeps its contents.
	require.NoError(t, s.Set(context.Background(), "k", "v"))
	require.NoError(t, New(path).Init())
	v, found, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", v)
}

func TestStore_SetGetRemove(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "captainslog.json"))
	require.NoError(t, s.Init())
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "@user_logs", `[{"id":"1"}]`))
	v, found, err := s.Get(ctx, "@user_logs")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"1"}]`, v)

	require.NoError(t, s.Remove(ctx, "@user_logs"))
	require.NoError(t, s.Remove(ctx, "@user_logs"))
	_, found, err = s.Get(ctx, "@user_logs")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_SeesWritesFromOtherHandles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "captainslog.json")
	a := New(path)
	require.NoError(t, a.Init())
	b := New(path)
	require.NoError(t, b.Load())
	ctx := context.Background()

	require.NoError(t, a.Set(ctx, "k", "from-a"))
	v, found, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "from-a", v)
}

func TestStore_LoadMissing(t *testing.T) {
	err := New(filepath.Join(t.TempDir(), "missing.json")).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "captainslog init")
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "captainslog.json")
	s := New(path)
	require.NoError(t, s.Init())
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, _, err := s.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, s.Set(context.Background(), "k", "v"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data))
}

func TestStore_NotLoaded(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "captainslog.json"))
	_, _, err := s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, kv.ErrNotLoaded)
}
