package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStore_Integration runs against a real database.
// Example: POSTGRES_TEST_URL="postgres://captainslog@localhost:5432/captainslog_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	require.NoError(t, store.Init())
	defer store.Close()

	ctx := context.Background()
	key := "@integration_test"
	t.Cleanup(func() { _ = store.Remove(ctx, key) })

	require.NoError(t, store.Set(ctx, key, "one"))
	require.NoError(t, store.Set(ctx, key, "two"))

	v, found, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "two", v)

	require.NoError(t, store.Remove(ctx, key))
	_, found, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)
}
