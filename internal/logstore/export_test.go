package logstore

import (
	"context"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/captainslog/internal/models"
)

func TestExport_Golden(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first, err := store.Save(ctx, models.Draft{Title: "Departure", Location: "Port Royal", Content: "Set sail at dawn."})
	require.NoError(t, err)
	_, err = store.Save(ctx, models.Draft{Title: "Squall", Content: "Storm off the coast."})
	require.NoError(t, err)
	_, err = store.Update(ctx, first.ID, models.Patch{Location: strPtr("Port Royal, Jamaica")})
	require.NoError(t, err)

	data, err := store.Export(ctx)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "export", data)
}

func TestExport_Empty(t *testing.T) {
	store, _ := newTestStore(t)
	data, err := store.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestExport_ReadFailure(t *testing.T) {
	store, backend := newTestStore(t)
	backend.SetFailures(errors.New("offline"), nil, nil)

	_, err := store.Export(context.Background())
	var readErr *StorageReadError
	assert.ErrorAs(t, err, &readErr)
}

func TestExport_ParsesBack(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	_, err := store.Save(ctx, models.Draft{Content: "a"})
	require.NoError(t, err)

	data, err := store.Export(ctx)
	require.NoError(t, err)
	entries, err := ParseCollection(data)
	require.NoError(t, err)
	assert.Equal(t, store.GetAll(ctx), entries)
}
