package snapshot_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/thesaurus/internal/adapters/snapshot"
	"go.trai.ch/thesaurus/internal/core/domain"
)

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".thesaurus", "snapshots.db")
	store := snapshot.NewStore()
	t.Cleanup(func() { _ = store.Close() })

	snap := domain.Snapshot{
		Source:     "products",
		Marker:     domain.NewMarker(42),
		Entries:    []domain.RawEntry{{Text: "a,b"}, {Text: "c=>d"}},
		OptionsKey: "key",
		SavedAt:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	t.Run("put and get", func(t *testing.T) {
		require.NoError(t, store.Put(path, snap))

		got, err := store.Get(path, "products")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, snap, *got)
	})

	t.Run("get missing source", func(t *testing.T) {
		got, err := store.Get(path, "missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("put replaces", func(t *testing.T) {
		next := snap
		next.Marker = domain.NewMarker(43)
		require.NoError(t, store.Put(path, next))

		got, err := store.Get(path, "products")
		require.NoError(t, err)
		assert.Equal(t, domain.NewMarker(43), got.Marker)
	})
}

func TestStore_GetWithoutDatabase(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "none.db")
	store := snapshot.NewStore()
	t.Cleanup(func() { _ = store.Close() })

	got, err := store.Get(path, "products")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestStore_ReopenAfterClose(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "snapshots.db")

	first := snapshot.NewStore()
	require.NoError(t, first.Put(path, domain.Snapshot{Source: "products", Marker: domain.UnknownMarker}))
	require.NoError(t, first.Close())

	second := snapshot.NewStore()
	t.Cleanup(func() { _ = second.Close() })

	got, err := second.Get(path, "products")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Marker.IsKnown())
}

func TestStore_OpenFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), domain.PrivateFilePerm))

	store := snapshot.NewStore()
	err := store.Put(filepath.Join(blocker, "snapshots.db"), domain.Snapshot{Source: "products"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrSnapshotOpenFailed.Error())
}
