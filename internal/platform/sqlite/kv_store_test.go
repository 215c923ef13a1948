package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/phrazzld/flashdeck/internal/platform/sqlite"
	"github.com/phrazzld/flashdeck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVStoreRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	kv, err := sqlite.Open(ctx, ":memory:", nil)
	require.NoError(t, err)
	defer kv.Close()

	_, err = kv.Get(ctx, store.KeyFlashcards)
	assert.ErrorIs(t, err, store.ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx, store.KeyFlashcards, []byte(`[{"id":"a"}]`)))
	require.NoError(t, kv.Set(ctx, store.KeyFlashcards, []byte(`[{"id":"b"}]`)))

	got, err := kv.Get(ctx, store.KeyFlashcards)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"b"}]`, string(got))
}

func TestKVStorePersistsAcrossReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "flashdeck.db")

	kv, err := sqlite.Open(ctx, path, nil)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, store.KeyCategories, []byte(`["general","math"]`)))
	require.NoError(t, kv.Close())

	// Reopening runs the migrations again; they must be a no-op.
	kv, err = sqlite.Open(ctx, path, nil)
	require.NoError(t, err)
	defer kv.Close()

	got, err := kv.Get(ctx, store.KeyCategories)
	require.NoError(t, err)
	assert.JSONEq(t, `["general","math"]`, string(got))
}

func TestKVStoreClosed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	kv, err := sqlite.Open(ctx, ":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, kv.Close())
	require.NoError(t, kv.Close(), "second close is a no-op")

	_, err = kv.Get(ctx, store.KeyFolders)
	assert.ErrorIs(t, err, store.ErrClosed)
	assert.ErrorIs(t, kv.Set(ctx, store.KeyFolders, []byte(`[]`)), store.ErrClosed)
}
