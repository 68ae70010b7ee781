package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(filepath.Join(t.TempDir(), "out", "nested"))

	require.NoError(t, store.Put(ctx, "sensor_dashboard.png", []byte("png")))

	data, err := store.Get(ctx, "sensor_dashboard.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	info, err := os.Stat(filepath.Join(store.Root, "sensor_dashboard.png"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), info.Size())
}

func TestLocalStoreMissing(t *testing.T) {
	_, err := NewLocalStore(t.TempDir()).Get(context.Background(), "nope.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreUnwritable(t *testing.T) {
	// A regular file where a directory is expected cannot be written through.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	store := NewLocalStore(filepath.Join(blocker, "out"))
	err := store.Put(context.Background(), "sensor_dashboard.png", []byte("png"))
	assert.Error(t, err)
}
