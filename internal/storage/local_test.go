package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_RoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a.jpg", []byte("image bytes")))
	assert.True(t, store.Exists(ctx, "a.jpg"))

	data, err := store.Read(ctx, "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("image bytes"), data)

	require.NoError(t, store.Delete(ctx, "a.jpg"))
	assert.False(t, store.Exists(ctx, "a.jpg"))
}

func TestLocalStore_DeleteMissingIsNotAnError(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "never-existed.png"))
}

func TestLocalStore_RefusesTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, "../escape.txt", []byte("x")))
	assert.Error(t, store.Save(ctx, "sub/dir.txt", []byte("x")))
	assert.False(t, store.Exists(ctx, "../escape.txt"))

	_, err = store.Read(ctx, "../../etc/passwd")
	assert.Error(t, err)
}
