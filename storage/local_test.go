package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_PutDelete(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root, "http://localhost:8080/storage/")
	ctx := context.Background()

	err := store.Put(ctx, "media/abc.png", strings.NewReader("png-bytes"), 9, "image/png")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "media", "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "http://localhost:8080/storage/media/abc.png", store.URL("media/abc.png"))

	require.NoError(t, store.Delete(ctx, "media/abc.png"))
	_, err = os.Stat(filepath.Join(root, "media", "abc.png"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, "media/abc.png"))
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "/storage")

	err := store.Put(context.Background(), "../escape.txt", strings.NewReader("x"), 1, "text/plain")
	assert.Error(t, err)
}
