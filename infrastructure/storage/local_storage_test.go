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

func TestLocalStorage_UploadAndDelete(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	store, err := NewLocalStorage(LocalStorageConfig{BasePath: base, BaseURL: "http://localhost:8080/files/"})
	require.NoError(t, err)

	url, err := store.UploadFile(ctx, strings.NewReader("png"), 3, "courses/abc/thumbnail/1-a.png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/courses/abc/thumbnail/1-a.png", url)

	data, err := os.ReadFile(filepath.Join(base, "courses", "abc", "thumbnail", "1-a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	require.NoError(t, store.DeleteFile(ctx, "courses/abc/thumbnail/1-a.png"))
	_, err = os.Stat(filepath.Join(base, "courses"))
	assert.True(t, os.IsNotExist(err), "empty directories are removed")

	assert.NoError(t, store.DeleteFile(ctx, "courses/abc/thumbnail/1-a.png"), "deleting twice is fine")
}

func TestLocalStorage_RejectsEscapingPaths(t *testing.T) {
	store, err := NewLocalStorage(LocalStorageConfig{BasePath: t.TempDir(), BaseURL: "http://x"})
	require.NoError(t, err)

	_, err = store.UploadFile(context.Background(), strings.NewReader("x"), 1, "../outside.txt", "text/plain")
	assert.Error(t, err)
	assert.Equal(t, "local", store.GetProviderName())
}
