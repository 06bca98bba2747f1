// internal/storage/sync_test.go
package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTempStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)

	require.NoError(t, store.UploadObject(ctx, "saved_models/lgb_model.json", []byte(`{"name":"lgb"}`)))

	data, err := store.ReadObject(ctx, "saved_models/lgb_model.json")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"lgb"}`, string(data))

	objects, err := store.ListObjects(ctx, "saved_models")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "saved_models/lgb_model.json", objects[0].Key)
	assert.Equal(t, int64(14), objects[0].Size)
}

func TestLocalStoreDownloadCreatesDirectories(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	require.NoError(t, store.UploadObject(ctx, "a.json", []byte("x")))

	dest := filepath.Join(t.TempDir(), "nested", "dir", "a.json")
	require.NoError(t, store.DownloadObject(ctx, "a.json", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestCopyAllRerootsKeys(t *testing.T) {
	ctx := context.Background()
	src := newTempStore(t)
	dst := newTempStore(t)

	require.NoError(t, src.UploadObject(ctx, "lgb_model.json", []byte("a")))
	require.NoError(t, src.UploadObject(ctx, "xgb_model.json", []byte("b")))

	copied, err := CopyAll(ctx, src, dst, "", "saved_models")
	require.NoError(t, err)
	assert.Equal(t, 2, copied)

	data, err := dst.ReadObject(ctx, "saved_models/xgb_model.json")
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))
}

func TestCopyAllFiltersByPrefix(t *testing.T) {
	ctx := context.Background()
	src := newTempStore(t)
	dst := newTempStore(t)

	require.NoError(t, src.UploadObject(ctx, "saved_models/a.json", []byte("a")))
	require.NoError(t, src.UploadObject(ctx, "exports/sales.csv", []byte("c")))

	copied, err := CopyAll(ctx, src, dst, "saved_models", "")
	require.NoError(t, err)
	assert.Equal(t, 1, copied)

	objects, err := dst.ListObjects(ctx, "")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "a.json", objects[0].Key)
}

func TestDownloadAllStripsPrefix(t *testing.T) {
	ctx := context.Background()
	src := newTempStore(t)

	require.NoError(t, src.UploadObject(ctx, "saved_models/a.json", []byte("a")))
	require.NoError(t, src.UploadObject(ctx, "saved_models/b.json", []byte("b")))

	destDir := t.TempDir()
	written, err := DownloadAll(ctx, src, "saved_models", destDir)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	data, err := os.ReadFile(filepath.Join(destDir, "a.json"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))
}
