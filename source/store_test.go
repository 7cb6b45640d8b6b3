package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, b Blob) []byte {
	t.Helper()
	data, err := io.ReadAll(NewReader(b))
	require.NoError(t, err)
	return data
}

func TestLocalStore_Open(t *testing.T) {
	dir := t.TempDir()
	data := []byte("hello world, this is a test blob")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.bin"), data, 0o600))

	store := NewLocalStore(dir)
	blob, err := store.Open(context.Background(), "a.bin")
	require.NoError(t, err)
	defer blob.Close()

	assert.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err := blob.ReadAt(buf, 6)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "world", string(buf))

	assert.Equal(t, data, readAll(t, blob))
}

func TestLocalStore_NotFound(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	_, err := store.Open(context.Background(), "missing.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty"), nil, 0o600))

	blob, err := NewLocalStore(dir).Open(context.Background(), "empty")
	require.NoError(t, err)
	defer blob.Close()
	assert.Zero(t, blob.Size())
}

func TestLocalStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocalStore(t.TempDir()).Open(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalStore_Locate(t *testing.T) {
	dir := t.TempDir()

	path, ok := NewLocalStore(dir).Locate("sub/a.png")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "sub", "a.png"), path)

	abs := filepath.Join(dir, "b.png")
	path, ok = NewLocalStore("").Locate(abs)
	require.True(t, ok)
	assert.Equal(t, abs, path)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	src := []byte("pixels")
	store.Put("img/a", src)
	src[0] = 'X' // the store keeps its own copy

	blob, err := store.Open(ctx, "img/a")
	require.NoError(t, err)
	assert.Equal(t, []byte("pixels"), readAll(t, blob))
	require.NoError(t, blob.Close())

	store.Put("img/b", nil)
	store.Put("other", nil)
	assert.Equal(t, []string{"img/a", "img/b"}, store.List("img/"))

	store.Delete("img/a")
	_, err = store.Open(ctx, "img/a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBytesBlob_ReadAt(t *testing.T) {
	b := NewBytesBlob([]byte("abc"))

	buf := make([]byte, 4)
	n, err := b.ReadAt(buf, 1)
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, io.EOF)

	n, err = b.ReadAt(buf, 3)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)

	n, err = b.ReadAt(buf, -1)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)
}
