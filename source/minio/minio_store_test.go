package minio

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pixload/source"
)

func TestMapError(t *testing.T) {
	assert.ErrorIs(t, mapError(minio.ErrorResponse{Code: "NoSuchKey"}), source.ErrNotFound)
	assert.ErrorIs(t, mapError(minio.ErrorResponse{Code: "NotFound"}), source.ErrNotFound)

	boom := errors.New("boom")
	assert.Equal(t, boom, mapError(boom))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "thumbs/a.png", NewStore(nil, "b", "thumbs/").key("a.png"))
	assert.Equal(t, "a.png", NewStore(nil, "b", "").key("a.png"))
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := "localhost:9000"
	bucket := "test-pixload"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	if _, err = client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, "test-prefix/")

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "test.png", data))

	blob, err := store.Open(ctx, "test.png")
	require.NoError(t, err)
	defer blob.Close()
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err := blob.ReadAt(buf, 6)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "minio", string(buf))

	all, err := io.ReadAll(source.NewReader(blob))
	require.NoError(t, err)
	assert.Equal(t, data, all)

	_, err = store.Open(ctx, "missing.png")
	assert.ErrorIs(t, err, source.ErrNotFound)
}
