package source

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a path does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store opens encoded images by path.
type Store interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
}

// Blob is a read-only handle to an encoded image.
type Blob interface {
	io.ReaderAt
	io.Closer
	// Size returns the size of the blob in bytes.
	Size() int64
}

// Locator is implemented by stores backed by the local filesystem.
type Locator interface {
	// Locate returns the filesystem path of name.
	Locate(name string) (string, bool)
}

// NewReader returns a sequential reader over the whole blob.
func NewReader(b Blob) *io.SectionReader {
	return io.NewSectionReader(b, 0, b.Size())
}

// bytesBlob is a Blob over an in-memory buffer.
type bytesBlob struct {
	data []byte
}

// NewBytesBlob wraps data as a Blob. The slice must not be modified afterwards.
func NewBytesBlob(data []byte) Blob {
	return &bytesBlob{data: data}
}

func (b *bytesBlob) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *bytesBlob) Close() error { return nil }

func (b *bytesBlob) Size() int64 { return int64(len(b.data)) }
