package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ErrTooLarge is returned when a decompressed blob exceeds the configured limit.
var ErrTooLarge = errors.New("source: decompressed blob too large")

// DefaultMaxDecompressedSize bounds the expansion of a single compressed blob.
const DefaultMaxDecompressedSize = 256 << 20

// Codec identifies a compression format by file suffix.
type Codec string

const (
	CodecNone Codec = ""
	CodecZstd Codec = ".zst"
	CodecLZ4  Codec = ".lz4"
	CodecGzip Codec = ".gz"
)

// CodecOf returns the compression format implied by the name's extension.
func CodecOf(name string) Codec {
	switch strings.ToLower(path.Ext(name)) {
	case ".zst", ".zstd":
		return CodecZstd
	case ".lz4":
		return CodecLZ4
	case ".gz", ".gzip":
		return CodecGzip
	default:
		return CodecNone
	}
}

var zstdDecoderPool sync.Pool

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
}

func putZstdDecoder(dec *zstd.Decoder) {
	_ = dec.Reset(nil)
	zstdDecoderPool.Put(dec)
}

// Decompressing wraps a Store and transparently decompresses blobs whose
// names end in .zst, .lz4 or .gz. Other names pass through unchanged.
type Decompressing struct {
	inner   Store
	maxSize int64
}

// NewDecompressing wraps inner. maxSize ≤ 0 selects DefaultMaxDecompressedSize.
func NewDecompressing(inner Store, maxSize int64) *Decompressing {
	if maxSize <= 0 {
		maxSize = DefaultMaxDecompressedSize
	}
	return &Decompressing{inner: inner, maxSize: maxSize}
}

// Open opens name and, for compressed names, returns the decompressed content.
func (s *Decompressing) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	codec := CodecOf(name)
	if codec == CodecNone {
		return b, nil
	}
	defer b.Close()

	data, err := s.decompress(codec, NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", name, err)
	}
	return &bytesBlob{data: data}, nil
}

// Locate forwards to the wrapped store when it is filesystem backed.
func (s *Decompressing) Locate(name string) (string, bool) {
	if l, ok := s.inner.(Locator); ok {
		return l.Locate(name)
	}
	return "", false
}

func (s *Decompressing) decompress(codec Codec, r io.Reader) ([]byte, error) {
	switch codec {
	case CodecZstd:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, err
		}
		defer putZstdDecoder(dec)
		if err := dec.Reset(r); err != nil {
			return nil, err
		}
		return s.readLimited(dec)
	case CodecLZ4:
		return s.readLimited(lz4.NewReader(r))
	case CodecGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return s.readLimited(zr)
	default:
		return io.ReadAll(r)
	}
}

func (s *Decompressing) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.maxSize {
		return nil, ErrTooLarge
	}
	return data, nil
}
