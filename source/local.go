package source

import (
	"context"
	"path/filepath"

	"github.com/hupe1980/pixload/internal/mmap"
)

// LocalStore implements Store using the local file system.
type LocalStore struct {
	root string
}

// NewLocalStore creates a new LocalStore rooted at the given directory.
// With an empty root, names are used as filesystem paths directly.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

// Open maps the file for reading.
func (s *LocalStore) Open(ctx context.Context, name string) (Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, _ := s.Locate(name)
	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Locate implements Locator.
func (s *LocalStore) Locate(name string) (string, bool) {
	path := filepath.FromSlash(name)
	if s.root != "" {
		path = filepath.Join(s.root, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path), true
	}
	return abs, true
}
