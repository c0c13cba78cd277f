package blobstore

import (
	"context"
	"path/filepath"

	"github.com/mzkit/timsgo/internal/mmap"
)

// LocalStore implements BlobStore on a local experiment directory.
type LocalStore struct {
	root string
}

// NewLocalStore creates a LocalStore rooted at the experiment directory.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

// Open memory-maps the named file. Frame retrieval is random access over the
// container, which mmap serves without read-ahead of the whole file.
func (s *LocalStore) Open(_ context.Context, name string) (Blob, error) {
	m, err := mmap.Open(filepath.Join(s.root, name))
	if err != nil {
		return nil, err
	}
	return &localBlob{m: m}, nil
}

type localBlob struct {
	m *mmap.File
}

func (b *localBlob) ReadAt(p []byte, off int64) (int, error) {
	return b.m.ReadAt(p, off)
}

func (b *localBlob) Size() int64 {
	return b.m.Size()
}

func (b *localBlob) Bytes() ([]byte, error) {
	return b.m.Bytes(), nil
}

func (b *localBlob) Close() error {
	return b.m.Close()
}
