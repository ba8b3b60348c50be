package filedeps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/puzpuzpuz/xsync/v3"
)

var ErrNotFound = errors.New("file not found")

// Store is a fallback source of data file contents.
type Store interface {
	Open(ctx context.Context, name string) ([]byte, error)
}

// MemoryStore keeps data files in process memory.
type MemoryStore struct {
	files *xsync.MapOf[string, []byte]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: xsync.NewMapOf[string, []byte]()}
}

func (m *MemoryStore) Put(name string, content []byte) {
	m.files.Store(name, content)
}

func (m *MemoryStore) Open(_ context.Context, name string) ([]byte, error) {
	b, ok := m.files.Load(name)
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

// DirStore reads data files from a directory. A missing file is also looked
// up with a .zst suffix and decompressed.
type DirStore struct {
	dir string
}

func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir}
}

func (d *DirStore) Open(_ context.Context, name string) ([]byte, error) {
	if name != filepath.Base(name) {
		return nil, fmt.Errorf("invalid data file name %q", name)
	}
	path := filepath.Join(d.dir, name)
	b, err := os.ReadFile(path)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	f, err := os.Open(path + ".zst")
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s.zst: %w", path, err)
	}
	defer f.Close()
	return decompress(f)
}

func decompress(r io.Reader) ([]byte, error) {
	d, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer d.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, d); err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return buf.Bytes(), nil
}
