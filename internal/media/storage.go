package media

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Store persists uploaded files and yields their public URLs.
type Store interface {
	Save(name string, r io.Reader) (string, error)
}

// DiskStore writes uploads to a local directory served as static files.
type DiskStore struct {
	dir        string
	publicBase string
}

// NewDiskStore prepares the upload directory and returns a disk-backed store.
func NewDiskStore(dir, publicBase string) (*DiskStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("upload dir required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir, publicBase: publicBase}, nil
}

// Save streams the reader to disk under the given name and returns the
// public URL path for the stored file.
func (s *DiskStore) Save(name string, r io.Reader) (string, error) {
	dest := filepath.Join(s.dir, filepath.Base(name))
	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return path.Join("/", s.publicBase, filepath.Base(name)), nil
}
