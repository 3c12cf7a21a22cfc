// Package blobstore is the file-content collaborator: it accepts bytes and
// returns a stable reference the catalog stores in place of the content.
package blobstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store accepts file content and yields a stable reference to it.
type Store interface {
	Save(data []byte, name string) (string, error)
}

// DiskStore writes blobs under a base directory. References are
// uuid-prefixed filenames, so identical upload names never collide.
type DiskStore struct {
	baseDir string
}

// NewDiskStore creates the base directory if needed.
func NewDiskStore(baseDir string) (*DiskStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &DiskStore{baseDir: baseDir}, nil
}

// Save writes data and returns its reference.
func (s *DiskStore) Save(data []byte, name string) (string, error) {
	ref := fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(name))
	if err := os.WriteFile(filepath.Join(s.baseDir, ref), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to store blob: %w", err)
	}
	return ref, nil
}
