package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxPhotoSize caps uploaded photos at 1MB.
const MaxPhotoSize = 1_000_000

var allowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"svg":  true,
}

// AllowedExtension reports whether ext (without dot) may be uploaded.
func AllowedExtension(ext string) bool {
	return allowedExtensions[strings.ToLower(ext)]
}

// PhotoStore persists uploaded user photos.
type PhotoStore interface {
	Save(filename string, content []byte) (string, error)
}

// LocalPhotoStore writes photos to a directory on disk under a
// generated name.
type LocalPhotoStore struct {
	dir string
}

// NewLocalPhotoStore creates the storage directory if needed.
func NewLocalPhotoStore(dir string) (*LocalPhotoStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create photo directory: %w", err)
	}
	return &LocalPhotoStore{dir: dir}, nil
}

// Save stores content under a fresh UUID name keeping the original
// extension, and returns the stored filename.
func (s *LocalPhotoStore) Save(filename string, content []byte) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !AllowedExtension(ext) {
		return "", fmt.Errorf("extension %q not allowed", ext)
	}

	stored := fmt.Sprintf("%s.%s", uuid.New().String(), ext)
	path := filepath.Join(s.dir, stored)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write photo: %w", err)
	}
	return stored, nil
}
