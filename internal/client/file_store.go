package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore abstracts where uploaded attachment bytes end up. Save returns
// the storage path recorded on the attachment row.
type FileStore interface {
	Save(ctx context.Context, originalName string, contentType string, r io.Reader) (string, error)
}

// LocalStore writes uploads to a directory on disk, served back at /uploads/
type LocalStore struct {
	dir string
}

// NewLocalStore creates the upload directory if needed and returns a LocalStore
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save stores the file under a random name, keeping the original extension
func (s *LocalStore) Save(ctx context.Context, originalName string, contentType string, r io.Reader) (string, error) {
	name := randomFileName(originalName)
	fullPath := filepath.Join(s.dir, name)

	f, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	return filepath.ToSlash(filepath.Join("uploads", name)), nil
}

// Dir returns the directory uploads are written to
func (s *LocalStore) Dir() string {
	return s.dir
}

// randomFileName builds a collision-free stored name from a fresh UUID plus
// the original file extension
func randomFileName(originalName string) string {
	ext := filepath.Ext(originalName)
	return strings.ReplaceAll(uuid.New().String(), "-", "") + ext
}
