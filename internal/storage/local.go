package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps uploads in a directory on disk
type LocalStore struct {
	dir string
}

// NewLocalStore creates the uploads directory if needed
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// path resolves filename inside the uploads directory, refusing traversal
func (s *LocalStore) path(filename string) (string, error) {
	clean := filepath.Base(filename)
	if clean != filename || strings.Contains(filename, "..") {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	return filepath.Join(s.dir, clean), nil
}

// Save writes data to dir/filename
func (s *LocalStore) Save(_ context.Context, filename string, data []byte) error {
	p, err := s.path(filename)
	if err != nil {
		return err
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}

// Read returns the stored bytes
func (s *LocalStore) Read(_ context.Context, filename string) ([]byte, error) {
	p, err := s.path(filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// Exists reports whether the file is present
func (s *LocalStore) Exists(_ context.Context, filename string) bool {
	p, err := s.path(filename)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// Delete removes the file; missing files are not an error
func (s *LocalStore) Delete(_ context.Context, filename string) error {
	p, err := s.path(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
