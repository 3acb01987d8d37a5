package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStore writes photos to a directory on disk, for development
// without an S3 bucket.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Put(_ context.Context, key string, data []byte, _ string) error {
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create dir for %s: %w", key, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write photo %s: %w", key, err)
	}
	return nil
}

func (s *LocalStore) PresignURL(_ context.Context, _ string) (string, error) {
	return "", ErrPresignUnsupported
}

func (s *LocalStore) Name() string {
	return "local"
}
