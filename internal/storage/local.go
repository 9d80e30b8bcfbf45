package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes images to the filesystem under a base directory,
// adapted from the teacher's internal/handlers/upload.go for non-production
// setups that have no R2 credentials configured.
type LocalStore struct {
	baseDir   string
	urlPrefix string
}

// NewLocalStore wires a filesystem-backed ObjectStore rooted at baseDir,
// serving files under urlPrefix (e.g. "/uploads").
func NewLocalStore(baseDir, urlPrefix string) *LocalStore {
	return &LocalStore{baseDir: baseDir, urlPrefix: urlPrefix}
}

// Put writes content under key inside baseDir, creating parent directories
// as needed, and returns the served URL.
func (l *LocalStore) Put(ctx context.Context, key string, content []byte, contentType string) (string, error) {
	if strings.Contains(key, "..") {
		return "", errors.New("invalid object key")
	}

	path := filepath.Join(l.baseDir, key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write uploaded file: %w", err)
	}

	return fmt.Sprintf("%s/%s", strings.TrimSuffix(l.urlPrefix, "/"), key), nil
}

// Delete removes the file at key.
func (l *LocalStore) Delete(ctx context.Context, key string) error {
	if strings.Contains(key, "..") {
		return errors.New("invalid object key")
	}
	path := filepath.Join(l.baseDir, key)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return errors.New("file does not exist")
	}
	return os.Remove(path)
}
