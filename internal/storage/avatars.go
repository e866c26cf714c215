// Package storage persists uploaded avatar images. The images live on the
// local filesystem under a configured directory, keyed by a generated uuid;
// the key is what gets recorded on the user row.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type AvatarStore struct {
	dir string
}

func NewAvatarStore(dir string) (*AvatarStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create avatar directory: %w", err)
	}
	return &AvatarStore{dir: dir}, nil
}

// Save writes the uploaded image and returns its key. The extension of the
// original filename is kept so the content type can be inferred on read.
func (s *AvatarStore) Save(r io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return "", fmt.Errorf("unsupported avatar format %q", ext)
	}

	key := uuid.NewString() + ext
	f, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return "", fmt.Errorf("create avatar file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write avatar: %w", err)
	}

	return key, nil
}

// Open returns a reader for a stored avatar.
func (s *AvatarStore) Open(key string) (io.ReadCloser, error) {
	// Keys are server-generated uuids; reject anything path-like.
	if key != filepath.Base(key) || strings.Contains(key, "..") {
		return nil, fmt.Errorf("invalid avatar key %q", key)
	}
	return os.Open(filepath.Join(s.dir, key))
}

// Remove deletes a stored avatar. Removing a missing key is not an error.
func (s *AvatarStore) Remove(key string) error {
	if key == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove avatar: %w", err)
	}
	return nil
}
