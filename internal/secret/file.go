package secret

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps secrets as individual files under a directory with
// 0600 permissions. Used on platforms without a keychain.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create secret dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(key string) string {
	// Keys are connection IDs; sanitize anyway.
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(f.dir, safe)
}

// Set stores a secret value under the given key.
func (f *FileStore) Set(key string, value []byte) error {
	if err := os.WriteFile(f.path(key), value, 0o600); err != nil {
		return fmt.Errorf("write secret: %w", err)
	}
	return nil
}

// Get retrieves the secret for the given key. Returns nil and no error
// when the key does not exist.
func (f *FileStore) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read secret: %w", err)
	}
	return data, nil
}

// Delete removes the secret for the given key.
func (f *FileStore) Delete(key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete secret: %w", err)
	}
	return nil
}
