package secret

import "runtime"

// SecretStore provides a pluggable interface for storing sensitive data
// such as database passwords. macOS uses the Keychain; other platforms
// fall back to permission-restricted files.
type SecretStore interface {
	// Set stores a secret value under the given key.
	Set(key string, value []byte) error

	// Get retrieves the secret value for the given key.
	// Returns empty slice and nil error if key does not exist.
	Get(key string) ([]byte, error)

	// Delete removes the secret for the given key.
	Delete(key string) error
}

// Open picks the store for the current platform. fallbackDir holds
// file-backed secrets where no keychain is available.
func Open(fallbackDir string) (SecretStore, error) {
	if runtime.GOOS == "darwin" {
		return NewKeychainStore(), nil
	}
	return NewFileStore(fallbackDir)
}
