package secret

import (
	"fmt"
	"os/exec"
	"strings"
)

// keychainService groups the workbench's entries in Keychain Access.
const keychainService = "json-workbench"

// KeychainStore keeps secrets in the macOS Keychain through the
// `security` CLI. Each secret is one generic-password item with the
// store key as the account name.
type KeychainStore struct{}

func NewKeychainStore() *KeychainStore {
	return &KeychainStore{}
}

func (k *KeychainStore) Set(key string, value []byte) error {
	// add-generic-password -U does not reliably replace the password
	// of an existing item, so clear it first.
	k.Delete(key)

	out, err := securityCmd("add-generic-password",
		"-a", key, "-s", keychainService, "-w", string(value), "-U")
	if err != nil {
		return fmt.Errorf("keychain set %q: %s: %w", key, out, err)
	}
	return nil
}

// Get returns nil with no error when the item does not exist; a missing
// password and an empty one are treated the same by callers.
func (k *KeychainStore) Get(key string) ([]byte, error) {
	// Stdout only: -w prints the bare password there, while stderr may
	// carry keychain warnings.
	out, err := exec.Command("security", "find-generic-password",
		"-a", key, "-s", keychainService, "-w").Output()
	if err != nil {
		// Exit code 44 is "item not found"; other failures (locked
		// keychain, denied prompt) also degrade to "no secret".
		return nil, nil
	}
	return []byte(strings.TrimSpace(string(out))), nil
}

func (k *KeychainStore) Delete(key string) error {
	// Missing items are fine.
	securityCmd("delete-generic-password", "-a", key, "-s", keychainService)
	return nil
}

func securityCmd(args ...string) (string, error) {
	out, err := exec.Command("security", args...).CombinedOutput()
	return strings.TrimSpace(string(out)), err
}
