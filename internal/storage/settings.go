package storage

import "database/sql"

// SettingsStore is a small key/value store for app preferences
// (window geometry, last export directory, etc.).
type SettingsStore struct {
	db *DB
}

// NewSettingsStore creates a new SettingsStore.
func NewSettingsStore(db *DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get returns the value for key, or "" when unset.
func (s *SettingsStore) Get(key string) (string, error) {
	row := s.db.Conn().QueryRow(`SELECT value FROM settings WHERE key = ?`, key)
	var v string
	err := row.Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return v, err
}

// Set upserts a value.
func (s *SettingsStore) Set(key, value string) error {
	_, err := s.db.Conn().Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		key, value,
	)
	return err
}

// Delete removes a key.
func (s *SettingsStore) Delete(key string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM settings WHERE key = ?`, key)
	return err
}
