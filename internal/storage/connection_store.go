package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/leoygaga-prog/json-workbench/internal/dbclient"
)

// ConnectionStore manages saved database connections in SQLite.
type ConnectionStore struct {
	db *DB
}

// NewConnectionStore creates a new ConnectionStore.
func NewConnectionStore(db *DB) *ConnectionStore {
	return &ConnectionStore{db: db}
}

func (s *ConnectionStore) CreateConnection(c *dbclient.Connection) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := s.db.Conn().Exec(
		`INSERT INTO db_connections (id, name, driver, host, port, database_name, username, ssl_mode, extra_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Driver, c.Host, c.Port, c.Database, c.Username, c.SSLMode, c.ExtraJSON, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (s *ConnectionStore) GetConnection(id string) (*dbclient.Connection, error) {
	row := s.db.Conn().QueryRow(
		`SELECT id, name, driver, host, port, database_name, username, ssl_mode, extra_json, created_at, updated_at
		 FROM db_connections WHERE id = ?`, id,
	)

	c := &dbclient.Connection{}
	err := row.Scan(&c.ID, &c.Name, &c.Driver, &c.Host, &c.Port, &c.Database, &c.Username, &c.SSLMode, &c.ExtraJSON, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("database connection not found: %s", id)
	}
	return c, err
}

func (s *ConnectionStore) ListConnections() ([]dbclient.Connection, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, name, driver, host, port, database_name, username, ssl_mode, extra_json, created_at, updated_at
		 FROM db_connections ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conns []dbclient.Connection
	for rows.Next() {
		var c dbclient.Connection
		if err := rows.Scan(&c.ID, &c.Name, &c.Driver, &c.Host, &c.Port, &c.Database, &c.Username, &c.SSLMode, &c.ExtraJSON, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		conns = append(conns, c)
	}
	return conns, rows.Err()
}

func (s *ConnectionStore) UpdateConnection(c *dbclient.Connection) error {
	c.UpdatedAt = time.Now()
	_, err := s.db.Conn().Exec(
		`UPDATE db_connections SET name=?, driver=?, host=?, port=?, database_name=?, username=?, ssl_mode=?, extra_json=?, updated_at=?
		 WHERE id=?`,
		c.Name, c.Driver, c.Host, c.Port, c.Database, c.Username, c.SSLMode, c.ExtraJSON, c.UpdatedAt, c.ID,
	)
	return err
}

func (s *ConnectionStore) DeleteConnection(id string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM db_connections WHERE id = ?`, id)
	return err
}
