package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/leoygaga-prog/json-workbench/internal/dbclient"
	"github.com/leoygaga-prog/json-workbench/internal/secret"
	"github.com/leoygaga-prog/json-workbench/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Connection Service — saved database connections
// ─────────────────────────────────────────────────────────────

// ConnectionInput is the service-layer DTO for creating/updating
// connections. The password never touches SQLite; it goes to the
// secret store keyed by connection ID.
type ConnectionInput struct {
	Name     string `json:"name"`
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
}

// ConnectionService manages saved connections and runs one-shot queries
// for the database ingest source. Connections are opened per call and
// closed when it returns.
type ConnectionService struct {
	connStore *storage.ConnectionStore
	secrets   secret.SecretStore
}

// NewConnectionService creates a ConnectionService.
func NewConnectionService(connStore *storage.ConnectionStore, secrets secret.SecretStore) *ConnectionService {
	return &ConnectionService{connStore: connStore, secrets: secrets}
}

// ── Connection CRUD ────────────────────────────────────────

func (s *ConnectionService) ListConnections() ([]dbclient.Connection, error) {
	return s.connStore.ListConnections()
}

func (s *ConnectionService) CreateConnection(input ConnectionInput) (*dbclient.Connection, error) {
	conn := &dbclient.Connection{
		ID:       uuid.NewString(),
		Name:     input.Name,
		Driver:   dbclient.Driver(input.Driver),
		Host:     input.Host,
		Port:     input.Port,
		Database: input.Database,
		Username: input.Username,
		SSLMode:  input.SSLMode,
	}
	if err := s.connStore.CreateConnection(conn); err != nil {
		return nil, fmt.Errorf("create connection: %w", err)
	}
	if input.Password != "" && s.secrets != nil {
		_ = s.secrets.Set("db:"+conn.ID, []byte(input.Password))
	}
	return conn, nil
}

func (s *ConnectionService) UpdateConnection(id string, input ConnectionInput) error {
	conn, err := s.connStore.GetConnection(id)
	if err != nil {
		return err
	}
	conn.Name = input.Name
	conn.Driver = dbclient.Driver(input.Driver)
	conn.Host = input.Host
	conn.Port = input.Port
	conn.Database = input.Database
	conn.Username = input.Username
	conn.SSLMode = input.SSLMode
	if err := s.connStore.UpdateConnection(conn); err != nil {
		return err
	}
	if input.Password != "" && s.secrets != nil {
		_ = s.secrets.Set("db:"+id, []byte(input.Password))
	}
	return nil
}

func (s *ConnectionService) DeleteConnection(id string) error {
	if err := s.connStore.DeleteConnection(id); err != nil {
		return err
	}
	if s.secrets != nil {
		_ = s.secrets.Delete("db:" + id)
	}
	return nil
}

// ── Connector access ───────────────────────────────────────

func (s *ConnectionService) open(id string) (dbclient.Connector, error) {
	conn, err := s.connStore.GetConnection(id)
	if err != nil {
		return nil, err
	}
	password := ""
	if s.secrets != nil {
		if pw, err := s.secrets.Get("db:" + id); err == nil && pw != nil {
			password = string(pw)
		}
	}
	return dbclient.NewConnector(conn, password)
}

// TestConnection verifies connectivity for a saved connection.
func (s *ConnectionService) TestConnection(ctx context.Context, id string) error {
	connector, err := s.open(id)
	if err != nil {
		return err
	}
	defer connector.Close()
	return connector.TestConnection(ctx)
}

// Introspect returns the schema of a saved connection's database.
func (s *ConnectionService) Introspect(ctx context.Context, id string) (*dbclient.SchemaInfo, error) {
	connector, err := s.open(id)
	if err != nil {
		return nil, err
	}
	defer connector.Close()
	return connector.Introspect(ctx)
}

// RunQuery implements ingest.DBProvider: it runs a one-shot read query
// against a saved connection.
func (s *ConnectionService) RunQuery(ctx context.Context, connectionID, query string) ([]string, [][]any, error) {
	connector, err := s.open(connectionID)
	if err != nil {
		return nil, nil, err
	}
	defer connector.Close()

	queryCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	res, err := connector.RunQuery(queryCtx, query)
	if err != nil {
		return nil, nil, err
	}
	return res.Columns, res.Rows, nil
}
