// Package dbclient opens connections to external databases and runs
// one-shot read queries whose result sets become datasets.
package dbclient

import (
	"context"
	"fmt"
)

// QueryResult is the full result set of a one-shot query.
type QueryResult struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
	Capped  bool     `json:"capped"` // hit the row cap, result truncated
}

// maxResultRows bounds a one-shot query. Datasets are edited in memory,
// so a runaway query gets truncated rather than loaded whole.
const maxResultRows = 100_000

// SchemaInfo contains the database schema for the query editor.
type SchemaInfo struct {
	Tables []TableInfo `json:"tables"`
}

// TableInfo describes a table/collection.
type TableInfo struct {
	Name    string       `json:"name"`
	Columns []ColumnInfo `json:"columns"`
}

// ColumnInfo describes a column/field.
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Connector abstracts interaction with an external database.
type Connector interface {
	// TestConnection verifies connectivity.
	TestConnection(ctx context.Context) error

	// RunQuery executes a read query and materializes the whole result
	// set, up to maxResultRows rows.
	RunQuery(ctx context.Context, query string) (*QueryResult, error)

	// Introspect returns the database schema for the query editor.
	Introspect(ctx context.Context) (*SchemaInfo, error)

	// Close closes the connection.
	Close() error
}

// NewConnector creates a Connector for the given connection. The
// password must be provided separately (from SecretStore).
func NewConnector(conn *Connection, password string) (Connector, error) {
	switch conn.Driver {
	case DriverSQLite:
		return newSQLiteConnector(conn)
	case DriverMySQL:
		return newSQLConnector("mysql", buildMySQLDSN(conn, password))
	case DriverPostgres:
		return newSQLConnector("postgres", buildPostgresDSN(conn, password))
	case DriverMongoDB:
		return newMongoConnector(conn, password)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", conn.Driver)
	}
}
