package app

import (
	"github.com/leoygaga-prog/json-workbench/internal/dbclient"
	"github.com/leoygaga-prog/json-workbench/internal/service"
)

// ============================================================
// Database connections
// ============================================================

// Connection records never carry the password; it lives in the secret
// store and only the connection service reads it back.

func (a *App) ListConnections() ([]dbclient.Connection, error) {
	return a.connections.ListConnections()
}

func (a *App) CreateConnection(input service.ConnectionInput) (*dbclient.Connection, error) {
	return a.connections.CreateConnection(input)
}

func (a *App) UpdateConnection(id string, input service.ConnectionInput) error {
	return a.connections.UpdateConnection(id, input)
}

func (a *App) DeleteConnection(id string) error {
	return a.connections.DeleteConnection(id)
}

func (a *App) TestConnection(id string) error {
	return a.connections.TestConnection(a.ctx, id)
}

func (a *App) IntrospectConnection(id string) (*dbclient.SchemaInfo, error) {
	return a.connections.Introspect(a.ctx, id)
}

// QueryPreview is a capped result for the import dialog's query preview.
type QueryPreview struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// PreviewQuery runs a read-only query and returns the raw rows, for
// checking a query before importing it as a dataset.
func (a *App) PreviewQuery(connectionID, query string) (*QueryPreview, error) {
	cols, rows, err := a.connections.RunQuery(a.ctx, connectionID, query)
	if err != nil {
		return nil, err
	}
	const previewRows = 200
	if len(rows) > previewRows {
		rows = rows[:previewRows]
	}
	return &QueryPreview{Columns: cols, Rows: rows}, nil
}
