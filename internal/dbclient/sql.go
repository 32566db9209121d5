package dbclient

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// sqlConnector is the shared implementation for MySQL, Postgres, and SQLite.
type sqlConnector struct {
	driverName string
	db         *sql.DB
}

// newSQLConnector creates a generic SQL connector.
func newSQLConnector(driverName, dsn string) (*sqlConnector, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}
	// Sensible pool settings for a desktop app
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(10 * time.Minute)

	return &sqlConnector{driverName: driverName, db: db}, nil
}

func (c *sqlConnector) TestConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return c.db.PingContext(ctx)
}

// isReadQuery detects if a query is a read (SELECT, WITH, SHOW, DESCRIBE, EXPLAIN, PRAGMA).
func isReadQuery(query string) bool {
	q := strings.ToUpper(strings.TrimSpace(query))
	for _, prefix := range []string{"SELECT", "WITH", "SHOW", "DESCRIBE", "EXPLAIN", "PRAGMA"} {
		if strings.HasPrefix(q, prefix) {
			return true
		}
	}
	return false
}

func (c *sqlConnector) RunQuery(ctx context.Context, query string) (*QueryResult, error) {
	if !isReadQuery(query) {
		return nil, fmt.Errorf("only read queries are supported")
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	res := &QueryResult{Columns: cols}
	numCols := len(cols)
	for rows.Next() {
		if len(res.Rows) >= maxResultRows {
			res.Capped = true
			break
		}
		values := make([]any, numCols)
		ptrs := make([]any, numCols)
		for j := range values {
			ptrs[j] = &values[j]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make([]any, numCols)
		for j, v := range values {
			row[j] = formatValue(v)
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}
	return res, nil
}

// formatValue normalizes driver scan types for record conversion.
func formatValue(v any) any {
	if v == nil {
		return nil
	}
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return val
	}
}

func (c *sqlConnector) Introspect(ctx context.Context) (*SchemaInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	switch c.driverName {
	case "sqlite":
		return c.introspectSQLite(ctx)
	default:
		return c.introspectInfoSchema(ctx)
	}
}

// introspectInfoSchema works for MySQL and Postgres via INFORMATION_SCHEMA.
func (c *sqlConnector) introspectInfoSchema(ctx context.Context) (*SchemaInfo, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES
		 WHERE TABLE_SCHEMA = DATABASE() OR TABLE_SCHEMA = CURRENT_SCHEMA()
		 ORDER BY TABLE_NAME`)
	if err != nil {
		// Fallback: try without schema filter
		rows, err = c.db.QueryContext(ctx,
			`SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES ORDER BY TABLE_NAME`)
		if err != nil {
			return nil, fmt.Errorf("list tables: %w", err)
		}
	}
	defer rows.Close()

	var tableNames []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			continue
		}
		tableNames = append(tableNames, name)
	}

	schema := &SchemaInfo{}
	for _, tbl := range tableNames {
		colRows, err := c.db.QueryContext(ctx,
			`SELECT COLUMN_NAME, DATA_TYPE FROM INFORMATION_SCHEMA.COLUMNS
			 WHERE TABLE_NAME = ? ORDER BY ORDINAL_POSITION`, tbl)
		if err != nil {
			schema.Tables = append(schema.Tables, TableInfo{Name: tbl})
			continue
		}

		var cols []ColumnInfo
		for colRows.Next() {
			var ci ColumnInfo
			if err := colRows.Scan(&ci.Name, &ci.Type); err != nil {
				continue
			}
			cols = append(cols, ci)
		}
		colRows.Close()

		schema.Tables = append(schema.Tables, TableInfo{Name: tbl, Columns: cols})
	}

	return schema, nil
}

// introspectSQLite uses sqlite_master + PRAGMA table_info.
func (c *sqlConnector) introspectSQLite(ctx context.Context) (*SchemaInfo, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tableNames []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			continue
		}
		tableNames = append(tableNames, name)
	}

	schema := &SchemaInfo{}
	for _, tbl := range tableNames {
		pragmaRows, err := c.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info('%s')", tbl))
		if err != nil {
			schema.Tables = append(schema.Tables, TableInfo{Name: tbl})
			continue
		}

		var cols []ColumnInfo
		for pragmaRows.Next() {
			var cid int
			var name, colType string
			var notNull, pk int
			var dfltValue sql.NullString
			if err := pragmaRows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
				continue
			}
			cols = append(cols, ColumnInfo{Name: name, Type: colType})
		}
		pragmaRows.Close()

		schema.Tables = append(schema.Tables, TableInfo{Name: tbl, Columns: cols})
	}

	return schema, nil
}

func (c *sqlConnector) Close() error {
	return c.db.Close()
}
