package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/leoygaga-prog/json-workbench/internal/value"
)

// ── Database Source ────────────────────────────────────────
// Runs a query against a saved connection and loads the result set as
// records. Connector access goes through a provider interface the app
// layer implements and injects at startup, which keeps this package
// free of a dbclient dependency cycle.

// DBProvider abstracts how the source reaches saved connections.
type DBProvider interface {
	RunQuery(ctx context.Context, connectionID, query string) (columns []string, rows [][]any, err error)
}

var dbProvider DBProvider

// SetDBProvider is called by the app at startup.
func SetDBProvider(p DBProvider) { dbProvider = p }

type databaseSource struct{}

func init() { Register(&databaseSource{}) }

func (s *databaseSource) Spec() SourceSpec {
	return SourceSpec{
		Type:  "database",
		Label: "Database Query",
		Icon:  "IconDatabase",
		ConfigFields: []ConfigField{
			{Key: "connectionId", Label: "Connection", Type: "string", Required: true, Help: "ID of a saved database connection"},
			{Key: "query", Label: "Query", Type: "textarea", Required: true, Help: "Query whose result set becomes the dataset"},
		},
	}
}

func (s *databaseSource) Read(ctx context.Context, cfg SourceConfig, progress Progress) (*Result, error) {
	connID := cfgString(cfg, "connectionId")
	query := cfgString(cfg, "query")
	if connID == "" || query == "" {
		return nil, fmt.Errorf("connectionId and query are required")
	}
	if dbProvider == nil {
		return nil, fmt.Errorf("database provider not initialized")
	}

	columns, rows, err := dbProvider.RunQuery(ctx, connID, query)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}

	res := &Result{KeyOrder: columns}
	for _, row := range rows {
		rec := value.NewObject()
		for i, col := range columns {
			if i < len(row) {
				rec.Set(col, normalizeDBValue(row[i]))
			} else {
				rec.Set(col, nil)
			}
		}
		res.Records = append(res.Records, rec)

		if len(res.Records)%progressEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			report(progress, len(res.Records))
		}
	}
	report(progress, len(res.Records))

	return res, nil
}

// normalizeDBValue maps driver scan types onto the record value model.
func normalizeDBValue(v any) any {
	switch vv := v.(type) {
	case nil, bool, string, float64, json.Number:
		return vv
	case []byte:
		return string(vv)
	case int64:
		return json.Number(strconv.FormatInt(vv, 10))
	case int32:
		return json.Number(strconv.FormatInt(int64(vv), 10))
	case int:
		return json.Number(strconv.Itoa(vv))
	case float32:
		return json.Number(strconv.FormatFloat(float64(vv), 'f', -1, 32))
	case time.Time:
		return vv.Format(time.RFC3339)
	case map[string]any:
		obj := value.NewObject()
		for _, k := range sortedKeys(vv) {
			obj.Set(k, normalizeDBValue(vv[k]))
		}
		return obj
	case []any:
		out := make([]any, len(vv))
		for i, e := range vv {
			out[i] = normalizeDBValue(e)
		}
		return out
	default:
		return fmt.Sprintf("%v", vv)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
