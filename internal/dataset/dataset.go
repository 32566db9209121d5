// Package dataset holds the in-memory dataset model: ordered records, a
// key-order hint, per-row ingestion errors, plus the store and undo
// history that give each dataset single-writer mutation discipline.
package dataset

import (
	"time"

	"github.com/leoygaga-prog/json-workbench/internal/value"
)

// RowError captures one line of line-delimited input that failed to
// parse. Surfaced to the user for manual repair and re-insertion.
type RowError struct {
	Line    int    `json:"line"`
	Raw     string `json:"raw"`
	Message string `json:"message"`
}

// Dataset is an ordered sequence of records plus ingestion metadata.
// Records are value trees, conventionally (not necessarily) mappings.
type Dataset struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Records []any `json:"-"`

	// KeyOrder biases output field order across bulk operations and
	// export. Usually the first record's keys or the source's columns.
	KeyOrder []string `json:"keyOrder,omitempty"`

	RowErrors []RowError `json:"rowErrors,omitempty"`

	// Source bookkeeping for reload / scheduled refresh.
	SourceType   string         `json:"sourceType,omitempty"`
	SourceConfig map[string]any `json:"sourceConfig,omitempty"`
	RefreshCron  string         `json:"refreshCron,omitempty"`
	WatchFile    bool           `json:"watchFile,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary is the record-free view listed to the frontend.
type Summary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	RowCount    int       `json:"rowCount"`
	ErrorCount  int       `json:"errorCount"`
	SourceType  string    `json:"sourceType,omitempty"`
	RefreshCron string    `json:"refreshCron,omitempty"`
	WatchFile   bool      `json:"watchFile,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Summarize builds the list view of a dataset.
func (d *Dataset) Summarize() Summary {
	return Summary{
		ID:          d.ID,
		Name:        d.Name,
		RowCount:    len(d.Records),
		ErrorCount:  len(d.RowErrors),
		SourceType:  d.SourceType,
		RefreshCron: d.RefreshCron,
		WatchFile:   d.WatchFile,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// SourcePath returns the file path this dataset was ingested from, when
// it came from a file source.
func (d *Dataset) SourcePath() string {
	if d.SourceConfig == nil {
		return ""
	}
	p, _ := d.SourceConfig["filePath"].(string)
	return p
}

// cloneRecords deep-copies a record slice for snapshots.
func cloneRecords(records []any) []any {
	out := make([]any, len(records))
	for i, r := range records {
		out[i] = value.Clone(r)
	}
	return out
}
