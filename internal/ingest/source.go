// Package ingest loads datasets from external inputs. Each source type
// lives in its own file and registers itself at init time; the frontend
// renders configuration forms from the source specs.
package ingest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/leoygaga-prog/json-workbench/internal/dataset"
	"github.com/leoygaga-prog/json-workbench/internal/value"
)

// ── Source ──────────────────────────────────────────────────

// SourceConfig is an opaque configuration map parsed per source type.
type SourceConfig map[string]any

// ConfigField describes a single configuration input for a source.
// The frontend auto-renders the form from this spec.
type ConfigField struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Type     string   `json:"type"` // "string" | "select" | "textarea" | "password" | "file"
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"` // for "select" type
	Default  string   `json:"default,omitempty"`
	Help     string   `json:"help,omitempty"`
}

// SourceSpec describes a source type: its label, icon, and config fields.
type SourceSpec struct {
	Type         string        `json:"type"`
	Label        string        `json:"label"`
	Icon         string        `json:"icon"` // Tabler icon name
	ConfigFields []ConfigField `json:"configFields"`
}

// Progress is called periodically during a read with the number of rows
// ingested so far. Implementations call it at most every progressEvery
// rows; a nil Progress is allowed.
type Progress func(rows int)

// progressEvery bounds how often sources report progress.
const progressEvery = 500

// Result is a fully materialized load: the ordered records, the column
// order hint for display and export, and any per-row parse failures.
type Result struct {
	Records   []any
	KeyOrder  []string
	RowErrors []dataset.RowError
}

// Source is the interface every input type implements.
type Source interface {
	// Spec returns metadata about this source type.
	Spec() SourceSpec

	// Read loads all records. Row-level failures land in the result's
	// RowErrors; only failures that prevent any load return an error.
	Read(ctx context.Context, cfg SourceConfig, progress Progress) (*Result, error)
}

// ── Source Registry ────────────────────────────────────────
// Compile-time registration via init() in each source file.

var (
	registryMu sync.RWMutex
	registry   = map[string]Source{}
)

// Register registers a source by its spec type. Called from init() in
// each source implementation file.
func Register(s Source) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[s.Spec().Type] = s
}

// GetSource returns a registered source by type.
func GetSource(typ string) (Source, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[typ]
	if !ok {
		return nil, fmt.Errorf("unknown source type: %q", typ)
	}
	return s, nil
}

// ListSources returns the specs of all registered sources, ordered by type.
func ListSources() []SourceSpec {
	registryMu.RLock()
	defer registryMu.RUnlock()
	specs := make([]SourceSpec, 0, len(registry))
	for _, s := range registry {
		specs = append(specs, s.Spec())
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Type < specs[j].Type })
	return specs
}

// ── Shared helpers ─────────────────────────────────────────

func cfgString(cfg SourceConfig, key string) string {
	s, _ := cfg[key].(string)
	return s
}

func report(p Progress, rows int) {
	if p != nil {
		p(rows)
	}
}

// keyOrderOf takes the column order from the first mapping record.
func keyOrderOf(records []any) []string {
	for _, r := range records {
		if obj, ok := r.(*value.Object); ok {
			return value.Keys(obj)
		}
	}
	return nil
}
