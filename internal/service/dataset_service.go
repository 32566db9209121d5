package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leoygaga-prog/json-workbench/internal/dataset"
	"github.com/leoygaga-prog/json-workbench/internal/filter"
	"github.com/leoygaga-prog/json-workbench/internal/ingest"
	"github.com/leoygaga-prog/json-workbench/internal/jsonpath"
	"github.com/leoygaga-prog/json-workbench/internal/schema"
	"github.com/leoygaga-prog/json-workbench/internal/storage"
	"github.com/leoygaga-prog/json-workbench/internal/transform"
	"github.com/leoygaga-prog/json-workbench/internal/value"
)

// ─────────────────────────────────────────────────────────────
// Dataset Service — business logic for loading, transforming,
// filtering, and exporting datasets
// ─────────────────────────────────────────────────────────────

// DatasetService owns the in-memory dataset store plus the per-dataset
// filter state. It is decoupled from the Wails App struct via the
// EventEmitter interface.
type DatasetService struct {
	store   *dataset.Store
	persist *storage.DatasetStore // nil in tests
	emitter EventEmitter
	busy    busyGuard

	filterMu sync.Mutex
	filters  map[string]*filterEntry
}

type filterEntry struct {
	query string
	rules filter.RuleSet
}

// NewDatasetService creates a DatasetService ready for use.
func NewDatasetService(store *dataset.Store, persist *storage.DatasetStore, emitter EventEmitter) *DatasetService {
	return &DatasetService{
		store:   store,
		persist: persist,
		emitter: emitter,
		filters: make(map[string]*filterEntry),
	}
}

// LoadPersisted restores saved datasets into the in-memory store at startup.
func (s *DatasetService) LoadPersisted() error {
	if s.persist == nil {
		return nil
	}
	summaries, err := s.persist.ListDatasets()
	if err != nil {
		return fmt.Errorf("list saved datasets: %w", err)
	}
	for _, sum := range summaries {
		d, err := s.persist.LoadDataset(sum.ID)
		if err != nil {
			log.Printf("dataset %s: load failed: %v", sum.ID, err)
			continue
		}
		s.store.Put(d)
	}
	return nil
}

func (s *DatasetService) persistDataset(id string) {
	if s.persist == nil {
		return
	}
	d, err := s.store.Get(id)
	if err != nil {
		return
	}
	if err := s.persist.SaveDataset(d); err != nil {
		log.Printf("dataset %s: save failed: %v", id, err)
	}
}

// ── Import / CRUD ──────────────────────────────────────────

// ImportInput configures a dataset import.
type ImportInput struct {
	Name         string         `json:"name"`
	SourceType   string         `json:"sourceType"`
	SourceConfig map[string]any `json:"sourceConfig"`
	RefreshCron  string         `json:"refreshCron"`
	WatchFile    bool           `json:"watchFile"`
}

// Import loads a new dataset from a source, emitting progress events
// keyed by the new dataset's ID.
func (s *DatasetService) Import(ctx context.Context, input ImportInput) (*dataset.Summary, error) {
	src, err := ingest.GetSource(input.SourceType)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	if !s.busy.TryLock(id) {
		return nil, fmt.Errorf("dataset %s is busy", id)
	}
	defer s.busy.Unlock(id)

	importCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	res, err := src.Read(importCtx, ingest.SourceConfig(input.SourceConfig), func(rows int) {
		s.emitter.Emit(ctx, EventImportProgress, map[string]any{"datasetId": id, "rows": rows})
	})
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", input.SourceType, err)
	}

	name := input.Name
	if name == "" {
		name = input.SourceType
	}
	now := time.Now()
	d := &dataset.Dataset{
		ID:           id,
		Name:         name,
		Records:      res.Records,
		KeyOrder:     res.KeyOrder,
		RowErrors:    res.RowErrors,
		SourceType:   input.SourceType,
		SourceConfig: input.SourceConfig,
		RefreshCron:  input.RefreshCron,
		WatchFile:    input.WatchFile,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.store.Put(d)
	s.persistDataset(id)

	sum := d.Summarize()
	s.emitter.Emit(ctx, EventDatasetCreated, sum)
	return &sum, nil
}

// List returns summaries for all open datasets.
func (s *DatasetService) List() []dataset.Summary {
	var out []dataset.Summary
	for _, d := range s.store.List() {
		out = append(out, d.Summarize())
	}
	return out
}

// Get returns one dataset's summary.
func (s *DatasetService) Get(id string) (*dataset.Summary, error) {
	d, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	sum := d.Summarize()
	return &sum, nil
}

// Rename changes the dataset's display name.
func (s *DatasetService) Rename(ctx context.Context, id, name string) error {
	if err := s.store.Mutate(id, "rename dataset", func(d *dataset.Dataset) error {
		d.Name = name
		return nil
	}); err != nil {
		return err
	}
	s.persistDataset(id)
	s.emitter.Emit(ctx, EventDatasetUpdated, id)
	return nil
}

// Delete removes a dataset everywhere.
func (s *DatasetService) Delete(ctx context.Context, id string) error {
	s.store.Delete(id)
	s.filterMu.Lock()
	delete(s.filters, id)
	s.filterMu.Unlock()
	if s.persist != nil {
		if err := s.persist.DeleteDataset(id); err != nil {
			return err
		}
	}
	s.emitter.Emit(ctx, EventDatasetDeleted, id)
	return nil
}

// ── Records view ───────────────────────────────────────────

// RecordsPage is one window of a dataset's records. When a filter is
// active the page covers matched records only, and Indices maps each
// returned record back to its original position.
type RecordsPage struct {
	Records  []any `json:"records"`
	Indices  []int `json:"indices"`
	Total    int   `json:"total"`
	Offset   int   `json:"offset"`
	Filtered bool  `json:"filtered"`
}

// Records returns a page of the dataset's records, through the active
// filter if one is set.
func (s *DatasetService) Records(id string, offset, limit int) (*RecordsPage, error) {
	d, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	indices := s.matchedIndices(id, d)
	page := &RecordsPage{Total: len(indices), Offset: offset, Filtered: indices != nil}
	if !page.Filtered {
		page.Total = len(d.Records)
	}

	for i := offset; i < page.Total && len(page.Records) < limit; i++ {
		idx := i
		if page.Filtered {
			idx = indices[i]
		}
		page.Records = append(page.Records, d.Records[idx])
		page.Indices = append(page.Indices, idx)
	}
	return page, nil
}

// matchedIndices returns the active filter's matches, or nil when no
// filter is set.
func (s *DatasetService) matchedIndices(id string, d *dataset.Dataset) []int {
	query, groups := s.filterSnapshot(id)
	if query == "" && len(groups) == 0 {
		return nil
	}
	return filter.Evaluate(d.Records, query, groups)
}

// ── Transforms ─────────────────────────────────────────────

// TransformReport summarizes one transform application.
type TransformReport struct {
	RowCount int      `json:"rowCount"`
	Warnings []string `json:"warnings,omitempty"`
	Summary  string   `json:"summary,omitempty"`
}

// ApplyTransform runs one operation over every record, as one undo step.
func (s *DatasetService) ApplyTransform(ctx context.Context, id string, op transform.Operation) (*TransformReport, error) {
	report := &TransformReport{}
	err := s.store.Mutate(id, "transform: "+string(op.Type), func(d *dataset.Dataset) error {
		out, warnings, err := transform.Apply(d.Records, op)
		if err != nil {
			return err
		}
		d.Records = out
		report.RowCount = len(out)
		report.Warnings = warnings
		report.Summary = summarizeWarnings(warnings)

		// Key-affecting operations update the export column order too.
		switch op.Type {
		case transform.OpKeyReorder:
			d.KeyOrder = op.Keys
		case transform.OpRenameField:
			for i, k := range d.KeyOrder {
				if k == op.From {
					d.KeyOrder[i] = op.To
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.persistDataset(id)
	s.emitter.Emit(ctx, EventDatasetUpdated, id)
	return report, nil
}

// summarizeWarnings folds per-row warnings into a short message: the
// first three distinct warnings plus a total count.
func summarizeWarnings(warnings []string) string {
	if len(warnings) == 0 {
		return ""
	}
	seen := map[string]bool{}
	var distinct []string
	for _, w := range warnings {
		if !seen[w] {
			seen[w] = true
			distinct = append(distinct, w)
		}
	}
	shown := distinct
	if len(shown) > 3 {
		shown = shown[:3]
	}
	msg := strings.Join(shown, "; ")
	if len(distinct) > len(shown) {
		msg += fmt.Sprintf("; and %d more", len(distinct)-len(shown))
	}
	return fmt.Sprintf("%d warning(s): %s", len(warnings), msg)
}

// ── Filters ────────────────────────────────────────────────

// FilterState is the frontend view of a dataset's filter.
type FilterState struct {
	Query   string         `json:"query"`
	Groups  []filter.Group `json:"groups"`
	Active  bool           `json:"active"`
	Matched []int          `json:"matched"`
}

// updateFilter mutates a dataset's filter entry under the lock,
// creating it on first use.
func (s *DatasetService) updateFilter(id string, fn func(e *filterEntry)) {
	s.filterMu.Lock()
	defer s.filterMu.Unlock()
	entry := s.filters[id]
	if entry == nil {
		entry = &filterEntry{}
		s.filters[id] = entry
	}
	fn(entry)
}

// filterSnapshot copies the filter state under the lock, so evaluation
// can run without holding it while concurrent calls keep editing rules.
func (s *DatasetService) filterSnapshot(id string) (string, []filter.Group) {
	s.filterMu.Lock()
	defer s.filterMu.Unlock()
	entry := s.filters[id]
	if entry == nil {
		return "", nil
	}
	return entry.query, append([]filter.Group(nil), entry.rules.Groups...)
}

func (s *DatasetService) filterState(id string) (*FilterState, error) {
	d, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	query, groups := s.filterSnapshot(id)
	state := &FilterState{
		Query:  query,
		Groups: groups,
		Active: query != "" || len(groups) > 0,
	}
	if state.Active {
		state.Matched = filter.Evaluate(d.Records, query, groups)
	}
	return state, nil
}

// GetFilterState returns the current filter and its matches.
func (s *DatasetService) GetFilterState(id string) (*FilterState, error) {
	return s.filterState(id)
}

// SetSearchQuery sets the free-text query.
func (s *DatasetService) SetSearchQuery(id, query string) (*FilterState, error) {
	s.updateFilter(id, func(e *filterEntry) { e.query = query })
	return s.filterState(id)
}

// AddFilterRule places a rule. A rule on a field already present in a
// group joins that group (OR) unless forceNewGroup is set.
func (s *DatasetService) AddFilterRule(id, field string, op filter.Operator, val string, forceNewGroup bool) (*FilterState, error) {
	s.updateFilter(id, func(e *filterEntry) { e.rules.Add(field, op, val, forceNewGroup) })
	return s.filterState(id)
}

// RemoveFilterRule deletes a rule by ID.
func (s *DatasetService) RemoveFilterRule(id, ruleID string) (*FilterState, error) {
	s.updateFilter(id, func(e *filterEntry) { e.rules.Remove(ruleID) })
	return s.filterState(id)
}

// ClearFilter drops the query and all rules.
func (s *DatasetService) ClearFilter(id string) (*FilterState, error) {
	s.filterMu.Lock()
	delete(s.filters, id)
	s.filterMu.Unlock()
	return s.filterState(id)
}

// CommitFilter makes the filtered view permanent: unmatched records are
// removed as one undoable step, then the filter resets.
func (s *DatasetService) CommitFilter(ctx context.Context, id string) error {
	query, groups := s.filterSnapshot(id)
	if query == "" && len(groups) == 0 {
		return fmt.Errorf("no filter to commit")
	}
	err := s.store.Mutate(id, "commit filter", func(d *dataset.Dataset) error {
		matched := filter.Evaluate(d.Records, query, groups)
		kept := make([]any, 0, len(matched))
		for _, idx := range matched {
			kept = append(kept, d.Records[idx])
		}
		d.Records = kept
		return nil
	})
	if err != nil {
		return err
	}
	s.filterMu.Lock()
	delete(s.filters, id)
	s.filterMu.Unlock()
	s.persistDataset(id)
	s.emitter.Emit(ctx, EventDatasetUpdated, id)
	return nil
}

// ── Record edits ───────────────────────────────────────────

func (s *DatasetService) mutateRecord(ctx context.Context, id string, index int, label string, fn func(root any) (any, error)) error {
	err := s.store.Mutate(id, label, func(d *dataset.Dataset) error {
		if index < 0 || index >= len(d.Records) {
			return fmt.Errorf("record index out of range: %d", index)
		}
		newRoot, err := fn(d.Records[index])
		if err != nil {
			return err
		}
		d.Records[index] = newRoot
		return nil
	})
	if err != nil {
		return err
	}
	s.persistDataset(id)
	s.emitter.Emit(ctx, EventDatasetUpdated, id)
	return nil
}

// SetRecordValue replaces the value at a path inside one record.
// rawJSON is the new value in JSON syntax.
func (s *DatasetService) SetRecordValue(ctx context.Context, id string, index int, path []any, rawJSON string) error {
	v, err := value.DecodeString(rawJSON)
	if err != nil {
		return fmt.Errorf("parse value: %w", err)
	}
	return s.mutateRecord(ctx, id, index, "edit value", func(root any) (any, error) {
		return jsonpath.Set(root, jsonpath.FromAny(path), v), nil
	})
}

// RenameRecordKey renames the mapping key addressed by path, keeping
// its position.
func (s *DatasetService) RenameRecordKey(ctx context.Context, id string, index int, path []any, newKey string) error {
	return s.mutateRecord(ctx, id, index, "rename key", func(root any) (any, error) {
		return jsonpath.Rename(root, jsonpath.FromAny(path), newKey), nil
	})
}

// RemoveRecordPath deletes the value addressed by path.
func (s *DatasetService) RemoveRecordPath(ctx context.Context, id string, index int, path []any) error {
	return s.mutateRecord(ctx, id, index, "remove value", func(root any) (any, error) {
		return jsonpath.Remove(root, jsonpath.FromAny(path)), nil
	})
}

// AddRecordMapEntry adds key with a null value to the mapping at path.
func (s *DatasetService) AddRecordMapEntry(ctx context.Context, id string, index int, path []any, key string) error {
	return s.mutateRecord(ctx, id, index, "add entry", func(root any) (any, error) {
		return jsonpath.AddMapEntry(root, jsonpath.FromAny(path), key, nil), nil
	})
}

// AddRecordListItem appends a null item to the list at path.
func (s *DatasetService) AddRecordListItem(ctx context.Context, id string, index int, path []any) error {
	return s.mutateRecord(ctx, id, index, "add item", func(root any) (any, error) {
		return jsonpath.AddListItem(root, jsonpath.FromAny(path), nil), nil
	})
}

// DeleteRecord removes one record from the dataset.
func (s *DatasetService) DeleteRecord(ctx context.Context, id string, index int) error {
	err := s.store.Mutate(id, "delete record", func(d *dataset.Dataset) error {
		if index < 0 || index >= len(d.Records) {
			return fmt.Errorf("record index out of range: %d", index)
		}
		d.Records = append(d.Records[:index], d.Records[index+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	s.persistDataset(id)
	s.emitter.Emit(ctx, EventDatasetUpdated, id)
	return nil
}

// FixRowError re-parses a repaired input line, appends the record, and
// clears the matching row error.
func (s *DatasetService) FixRowError(ctx context.Context, id string, line int, fixed string) error {
	rec, err := ingest.ParseLine(fixed)
	if err != nil {
		return err
	}
	err = s.store.Mutate(id, "fix row error", func(d *dataset.Dataset) error {
		at := -1
		for i, re := range d.RowErrors {
			if re.Line == line {
				at = i
				break
			}
		}
		if at == -1 {
			return fmt.Errorf("no row error for line %d", line)
		}
		kept := make([]dataset.RowError, 0, len(d.RowErrors)-1)
		kept = append(kept, d.RowErrors[:at]...)
		kept = append(kept, d.RowErrors[at+1:]...)
		d.RowErrors = kept
		d.Records = append(d.Records, rec)
		return nil
	})
	if err != nil {
		return err
	}
	s.persistDataset(id)
	s.emitter.Emit(ctx, EventDatasetUpdated, id)
	return nil
}

// ── Undo / Redo ────────────────────────────────────────────

// Undo restores the previous snapshot.
func (s *DatasetService) Undo(ctx context.Context, id string) (bool, error) {
	ok, err := s.store.Undo(id)
	if err != nil || !ok {
		return ok, err
	}
	s.persistDataset(id)
	s.emitter.Emit(ctx, EventDatasetUpdated, id)
	return true, nil
}

// Redo reverses the most recent undo.
func (s *DatasetService) Redo(ctx context.Context, id string) (bool, error) {
	ok, err := s.store.Redo(id)
	if err != nil || !ok {
		return ok, err
	}
	s.persistDataset(id)
	s.emitter.Emit(ctx, EventDatasetUpdated, id)
	return true, nil
}

// HistoryState reports undo/redo availability.
func (s *DatasetService) HistoryState(id string) (canUndo, canRedo bool, err error) {
	return s.store.HistoryState(id)
}

// ── Schema / Export ────────────────────────────────────────

// InferSchema summarizes the records' shape for the field picker.
func (s *DatasetService) InferSchema(id string, maxDepth int) (*schema.Node, error) {
	d, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	return schema.Infer(d.Records, maxDepth), nil
}

// Export writes the dataset to path in the given format ("json",
// "jsonl", "xlsx"), emitting progress events.
func (s *DatasetService) Export(ctx context.Context, id, path, format string) error {
	if !s.busy.TryLock("export:" + id) {
		return fmt.Errorf("dataset %s export already running", id)
	}
	defer s.busy.Unlock("export:" + id)

	d, err := s.store.Get(id)
	if err != nil {
		return err
	}
	err = ingest.ExportFile(path, format, d.Records, d.KeyOrder, func(rows int) {
		s.emitter.Emit(ctx, EventExportProgress, map[string]any{"datasetId": id, "rows": rows})
	})
	if err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}
	return nil
}

// ── Refresh ────────────────────────────────────────────────

// Refresh re-reads the dataset's source and replaces the records as one
// undoable step. Row errors and key order are replaced too.
func (s *DatasetService) Refresh(ctx context.Context, id string) error {
	if !s.busy.TryLock("refresh:" + id) {
		return fmt.Errorf("dataset %s refresh already running", id)
	}
	defer s.busy.Unlock("refresh:" + id)

	d, err := s.store.Get(id)
	if err != nil {
		return err
	}
	if d.SourceType == "" {
		return fmt.Errorf("dataset %s has no source to refresh from", id)
	}
	src, err := ingest.GetSource(d.SourceType)
	if err != nil {
		return err
	}

	refreshCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	res, err := src.Read(refreshCtx, ingest.SourceConfig(d.SourceConfig), func(rows int) {
		s.emitter.Emit(ctx, EventImportProgress, map[string]any{"datasetId": id, "rows": rows})
	})
	if err != nil {
		return fmt.Errorf("refresh %s: %w", d.SourceType, err)
	}

	err = s.store.Mutate(id, "refresh", func(d *dataset.Dataset) error {
		d.Records = res.Records
		d.KeyOrder = res.KeyOrder
		d.RowErrors = res.RowErrors
		return nil
	})
	if err != nil {
		return err
	}
	s.persistDataset(id)
	s.emitter.Emit(ctx, EventDatasetRefreshed, id)
	return nil
}

// WaitRunning blocks until running imports/exports/refreshes finish or
// ctx is cancelled. Used for graceful shutdown.
func (s *DatasetService) WaitRunning(ctx context.Context) {
	s.busy.WaitAll(ctx)
}
