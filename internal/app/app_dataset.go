package app

import (
	"github.com/leoygaga-prog/json-workbench/internal/dataset"
	"github.com/leoygaga-prog/json-workbench/internal/ingest"
	"github.com/leoygaga-prog/json-workbench/internal/schema"
	"github.com/leoygaga-prog/json-workbench/internal/service"
	"github.com/leoygaga-prog/json-workbench/internal/transform"
)

// ============================================================
// Datasets
// ============================================================

// ListSources returns the available import source types with their
// config field schemas, for the import dialog.
func (a *App) ListSources() []ingest.SourceSpec {
	return ingest.ListSources()
}

func (a *App) ImportDataset(input service.ImportInput) (*dataset.Summary, error) {
	sum, err := a.datasets.Import(a.ctx, input)
	if err != nil {
		return nil, err
	}
	// A new cron/watch registration may have appeared.
	if input.RefreshCron != "" || input.WatchFile {
		a.refresher.RestartWatchers(a.ctx)
	}
	return sum, nil
}

func (a *App) ListDatasets() []dataset.Summary {
	return a.datasets.List()
}

func (a *App) GetDataset(id string) (*dataset.Summary, error) {
	return a.datasets.Get(id)
}

func (a *App) RenameDataset(id, name string) error {
	return a.datasets.Rename(a.ctx, id, name)
}

func (a *App) DeleteDataset(id string) error {
	if err := a.datasets.Delete(a.ctx, id); err != nil {
		return err
	}
	a.refresher.RestartWatchers(a.ctx)
	return nil
}

func (a *App) GetRecords(id string, offset, limit int) (*service.RecordsPage, error) {
	return a.datasets.Records(id, offset, limit)
}

func (a *App) RefreshDataset(id string) error {
	return a.datasets.Refresh(a.ctx, id)
}

func (a *App) ExportDataset(id, path, format string) error {
	return a.datasets.Export(a.ctx, id, path, format)
}

// ============================================================
// Transforms / Undo
// ============================================================

func (a *App) ApplyTransform(id string, op transform.Operation) (*service.TransformReport, error) {
	return a.datasets.ApplyTransform(a.ctx, id, op)
}

func (a *App) Undo(id string) (bool, error) {
	return a.datasets.Undo(a.ctx, id)
}

func (a *App) Redo(id string) (bool, error) {
	return a.datasets.Redo(a.ctx, id)
}

// HistoryStateView reports undo/redo availability for the toolbar.
type HistoryStateView struct {
	CanUndo bool `json:"canUndo"`
	CanRedo bool `json:"canRedo"`
}

func (a *App) GetHistoryState(id string) (*HistoryStateView, error) {
	canUndo, canRedo, err := a.datasets.HistoryState(id)
	if err != nil {
		return nil, err
	}
	return &HistoryStateView{CanUndo: canUndo, CanRedo: canRedo}, nil
}

// ============================================================
// Schema
// ============================================================

// InferSchema summarizes the dataset's record shape for field pickers.
// maxDepth 0 uses the default depth limit.
func (a *App) InferSchema(id string, maxDepth int) (*schema.Node, error) {
	return a.datasets.InferSchema(id, maxDepth)
}
