package app

// ============================================================
// Record edits
// ============================================================

// Path segments arrive from the frontend as a mixed JSON array of
// strings (map keys) and numbers (list indices).

func (a *App) SetRecordValue(id string, index int, path []any, rawJSON string) error {
	return a.datasets.SetRecordValue(a.ctx, id, index, path, rawJSON)
}

func (a *App) RenameRecordKey(id string, index int, path []any, newKey string) error {
	return a.datasets.RenameRecordKey(a.ctx, id, index, path, newKey)
}

func (a *App) RemoveRecordPath(id string, index int, path []any) error {
	return a.datasets.RemoveRecordPath(a.ctx, id, index, path)
}

func (a *App) AddRecordMapEntry(id string, index int, path []any, key string) error {
	return a.datasets.AddRecordMapEntry(a.ctx, id, index, path, key)
}

func (a *App) AddRecordListItem(id string, index int, path []any) error {
	return a.datasets.AddRecordListItem(a.ctx, id, index, path)
}

func (a *App) DeleteRecord(id string, index int) error {
	return a.datasets.DeleteRecord(a.ctx, id, index)
}

// FixRowError re-parses a repaired source line and clears the error.
func (a *App) FixRowError(id string, line int, fixed string) error {
	return a.datasets.FixRowError(a.ctx, id, line, fixed)
}
