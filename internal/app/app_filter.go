package app

import (
	"github.com/leoygaga-prog/json-workbench/internal/filter"
	"github.com/leoygaga-prog/json-workbench/internal/service"
)

// ============================================================
// Filters
// ============================================================

func (a *App) GetFilterState(id string) (*service.FilterState, error) {
	return a.datasets.GetFilterState(id)
}

func (a *App) SetSearchQuery(id, query string) (*service.FilterState, error) {
	return a.datasets.SetSearchQuery(id, query)
}

func (a *App) AddFilterRule(id, field, op, value string, forceNewGroup bool) (*service.FilterState, error) {
	return a.datasets.AddFilterRule(id, field, filter.Operator(op), value, forceNewGroup)
}

func (a *App) RemoveFilterRule(id, ruleID string) (*service.FilterState, error) {
	return a.datasets.RemoveFilterRule(id, ruleID)
}

func (a *App) ClearFilter(id string) (*service.FilterState, error) {
	return a.datasets.ClearFilter(id)
}

func (a *App) CommitFilter(id string) error {
	return a.datasets.CommitFilter(a.ctx, id)
}
