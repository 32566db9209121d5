package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leoygaga-prog/json-workbench/internal/filter"
)

func (s *Server) registerFilterTools() {
	s.mcp.AddTool(mcp.NewTool("get_filter_state",
		mcp.WithDescription("Get a dataset's current filter: search query, rule groups, and matched record indices"),
		mcp.WithString("datasetId", mcp.Description("Dataset ID"), mcp.Required()),
	), s.handleGetFilterState)

	s.mcp.AddTool(mcp.NewTool("set_search_query",
		mcp.WithDescription("Set the free-text search over serialized records (empty string clears it)"),
		mcp.WithString("datasetId", mcp.Description("Dataset ID"), mcp.Required()),
		mcp.WithString("query", mcp.Description("Search text")),
	), s.handleSetSearchQuery)

	s.mcp.AddTool(mcp.NewTool("add_filter_rule",
		mcp.WithDescription("Add a filter rule. Groups AND together; rules inside a group OR. A rule on a field that already has a group joins that group unless forceNewGroup is set. Operators: equals (case-sensitive), contains, startsWith, endsWith, notContains, isEmpty, isNotEmpty."),
		mcp.WithString("datasetId", mcp.Description("Dataset ID"), mcp.Required()),
		mcp.WithString("field", mcp.Description("Field path, dot notation for nested keys"), mcp.Required()),
		mcp.WithString("op", mcp.Description("Operator"), mcp.Required()),
		mcp.WithString("value", mcp.Description("Comparison value (ignored for isEmpty/isNotEmpty)")),
		mcp.WithBoolean("forceNewGroup", mcp.Description("Start a new AND group even if the field already has one")),
	), s.handleAddFilterRule)

	s.mcp.AddTool(mcp.NewTool("remove_filter_rule",
		mcp.WithDescription("Remove a filter rule by its ID (from get_filter_state)"),
		mcp.WithString("datasetId", mcp.Description("Dataset ID"), mcp.Required()),
		mcp.WithString("ruleId", mcp.Description("Rule ID"), mcp.Required()),
	), s.handleRemoveFilterRule)

	s.mcp.AddTool(mcp.NewTool("clear_filter",
		mcp.WithDescription("Drop the search query and all filter rules"),
		mcp.WithString("datasetId", mcp.Description("Dataset ID"), mcp.Required()),
	), s.handleClearFilter)

	s.mcp.AddTool(mcp.NewTool("commit_filter",
		mcp.WithDescription("🛑 DESTRUCTIVE: Permanently remove all records not matching the active filter (undoable), then reset the filter."),
		mcp.WithString("datasetId", mcp.Description("Dataset ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleCommitFilter)
}

func (s *Server) handleGetFilterState(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "datasetId")
	if err != nil {
		return nil, err
	}
	state, err := s.datasets.GetFilterState(id)
	if err != nil {
		return nil, err
	}
	return jsonResult(state)
}

func (s *Server) handleSetSearchQuery(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := requireString(args, "datasetId")
	if err != nil {
		return nil, err
	}
	query, _ := args["query"].(string)

	state, err := s.datasets.SetSearchQuery(id, query)
	if err != nil {
		return nil, err
	}
	return jsonResult(state)
}

func (s *Server) handleAddFilterRule(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := requireString(args, "datasetId")
	if err != nil {
		return nil, err
	}
	field, err := requireString(args, "field")
	if err != nil {
		return nil, err
	}
	op, err := requireString(args, "op")
	if err != nil {
		return nil, err
	}
	value, _ := args["value"].(string)
	forceNewGroup, _ := args["forceNewGroup"].(bool)

	state, err := s.datasets.AddFilterRule(id, field, filter.Operator(op), value, forceNewGroup)
	if err != nil {
		return nil, err
	}
	return jsonResult(state)
}

func (s *Server) handleRemoveFilterRule(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := requireString(args, "datasetId")
	if err != nil {
		return nil, err
	}
	ruleID, err := requireString(args, "ruleId")
	if err != nil {
		return nil, err
	}
	state, err := s.datasets.RemoveFilterRule(id, ruleID)
	if err != nil {
		return nil, err
	}
	return jsonResult(state)
}

func (s *Server) handleClearFilter(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "datasetId")
	if err != nil {
		return nil, err
	}
	state, err := s.datasets.ClearFilter(id)
	if err != nil {
		return nil, err
	}
	return jsonResult(state)
}

func (s *Server) handleCommitFilter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "datasetId")
	if err != nil {
		return nil, err
	}
	if err := s.datasets.CommitFilter(ctx, id); err != nil {
		return nil, err
	}
	sum, err := s.datasets.Get(id)
	if err != nil {
		return nil, err
	}
	return jsonResult(sum)
}
