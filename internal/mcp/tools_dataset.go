package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leoygaga-prog/json-workbench/internal/ingest"
	"github.com/leoygaga-prog/json-workbench/internal/service"
)

func (s *Server) registerDatasetTools() {
	s.mcp.AddTool(mcp.NewTool("list_sources",
		mcp.WithDescription("List available dataset source types with their configuration field schemas"),
	), s.handleListSources)

	s.mcp.AddTool(mcp.NewTool("import_dataset",
		mcp.WithDescription("Import a new dataset from a source (json_file, jsonl_file, xlsx_file, database). Use list_sources for per-source config fields."),
		mcp.WithString("name", mcp.Description("Dataset display name (optional, defaults to source type)")),
		mcp.WithString("sourceType", mcp.Description("Source type"), mcp.Required()),
		mcp.WithString("sourceConfigJSON", mcp.Description("Source configuration as JSON, e.g. {\"filePath\":\"/tmp/data.jsonl\"}"), mcp.Required()),
	), s.handleImportDataset)

	s.mcp.AddTool(mcp.NewTool("list_datasets",
		mcp.WithDescription("List open datasets with row and error counts"),
	), s.handleListDatasets)

	s.mcp.AddTool(mcp.NewTool("get_records",
		mcp.WithDescription("Get a page of a dataset's records, through the active filter if one is set"),
		mcp.WithString("datasetId", mcp.Description("Dataset ID"), mcp.Required()),
		mcp.WithNumber("offset", mcp.Description("Page offset (default 0)")),
		mcp.WithNumber("limit", mcp.Description("Page size (default 100)")),
	), s.handleGetRecords)

	s.mcp.AddTool(mcp.NewTool("delete_dataset",
		mcp.WithDescription("🛑 DESTRUCTIVE: Permanently delete a dataset and its saved copy."),
		mcp.WithString("datasetId", mcp.Description("Dataset ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteDataset)

	s.mcp.AddTool(mcp.NewTool("refresh_dataset",
		mcp.WithDescription("Re-read a dataset from its source, replacing records as one undoable step"),
		mcp.WithString("datasetId", mcp.Description("Dataset ID"), mcp.Required()),
	), s.handleRefreshDataset)

	s.mcp.AddTool(mcp.NewTool("export_dataset",
		mcp.WithDescription("Export a dataset to a file as json, jsonl, or xlsx"),
		mcp.WithString("datasetId", mcp.Description("Dataset ID"), mcp.Required()),
		mcp.WithString("path", mcp.Description("Output file path"), mcp.Required()),
		mcp.WithString("format", mcp.Description("Output format: json, jsonl, or xlsx"), mcp.Required()),
	), s.handleExportDataset)
}

func (s *Server) handleListSources(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(ingest.ListSources())
}

func (s *Server) handleImportDataset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sourceType, err := requireString(args, "sourceType")
	if err != nil {
		return nil, err
	}
	configStr, err := requireString(args, "sourceConfigJSON")
	if err != nil {
		return nil, err
	}
	var sourceConfig map[string]any
	if err := json.Unmarshal([]byte(configStr), &sourceConfig); err != nil {
		return nil, fmt.Errorf("parse sourceConfig: %w", err)
	}
	name, _ := args["name"].(string)

	sum, err := s.datasets.Import(ctx, service.ImportInput{
		Name:         name,
		SourceType:   sourceType,
		SourceConfig: sourceConfig,
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(sum)
}

func (s *Server) handleListDatasets(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.datasets.List())
}

func (s *Server) handleGetRecords(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := requireString(args, "datasetId")
	if err != nil {
		return nil, err
	}
	offset, _ := args["offset"].(float64)
	limit, _ := args["limit"].(float64)

	page, err := s.datasets.Records(id, int(offset), int(limit))
	if err != nil {
		return nil, err
	}
	return jsonResult(page)
}

func (s *Server) handleDeleteDataset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "datasetId")
	if err != nil {
		return nil, err
	}
	if err := s.datasets.Delete(ctx, id); err != nil {
		return nil, err
	}
	return textResult("Deleted dataset " + id), nil
}

func (s *Server) handleRefreshDataset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "datasetId")
	if err != nil {
		return nil, err
	}
	if err := s.datasets.Refresh(ctx, id); err != nil {
		return nil, err
	}
	sum, err := s.datasets.Get(id)
	if err != nil {
		return nil, err
	}
	return jsonResult(sum)
}

func (s *Server) handleExportDataset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := requireString(args, "datasetId")
	if err != nil {
		return nil, err
	}
	path, err := requireString(args, "path")
	if err != nil {
		return nil, err
	}
	format, err := requireString(args, "format")
	if err != nil {
		return nil, err
	}
	if err := s.datasets.Export(ctx, id, path, format); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Exported %s to %s", id, path)), nil
}
