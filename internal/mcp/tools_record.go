package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerRecordTools() {
	s.mcp.AddTool(mcp.NewTool("set_record_value",
		mcp.WithDescription("Replace the value at a path inside one record. Paths are JSON arrays mixing map keys and list indices, e.g. [\"items\",0,\"price\"]. An empty path replaces the whole record."),
		mcp.WithString("datasetId", mcp.Description("Dataset ID"), mcp.Required()),
		mcp.WithNumber("index", mcp.Description("Record index"), mcp.Required()),
		mcp.WithString("pathJSON", mcp.Description("Path as a JSON array"), mcp.Required()),
		mcp.WithString("valueJSON", mcp.Description("New value in JSON syntax"), mcp.Required()),
	), s.handleSetRecordValue)

	s.mcp.AddTool(mcp.NewTool("rename_record_key",
		mcp.WithDescription("Rename the map key addressed by a path inside one record, keeping its position"),
		mcp.WithString("datasetId", mcp.Description("Dataset ID"), mcp.Required()),
		mcp.WithNumber("index", mcp.Description("Record index"), mcp.Required()),
		mcp.WithString("pathJSON", mcp.Description("Path as a JSON array, ending at the key to rename"), mcp.Required()),
		mcp.WithString("newKey", mcp.Description("New key name"), mcp.Required()),
	), s.handleRenameRecordKey)

	s.mcp.AddTool(mcp.NewTool("remove_record_path",
		mcp.WithDescription("Delete the value addressed by a path inside one record"),
		mcp.WithString("datasetId", mcp.Description("Dataset ID"), mcp.Required()),
		mcp.WithNumber("index", mcp.Description("Record index"), mcp.Required()),
		mcp.WithString("pathJSON", mcp.Description("Path as a JSON array"), mcp.Required()),
	), s.handleRemoveRecordPath)

	s.mcp.AddTool(mcp.NewTool("delete_record",
		mcp.WithDescription("🛑 DESTRUCTIVE: Remove one record from a dataset (undoable)."),
		mcp.WithString("datasetId", mcp.Description("Dataset ID"), mcp.Required()),
		mcp.WithNumber("index", mcp.Description("Record index"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteRecord)

	s.mcp.AddTool(mcp.NewTool("fix_row_error",
		mcp.WithDescription("Repair an import row error: re-parse the fixed source line, append the record, and clear the error"),
		mcp.WithString("datasetId", mcp.Description("Dataset ID"), mcp.Required()),
		mcp.WithNumber("line", mcp.Description("Source line number from the row error"), mcp.Required()),
		mcp.WithString("fixed", mcp.Description("Corrected line content"), mcp.Required()),
	), s.handleFixRowError)
}

// recordArgs pulls the shared datasetId/index pair.
func recordArgs(args map[string]any) (string, int, error) {
	id, err := requireString(args, "datasetId")
	if err != nil {
		return "", 0, err
	}
	idx, ok := args["index"].(float64)
	if !ok {
		return "", 0, fmt.Errorf("index is required")
	}
	return id, int(idx), nil
}

func parsePath(args map[string]any) ([]any, error) {
	str, err := requireString(args, "pathJSON")
	if err != nil {
		return nil, err
	}
	var path []any
	if err := json.Unmarshal([]byte(str), &path); err != nil {
		return nil, fmt.Errorf("parse path: %w", err)
	}
	return path, nil
}

func (s *Server) handleSetRecordValue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, index, err := recordArgs(args)
	if err != nil {
		return nil, err
	}
	path, err := parsePath(args)
	if err != nil {
		return nil, err
	}
	rawJSON, err := requireString(args, "valueJSON")
	if err != nil {
		return nil, err
	}
	if err := s.datasets.SetRecordValue(ctx, id, index, path, rawJSON); err != nil {
		return nil, err
	}
	return textResult("Value updated"), nil
}

func (s *Server) handleRenameRecordKey(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, index, err := recordArgs(args)
	if err != nil {
		return nil, err
	}
	path, err := parsePath(args)
	if err != nil {
		return nil, err
	}
	newKey, err := requireString(args, "newKey")
	if err != nil {
		return nil, err
	}
	if err := s.datasets.RenameRecordKey(ctx, id, index, path, newKey); err != nil {
		return nil, err
	}
	return textResult("Key renamed"), nil
}

func (s *Server) handleRemoveRecordPath(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, index, err := recordArgs(args)
	if err != nil {
		return nil, err
	}
	path, err := parsePath(args)
	if err != nil {
		return nil, err
	}
	if err := s.datasets.RemoveRecordPath(ctx, id, index, path); err != nil {
		return nil, err
	}
	return textResult("Value removed"), nil
}

func (s *Server) handleDeleteRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, index, err := recordArgs(req.GetArguments())
	if err != nil {
		return nil, err
	}
	if err := s.datasets.DeleteRecord(ctx, id, index); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Deleted record %d", index)), nil
}

func (s *Server) handleFixRowError(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := requireString(args, "datasetId")
	if err != nil {
		return nil, err
	}
	line, ok := args["line"].(float64)
	if !ok {
		return nil, fmt.Errorf("line is required")
	}
	fixed, err := requireString(args, "fixed")
	if err != nil {
		return nil, err
	}
	if err := s.datasets.FixRowError(ctx, id, int(line), fixed); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Fixed row error at line %d", int(line))), nil
}
