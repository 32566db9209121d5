package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leoygaga-prog/json-workbench/internal/transform"
)

func (s *Server) registerTransformTools() {
	s.mcp.AddTool(mcp.NewTool("apply_transform",
		mcp.WithDescription(`Apply one transform operation to every record of a dataset, as a single undoable step. The operation is a JSON object with a "type" plus type-specific fields:
- addField: {key, value} or {key, mode:"copy", fromKey} — add a field (static value or copied)
- deleteField: {keys: ["a","b"]} — drop fields
- renameField: {from, to} — rename a top-level field
- updateValue: {key, value} or {key, mode:"prefixSuffix", prefix, suffix} — overwrite or wrap a field's value
- typeConvert: {key, target (string|number|boolean)} — coerce a field's type
- extractByCondition: {source, matchKey, matchValue, extractKey, target} — pull a value out of a list of objects
- nestFields: {target, keys} — move fields under a new object field
- flattenStrip: {} — flatten nested objects into dot-joined keys; optional keys, depth, keepPrefix, stripPrefix, smartEav
- keyReorder: {keys: ["b","a"]} — reorder keys; unlisted keys follow in their original order
- escapeString: {key} — serialize field values to JSON strings (all fields when no key given)
- unescapeString: {key} — parse JSON-string fields back into values
- parseJSON: {} — recursively parse JSON-looking strings everywhere
Example: {"type":"renameField","from":"usr_name","to":"name"}`),
		mcp.WithString("datasetId", mcp.Description("Dataset ID"), mcp.Required()),
		mcp.WithString("operationJSON", mcp.Description("Transform operation as JSON"), mcp.Required()),
	), s.handleApplyTransform)

	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last change to a dataset"),
		mcp.WithString("datasetId", mcp.Description("Dataset ID"), mcp.Required()),
	), s.handleUndo)

	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo the most recently undone change to a dataset"),
		mcp.WithString("datasetId", mcp.Description("Dataset ID"), mcp.Required()),
	), s.handleRedo)

	s.mcp.AddTool(mcp.NewTool("infer_schema",
		mcp.WithDescription("Summarize the shape of a dataset's records: key union, nesting, distinct value groups"),
		mcp.WithString("datasetId", mcp.Description("Dataset ID"), mcp.Required()),
		mcp.WithNumber("maxDepth", mcp.Description("Nesting depth limit (default 6)")),
	), s.handleInferSchema)
}

func (s *Server) handleApplyTransform(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := requireString(args, "datasetId")
	if err != nil {
		return nil, err
	}
	opStr, err := requireString(args, "operationJSON")
	if err != nil {
		return nil, err
	}
	var op transform.Operation
	if err := json.Unmarshal([]byte(opStr), &op); err != nil {
		return nil, fmt.Errorf("parse operation: %w", err)
	}

	report, err := s.datasets.ApplyTransform(ctx, id, op)
	if err != nil {
		return nil, err
	}
	return jsonResult(report)
}

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "datasetId")
	if err != nil {
		return nil, err
	}
	ok, err := s.datasets.Undo(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return textResult("Nothing to undo"), nil
	}
	return textResult("Undone"), nil
}

func (s *Server) handleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "datasetId")
	if err != nil {
		return nil, err
	}
	ok, err := s.datasets.Redo(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return textResult("Nothing to redo"), nil
	}
	return textResult("Redone"), nil
}

func (s *Server) handleInferSchema(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := requireString(args, "datasetId")
	if err != nil {
		return nil, err
	}
	maxDepth, _ := args["maxDepth"].(float64)

	node, err := s.datasets.InferSchema(id, int(maxDepth))
	if err != nil {
		return nil, err
	}
	return jsonResult(node)
}
