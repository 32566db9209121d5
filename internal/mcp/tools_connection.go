package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerConnectionTools() {
	s.mcp.AddTool(mcp.NewTool("list_connections",
		mcp.WithDescription("List saved database connections (passwords never included)"),
	), s.handleListConnections)

	s.mcp.AddTool(mcp.NewTool("test_connection",
		mcp.WithDescription("Open a database connection and ping it"),
		mcp.WithString("connectionId", mcp.Description("Connection ID"), mcp.Required()),
	), s.handleTestConnection)

	s.mcp.AddTool(mcp.NewTool("introspect_connection",
		mcp.WithDescription("List a database's tables and columns"),
		mcp.WithString("connectionId", mcp.Description("Connection ID"), mcp.Required()),
	), s.handleIntrospectConnection)

	s.mcp.AddTool(mcp.NewTool("run_query",
		mcp.WithDescription("Run a read-only query against a saved connection and return the rows. To keep the result as a dataset, use import_dataset with sourceType \"database\" instead."),
		mcp.WithString("connectionId", mcp.Description("Connection ID"), mcp.Required()),
		mcp.WithString("query", mcp.Description("Query text (SQL, or a JSON find/aggregate spec for MongoDB)"), mcp.Required()),
	), s.handleRunQuery)
}

func (s *Server) handleListConnections(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conns, err := s.connections.ListConnections()
	if err != nil {
		return nil, err
	}
	return jsonResult(conns)
}

func (s *Server) handleTestConnection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "connectionId")
	if err != nil {
		return nil, err
	}
	if err := s.connections.TestConnection(ctx, id); err != nil {
		return nil, err
	}
	return textResult("Connection OK"), nil
}

func (s *Server) handleIntrospectConnection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "connectionId")
	if err != nil {
		return nil, err
	}
	info, err := s.connections.Introspect(ctx, id)
	if err != nil {
		return nil, err
	}
	return jsonResult(info)
}

func (s *Server) handleRunQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := requireString(args, "connectionId")
	if err != nil {
		return nil, err
	}
	query, err := requireString(args, "query")
	if err != nil {
		return nil, err
	}
	cols, rows, err := s.connections.RunQuery(ctx, id, query)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"columns": cols, "rows": rows})
}
