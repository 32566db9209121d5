package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/leoygaga-prog/json-workbench/internal/service"
)

// Server is the MCP server for the workbench.
// It exposes tools so AI agents can import, inspect, transform, and
// export datasets.
type Server struct {
	mcp *server.MCPServer
	ctx context.Context

	// Services (injected from app layer)
	datasets    *service.DatasetService
	connections *service.ConnectionService
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Datasets    *service.DatasetService
	Connections *service.ConnectionService
}

// New creates and configures a new MCP server with all tools registered.
func New(ctx context.Context, deps Deps) *Server {
	s := &Server{
		ctx:         ctx,
		datasets:    deps.Datasets,
		connections: deps.Connections,
	}

	s.mcp = server.NewMCPServer(
		"json-workbench-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerDatasetTools()
	s.registerTransformTools()
	s.registerFilterTools()
	s.registerRecordTools()
	s.registerConnectionTools()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// requireString pulls a non-empty string argument.
func requireString(args map[string]any, key string) (string, error) {
	v, ok := args[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

func boolPtr(v bool) *bool { return &v }
