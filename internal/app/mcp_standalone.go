package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/leoygaga-prog/json-workbench/internal/dataset"
	"github.com/leoygaga-prog/json-workbench/internal/ingest"
	mcpserver "github.com/leoygaga-prog/json-workbench/internal/mcp"
	"github.com/leoygaga-prog/json-workbench/internal/secret"
	"github.com/leoygaga-prog/json-workbench/internal/service"
	"github.com/leoygaga-prog/json-workbench/internal/storage"
)

// noopEmitter is a no-op EventEmitter used in MCP-only mode (no Wails frontend).
type noopEmitter struct{}

func (noopEmitter) Emit(_ context.Context, _ string, _ any) {}

// ServeMCP runs the app as a standalone MCP server on stdin/stdout with no GUI.
// It initializes storage, services, and runs the MCP server until interrupted.
func ServeMCP() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "json-workbench")
	dbPath := filepath.Join(dataDir, "workbench.db")

	db, err := storage.New(dbPath, dataDir)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	secrets, err := secret.Open(filepath.Join(dataDir, "secrets"))
	if err != nil {
		log.Fatalf("Failed to open secret store: %v", err)
	}

	emitter := noopEmitter{}
	datasetsSvc := service.NewDatasetService(dataset.NewStore(), storage.NewDatasetStore(db), emitter)
	connectionsSvc := service.NewConnectionService(storage.NewConnectionStore(db), secrets)
	ingest.SetDBProvider(connectionsSvc)

	if err := datasetsSvc.LoadPersisted(); err != nil {
		log.Printf("Failed to restore datasets: %v", err)
	}

	mcpSrv := mcpserver.New(ctx, mcpserver.Deps{
		Datasets:    datasetsSvc,
		Connections: connectionsSvc,
	})

	log.Println("[MCP] Starting standalone stdio server...")
	if err := mcpSrv.ServeStdio(); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
