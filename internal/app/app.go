package app

import (
	"context"
	"os"
	"path/filepath"
	"time"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/leoygaga-prog/json-workbench/internal/dataset"
	"github.com/leoygaga-prog/json-workbench/internal/ingest"
	"github.com/leoygaga-prog/json-workbench/internal/secret"
	"github.com/leoygaga-prog/json-workbench/internal/service"
	"github.com/leoygaga-prog/json-workbench/internal/storage"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx context.Context

	db          *storage.DB
	secrets     secret.SecretStore
	datasets    *service.DatasetService
	connections *service.ConnectionService
	refresher   *service.RefreshService
}

// New creates a new App.
func New() *App {
	return &App{}
}

// wailsEmitter forwards service events to the frontend.
type wailsEmitter struct {
	app *App
}

func (e wailsEmitter) Emit(_ context.Context, event string, data any) {
	if e.app.ctx == nil {
		return
	}
	wailsRuntime.EventsEmit(e.app.ctx, event, data)
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "json-workbench")
	dbPath := filepath.Join(dataDir, "workbench.db")

	db, err := storage.New(dbPath, dataDir)
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to open database: %v", err)
		return
	}
	a.db = db

	secrets, err := secret.Open(filepath.Join(dataDir, "secrets"))
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to open secret store: %v", err)
		return
	}
	a.secrets = secrets

	emitter := wailsEmitter{app: a}
	a.datasets = service.NewDatasetService(dataset.NewStore(), storage.NewDatasetStore(db), emitter)
	a.connections = service.NewConnectionService(storage.NewConnectionStore(db), secrets)
	a.refresher = service.NewRefreshService(a.datasets, emitter)

	// The database source resolves connections through the connection service.
	ingest.SetDBProvider(a.connections)

	if err := a.datasets.LoadPersisted(); err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to restore datasets: %v", err)
	}
	a.refresher.RestartWatchers(ctx)
}

// Shutdown is called when the app is closing. Running imports and
// exports get a short grace period to finish.
func (a *App) Shutdown(ctx context.Context) {
	if a.refresher != nil {
		a.refresher.Stop()
	}
	if a.datasets != nil {
		waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		a.datasets.WaitRunning(waitCtx)
		cancel()
	}
	if a.db != nil {
		a.db.Close()
	}
}

// PickImportFile opens a native file picker for a dataset file.
func (a *App) PickImportFile() (string, error) {
	return wailsRuntime.OpenFileDialog(a.ctx, wailsRuntime.OpenDialogOptions{
		Title: "Select Data File",
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "JSON", Pattern: "*.json"},
			{DisplayName: "JSON Lines", Pattern: "*.jsonl;*.ndjson"},
			{DisplayName: "Excel", Pattern: "*.xlsx"},
			{DisplayName: "All Files", Pattern: "*.*"},
		},
	})
}

// PickExportFile opens a native save dialog for an export target.
func (a *App) PickExportFile(defaultName string) (string, error) {
	return wailsRuntime.SaveFileDialog(a.ctx, wailsRuntime.SaveDialogOptions{
		Title:           "Export Dataset",
		DefaultFilename: defaultName,
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "JSON", Pattern: "*.json"},
			{DisplayName: "JSON Lines", Pattern: "*.jsonl"},
			{DisplayName: "Excel", Pattern: "*.xlsx"},
		},
	})
}
