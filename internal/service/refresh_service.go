package service

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
)

// ─────────────────────────────────────────────────────────────
// Refresh Service — scheduled and file-triggered dataset reloads
// ─────────────────────────────────────────────────────────────

// RefreshService re-ingests datasets when their source file changes
// (fsnotify, debounced) or on a cron schedule.
type RefreshService struct {
	datasets *DatasetService
	emitter  EventEmitter

	// watcher / cron lifecycle
	watchCancel context.CancelFunc
	watcher     *fsnotify.Watcher
	cronSched   *cron.Cron
}

// NewRefreshService creates a RefreshService.
func NewRefreshService(datasets *DatasetService, emitter EventEmitter) *RefreshService {
	return &RefreshService{datasets: datasets, emitter: emitter}
}

// RestartWatchers tears down the current watcher/cron and rebuilds them
// from the open datasets. Call after any import, delete, or change to a
// dataset's refresh settings.
func (s *RefreshService) RestartWatchers(ctx context.Context) {
	s.stopWatchers()

	summaries := s.datasets.List()

	// ── Cron refreshes ──
	var cronEntries []struct {
		datasetID string
		expr      string
	}
	for _, sum := range summaries {
		if sum.RefreshCron != "" {
			cronEntries = append(cronEntries, struct {
				datasetID string
				expr      string
			}{datasetID: sum.ID, expr: sum.RefreshCron})
		}
	}

	if len(cronEntries) > 0 {
		c := cron.New()
		for _, ce := range cronEntries {
			did := ce.datasetID
			_, err := c.AddFunc(ce.expr, func() {
				log.Printf("refresh cron: refreshing dataset %s", did)
				if err := s.datasets.Refresh(ctx, did); err != nil {
					log.Printf("refresh cron: dataset %s failed: %v", did, err)
				}
			})
			if err != nil {
				log.Printf("refresh cron: invalid expression %q for dataset %s: %v", ce.expr, ce.datasetID, err)
			}
		}
		c.Start()
		s.cronSched = c
		log.Printf("refresh cron: scheduled %d dataset(s)", len(cronEntries))
	}

	// ── File watchers ──
	pathToDataset := make(map[string]string)
	for _, sum := range summaries {
		if !sum.WatchFile {
			continue
		}
		d, err := s.datasets.store.Get(sum.ID)
		if err != nil {
			continue
		}
		path := d.SourcePath()
		if path == "" {
			continue
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			log.Printf("refresh watcher: bad path %q: %v", path, err)
			continue
		}
		pathToDataset[absPath] = sum.ID
	}

	if len(pathToDataset) == 0 {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("refresh watcher: failed to create watcher: %v", err)
		return
	}
	s.watcher = watcher

	// Watch parent directories: editors often replace files on save, and
	// a watch on the file itself breaks after the first rename.
	watchedDirs := make(map[string]bool)
	for absPath := range pathToDataset {
		dir := filepath.Dir(absPath)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				log.Printf("refresh watcher: failed to watch dir %q: %v", dir, err)
			} else {
				watchedDirs[dir] = true
			}
		}
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	s.watchCancel = cancel

	go func() {
		timers := make(map[string]*time.Timer)
		for {
			select {
			case <-watchCtx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				absPath, _ := filepath.Abs(event.Name)
				datasetID, ok := pathToDataset[absPath]
				if !ok {
					continue
				}
				if t, exists := timers[datasetID]; exists {
					t.Stop()
				}
				did := datasetID
				timers[datasetID] = time.AfterFunc(500*time.Millisecond, func() {
					log.Printf("refresh watcher: file changed %q, refreshing dataset %s", absPath, did)
					if err := s.datasets.Refresh(ctx, did); err != nil {
						log.Printf("refresh watcher: refresh failed for dataset %s: %v", did, err)
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("refresh watcher: error: %v", err)
			}
		}
	}()

	log.Printf("refresh watcher: watching %d file(s)", len(pathToDataset))
}

// Stop tears down all watchers and schedulers.
func (s *RefreshService) Stop() {
	s.stopWatchers()
}

func (s *RefreshService) stopWatchers() {
	if s.watchCancel != nil {
		s.watchCancel()
		s.watchCancel = nil
	}
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
	if s.cronSched != nil {
		s.cronSched.Stop()
		s.cronSched = nil
	}
}
