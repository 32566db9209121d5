package service

import (
	"context"
	"sync"
)

// ExportedBusyGuard is an exported alias so _test packages can test the guard.
type ExportedBusyGuard = busyGuard

// ─────────────────────────────────────────────────────────────
// busyGuard — prevents concurrent imports/refreshes of a dataset
// ─────────────────────────────────────────────────────────────

// busyGuard ensures only one long-running operation (import, refresh,
// export) runs per dataset at a time. Transform mutations are serialized
// separately by the dataset store's writer lock.
type busyGuard struct {
	mu      sync.Mutex
	running map[string]struct{}
	wg      sync.WaitGroup
}

// TryLock attempts to mark key as busy. Returns false if an operation
// for the key is already running.
func (g *busyGuard) TryLock(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running == nil {
		g.running = make(map[string]struct{})
	}
	if _, ok := g.running[key]; ok {
		return false // already running
	}
	g.running[key] = struct{}{}
	g.wg.Add(1)
	return true
}

// Unlock marks the key as idle. Must be called after TryLock returns true.
func (g *busyGuard) Unlock(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.running, key)
	g.wg.Done()
}

// WaitAll blocks until all running operations complete or ctx is cancelled.
func (g *busyGuard) WaitAll(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
