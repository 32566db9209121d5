package dataset

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Store holds all open datasets. Mutations are serialized per dataset:
// the core transforms hold no shared state, so a single writer per
// dataset is all the locking the system needs.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	ds   *Dataset
	hist *History
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// Put registers a dataset (replacing any previous entry with the same
// ID) with a fresh history.
func (s *Store) Put(d *Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[d.ID] = &entry{ds: d, hist: NewHistory(0)}
}

// Get returns the dataset by ID. The returned pointer is shared: callers
// must treat it as read-only and go through Mutate for changes.
func (s *Store) Get(id string) (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("dataset not found: %s", id)
	}
	return e.ds, nil
}

// List returns all datasets ordered by creation time.
func (s *Store) List() []*Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Dataset, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.ds)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Delete removes a dataset and its history.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

func (s *Store) entry(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("dataset not found: %s", id)
	}
	return e, nil
}

// Mutate runs fn on the dataset under its writer lock, pushing an undo
// snapshot labelled label first. When fn returns an error the snapshot
// is not recorded and the dataset is left untouched (fn must not modify
// the dataset on its error paths).
func (s *Store) Mutate(id, label string, fn func(d *Dataset) error) error {
	e, err := s.entry(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.hist.Push(label, e.ds)
	if err := fn(e.ds); err != nil {
		e.hist.Undo(e.ds)
		e.hist.next = nil
		return err
	}
	e.ds.UpdatedAt = time.Now()
	return nil
}

// Undo restores the previous snapshot. Returns false when the history
// is empty.
func (s *Store) Undo(id string) (bool, error) {
	e, err := s.entry(id)
	if err != nil {
		return false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hist.Undo(e.ds) {
		return false, nil
	}
	e.ds.UpdatedAt = time.Now()
	return true, nil
}

// Redo reverses the most recent undo. Returns false when no redo exists.
func (s *Store) Redo(id string) (bool, error) {
	e, err := s.entry(id)
	if err != nil {
		return false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hist.Redo(e.ds) {
		return false, nil
	}
	e.ds.UpdatedAt = time.Now()
	return true, nil
}

// HistoryState reports undo/redo availability for the frontend.
func (s *Store) HistoryState(id string) (canUndo, canRedo bool, err error) {
	e, err := s.entry(id)
	if err != nil {
		return false, false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.CanUndo(), e.hist.CanRedo(), nil
}
