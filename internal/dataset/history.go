package dataset

// HistoryCap is the default bound on undo snapshots per dataset; the
// oldest snapshot is evicted on overflow.
const HistoryCap = 50

// Snapshot is a deep copy of a dataset's mutable state at one point.
type Snapshot struct {
	Label     string
	Records   []any
	KeyOrder  []string
	RowErrors []RowError
}

// History is a bounded undo/redo stack of snapshots.
type History struct {
	cap  int
	past []Snapshot
	next []Snapshot // redo stack
}

// NewHistory creates a history bounded to capacity snapshots
// (HistoryCap when capacity <= 0).
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = HistoryCap
	}
	return &History{cap: capacity}
}

// snapshot deep-copies the dataset's mutable state.
func snapshot(label string, d *Dataset) Snapshot {
	return Snapshot{
		Label:     label,
		Records:   cloneRecords(d.Records),
		KeyOrder:  append([]string(nil), d.KeyOrder...),
		RowErrors: append([]RowError(nil), d.RowErrors...),
	}
}

// restore copies a snapshot back onto the dataset.
func restore(d *Dataset, s Snapshot) {
	d.Records = cloneRecords(s.Records)
	d.KeyOrder = append([]string(nil), s.KeyOrder...)
	d.RowErrors = append([]RowError(nil), s.RowErrors...)
}

// Push records the pre-mutation state. Any redo tail is discarded; the
// oldest entry is evicted once the bound is reached.
func (h *History) Push(label string, d *Dataset) {
	h.next = nil
	h.past = append(h.past, snapshot(label, d))
	if len(h.past) > h.cap {
		h.past = h.past[1:]
	}
}

// Undo restores the most recent snapshot onto d, saving the current
// state for redo. Returns false when there is nothing to undo.
func (h *History) Undo(d *Dataset) bool {
	if len(h.past) == 0 {
		return false
	}
	last := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.next = append(h.next, snapshot(last.Label, d))
	restore(d, last)
	return true
}

// Redo reverses the most recent undo. Returns false when there is
// nothing to redo.
func (h *History) Redo(d *Dataset) bool {
	if len(h.next) == 0 {
		return false
	}
	last := h.next[len(h.next)-1]
	h.next = h.next[:len(h.next)-1]
	h.past = append(h.past, snapshot(last.Label, d))
	restore(d, last)
	return true
}

// CanUndo reports whether an undo step exists.
func (h *History) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether a redo step exists.
func (h *History) CanRedo() bool { return len(h.next) > 0 }

// Depth returns the number of undoable snapshots.
func (h *History) Depth() int { return len(h.past) }
