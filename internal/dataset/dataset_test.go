package dataset_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/leoygaga-prog/json-workbench/internal/dataset"
	"github.com/leoygaga-prog/json-workbench/internal/value"
)

func newDataset(t *testing.T, id string, jsons ...string) *dataset.Dataset {
	t.Helper()
	recs := make([]any, len(jsons))
	for i, s := range jsons {
		v, err := value.DecodeString(s)
		if err != nil {
			t.Fatalf("decode %s: %v", s, err)
		}
		recs[i] = v
	}
	return &dataset.Dataset{
		ID:        id,
		Name:      id,
		Records:   recs,
		CreatedAt: time.Now(),
	}
}

func firstField(t *testing.T, d *dataset.Dataset, key string) any {
	t.Helper()
	obj, ok := d.Records[0].(*value.Object)
	if !ok {
		t.Fatalf("record 0 is %T", d.Records[0])
	}
	v, _ := obj.Get(key)
	return v
}

func TestHistoryUndoRedo(t *testing.T) {
	d := newDataset(t, "d1", `{"a":"one"}`)
	h := dataset.NewHistory(0)

	h.Push("edit", d)
	d.Records[0].(*value.Object).Set("a", "two")

	if !h.Undo(d) {
		t.Fatal("undo failed")
	}
	if got := firstField(t, d, "a"); got != "one" {
		t.Fatalf("after undo a = %v", got)
	}
	if !h.Redo(d) {
		t.Fatal("redo failed")
	}
	if got := firstField(t, d, "a"); got != "two" {
		t.Fatalf("after redo a = %v", got)
	}
	if h.Redo(d) {
		t.Fatal("redo past the end")
	}
}

func TestHistoryPushClearsRedo(t *testing.T) {
	d := newDataset(t, "d1", `{"a":"one"}`)
	h := dataset.NewHistory(0)

	h.Push("first", d)
	d.Records[0].(*value.Object).Set("a", "two")
	h.Undo(d)
	if !h.CanRedo() {
		t.Fatal("expected a redo step")
	}
	h.Push("second", d)
	if h.CanRedo() {
		t.Fatal("push should discard the redo tail")
	}
}

func TestHistoryEvictsOldest(t *testing.T) {
	d := newDataset(t, "d1", `{"n":"0"}`)
	h := dataset.NewHistory(3)
	for i := 1; i <= 5; i++ {
		h.Push("step", d)
		d.Records[0].(*value.Object).Set("n", fmt.Sprintf("%d", i))
	}
	if h.Depth() != 3 {
		t.Fatalf("depth = %d, want 3", h.Depth())
	}
	for h.Undo(d) {
	}
	// Only the last 3 snapshots survive, so undo stops at state "2".
	if got := firstField(t, d, "n"); got != "2" {
		t.Fatalf("oldest reachable n = %v", got)
	}
}

func TestHistorySnapshotsAreDeepCopies(t *testing.T) {
	d := newDataset(t, "d1", `{"a":{"b":"x"}}`)
	h := dataset.NewHistory(0)
	h.Push("edit", d)

	inner, _ := d.Records[0].(*value.Object).Get("a")
	inner.(*value.Object).Set("b", "mutated")

	if !h.Undo(d) {
		t.Fatal("undo failed")
	}
	restored, _ := d.Records[0].(*value.Object).Get("a")
	b, _ := restored.(*value.Object).Get("b")
	if b != "x" {
		t.Fatalf("snapshot shared state with live records: b = %v", b)
	}
}

func TestStoreMutateAndUndo(t *testing.T) {
	s := dataset.NewStore()
	s.Put(newDataset(t, "d1", `{"a":"one"}`))

	err := s.Mutate("d1", "edit", func(d *dataset.Dataset) error {
		d.Records[0].(*value.Object).Set("a", "two")
		return nil
	})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}

	d, err := s.Get("d1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := firstField(t, d, "a"); got != "two" {
		t.Fatalf("a = %v", got)
	}

	ok, err := s.Undo("d1")
	if err != nil || !ok {
		t.Fatalf("undo = %v, %v", ok, err)
	}
	if got := firstField(t, d, "a"); got != "one" {
		t.Fatalf("after undo a = %v", got)
	}
}

func TestStoreMutateErrorRollsBack(t *testing.T) {
	s := dataset.NewStore()
	s.Put(newDataset(t, "d1", `{"a":"one"}`))

	boom := errors.New("boom")
	err := s.Mutate("d1", "edit", func(d *dataset.Dataset) error {
		d.Records[0].(*value.Object).Set("a", "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}

	d, _ := s.Get("d1")
	if got := firstField(t, d, "a"); got != "one" {
		t.Fatalf("failed mutation leaked: a = %v", got)
	}
	canUndo, canRedo, err := s.HistoryState("d1")
	if err != nil {
		t.Fatalf("history state: %v", err)
	}
	if canUndo || canRedo {
		t.Fatalf("failed mutation left history: undo=%v redo=%v", canUndo, canRedo)
	}
}

func TestStoreListOrder(t *testing.T) {
	s := dataset.NewStore()
	base := time.Now()
	for i, id := range []string{"b", "a", "c"} {
		d := newDataset(t, id, `{}`)
		d.CreatedAt = base.Add(time.Duration(i) * time.Second)
		s.Put(d)
	}
	list := s.List()
	if len(list) != 3 || list[0].ID != "b" || list[1].ID != "a" || list[2].ID != "c" {
		ids := make([]string, len(list))
		for i, d := range list {
			ids[i] = d.ID
		}
		t.Fatalf("order = %v", ids)
	}
}

func TestStoreMissingDataset(t *testing.T) {
	s := dataset.NewStore()
	if _, err := s.Get("nope"); err == nil {
		t.Fatal("expected an error")
	}
	if err := s.Mutate("nope", "x", func(*dataset.Dataset) error { return nil }); err == nil {
		t.Fatal("expected an error")
	}
}

func TestSummarize(t *testing.T) {
	d := newDataset(t, "d1", `{"a":1}`, `{"a":2}`)
	d.RowErrors = []dataset.RowError{{Line: 3, Raw: "oops", Message: "bad json"}}
	sum := d.Summarize()
	if sum.ID != "d1" || sum.RowCount != 2 || sum.ErrorCount != 1 {
		t.Fatalf("summary = %+v", sum)
	}
}
