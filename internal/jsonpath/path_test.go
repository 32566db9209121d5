package jsonpath_test

import (
	"testing"

	"github.com/leoygaga-prog/json-workbench/internal/jsonpath"
	"github.com/leoygaga-prog/json-workbench/internal/value"
)

func mustDecode(t *testing.T, s string) any {
	t.Helper()
	v, err := value.DecodeString(s)
	if err != nil {
		t.Fatalf("decode %s: %v", s, err)
	}
	return v
}

func encode(t *testing.T, v any) string {
	t.Helper()
	s, err := value.EncodeString(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return s
}

func TestSetThenGetRoundTrip(t *testing.T) {
	root := mustDecode(t, `{"a":{"b":[1,2,3]},"c":"x"}`)
	paths := []jsonpath.Path{
		{jsonpath.Field("a"), jsonpath.Field("b"), jsonpath.Index(1)},
		{jsonpath.Field("c")},
		{jsonpath.Field("new"), jsonpath.Field("deep")},
	}
	for _, p := range paths {
		updated := jsonpath.Set(root, p, "marker")
		got, ok := jsonpath.Get(updated, p)
		if !ok || got != "marker" {
			t.Fatalf("get(set(v,%v,x),%v) = %v, %v", p, p, got, ok)
		}
	}
}

func TestSetDoesNotMutateInput(t *testing.T) {
	root := mustDecode(t, `{"a":{"b":1}}`)
	before := encode(t, root)
	_ = jsonpath.Set(root, jsonpath.Path{jsonpath.Field("a"), jsonpath.Field("b")}, 99)
	if after := encode(t, root); after != before {
		t.Fatalf("input mutated: %s -> %s", before, after)
	}
}

func TestSetThroughPrimitiveMaterializesMapping(t *testing.T) {
	// v.a is a string; setting at ["a","b"] replaces it with {b: x}.
	root := mustDecode(t, `{"a":"i am a string"}`)
	updated := jsonpath.Set(root, jsonpath.Path{jsonpath.Field("a"), jsonpath.Field("b")}, "x")
	if got := encode(t, updated); got != `{"a":{"b":"x"}}` {
		t.Fatalf("got %s", got)
	}
}

func TestSetThroughPrimitiveMaterializesList(t *testing.T) {
	root := mustDecode(t, `{"a":42}`)
	updated := jsonpath.Set(root, jsonpath.Path{jsonpath.Field("a"), jsonpath.Index(1)}, "x")
	if got := encode(t, updated); got != `{"a":[null,"x"]}` {
		t.Fatalf("got %s", got)
	}
}

func TestSetPastListBoundsLeavesHoles(t *testing.T) {
	root := mustDecode(t, `{"a":["x"]}`)
	updated := jsonpath.Set(root, jsonpath.Path{jsonpath.Field("a"), jsonpath.Index(3)}, "y")
	if got := encode(t, updated); got != `{"a":["x",null,null,"y"]}` {
		t.Fatalf("got %s", got)
	}
}

func TestSetEmptyPathReplacesRoot(t *testing.T) {
	root := mustDecode(t, `{"a":1}`)
	if got := jsonpath.Set(root, nil, "replaced"); got != "replaced" {
		t.Fatalf("got %v", got)
	}
}

func TestGetDistinguishesMissingFromNull(t *testing.T) {
	root := mustDecode(t, `{"a":null}`)
	v, ok := jsonpath.Get(root, jsonpath.Path{jsonpath.Field("a")})
	if !ok || v != nil {
		t.Fatalf("stored null: got %v, %v", v, ok)
	}
	if _, ok := jsonpath.Get(root, jsonpath.Path{jsonpath.Field("b")}); ok {
		t.Fatal("missing key reported as present")
	}
	if _, ok := jsonpath.Get(root, jsonpath.Path{jsonpath.Field("a"), jsonpath.Field("x")}); ok {
		t.Fatal("traversal into null reported as present")
	}
}

func TestRenamePreservesKeyPosition(t *testing.T) {
	root := mustDecode(t, `{"a":1,"b":2,"c":3}`)
	updated := jsonpath.Rename(root, jsonpath.Path{jsonpath.Field("b")}, "renamed")
	if got := encode(t, updated); got != `{"a":1,"renamed":2,"c":3}` {
		t.Fatalf("got %s", got)
	}
}

func TestRenameNoOps(t *testing.T) {
	root := mustDecode(t, `{"a":1}`)
	before := encode(t, root)
	cases := []struct {
		name string
		got  any
	}{
		{"empty newKey", jsonpath.Rename(root, jsonpath.Path{jsonpath.Field("a")}, "")},
		{"empty path", jsonpath.Rename(root, nil, "x")},
		{"missing key", jsonpath.Rename(root, jsonpath.Path{jsonpath.Field("zzz")}, "x")},
	}
	for _, c := range cases {
		if encode(t, c.got) != before {
			t.Errorf("%s: expected no-op", c.name)
		}
	}
}

func TestRemoveShiftsListElements(t *testing.T) {
	root := mustDecode(t, `{"a":["x","y","z"]}`)
	updated := jsonpath.Remove(root, jsonpath.Path{jsonpath.Field("a"), jsonpath.Index(1)})
	if got := encode(t, updated); got != `{"a":["x","z"]}` {
		t.Fatalf("got %s", got)
	}
}

func TestRemoveMapKey(t *testing.T) {
	root := mustDecode(t, `{"a":1,"b":2}`)
	updated := jsonpath.Remove(root, jsonpath.Path{jsonpath.Field("a")})
	if got := encode(t, updated); got != `{"b":2}` {
		t.Fatalf("got %s", got)
	}
}

func TestAddMapEntryAndListItem(t *testing.T) {
	root := mustDecode(t, `{"obj":{"a":1},"list":[1]}`)
	root = jsonpath.AddMapEntry(root, jsonpath.Path{jsonpath.Field("obj")}, "b", 2)
	root = jsonpath.AddListItem(root, jsonpath.Path{jsonpath.Field("list")}, 2)
	if got := encode(t, root); got != `{"obj":{"a":1,"b":2},"list":[1,2]}` {
		t.Fatalf("got %s", got)
	}
	// Wrong container kinds are no-ops.
	before := encode(t, root)
	root = jsonpath.AddMapEntry(root, jsonpath.Path{jsonpath.Field("list")}, "k", 1)
	root = jsonpath.AddListItem(root, jsonpath.Path{jsonpath.Field("obj")}, 1)
	if encode(t, root) != before {
		t.Fatal("expected no-op on mismatched containers")
	}
}

func TestNegativeIndexNeverPanics(t *testing.T) {
	root := mustDecode(t, `{"a":[1,2,3]}`)
	neg := jsonpath.Path{jsonpath.Field("a"), jsonpath.Index(-1)}

	if _, ok := jsonpath.Get(root, neg); ok {
		t.Fatal("negative index reported as present")
	}

	before := encode(t, root)
	if got := encode(t, jsonpath.Remove(root, neg)); got != before {
		t.Fatalf("remove at negative index: expected no-op, got %s", got)
	}

	// Set treats the invalid index like any non-numeric key addressing a
	// list: the list gives way to a mapping.
	updated := jsonpath.Set(root, neg, "x")
	if got := encode(t, updated); got != `{"a":{"-1":"x"}}` {
		t.Fatalf("set at negative index: got %s", got)
	}

	// A negative index arriving through the app boundary behaves the same.
	fromUI := jsonpath.FromAny([]any{"a", float64(-1)})
	if _, ok := jsonpath.Get(root, fromUI); ok {
		t.Fatal("boundary path with negative index reported as present")
	}
}

func TestFromAny(t *testing.T) {
	p := jsonpath.FromAny([]any{"user", float64(0), "name"})
	if len(p) != 3 || p[0].Key != "user" || !p[1].IsIndex || p[1].Index != 0 || p[2].Key != "name" {
		t.Fatalf("FromAny = %+v", p)
	}
}
