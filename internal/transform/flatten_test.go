package transform_test

import (
	"testing"

	"github.com/leoygaga-prog/json-workbench/internal/transform"
)

func boolPtr(b bool) *bool { return &b }

func TestFlattenWholeRecord(t *testing.T) {
	recs := records(t, `{"user":{"name":"x","tags":["a","b"]},"id":1}`)
	out, _ := apply(t, recs, transform.Operation{Type: transform.OpFlattenStrip})
	if got := encoded(t, out[0]); got != `{"user.name":"x","user.tags.0":"a","user.tags.1":"b","id":1}` {
		t.Fatalf("got %s", got)
	}
}

func TestFlattenTargetedKeyMergesInPlace(t *testing.T) {
	recs := records(t, `{"id":1,"user":{"name":"x"},"other":{"deep":2}}`)
	out, _ := apply(t, recs, transform.Operation{Type: transform.OpFlattenStrip, Keys: []string{"user"}})
	if got := encoded(t, out[0]); got != `{"id":1,"other":{"deep":2},"user.name":"x"}` {
		t.Fatalf("got %s", got)
	}
}

func TestFlattenDepthCutoffKeepsSubtreeVerbatim(t *testing.T) {
	recs := records(t, `{"a":{"b":{"c":{"d":1}}}}`)
	out, _ := apply(t, recs, transform.Operation{Type: transform.OpFlattenStrip, Depth: 2})
	if got := encoded(t, out[0]); got != `{"a.b.c":{"d":1}}` {
		t.Fatalf("got %s", got)
	}
}

func TestFlattenKeepPrefixFalse(t *testing.T) {
	recs := records(t, `{"user":{"name":"x"},"id":1}`)
	out, _ := apply(t, recs, transform.Operation{Type: transform.OpFlattenStrip, KeepPrefix: boolPtr(false)})
	if got := encoded(t, out[0]); got != `{"name":"x","id":1}` {
		t.Fatalf("got %s", got)
	}
}

func TestFlattenStripPrefix(t *testing.T) {
	recs := records(t, `{"meta":{"a":1,"b":2}}`)
	out, _ := apply(t, recs, transform.Operation{Type: transform.OpFlattenStrip, StripPrefix: "meta."})
	if got := encoded(t, out[0]); got != `{"a":1,"b":2}` {
		t.Fatalf("got %s", got)
	}
}

func TestFlattenPreservesEmptyContainersAndNull(t *testing.T) {
	recs := records(t, `{"a":{},"b":[],"c":null,"d":{"e":{}}}`)
	out, _ := apply(t, recs, transform.Operation{Type: transform.OpFlattenStrip})
	if got := encoded(t, out[0]); got != `{"a":{},"b":[],"c":null,"d.e":{}}` {
		t.Fatalf("got %s", got)
	}
}

func TestFlattenSmartEAV(t *testing.T) {
	recs := records(t, `{"tags":[{"label":"Title","value":"Hello"},{"label":"Year","value":2024}]}`)
	out, _ := apply(t, recs, transform.Operation{
		Type: transform.OpFlattenStrip, Keys: []string{"tags"},
		SmartEAV: true, KeepPrefix: boolPtr(true),
	})
	if got := encoded(t, out[0]); got != `{"tags.Title":"Hello","tags.Year":2024}` {
		t.Fatalf("got %s", got)
	}
}

func TestFlattenSmartEAVSanitizesLabelDots(t *testing.T) {
	recs := records(t, `{"tags":[{"label":"a.b","value":1}]}`)
	out, _ := apply(t, recs, transform.Operation{
		Type: transform.OpFlattenStrip, Keys: []string{"tags"}, SmartEAV: true, KeepPrefix: boolPtr(false),
	})
	if got := encoded(t, out[0]); got != `{"a_b":1}` {
		t.Fatalf("got %s", got)
	}
}

func TestFlattenSmartEAVStructuredValue(t *testing.T) {
	recs := records(t, `{"tags":[{"label":"dims","value":{"w":1,"h":2}}]}`)
	out, _ := apply(t, recs, transform.Operation{
		Type: transform.OpFlattenStrip, Keys: []string{"tags"}, SmartEAV: true, KeepPrefix: boolPtr(false),
	})
	if got := encoded(t, out[0]); got != `{"dims.w":1,"dims.h":2}` {
		t.Fatalf("got %s", got)
	}
}

func TestFlattenWithoutEAVKeepsLabelValueKeys(t *testing.T) {
	recs := records(t, `{"tags":[{"label":"Title","value":"Hello"}]}`)
	out, _ := apply(t, recs, transform.Operation{Type: transform.OpFlattenStrip, Keys: []string{"tags"}})
	if got := encoded(t, out[0]); got != `{"tags.0.label":"Title","tags.0.value":"Hello"}` {
		t.Fatalf("got %s", got)
	}
}

func TestFlattenSkipsScalarTargets(t *testing.T) {
	recs := records(t, `{"a":"scalar","b":{"c":1}}`)
	out, _ := apply(t, recs, transform.Operation{Type: transform.OpFlattenStrip, Keys: []string{"a", "b"}})
	if got := encoded(t, out[0]); got != `{"a":"scalar","b.c":1}` {
		t.Fatalf("got %s", got)
	}
}
