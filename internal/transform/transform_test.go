package transform_test

import (
	"strings"
	"testing"

	"github.com/leoygaga-prog/json-workbench/internal/transform"
	"github.com/leoygaga-prog/json-workbench/internal/value"
)

func records(t *testing.T, jsons ...string) []any {
	t.Helper()
	out := make([]any, len(jsons))
	for i, s := range jsons {
		v, err := value.DecodeString(s)
		if err != nil {
			t.Fatalf("decode %s: %v", s, err)
		}
		out[i] = v
	}
	return out
}

func encoded(t *testing.T, v any) string {
	t.Helper()
	s, err := value.EncodeString(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return s
}

func apply(t *testing.T, recs []any, op transform.Operation) ([]any, []string) {
	t.Helper()
	out, warns, err := transform.Apply(recs, op)
	if err != nil {
		t.Fatalf("apply %s: %v", op.Type, err)
	}
	return out, warns
}

func TestAddFieldStaticOverwrites(t *testing.T) {
	recs := records(t, `{"a":1}`, `{"a":1,"tag":"old"}`)
	out, _ := apply(t, recs, transform.Operation{Type: transform.OpAddField, Key: "tag", Mode: "static", Value: "new"})
	if got := encoded(t, out[0]); got != `{"a":1,"tag":"new"}` {
		t.Fatalf("row 0 = %s", got)
	}
	if got := encoded(t, out[1]); got != `{"a":1,"tag":"new"}` {
		t.Fatalf("row 1 = %s", got)
	}
}

func TestAddFieldStaticDefaultsToEmptyString(t *testing.T) {
	recs := records(t, `{}`)
	out, _ := apply(t, recs, transform.Operation{Type: transform.OpAddField, Key: "k", Mode: "static"})
	if got := encoded(t, out[0]); got != `{"k":""}` {
		t.Fatalf("got %s", got)
	}
}

func TestAddFieldCopy(t *testing.T) {
	recs := records(t, `{"src":"v"}`, `{"other":1}`)
	out, _ := apply(t, recs, transform.Operation{Type: transform.OpAddField, Key: "dst", Mode: "copy", FromKey: "src"})
	if got := encoded(t, out[0]); got != `{"src":"v","dst":"v"}` {
		t.Fatalf("row 0 = %s", got)
	}
	// Missing source: target key is not created.
	if got := encoded(t, out[1]); got != `{"other":1}` {
		t.Fatalf("row 1 = %s", got)
	}
}

func TestDeleteFieldIgnoresAbsent(t *testing.T) {
	recs := records(t, `{"a":1,"b":2,"c":3}`)
	out, _ := apply(t, recs, transform.Operation{Type: transform.OpDeleteField, Keys: []string{"b", "zzz"}})
	if got := encoded(t, out[0]); got != `{"a":1,"c":3}` {
		t.Fatalf("got %s", got)
	}
}

func TestRenameField(t *testing.T) {
	recs := records(t, `{"a":1,"b":2}`, `{"x":9}`)
	out, _ := apply(t, recs, transform.Operation{Type: transform.OpRenameField, From: "a", To: "b"})
	// Existing target overwritten, keeping its position.
	if got := encoded(t, out[0]); got != `{"b":1}` {
		t.Fatalf("row 0 = %s", got)
	}
	// Record without the source is untouched.
	if got := encoded(t, out[1]); got != `{"x":9}` {
		t.Fatalf("row 1 = %s", got)
	}
}

func TestUpdateValuePrefixSuffixOnlyStrings(t *testing.T) {
	recs := records(t, `{"k":"mid"}`, `{"k":7}`, `{"other":1}`)
	out, _ := apply(t, recs, transform.Operation{
		Type: transform.OpUpdateValue, Key: "k", Mode: "prefixSuffix", Prefix: "<", Suffix: ">",
	})
	if got := encoded(t, out[0]); got != `{"k":"<mid>"}` {
		t.Fatalf("row 0 = %s", got)
	}
	if got := encoded(t, out[1]); got != `{"k":7}` {
		t.Fatalf("row 1 = %s", got)
	}
	if got := encoded(t, out[2]); got != `{"other":1}` {
		t.Fatalf("row 2 = %s", got)
	}
}

func TestTypeConvertNumberWarnsAndKeepsValue(t *testing.T) {
	recs := records(t, `{"a":"1"}`, `{"a":"x"}`)
	out, warns := apply(t, recs, transform.Operation{Type: transform.OpTypeConvert, Key: "a", Target: "number"})
	if got := encoded(t, out[0]); got != `{"a":1}` {
		t.Fatalf("row 0 = %s", got)
	}
	if got := encoded(t, out[1]); got != `{"a":"x"}` {
		t.Fatalf("row 1 = %s", got)
	}
	if len(warns) != 1 || !strings.Contains(warns[0], "cannot convert to number: x") {
		t.Fatalf("warnings = %v", warns)
	}
}

func TestTypeConvertStringAndBoolean(t *testing.T) {
	recs := records(t, `{"n":12,"b":0}`)
	out, _ := apply(t, recs, transform.Operation{Type: transform.OpTypeConvert, Key: "n", Target: "string"})
	out, _ = apply(t, out, transform.Operation{Type: transform.OpTypeConvert, Key: "b", Target: "boolean"})
	if got := encoded(t, out[0]); got != `{"n":"12","b":false}` {
		t.Fatalf("got %s", got)
	}
}

func TestTypeConvertPreservesBigInteger(t *testing.T) {
	recs := records(t, `{"id":"9007199254740993"}`)
	out, warns := apply(t, recs, transform.Operation{Type: transform.OpTypeConvert, Key: "id", Target: "number"})
	if len(warns) != 0 {
		t.Fatalf("warnings = %v", warns)
	}
	if got := encoded(t, out[0]); got != `{"id":9007199254740993}` {
		t.Fatalf("got %s", got)
	}
}

func TestExtractByCondition(t *testing.T) {
	recs := records(t,
		`{"attrs":[{"k":"color","v":"red"},{"k":"size","v":"L"}]}`,
		`{"attrs":[{"k":"weight","v":"2kg"}]}`,
		`{"attrs":"not a list"}`,
	)
	out, _ := apply(t, recs, transform.Operation{
		Type: transform.OpExtractByCondition, Source: "attrs",
		MatchKey: "k", MatchValue: "size", ExtractKey: "v", Target: "size",
	})
	if got := encoded(t, out[0]); got != `{"attrs":[{"k":"color","v":"red"},{"k":"size","v":"L"}],"size":"L"}` {
		t.Fatalf("row 0 = %s", got)
	}
	// No match and non-list sources pass through.
	if got := encoded(t, out[1]); got != `{"attrs":[{"k":"weight","v":"2kg"}]}` {
		t.Fatalf("row 1 = %s", got)
	}
	if got := encoded(t, out[2]); got != `{"attrs":"not a list"}` {
		t.Fatalf("row 2 = %s", got)
	}
}

func TestExtractByConditionNestedMatchKey(t *testing.T) {
	recs := records(t, `{"items":[{"meta":{"id":"7"},"payload":"hit"}]}`)
	out, _ := apply(t, recs, transform.Operation{
		Type: transform.OpExtractByCondition, Source: "items",
		MatchKey: "meta.id", MatchValue: "7", ExtractKey: "payload", Target: "found",
	})
	if got := encoded(t, out[0]); got != `{"items":[{"meta":{"id":"7"},"payload":"hit"}],"found":"hit"}` {
		t.Fatalf("got %s", got)
	}
}

func TestNestFields(t *testing.T) {
	recs := records(t, `{"street":"s","city":"c","keep":1}`)
	out, _ := apply(t, recs, transform.Operation{
		Type: transform.OpNestFields, Keys: []string{"street", "city", "addr"}, Target: "addr",
	})
	if got := encoded(t, out[0]); got != `{"keep":1,"addr":{"street":"s","city":"c"}}` {
		t.Fatalf("got %s", got)
	}
}

func TestNestFieldsMergesExistingTarget(t *testing.T) {
	recs := records(t, `{"addr":{"zip":"z"},"city":"c"}`)
	out, _ := apply(t, recs, transform.Operation{
		Type: transform.OpNestFields, Keys: []string{"city"}, Target: "addr",
	})
	if got := encoded(t, out[0]); got != `{"addr":{"zip":"z","city":"c"}}` {
		t.Fatalf("got %s", got)
	}
}

func TestKeyReorder(t *testing.T) {
	recs := records(t, `{"a":1,"b":2,"c":3}`)
	out, _ := apply(t, recs, transform.Operation{Type: transform.OpKeyReorder, Keys: []string{"b", "a", "zzz"}})
	if got := encoded(t, out[0]); got != `{"b":2,"a":1,"c":3}` {
		t.Fatalf("got %s", got)
	}
}

func TestNonMappingRecordsPassThrough(t *testing.T) {
	recs := []any{"just a string", float64(3)}
	out, warns := apply(t, recs, transform.Operation{Type: transform.OpAddField, Key: "k", Mode: "static"})
	if out[0] != "just a string" || out[1] != float64(3) {
		t.Fatalf("got %v", out)
	}
	if len(warns) != 0 {
		t.Fatalf("warnings = %v", warns)
	}
}

func TestInvalidOperationFailsBeforeTouchingRecords(t *testing.T) {
	recs := records(t, `{"a":1}`)
	if _, _, err := transform.Apply(recs, transform.Operation{Type: transform.OpAddField}); err == nil {
		t.Fatal("expected precondition error")
	}
	if _, _, err := transform.Apply(recs, transform.Operation{Type: "nonsense"}); err == nil {
		t.Fatal("expected unknown-type error")
	}
}

func TestApplyDoesNotMutateInputRecords(t *testing.T) {
	recs := records(t, `{"a":1}`)
	before := encoded(t, recs[0])
	apply(t, recs, transform.Operation{Type: transform.OpAddField, Key: "b", Mode: "static", Value: "x"})
	if after := encoded(t, recs[0]); after != before {
		t.Fatalf("input mutated: %s -> %s", before, after)
	}
}
