package value_test

import (
	"testing"

	"github.com/leoygaga-prog/json-workbench/internal/value"
)

func TestDecodePreservesKeyOrder(t *testing.T) {
	v, err := value.DecodeString(`{"z":1,"a":2,"m":3}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	obj, ok := v.(*value.Object)
	if !ok {
		t.Fatalf("expected object, got %T", v)
	}
	got := value.Keys(obj)
	want := []string{"z", "a", "m"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("key order = %v, want %v", got, want)
		}
	}
}

func TestDecodeEncodeBigIntegerRoundTrip(t *testing.T) {
	// 2^63-ish integers lose precision as float64; the literal text
	// must survive a decode/encode cycle.
	in := `{"id":9007199254740993,"big":123456789012345678901234567890}`
	v, err := value.DecodeString(in)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, err := value.EncodeString(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if out != in {
		t.Fatalf("round trip = %s, want %s", out, in)
	}
}

func TestDecodeRejectsTrailingGarbage(t *testing.T) {
	if _, err := value.DecodeString(`{"a":1} trailing`); err == nil {
		t.Fatal("expected error for trailing data")
	}
}

func TestSmartParseUnwrapsNestedJSONStrings(t *testing.T) {
	v, err := value.DecodeString(`{"info":"{\"x\":1}","tags":"[\"a\",\"b\"]","plain":"hello","num":"\"5\""}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	parsed := value.SmartParse(v).(*value.Object)

	info, _ := parsed.Get("info")
	infoObj, ok := info.(*value.Object)
	if !ok {
		t.Fatalf("info not unwrapped: %T", info)
	}
	if x, _ := infoObj.Get("x"); value.Stringify(x) != "1" {
		t.Fatalf("info.x = %v", x)
	}

	tags, _ := parsed.Get("tags")
	if arr, ok := tags.([]any); !ok || len(arr) != 2 {
		t.Fatalf("tags not unwrapped: %v", tags)
	}

	// Non-JSON strings and quoted scalars stay untouched.
	if plain, _ := parsed.Get("plain"); plain != "hello" {
		t.Fatalf("plain = %v", plain)
	}
	if num, _ := parsed.Get("num"); num != `"5"` {
		t.Fatalf("num = %v", num)
	}
}

func TestSmartParseIdempotent(t *testing.T) {
	v, _ := value.DecodeString(`{"a":"{\"b\":\"{\\\"c\\\":2}\"}"}`)
	once := value.SmartParse(v)
	twice := value.SmartParse(once)
	s1, _ := value.EncodeString(once)
	s2, _ := value.EncodeString(twice)
	if s1 != s2 {
		t.Fatalf("not idempotent: %s vs %s", s1, s2)
	}
}

func TestLookupThroughArrays(t *testing.T) {
	v, _ := value.DecodeString(`{"items":[{"name":"first"},{"name":"second"}]}`)
	got, ok := value.Lookup(v, "items.1.name")
	if !ok || got != "second" {
		t.Fatalf("Lookup = %v, %v", got, ok)
	}
	if _, ok := value.Lookup(v, "items.5.name"); ok {
		t.Fatal("expected miss for out-of-range index")
	}
}

func TestLookupObjectsStopsAtArrays(t *testing.T) {
	v, _ := value.DecodeString(`{"items":[{"name":"first"}],"meta":{"kind":"x"}}`)
	if _, ok := value.LookupObjects(v, "items.0.name"); ok {
		t.Fatal("object-only lookup must not descend into arrays")
	}
	got, ok := value.LookupObjects(v, "meta.kind")
	if !ok || got != "x" {
		t.Fatalf("meta.kind = %v, %v", got, ok)
	}
}

func TestStringify(t *testing.T) {
	obj, _ := value.DecodeString(`{"a":1}`)
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"s", "s"},
		{true, "true"},
		{float64(1), "1"},
		{obj, `{"a":1}`},
	}
	for _, c := range cases {
		if got := value.Stringify(c.in); got != c.want {
			t.Errorf("Stringify(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestToNumberKeepsBigLiterals(t *testing.T) {
	n, ok := value.ToNumber("9007199254740993")
	if !ok || n.String() != "9007199254740993" {
		t.Fatalf("ToNumber = %v, %v", n, ok)
	}
	if _, ok := value.ToNumber("not a number"); ok {
		t.Fatal("expected failure for non-numeric string")
	}
	if _, ok := value.ToNumber(nil); ok {
		t.Fatal("expected failure for nil")
	}
}
