package ingest_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/leoygaga-prog/json-workbench/internal/ingest"
	"github.com/leoygaga-prog/json-workbench/internal/value"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func read(t *testing.T, sourceType string, cfg ingest.SourceConfig) *ingest.Result {
	t.Helper()
	src, err := ingest.GetSource(sourceType)
	if err != nil {
		t.Fatalf("get source: %v", err)
	}
	res, err := src.Read(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return res
}

func TestRegistryListsSources(t *testing.T) {
	var types []string
	for _, spec := range ingest.ListSources() {
		types = append(types, spec.Type)
	}
	want := []string{"database", "json_file", "jsonl_file", "xlsx_file"}
	if !reflect.DeepEqual(types, want) {
		t.Fatalf("sources = %v", types)
	}
	if _, err := ingest.GetSource("carrier_pigeon"); err == nil {
		t.Fatal("expected an error for an unknown type")
	}
}

func TestJSONFileRootArray(t *testing.T) {
	path := writeFile(t, "data.json", `[{"b":1,"a":2},{"b":3,"a":4}]`)
	res := read(t, "json_file", ingest.SourceConfig{"filePath": path})
	if len(res.Records) != 2 {
		t.Fatalf("records = %d", len(res.Records))
	}
	if !reflect.DeepEqual(res.KeyOrder, []string{"b", "a"}) {
		t.Fatalf("key order = %v", res.KeyOrder)
	}
}

func TestJSONFileDataPath(t *testing.T) {
	path := writeFile(t, "data.json", `{"data":{"items":[{"id":1}]}}`)
	res := read(t, "json_file", ingest.SourceConfig{"filePath": path, "dataPath": "data.items"})
	if len(res.Records) != 1 {
		t.Fatalf("records = %d", len(res.Records))
	}

	src, _ := ingest.GetSource("json_file")
	_, err := src.Read(context.Background(), ingest.SourceConfig{"filePath": path, "dataPath": "data.missing"}, nil)
	if err == nil || !strings.Contains(err.Error(), "missing") {
		t.Fatalf("err = %v", err)
	}
}

func TestJSONFileSingleObject(t *testing.T) {
	path := writeFile(t, "data.json", `{"only":"one"}`)
	res := read(t, "json_file", ingest.SourceConfig{"filePath": path})
	if len(res.Records) != 1 {
		t.Fatalf("records = %d", len(res.Records))
	}
}

func TestJSONLCollectsRowErrors(t *testing.T) {
	content := `{"a":1}
not json

{"a":2}
`
	path := writeFile(t, "data.jsonl", content)
	res := read(t, "jsonl_file", ingest.SourceConfig{"filePath": path})
	if len(res.Records) != 2 {
		t.Fatalf("records = %d", len(res.Records))
	}
	if len(res.RowErrors) != 1 {
		t.Fatalf("row errors = %+v", res.RowErrors)
	}
	re := res.RowErrors[0]
	if re.Line != 2 || re.Raw != "not json" || re.Message == "" {
		t.Fatalf("row error = %+v", re)
	}
}

func TestJSONLPreservesBigIntegers(t *testing.T) {
	path := writeFile(t, "data.jsonl", `{"id":9007199254740993}`+"\n")
	res := read(t, "jsonl_file", ingest.SourceConfig{"filePath": path})
	var buf bytes.Buffer
	if err := ingest.ExportJSONL(&buf, res.Records, res.KeyOrder, nil); err != nil {
		t.Fatalf("export: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != `{"id":9007199254740993}` {
		t.Fatalf("round trip = %s", got)
	}
}

func TestExportJSONLHonorsKeyOrder(t *testing.T) {
	rec, err := value.DecodeString(`{"b":1,"a":2}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var buf bytes.Buffer
	if err := ingest.ExportJSONL(&buf, []any{rec}, []string{"a", "b"}, nil); err != nil {
		t.Fatalf("export: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != `{"a":2,"b":1}` {
		t.Fatalf("line = %s", got)
	}
}

func TestExportJSONIsAnIndentedArray(t *testing.T) {
	rec, _ := value.DecodeString(`{"a":1}`)
	var buf bytes.Buffer
	if err := ingest.ExportJSON(&buf, []any{rec}, nil); err != nil {
		t.Fatalf("export: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "[") || !strings.Contains(out, `"a": 1`) {
		t.Fatalf("output = %s", out)
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.xlsx")

	recs := make([]any, 2)
	for i, s := range []string{`{"name":"amy","age":31}`, `{"name":"bob","age":2.5}`} {
		v, err := value.DecodeString(s)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		recs[i] = v
	}
	if err := ingest.ExportXLSX(path, recs, []string{"name", "age"}, nil); err != nil {
		t.Fatalf("export: %v", err)
	}

	res := read(t, "xlsx_file", ingest.SourceConfig{"filePath": path})
	if !reflect.DeepEqual(res.KeyOrder, []string{"name", "age"}) {
		t.Fatalf("key order = %v", res.KeyOrder)
	}
	if len(res.Records) != 2 {
		t.Fatalf("records = %d", len(res.Records))
	}
	first := res.Records[0].(*value.Object)
	name, _ := first.Get("name")
	if name != "amy" {
		t.Fatalf("name = %v", name)
	}
	age, _ := first.Get("age")
	if value.Stringify(age) != "31" {
		t.Fatalf("age = %v", age)
	}
}

func TestParseLine(t *testing.T) {
	rec, err := ingest.ParseLine(`{"fixed":true}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, ok := rec.(*value.Object); !ok {
		t.Fatalf("record is %T", rec)
	}
	if _, err := ingest.ParseLine(`{broken`); err == nil {
		t.Fatal("expected an error")
	}
}
