package ingest

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/leoygaga-prog/json-workbench/internal/value"
)

// ── JSON File Source ────────────────────────────────────────
// Reads records from a local JSON file. The document root (or the value
// at dataPath) may be an array of records or a single record.

type jsonFileSource struct{}

func init() { Register(&jsonFileSource{}) }

func (s *jsonFileSource) Spec() SourceSpec {
	return SourceSpec{
		Type:  "json_file",
		Label: "JSON File",
		Icon:  "IconFileTypeJs",
		ConfigFields: []ConfigField{
			{Key: "filePath", Label: "File Path", Type: "file", Required: true, Help: "Absolute path to the JSON file"},
			{Key: "dataPath", Label: "Data Path", Type: "string", Required: false, Help: "Dot-separated path to the array (e.g., 'data.items'). Leave empty if root is an array."},
		},
	}
}

func (s *jsonFileSource) Read(ctx context.Context, cfg SourceConfig, progress Progress) (*Result, error) {
	filePath := cfgString(cfg, "filePath")
	if filePath == "" {
		return nil, fmt.Errorf("filePath is required")
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	root, err := value.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	if dataPath := cfgString(cfg, "dataPath"); dataPath != "" {
		for _, part := range strings.Split(dataPath, ".") {
			obj, ok := root.(*value.Object)
			if !ok {
				return nil, fmt.Errorf("invalid data path: %q not found", part)
			}
			root, ok = obj.Get(part)
			if !ok {
				return nil, fmt.Errorf("invalid data path: %q not found", part)
			}
		}
	}

	var records []any
	switch v := root.(type) {
	case []any:
		records = v
	case *value.Object:
		records = []any{v}
	default:
		return nil, fmt.Errorf("expected an array or object of records, got %T", root)
	}

	for i := range records {
		if (i+1)%progressEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			report(progress, i+1)
		}
	}
	report(progress, len(records))

	return &Result{Records: records, KeyOrder: keyOrderOf(records)}, nil
}
