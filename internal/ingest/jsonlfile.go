package ingest

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/leoygaga-prog/json-workbench/internal/dataset"
	"github.com/leoygaga-prog/json-workbench/internal/value"
)

// ── JSONL File Source ───────────────────────────────────────
// Reads one record per line. A line that fails to parse becomes a
// RowError instead of aborting the load; the user repairs and re-adds
// it from the errors panel.

// maxLineBytes bounds a single JSONL line (16 MiB).
const maxLineBytes = 16 << 20

type jsonlFileSource struct{}

func init() { Register(&jsonlFileSource{}) }

func (s *jsonlFileSource) Spec() SourceSpec {
	return SourceSpec{
		Type:  "jsonl_file",
		Label: "JSON Lines File",
		Icon:  "IconFileTypeTxt",
		ConfigFields: []ConfigField{
			{Key: "filePath", Label: "File Path", Type: "file", Required: true, Help: "Absolute path to the JSONL file (one JSON record per line)"},
		},
	}
}

func (s *jsonlFileSource) Read(ctx context.Context, cfg SourceConfig, progress Progress) (*Result, error) {
	filePath := cfgString(cfg, "filePath")
	if filePath == "" {
		return nil, fmt.Errorf("filePath is required")
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	res := &Result{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		rec, err := value.DecodeString(line)
		if err != nil {
			res.RowErrors = append(res.RowErrors, dataset.RowError{
				Line:    lineNo,
				Raw:     line,
				Message: err.Error(),
			})
			continue
		}
		res.Records = append(res.Records, rec)

		if len(res.Records)%progressEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			report(progress, len(res.Records))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	report(progress, len(res.Records))

	res.KeyOrder = keyOrderOf(res.Records)
	return res, nil
}

// ParseLine parses one repaired JSONL line. Used when the user fixes a
// RowError by hand and wants it inserted back into the dataset.
func ParseLine(line string) (any, error) {
	rec, err := value.DecodeString(line)
	if err != nil {
		return nil, fmt.Errorf("parse line: %w", err)
	}
	return rec, nil
}
