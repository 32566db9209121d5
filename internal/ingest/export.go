package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/leoygaga-prog/json-workbench/internal/transform"
	"github.com/leoygaga-prog/json-workbench/internal/value"
)

// ── Export ──────────────────────────────────────────────────
// Writes a dataset back out. KeyOrder biases field order: listed keys
// come first, unlisted keys keep their record-local order.

// ExportJSON writes the records as one indented JSON array.
func ExportJSON(w io.Writer, records []any, keyOrder []string) error {
	ordered := reorderAll(records, keyOrder)
	data, err := value.EncodeIndent(ordered)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// ExportJSONL writes one record per line.
func ExportJSONL(w io.Writer, records []any, keyOrder []string, progress Progress) error {
	bw := bufio.NewWriter(w)
	for i, rec := range records {
		if obj, ok := rec.(*value.Object); ok {
			rec = transform.ReorderKeys(obj, keyOrder)
		}
		line, err := value.EncodeString(rec)
		if err != nil {
			return fmt.Errorf("encode record %d: %w", i, err)
		}
		if _, err := bw.WriteString(line); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		if (i+1)%progressEvery == 0 {
			report(progress, i+1)
		}
	}
	report(progress, len(records))
	return bw.Flush()
}

// ExportXLSX writes the records as one sheet. Columns are the KeyOrder
// keys followed by any further top-level keys in first-seen order;
// container values are serialized to JSON text in their cell.
func ExportXLSX(path string, records []any, keyOrder []string, progress Progress) error {
	columns := columnOrder(records, keyOrder)
	if len(columns) == 0 {
		return fmt.Errorf("no mapping records to export")
	}

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Sheet1"

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	rowNo := 1
	for i, rec := range records {
		obj, ok := rec.(*value.Object)
		if !ok {
			continue
		}
		rowNo++
		for j, col := range columns {
			v, present := obj.Get(col)
			if !present || v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, rowNo)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, cellExportValue(v)); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
		if (i+1)%progressEvery == 0 {
			report(progress, i+1)
		}
	}
	report(progress, len(records))

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// ExportFile dispatches on format ("json", "jsonl", "xlsx") and writes
// to path.
func ExportFile(path, format string, records []any, keyOrder []string, progress Progress) error {
	switch format {
	case "xlsx":
		return ExportXLSX(path, records, keyOrder, progress)
	case "json", "jsonl":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create file: %w", err)
		}
		defer f.Close()
		if format == "json" {
			if err := ExportJSON(f, records, keyOrder); err != nil {
				return err
			}
		} else {
			if err := ExportJSONL(f, records, keyOrder, progress); err != nil {
				return err
			}
		}
		return f.Close()
	default:
		return fmt.Errorf("unknown export format: %q", format)
	}
}

func reorderAll(records []any, keyOrder []string) []any {
	out := make([]any, len(records))
	for i, rec := range records {
		if obj, ok := rec.(*value.Object); ok {
			out[i] = transform.ReorderKeys(obj, keyOrder)
		} else {
			out[i] = rec
		}
	}
	return out
}

// columnOrder unions top-level keys across all mapping records, with
// keyOrder keys first.
func columnOrder(records []any, keyOrder []string) []string {
	seen := map[string]bool{}
	var columns []string
	for _, k := range keyOrder {
		if !seen[k] {
			seen[k] = true
			columns = append(columns, k)
		}
	}
	for _, rec := range records {
		obj, ok := rec.(*value.Object)
		if !ok {
			continue
		}
		for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
			if !seen[pair.Key] {
				seen[pair.Key] = true
				columns = append(columns, pair.Key)
			}
		}
	}
	return columns
}

// cellExportValue maps a record value onto what excelize can store.
func cellExportValue(v any) any {
	switch vv := v.(type) {
	case bool, string, float64:
		return vv
	case json.Number:
		if n, err := vv.Int64(); err == nil {
			return n
		}
		if f, err := vv.Float64(); err == nil {
			return f
		}
		return vv.String()
	default:
		s, err := value.EncodeString(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return s
	}
}
