package ingest

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/leoygaga-prog/json-workbench/internal/value"
)

// ── XLSX File Source ────────────────────────────────────────
// Reads records from a spreadsheet. The first row names the columns;
// numeric cells keep their literal text as json.Number so exports do
// not reformat them.

type xlsxFileSource struct{}

func init() { Register(&xlsxFileSource{}) }

func (s *xlsxFileSource) Spec() SourceSpec {
	return SourceSpec{
		Type:  "xlsx_file",
		Label: "Excel File",
		Icon:  "IconFileTypeXls",
		ConfigFields: []ConfigField{
			{Key: "filePath", Label: "File Path", Type: "file", Required: true, Help: "Absolute path to the .xlsx file"},
			{Key: "sheet", Label: "Sheet", Type: "string", Required: false, Help: "Sheet name. Leave empty for the first sheet."},
		},
	}
}

func (s *xlsxFileSource) Read(ctx context.Context, cfg SourceConfig, progress Progress) (*Result, error) {
	filePath := cfgString(cfg, "filePath")
	if filePath == "" {
		return nil, fmt.Errorf("filePath is required")
	}

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := cfgString(cfg, "sheet")
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}
	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read header row: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("col_%d", i+1)
		}
		columns[i] = h
	}

	res := &Result{KeyOrder: columns}
	for rows.Next() {
		cells, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rec := value.NewObject()
		for i, col := range columns {
			if i < len(cells) {
				rec.Set(col, cellValue(cells[i]))
			} else {
				rec.Set(col, nil)
			}
		}
		res.Records = append(res.Records, rec)

		if len(res.Records)%progressEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			report(progress, len(res.Records))
		}
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	report(progress, len(res.Records))

	return res, nil
}

// cellValue maps a cell's display text to a record value: empty cells
// to null, numeric text to json.Number, TRUE/FALSE to bool.
func cellValue(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		if n, ok := value.ToNumber(s); ok {
			return n
		}
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}
