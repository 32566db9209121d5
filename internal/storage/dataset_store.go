package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/leoygaga-prog/json-workbench/internal/dataset"
	"github.com/leoygaga-prog/json-workbench/internal/value"
)

// DatasetStore persists datasets, records included, in SQLite.
type DatasetStore struct {
	db *DB
}

// NewDatasetStore creates a new DatasetStore.
func NewDatasetStore(db *DB) *DatasetStore {
	return &DatasetStore{db: db}
}

// SaveDataset upserts the dataset and its full record array. Records go
// through value.Encode so key order and number literals survive.
func (s *DatasetStore) SaveDataset(d *dataset.Dataset) error {
	recordsJSON, err := value.Encode(d.Records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	keyOrderJSON, err := json.Marshal(d.KeyOrder)
	if err != nil {
		return fmt.Errorf("encode key order: %w", err)
	}
	rowErrorsJSON, err := json.Marshal(d.RowErrors)
	if err != nil {
		return fmt.Errorf("encode row errors: %w", err)
	}
	sourceConfigJSON, err := json.Marshal(d.SourceConfig)
	if err != nil {
		return fmt.Errorf("encode source config: %w", err)
	}

	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	d.UpdatedAt = time.Now()

	_, err = s.db.Conn().Exec(
		`INSERT INTO datasets (id, name, records_json, key_order_json, row_errors_json, row_count,
		                       source_type, source_config_json, refresh_cron, watch_file, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name,
		   records_json=excluded.records_json,
		   key_order_json=excluded.key_order_json,
		   row_errors_json=excluded.row_errors_json,
		   row_count=excluded.row_count,
		   source_type=excluded.source_type,
		   source_config_json=excluded.source_config_json,
		   refresh_cron=excluded.refresh_cron,
		   watch_file=excluded.watch_file,
		   updated_at=excluded.updated_at`,
		d.ID, d.Name, string(recordsJSON), string(keyOrderJSON), string(rowErrorsJSON), len(d.Records),
		d.SourceType, string(sourceConfigJSON), d.RefreshCron, d.WatchFile, d.CreatedAt, d.UpdatedAt,
	)
	return err
}

// LoadDataset reads one dataset with its records.
func (s *DatasetStore) LoadDataset(id string) (*dataset.Dataset, error) {
	row := s.db.Conn().QueryRow(
		`SELECT id, name, records_json, key_order_json, row_errors_json,
		        source_type, source_config_json, refresh_cron, watch_file, created_at, updated_at
		 FROM datasets WHERE id = ?`, id,
	)

	d := &dataset.Dataset{}
	var recordsJSON, keyOrderJSON, rowErrorsJSON, sourceConfigJSON string
	err := row.Scan(&d.ID, &d.Name, &recordsJSON, &keyOrderJSON, &rowErrorsJSON,
		&d.SourceType, &sourceConfigJSON, &d.RefreshCron, &d.WatchFile, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("dataset not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	raw, err := value.DecodeString(recordsJSON)
	if err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	records, ok := raw.([]any)
	if !ok && raw != nil {
		return nil, fmt.Errorf("records column is not an array")
	}
	d.Records = records

	if err := json.Unmarshal([]byte(keyOrderJSON), &d.KeyOrder); err != nil {
		return nil, fmt.Errorf("decode key order: %w", err)
	}
	if err := json.Unmarshal([]byte(rowErrorsJSON), &d.RowErrors); err != nil {
		return nil, fmt.Errorf("decode row errors: %w", err)
	}
	if sourceConfigJSON != "" && sourceConfigJSON != "null" {
		if err := json.Unmarshal([]byte(sourceConfigJSON), &d.SourceConfig); err != nil {
			return nil, fmt.Errorf("decode source config: %w", err)
		}
	}
	return d, nil
}

// ListDatasets returns record-free summaries, oldest first.
func (s *DatasetStore) ListDatasets() ([]dataset.Summary, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, name, row_count, row_errors_json, source_type, refresh_cron, watch_file, created_at, updated_at
		 FROM datasets ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []dataset.Summary
	for rows.Next() {
		var sum dataset.Summary
		var rowErrorsJSON string
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.RowCount, &rowErrorsJSON,
			&sum.SourceType, &sum.RefreshCron, &sum.WatchFile, &sum.CreatedAt, &sum.UpdatedAt); err != nil {
			return nil, err
		}
		var rowErrors []dataset.RowError
		if json.Unmarshal([]byte(rowErrorsJSON), &rowErrors) == nil {
			sum.ErrorCount = len(rowErrors)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// DeleteDataset removes a dataset.
func (s *DatasetStore) DeleteDataset(id string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM datasets WHERE id = ?`, id)
	return err
}
