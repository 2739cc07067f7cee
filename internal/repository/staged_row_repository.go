package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ccisvision/vision/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type stagedRowRepository struct {
	q Querier
}

func (r *stagedRowRepository) CreateBatch(ctx context.Context, rows []domain.StagedRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, row := range rows {
		rawData, err := json.Marshal(row.RawData)
		if err != nil {
			return fmt.Errorf("failed to marshal row %d: %w", row.RowNumber, err)
		}
		batch.Queue(
			`INSERT INTO staged_rows (id, import_job_id, row_number, raw_data)
			 VALUES ($1, $2, $3, $4)`,
			row.ID,
			row.ImportJobID,
			row.RowNumber,
			rawData,
		)
	}

	results := r.q.SendBatch(ctx, batch)
	defer func() { _ = results.Close() }()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to stage rows: %w", err)
		}
	}

	return nil
}

func (r *stagedRowRepository) ListByJob(ctx context.Context, importJobID uuid.UUID) ([]domain.StagedRow, error) {
	rows, err := r.q.Query(
		ctx,
		`SELECT id, import_job_id, row_number, raw_data
		 FROM staged_rows
		 WHERE import_job_id = $1
		 ORDER BY row_number ASC`,
		importJobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list staged rows: %w", err)
	}
	defer rows.Close()

	staged := []domain.StagedRow{}
	for rows.Next() {
		var (
			row     domain.StagedRow
			rawData []byte
		)
		if scanErr := rows.Scan(&row.ID, &row.ImportJobID, &row.RowNumber, &rawData); scanErr != nil {
			return nil, fmt.Errorf("failed to scan staged row: %w", scanErr)
		}
		row.RawData = map[string]string{}
		if len(rawData) > 0 {
			if err := json.Unmarshal(rawData, &row.RawData); err != nil {
				return nil, fmt.Errorf("failed to decode staged row %d: %w", row.RowNumber, err)
			}
		}
		staged = append(staged, row)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate staged rows: %w", rowsErr)
	}

	return staged, nil
}

func (r *stagedRowRepository) CountByJob(ctx context.Context, importJobID uuid.UUID) (int, error) {
	var count int
	err := r.q.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM staged_rows WHERE import_job_id = $1`,
		importJobID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count staged rows: %w", err)
	}
	return count, nil
}
