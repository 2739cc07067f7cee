package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ccisvision/vision/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type importJobRepository struct {
	q Querier
}

func (r *importJobRepository) Create(ctx context.Context, job domain.ImportJob) (domain.ImportJob, error) {
	errorLog, err := json.Marshal(job.ErrorLog)
	if err != nil {
		return domain.ImportJob{}, fmt.Errorf("failed to marshal error log: %w", err)
	}

	_, err = r.q.Exec(
		ctx,
		`INSERT INTO import_jobs (id, file_name, entity_type, total_rows, uploaded_by, status, rows_imported, rows_with_errors, error_log, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		job.ID,
		job.FileName,
		string(job.EntityType),
		job.TotalRows,
		job.UploadedBy,
		string(job.Status),
		job.RowsImported,
		job.RowsWithErrors,
		errorLog,
		job.CreatedAt,
	)
	if err != nil {
		return domain.ImportJob{}, fmt.Errorf("failed to create import job: %w", err)
	}

	return job, nil
}

func (r *importJobRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.ImportJob, error) {
	row := r.q.QueryRow(
		ctx,
		`SELECT id, file_name, entity_type, total_rows, uploaded_by, status, rows_imported, rows_with_errors, error_log, created_at, completed_at
		 FROM import_jobs
		 WHERE id = $1`,
		id,
	)

	job, err := scanImportJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ImportJob{}, fmt.Errorf("import job %s: %w", id, domain.ErrNotFound)
		}
		return domain.ImportJob{}, fmt.Errorf("failed to get import job: %w", err)
	}
	return job, nil
}

func (r *importJobRepository) List(ctx context.Context, limit, offset int) ([]domain.ImportJob, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.q.Query(
		ctx,
		`SELECT id, file_name, entity_type, total_rows, uploaded_by, status, rows_imported, rows_with_errors, error_log, created_at, completed_at,
		        COUNT(*) OVER() AS total_count
		 FROM import_jobs
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit,
		offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list import jobs: %w", err)
	}
	defer rows.Close()

	jobs := []domain.ImportJob{}
	totalCount := 0
	for rows.Next() {
		var (
			job         domain.ImportJob
			errorLog    []byte
			completedAt pgtype.Timestamptz
		)
		if scanErr := rows.Scan(
			&job.ID,
			&job.FileName,
			&job.EntityType,
			&job.TotalRows,
			&job.UploadedBy,
			&job.Status,
			&job.RowsImported,
			&job.RowsWithErrors,
			&errorLog,
			&job.CreatedAt,
			&completedAt,
			&totalCount,
		); scanErr != nil {
			return nil, 0, fmt.Errorf("failed to scan import job: %w", scanErr)
		}
		if err := decodeJobExtras(&job, errorLog, completedAt); err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, job)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, 0, fmt.Errorf("failed to iterate import jobs: %w", rowsErr)
	}

	return jobs, totalCount, nil
}

func (r *importJobRepository) Complete(ctx context.Context, id uuid.UUID, imported, failed int, errorLog []domain.RowError) error {
	if errorLog == nil {
		errorLog = []domain.RowError{}
	}
	encoded, err := json.Marshal(errorLog)
	if err != nil {
		return fmt.Errorf("failed to marshal error log: %w", err)
	}

	tag, err := r.q.Exec(
		ctx,
		`UPDATE import_jobs
		 SET status = $2, rows_imported = $3, rows_with_errors = $4, error_log = $5, completed_at = $6
		 WHERE id = $1`,
		id,
		string(domain.ImportStatusCompleted),
		imported,
		failed,
		encoded,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to complete import job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("import job %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *importJobRepository) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	encoded, err := json.Marshal([]domain.RowError{{Message: message}})
	if err != nil {
		return fmt.Errorf("failed to marshal failure message: %w", err)
	}

	_, err = r.q.Exec(
		ctx,
		`UPDATE import_jobs
		 SET status = $2, error_log = $3, completed_at = $4
		 WHERE id = $1 AND status <> $5`,
		id,
		string(domain.ImportStatusFailed),
		encoded,
		time.Now(),
		string(domain.ImportStatusCompleted),
	)
	if err != nil {
		return fmt.Errorf("failed to mark import job failed: %w", err)
	}
	return nil
}

func scanImportJob(row pgx.Row) (domain.ImportJob, error) {
	var (
		job         domain.ImportJob
		errorLog    []byte
		completedAt pgtype.Timestamptz
	)
	if err := row.Scan(
		&job.ID,
		&job.FileName,
		&job.EntityType,
		&job.TotalRows,
		&job.UploadedBy,
		&job.Status,
		&job.RowsImported,
		&job.RowsWithErrors,
		&errorLog,
		&job.CreatedAt,
		&completedAt,
	); err != nil {
		return domain.ImportJob{}, err
	}
	if err := decodeJobExtras(&job, errorLog, completedAt); err != nil {
		return domain.ImportJob{}, err
	}
	return job, nil
}

func decodeJobExtras(job *domain.ImportJob, errorLog []byte, completedAt pgtype.Timestamptz) error {
	job.ErrorLog = []domain.RowError{}
	if len(errorLog) > 0 {
		if err := json.Unmarshal(errorLog, &job.ErrorLog); err != nil {
			return fmt.Errorf("failed to decode error log: %w", err)
		}
	}
	if completedAt.Valid {
		ts := completedAt.Time
		job.CompletedAt = &ts
	}
	return nil
}
