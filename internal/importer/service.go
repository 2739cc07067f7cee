// Package importer implements the Excel bulk import pipeline: raw staging,
// read-only validation, transactional per-type processing, and the import job
// ledger behind them.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ccisvision/vision/internal/domain"
	"github.com/ccisvision/vision/internal/repository"

	"github.com/google/uuid"
)

const (
	maxValidationResults = 50
	maxProcessErrors     = 20
	previewRowCount      = 5
)

// entityImporter is implemented once per importable entity kind.
type entityImporter interface {
	entityType() domain.EntityType
	fields() []fieldSpec
	keyFields() []string
	gate(fields map[string]string) error
	validate(fields map[string]string) []string
	importRow(ctx context.Context, store repository.Store, fields map[string]string, uploadedBy string) error
}

// Service orchestrates the import pipeline.
type Service struct {
	store     repository.Store
	importers map[domain.EntityType]entityImporter
}

// NewService wires the pipeline with one importer per supported entity type.
func NewService(store repository.Store) *Service {
	importers := map[domain.EntityType]entityImporter{}
	for _, imp := range []entityImporter{
		companyImporter{},
		activityImporter{},
		participantImporter{},
		budgetImporter{},
	} {
		importers[imp.entityType()] = imp
	}
	return &Service{store: store, importers: importers}
}

// UploadResult is returned to the client right after staging.
type UploadResult struct {
	ImportID  uuid.UUID           `json:"importId"`
	FileName  string              `json:"fileName"`
	TotalRows int                 `json:"totalRows"`
	DataType  domain.EntityType   `json:"dataType"`
	Preview   []map[string]string `json:"preview"`
}

// Stage persists the import job and every parsed row verbatim inside one
// transaction: either the whole file is staged or nothing is.
func (s *Service) Stage(ctx context.Context, entityType domain.EntityType, fileName string, rows []map[string]string, uploadedBy string) (UploadResult, error) {
	if _, ok := s.importers[entityType]; !ok {
		return UploadResult{}, fmt.Errorf("%w: %q", domain.ErrInvalidEntityType, entityType)
	}
	if len(rows) == 0 {
		return UploadResult{}, domain.ErrEmptyFile
	}

	job := domain.NewImportJob(entityType, fileName, uploadedBy, len(rows))
	staged := make([]domain.StagedRow, len(rows))
	for i, raw := range rows {
		staged[i] = domain.StagedRow{
			ID:          uuid.New(),
			ImportJobID: job.ID,
			RowNumber:   i + 1,
			RawData:     raw,
		}
	}

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.ImportJobs().Create(ctx, job); err != nil {
			return err
		}
		return tx.StagedRows().CreateBatch(ctx, staged)
	})
	if err != nil {
		return UploadResult{}, fmt.Errorf("failed to stage import: %w", err)
	}

	preview := rows
	if len(preview) > previewRowCount {
		preview = preview[:previewRowCount]
	}

	return UploadResult{
		ImportID:  job.ID,
		FileName:  fileName,
		TotalRows: len(rows),
		DataType:  entityType,
		Preview:   preview,
	}, nil
}

// RowResult reports the validation outcome of one staged row.
type RowResult struct {
	RowNumber int      `json:"row_number"`
	Valid     bool     `json:"valid"`
	Issues    []string `json:"issues,omitempty"`
}

// ValidationReport summarizes a dry run over all staged rows.
type ValidationReport struct {
	Total     int         `json:"total"`
	Valid     int         `json:"valid"`
	Invalid   int         `json:"invalid"`
	KeyFields []string    `json:"keyFields"`
	Results   []RowResult `json:"results"`
}

// Validate maps and checks every staged row without touching canonical tables
// or the job status. Safe to call any number of times before processing.
func (s *Service) Validate(ctx context.Context, importJobID uuid.UUID) (ValidationReport, error) {
	job, err := s.store.ImportJobs().GetByID(ctx, importJobID)
	if err != nil {
		return ValidationReport{}, err
	}

	imp, ok := s.importers[job.EntityType]
	if !ok {
		return ValidationReport{}, fmt.Errorf("%w: %q", domain.ErrInvalidEntityType, job.EntityType)
	}

	rows, err := s.store.StagedRows().ListByJob(ctx, importJobID)
	if err != nil {
		return ValidationReport{}, err
	}

	report := ValidationReport{
		Total:     len(rows),
		KeyFields: imp.keyFields(),
		Results:   []RowResult{},
	}

	for _, row := range rows {
		fields := mapRow(row.RawData, imp.fields())
		issues := imp.validate(fields)
		valid := len(issues) == 0
		if valid {
			report.Valid++
		} else {
			report.Invalid++
		}
		if len(report.Results) < maxValidationResults {
			report.Results = append(report.Results, RowResult{
				RowNumber: row.RowNumber,
				Valid:     valid,
				Issues:    issues,
			})
		}
	}

	return report, nil
}

// ProcessReport summarizes a processing run.
type ProcessReport struct {
	ImportID  uuid.UUID         `json:"importId"`
	Processed int               `json:"processed"`
	Failed    int               `json:"failed"`
	Errors    []domain.RowError `json:"errors"`
}

// Process imports every staged row of a job inside a single transaction. Row
// failures are contained by a savepoint and recorded; a failure outside the
// row scope rolls the whole job back and marks it failed. A job that already
// completed can never be reprocessed.
func (s *Service) Process(ctx context.Context, importJobID uuid.UUID) (ProcessReport, error) {
	report := ProcessReport{ImportID: importJobID, Errors: []domain.RowError{}}

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		job, err := tx.ImportJobs().GetByID(ctx, importJobID)
		if err != nil {
			return err
		}
		if job.Status == domain.ImportStatusCompleted {
			return domain.ErrAlreadyProcessed
		}

		imp, ok := s.importers[job.EntityType]
		if !ok {
			return fmt.Errorf("%w: %q", domain.ErrInvalidEntityType, job.EntityType)
		}

		rows, err := tx.StagedRows().ListByJob(ctx, importJobID)
		if err != nil {
			return err
		}

		processed, failed := 0, 0
		errorLog := []domain.RowError{}
		for _, row := range rows {
			fields := mapRow(row.RawData, imp.fields())
			if gateErr := imp.gate(fields); gateErr != nil {
				failed++
				errorLog = append(errorLog, domain.RowError{RowNumber: row.RowNumber, Message: gateErr.Error()})
				continue
			}

			// Savepoint per row: a constraint violation must not poison the
			// enclosing job transaction.
			rowErr := tx.WithTx(ctx, func(rowTx repository.Store) error {
				return imp.importRow(ctx, rowTx, fields, job.UploadedBy)
			})
			if rowErr != nil {
				failed++
				errorLog = append(errorLog, domain.RowError{RowNumber: row.RowNumber, Message: rowErr.Error()})
				continue
			}
			processed++
		}

		if err := tx.ImportJobs().Complete(ctx, importJobID, processed, failed, errorLog); err != nil {
			return err
		}

		report.Processed = processed
		report.Failed = failed
		if len(errorLog) > maxProcessErrors {
			errorLog = errorLog[:maxProcessErrors]
		}
		report.Errors = errorLog
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrAlreadyProcessed) {
			return report, err
		}
		// Best effort: the job transaction rolled back, but the ledger should
		// still show the failure.
		if markErr := s.store.ImportJobs().MarkFailed(ctx, importJobID, err.Error()); markErr != nil {
			log.Printf("[IMPORT] failed to mark job %s failed: %v", importJobID, markErr)
		}
		return report, fmt.Errorf("import %s failed: %w", importJobID, err)
	}

	return report, nil
}

// HistoryPage is one page of the import ledger, newest jobs first.
type HistoryPage struct {
	Jobs  []domain.ImportJob `json:"jobs"`
	Total int                `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// History lists import jobs, newest first.
func (s *Service) History(ctx context.Context, page, limit int) (HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	jobs, total, err := s.store.ImportJobs().List(ctx, limit, (page-1)*limit)
	if err != nil {
		return HistoryPage{}, err
	}

	return HistoryPage{Jobs: jobs, Total: total, Page: page, Limit: limit}, nil
}

// JobDetail is one import job plus its persisted raw row count.
type JobDetail struct {
	Job            domain.ImportJob `json:"job"`
	StagedRowCount int              `json:"stagedRowCount"`
}

// Detail fetches a single job with its staged row count.
func (s *Service) Detail(ctx context.Context, importJobID uuid.UUID) (JobDetail, error) {
	job, err := s.store.ImportJobs().GetByID(ctx, importJobID)
	if err != nil {
		return JobDetail{}, err
	}

	count, err := s.store.StagedRows().CountByJob(ctx, importJobID)
	if err != nil {
		return JobDetail{}, err
	}

	return JobDetail{Job: job, StagedRowCount: count}, nil
}

// TemplateHeaders returns the preferred column labels for an entity type's
// downloadable template.
func (s *Service) TemplateHeaders(entityType domain.EntityType) ([]string, error) {
	imp, ok := s.importers[entityType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidEntityType, entityType)
	}
	return templateHeaders(imp.fields()), nil
}
