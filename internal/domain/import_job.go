package domain

import (
	"time"

	"github.com/google/uuid"
)

// ImportStatus tracks the lifecycle of an import job.
type ImportStatus string

const (
	ImportStatusPending   ImportStatus = "pending"
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

// RowError records a single row failure inside an import job.
type RowError struct {
	RowNumber int    `json:"row_number"`
	Message   string `json:"error_message"`
}

// ImportJob is the ledger entry for one uploaded file. A job is created as
// pending at upload time and transitions to completed or failed exactly once.
type ImportJob struct {
	ID             uuid.UUID    `json:"id"`
	FileName       string       `json:"file_name"`
	EntityType     EntityType   `json:"entity_type"`
	TotalRows      int          `json:"total_rows"`
	UploadedBy     string       `json:"uploaded_by"`
	Status         ImportStatus `json:"status"`
	RowsImported   int          `json:"rows_imported"`
	RowsWithErrors int          `json:"rows_with_errors"`
	ErrorLog       []RowError   `json:"error_log"`
	CreatedAt      time.Time    `json:"created_at"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty"`
}

// NewImportJob creates a pending import job for an uploaded file.
func NewImportJob(entityType EntityType, fileName, uploadedBy string, totalRows int) ImportJob {
	return ImportJob{
		ID:         uuid.New(),
		FileName:   fileName,
		EntityType: entityType,
		TotalRows:  totalRows,
		UploadedBy: uploadedBy,
		Status:     ImportStatusPending,
		ErrorLog:   []RowError{},
		CreatedAt:  time.Now(),
	}
}

// StagedRow stores one spreadsheet row verbatim, before any interpretation.
// Rows are written once at upload time and only ever read afterwards.
type StagedRow struct {
	ID          uuid.UUID         `json:"id"`
	ImportJobID uuid.UUID         `json:"import_job_id"`
	RowNumber   int               `json:"row_number"`
	RawData     map[string]string `json:"raw_data"`
}
