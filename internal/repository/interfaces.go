package repository

import (
	"context"

	"github.com/ccisvision/vision/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, letting the
// same repository code run against the pool or inside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Store bundles the repositories behind one transactional boundary. WithTx
// opens a transaction on first use and a savepoint when nested, so row level
// work inside an import can fail without aborting the surrounding job.
type Store interface {
	ImportJobs() ImportJobRepository
	StagedRows() StagedRowRepository
	Organizations() OrganizationRepository
	Events() EventRepository
	Participants() ParticipantRepository
	BudgetLines() BudgetLineRepository
	WithTx(ctx context.Context, fn func(Store) error) error
}

// ImportJobRepository persists the import ledger.
type ImportJobRepository interface {
	Create(ctx context.Context, job domain.ImportJob) (domain.ImportJob, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.ImportJob, error)
	List(ctx context.Context, limit, offset int) ([]domain.ImportJob, int, error)
	Complete(ctx context.Context, id uuid.UUID, imported, failed int, errorLog []domain.RowError) error
	MarkFailed(ctx context.Context, id uuid.UUID, message string) error
}

// StagedRowRepository persists raw spreadsheet rows.
type StagedRowRepository interface {
	CreateBatch(ctx context.Context, rows []domain.StagedRow) error
	ListByJob(ctx context.Context, importJobID uuid.UUID) ([]domain.StagedRow, error)
	CountByJob(ctx context.Context, importJobID uuid.UUID) (int, error)
}

// OrganizationRepository persists registry companies.
type OrganizationRepository interface {
	Create(ctx context.Context, org domain.Organization) (domain.Organization, error)
	GetByTaxID(ctx context.Context, taxID string) (domain.Organization, error)
	List(ctx context.Context) ([]domain.Organization, error)
	Update(ctx context.Context, org domain.Organization) (domain.Organization, error)
}

// EventRepository persists chamber activities.
type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
}

// ParticipantRepository persists activity participants.
type ParticipantRepository interface {
	Create(ctx context.Context, participant domain.Participant) (domain.Participant, error)
}

// BudgetLineRepository persists budget allocations.
type BudgetLineRepository interface {
	Create(ctx context.Context, line domain.BudgetLine) (domain.BudgetLine, error)
}
