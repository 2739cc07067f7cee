package importer

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ccisvision/vision/internal/domain"
	"github.com/ccisvision/vision/internal/repository"

	"github.com/google/uuid"
)

// stubStore is an in-memory repository.Store. WithTx snapshots all state and
// restores it when the callback errors, which mirrors the transaction and
// savepoint semantics of the real store closely enough for the pipeline tests.
type stubStore struct {
	jobs         map[uuid.UUID]domain.ImportJob
	staged       map[uuid.UUID][]domain.StagedRow
	orgs         map[string]domain.Organization
	events       []domain.Event
	participants []domain.Participant
	budgetLines  []domain.BudgetLine

	failStaging        bool
	failOrgCreateTaxID string
	failComplete       bool
}

func newStubStore() *stubStore {
	return &stubStore{
		jobs:   map[uuid.UUID]domain.ImportJob{},
		staged: map[uuid.UUID][]domain.StagedRow{},
		orgs:   map[string]domain.Organization{},
	}
}

func (s *stubStore) ImportJobs() repository.ImportJobRepository       { return stubJobs{s} }
func (s *stubStore) StagedRows() repository.StagedRowRepository       { return stubRows{s} }
func (s *stubStore) Organizations() repository.OrganizationRepository { return stubOrgs{s} }
func (s *stubStore) Events() repository.EventRepository               { return stubEvents{s} }
func (s *stubStore) Participants() repository.ParticipantRepository   { return stubParticipants{s} }
func (s *stubStore) BudgetLines() repository.BudgetLineRepository     { return stubBudgetLines{s} }

func (s *stubStore) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	saved := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(saved)
		return err
	}
	return nil
}

type stubSnapshot struct {
	jobs         map[uuid.UUID]domain.ImportJob
	staged       map[uuid.UUID][]domain.StagedRow
	orgs         map[string]domain.Organization
	events       []domain.Event
	participants []domain.Participant
	budgetLines  []domain.BudgetLine
}

func (s *stubStore) snapshot() stubSnapshot {
	snap := stubSnapshot{
		jobs:         make(map[uuid.UUID]domain.ImportJob, len(s.jobs)),
		staged:       make(map[uuid.UUID][]domain.StagedRow, len(s.staged)),
		orgs:         make(map[string]domain.Organization, len(s.orgs)),
		events:       append([]domain.Event(nil), s.events...),
		participants: append([]domain.Participant(nil), s.participants...),
		budgetLines:  append([]domain.BudgetLine(nil), s.budgetLines...),
	}
	for id, job := range s.jobs {
		snap.jobs[id] = job
	}
	for id, rows := range s.staged {
		snap.staged[id] = append([]domain.StagedRow(nil), rows...)
	}
	for taxID, org := range s.orgs {
		snap.orgs[taxID] = org
	}
	return snap
}

func (s *stubStore) restore(snap stubSnapshot) {
	s.jobs = snap.jobs
	s.staged = snap.staged
	s.orgs = snap.orgs
	s.events = snap.events
	s.participants = snap.participants
	s.budgetLines = snap.budgetLines
}

type stubJobs struct{ s *stubStore }

func (r stubJobs) Create(ctx context.Context, job domain.ImportJob) (domain.ImportJob, error) {
	r.s.jobs[job.ID] = job
	return job, nil
}

func (r stubJobs) GetByID(ctx context.Context, id uuid.UUID) (domain.ImportJob, error) {
	job, ok := r.s.jobs[id]
	if !ok {
		return domain.ImportJob{}, fmt.Errorf("import job %s: %w", id, domain.ErrNotFound)
	}
	return job, nil
}

func (r stubJobs) List(ctx context.Context, limit, offset int) ([]domain.ImportJob, int, error) {
	all := make([]domain.ImportJob, 0, len(r.s.jobs))
	for _, job := range r.s.jobs {
		all = append(all, job)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	if offset >= total {
		return []domain.ImportJob{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r stubJobs) Complete(ctx context.Context, id uuid.UUID, imported, failed int, errorLog []domain.RowError) error {
	if r.s.failComplete {
		return errors.New("simulated ledger failure")
	}
	job, ok := r.s.jobs[id]
	if !ok {
		return domain.ErrNotFound
	}
	job.Status = domain.ImportStatusCompleted
	job.RowsImported = imported
	job.RowsWithErrors = failed
	job.ErrorLog = errorLog
	r.s.jobs[id] = job
	return nil
}

func (r stubJobs) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	job, ok := r.s.jobs[id]
	if !ok {
		return domain.ErrNotFound
	}
	if job.Status == domain.ImportStatusCompleted {
		return nil
	}
	job.Status = domain.ImportStatusFailed
	job.ErrorLog = append(job.ErrorLog, domain.RowError{Message: message})
	r.s.jobs[id] = job
	return nil
}

type stubRows struct{ s *stubStore }

func (r stubRows) CreateBatch(ctx context.Context, rows []domain.StagedRow) error {
	if r.s.failStaging {
		return errors.New("simulated staging failure")
	}
	for _, row := range rows {
		r.s.staged[row.ImportJobID] = append(r.s.staged[row.ImportJobID], row)
	}
	return nil
}

func (r stubRows) ListByJob(ctx context.Context, importJobID uuid.UUID) ([]domain.StagedRow, error) {
	rows := append([]domain.StagedRow(nil), r.s.staged[importJobID]...)
	sort.Slice(rows, func(i, j int) bool { return rows[i].RowNumber < rows[j].RowNumber })
	return rows, nil
}

func (r stubRows) CountByJob(ctx context.Context, importJobID uuid.UUID) (int, error) {
	return len(r.s.staged[importJobID]), nil
}

type stubOrgs struct{ s *stubStore }

func (r stubOrgs) Create(ctx context.Context, org domain.Organization) (domain.Organization, error) {
	if r.s.failOrgCreateTaxID != "" && org.TaxID == r.s.failOrgCreateTaxID {
		return domain.Organization{}, errors.New("simulated constraint violation")
	}
	key := org.TaxID
	if key == "" {
		key = org.ID.String()
	}
	r.s.orgs[key] = org
	return org, nil
}

func (r stubOrgs) GetByTaxID(ctx context.Context, taxID string) (domain.Organization, error) {
	org, ok := r.s.orgs[taxID]
	if !ok {
		return domain.Organization{}, fmt.Errorf("organization with tax id %s: %w", taxID, domain.ErrNotFound)
	}
	return org, nil
}

func (r stubOrgs) List(ctx context.Context) ([]domain.Organization, error) {
	orgs := make([]domain.Organization, 0, len(r.s.orgs))
	for _, org := range r.s.orgs {
		orgs = append(orgs, org)
	}
	sort.Slice(orgs, func(i, j int) bool { return orgs[i].Name < orgs[j].Name })
	return orgs, nil
}

func (r stubOrgs) Update(ctx context.Context, org domain.Organization) (domain.Organization, error) {
	key := org.TaxID
	if key == "" {
		key = org.ID.String()
	}
	if _, ok := r.s.orgs[key]; !ok {
		return domain.Organization{}, domain.ErrNotFound
	}
	r.s.orgs[key] = org
	return org, nil
}

type stubEvents struct{ s *stubStore }

func (r stubEvents) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	r.s.events = append(r.s.events, event)
	return event, nil
}

type stubParticipants struct{ s *stubStore }

func (r stubParticipants) Create(ctx context.Context, participant domain.Participant) (domain.Participant, error) {
	r.s.participants = append(r.s.participants, participant)
	return participant, nil
}

type stubBudgetLines struct{ s *stubStore }

func (r stubBudgetLines) Create(ctx context.Context, line domain.BudgetLine) (domain.BudgetLine, error) {
	r.s.budgetLines = append(r.s.budgetLines, line)
	return line, nil
}
