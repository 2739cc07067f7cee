package repository

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxStore implements Store on top of a pgx pool or transaction.
type pgxStore struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
	q    Querier
}

// NewStore wires a Store backed by pgxpool.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgxStore{pool: pool, q: pool}
}

func (s *pgxStore) ImportJobs() ImportJobRepository       { return &importJobRepository{q: s.q} }
func (s *pgxStore) StagedRows() StagedRowRepository       { return &stagedRowRepository{q: s.q} }
func (s *pgxStore) Organizations() OrganizationRepository { return &organizationRepository{q: s.q} }
func (s *pgxStore) Events() EventRepository               { return &eventRepository{q: s.q} }
func (s *pgxStore) Participants() ParticipantRepository   { return &participantRepository{q: s.q} }
func (s *pgxStore) BudgetLines() BudgetLineRepository     { return &budgetLineRepository{q: s.q} }

// WithTx executes fn within a database transaction. Nested calls open a
// savepoint on the enclosing transaction, so a failing inner scope rolls back
// only its own statements.
func (s *pgxStore) WithTx(ctx context.Context, fn func(Store) error) error {
	var (
		tx  pgx.Tx
		err error
	)
	if s.tx != nil {
		tx, err = s.tx.Begin(ctx)
	} else {
		tx, err = s.pool.Begin(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Printf("Failed to rollback transaction: %v", rbErr)
			}
			panic(p)
		}
	}()

	scoped := &pgxStore{tx: tx, q: tx}
	if err := fn(scoped); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
