package repository

import (
	"context"
	"fmt"

	"github.com/ccisvision/vision/internal/domain"
)

type budgetLineRepository struct {
	q Querier
}

func (r *budgetLineRepository) Create(ctx context.Context, line domain.BudgetLine) (domain.BudgetLine, error) {
	_, err := r.q.Exec(
		ctx,
		`INSERT INTO budget_lines (id, fiscal_year, category, label, amount, spent, notes, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		line.ID,
		line.FiscalYear,
		textOrNull(line.Category),
		textOrNull(line.Label),
		line.Amount,
		line.Spent,
		textOrNull(line.Notes),
		line.CreatedBy,
		line.CreatedAt,
		line.UpdatedAt,
	)
	if err != nil {
		return domain.BudgetLine{}, fmt.Errorf("failed to create budget line: %w", err)
	}

	return line, nil
}
