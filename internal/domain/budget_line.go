package domain

import (
	"time"

	"github.com/google/uuid"
)

// BudgetLine is one allocation row of a fiscal year budget.
type BudgetLine struct {
	ID         uuid.UUID `json:"id"`
	FiscalYear int       `json:"fiscal_year"`
	Category   string    `json:"category,omitempty"`
	Label      string    `json:"label,omitempty"`
	Amount     float64   `json:"amount"`
	Spent      *float64  `json:"spent,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewBudgetLine creates a budget line record with a fresh identifier.
func NewBudgetLine(fiscalYear int, amount float64, createdBy string) BudgetLine {
	now := time.Now()
	return BudgetLine{
		ID:         uuid.New(),
		FiscalYear: fiscalYear,
		Amount:     amount,
		CreatedBy:  createdBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
