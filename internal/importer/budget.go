package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/ccisvision/vision/internal/domain"
	"github.com/ccisvision/vision/internal/normalize"
	"github.com/ccisvision/vision/internal/repository"
)

// budgetImporter loads fiscal year budget allocations.
type budgetImporter struct{}

func (budgetImporter) entityType() domain.EntityType { return domain.EntityTypeBudget }

func (budgetImporter) fields() []fieldSpec {
	return []fieldSpec{
		{name: "fiscal_year", aliases: []string{"annee", "exercice", "fiscal_year", "year"}},
		{name: "category", aliases: []string{"categorie", "rubrique", "category"}},
		{name: "label", aliases: []string{"libelle", "designation", "label"}},
		{name: "amount", aliases: []string{"montant", "amount", "budget"}},
		{name: "spent", aliases: []string{"realise", "depense", "spent"}},
		{name: "notes", aliases: []string{"observations", "commentaire", "notes"}},
	}
}

func (budgetImporter) keyFields() []string { return []string{"fiscal_year", "label", "amount"} }

func (budgetImporter) gate(fields map[string]string) error {
	if _, ok := parseFiscalYear(fields["fiscal_year"]); !ok {
		return errors.New("budget line requires a fiscal year")
	}
	if _, ok := normalize.Numeric(fields["amount"]); !ok {
		return errors.New("budget line requires an amount")
	}
	return nil
}

func (b budgetImporter) validate(fields map[string]string) []string {
	var issues []string
	if err := b.gate(fields); err != nil {
		issues = append(issues, err.Error())
	}
	if raw := fields["spent"]; raw != "" {
		if _, ok := normalize.Numeric(raw); !ok {
			issues = append(issues, fmt.Sprintf("invalid amount %q", raw))
		}
	}
	return issues
}

func (b budgetImporter) importRow(ctx context.Context, store repository.Store, fields map[string]string, uploadedBy string) error {
	fiscalYear, _ := parseFiscalYear(fields["fiscal_year"])
	amount, _ := normalize.Numeric(fields["amount"])

	line := domain.NewBudgetLine(fiscalYear, amount, uploadedBy)
	line.Category = fields["category"]
	line.Label = fields["label"]
	line.Notes = fields["notes"]
	if spent, ok := normalize.Numeric(fields["spent"]); ok {
		line.Spent = &spent
	}

	_, err := store.BudgetLines().Create(ctx, line)
	return err
}

// parseFiscalYear accepts plain years within a plausible accounting range.
func parseFiscalYear(raw string) (int, bool) {
	value, ok := normalize.Numeric(raw)
	if !ok {
		return 0, false
	}
	year := int(value)
	if year < 1990 || year > 2100 {
		return 0, false
	}
	return year, true
}
