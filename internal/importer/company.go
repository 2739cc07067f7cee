package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/ccisvision/vision/internal/domain"
	"github.com/ccisvision/vision/internal/normalize"
	"github.com/ccisvision/vision/internal/repository"
)

// companyImporter loads registry companies. The 15 digit tax id is the dedup
// key: a row matching an existing record merges into it instead of inserting.
type companyImporter struct{}

func (companyImporter) entityType() domain.EntityType { return domain.EntityTypeCompany }

func (companyImporter) fields() []fieldSpec {
	return []fieldSpec{
		{name: "name", aliases: []string{"raison_sociale", "nom", "denomination", "name", "societe"}},
		{name: "tax_id", aliases: []string{"ice", "identifiant_fiscal", "tax_id", "if"}},
		{name: "email", aliases: []string{"email", "e_mail", "courriel", "mail"}},
		{name: "phone", aliases: []string{"telephone", "tel", "gsm", "phone"}},
		{name: "address", aliases: []string{"adresse", "address"}},
		{name: "city", aliases: []string{"ville", "city"}},
		{name: "sector", aliases: []string{"secteur", "secteur_activite", "activite", "sector"}},
		{name: "legal_form", aliases: []string{"forme_juridique", "forme", "legal_form"}},
		{name: "capital", aliases: []string{"capital", "capital_social"}},
		{name: "employees", aliases: []string{"effectif", "employes", "employees"}},
		{name: "registration_date", aliases: []string{"date_creation", "date_immatriculation", "registration_date"}},
	}
}

func (companyImporter) keyFields() []string { return []string{"name", "tax_id"} }

func (c companyImporter) gate(fields map[string]string) error {
	if fields["name"] != "" {
		return nil
	}
	if _, ok := normalize.TaxID(fields["tax_id"]); ok {
		return nil
	}
	return errors.New("company name or tax id is required")
}

func (c companyImporter) validate(fields map[string]string) []string {
	var issues []string
	if err := c.gate(fields); err != nil {
		issues = append(issues, err.Error())
	}
	if raw := fields["tax_id"]; raw != "" {
		if _, ok := normalize.TaxID(raw); !ok {
			issues = append(issues, fmt.Sprintf("invalid tax id %q", raw))
		}
	}
	if raw := fields["email"]; raw != "" {
		if _, ok := normalize.Email(raw); !ok {
			issues = append(issues, fmt.Sprintf("invalid email %q", raw))
		}
	}
	if raw := fields["phone"]; raw != "" {
		if _, ok := normalize.Phone(raw, true); !ok {
			issues = append(issues, fmt.Sprintf("invalid phone number %q", raw))
		}
	}
	if raw := fields["registration_date"]; raw != "" {
		if _, ok := normalize.FlexibleDate(raw); !ok {
			issues = append(issues, fmt.Sprintf("unrecognized date %q", raw))
		}
	}
	return issues
}

func (c companyImporter) importRow(ctx context.Context, store repository.Store, fields map[string]string, uploadedBy string) error {
	incoming := domain.NewOrganization(normalize.OrgName(fields["name"]), uploadedBy)
	if taxID, ok := normalize.TaxID(fields["tax_id"]); ok {
		incoming.TaxID = taxID
	}
	if email, ok := normalize.Email(fields["email"]); ok {
		incoming.Email = email
	}
	if phone, ok := normalize.Phone(fields["phone"], true); ok {
		incoming.Phone = phone
	}
	incoming.Address = fields["address"]
	incoming.City = fields["city"]
	incoming.Sector = fields["sector"]
	incoming.LegalForm = normalize.OrgName(fields["legal_form"])
	if capital, ok := normalize.Numeric(fields["capital"]); ok {
		incoming.Capital = &capital
	}
	if employees, ok := normalize.Numeric(fields["employees"]); ok {
		count := int(employees)
		incoming.Employees = &count
	}
	if date, ok := normalize.FlexibleDate(fields["registration_date"]); ok {
		incoming.RegistrationDate = &date
	}

	if incoming.TaxID != "" {
		existing, err := store.Organizations().GetByTaxID(ctx, incoming.TaxID)
		if err == nil {
			merged := existing.Merge(incoming)
			_, err = store.Organizations().Update(ctx, merged)
			return err
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}

	incoming.QualityScore = incoming.ComputeQualityScore()
	_, err := store.Organizations().Create(ctx, incoming)
	return err
}
