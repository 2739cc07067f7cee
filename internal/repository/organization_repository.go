package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ccisvision/vision/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type organizationRepository struct {
	q Querier
}

const organizationColumns = `id, name, tax_id, email, phone, address, city, sector, legal_form, capital, employees, registration_date, quality_score, created_by, created_at, updated_at`

func (r *organizationRepository) Create(ctx context.Context, org domain.Organization) (domain.Organization, error) {
	org.QualityScore = org.ComputeQualityScore()

	_, err := r.q.Exec(
		ctx,
		`INSERT INTO organizations (`+organizationColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		org.ID,
		org.Name,
		textOrNull(org.TaxID),
		textOrNull(org.Email),
		textOrNull(org.Phone),
		textOrNull(org.Address),
		textOrNull(org.City),
		textOrNull(org.Sector),
		textOrNull(org.LegalForm),
		org.Capital,
		org.Employees,
		org.RegistrationDate,
		org.QualityScore,
		org.CreatedBy,
		org.CreatedAt,
		org.UpdatedAt,
	)
	if err != nil {
		return domain.Organization{}, fmt.Errorf("failed to create organization: %w", err)
	}

	return org, nil
}

func (r *organizationRepository) GetByTaxID(ctx context.Context, taxID string) (domain.Organization, error) {
	row := r.q.QueryRow(
		ctx,
		`SELECT `+organizationColumns+` FROM organizations WHERE tax_id = $1`,
		taxID,
	)

	org, err := scanOrganization(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Organization{}, fmt.Errorf("organization with tax id %s: %w", taxID, domain.ErrNotFound)
		}
		return domain.Organization{}, fmt.Errorf("failed to get organization by tax id: %w", err)
	}
	return org, nil
}

func (r *organizationRepository) List(ctx context.Context) ([]domain.Organization, error) {
	rows, err := r.q.Query(
		ctx,
		`SELECT `+organizationColumns+` FROM organizations ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []domain.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return orgs, nil
}

func (r *organizationRepository) Update(ctx context.Context, org domain.Organization) (domain.Organization, error) {
	org.QualityScore = org.ComputeQualityScore()

	tag, err := r.q.Exec(
		ctx,
		`UPDATE organizations
		 SET name = $2, tax_id = $3, email = $4, phone = $5, address = $6, city = $7, sector = $8, legal_form = $9,
		     capital = $10, employees = $11, registration_date = $12, quality_score = $13, updated_at = $14
		 WHERE id = $1`,
		org.ID,
		org.Name,
		textOrNull(org.TaxID),
		textOrNull(org.Email),
		textOrNull(org.Phone),
		textOrNull(org.Address),
		textOrNull(org.City),
		textOrNull(org.Sector),
		textOrNull(org.LegalForm),
		org.Capital,
		org.Employees,
		org.RegistrationDate,
		org.QualityScore,
		org.UpdatedAt,
	)
	if err != nil {
		return domain.Organization{}, fmt.Errorf("failed to update organization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Organization{}, fmt.Errorf("organization %s: %w", org.ID, domain.ErrNotFound)
	}

	return org, nil
}

func scanOrganization(row pgx.Row) (domain.Organization, error) {
	var (
		org              domain.Organization
		taxID            pgtype.Text
		email            pgtype.Text
		phone            pgtype.Text
		address          pgtype.Text
		city             pgtype.Text
		sector           pgtype.Text
		legalForm        pgtype.Text
		capital          pgtype.Float8
		employees        pgtype.Int4
		registrationDate pgtype.Timestamptz
	)
	if err := row.Scan(
		&org.ID,
		&org.Name,
		&taxID,
		&email,
		&phone,
		&address,
		&city,
		&sector,
		&legalForm,
		&capital,
		&employees,
		&registrationDate,
		&org.QualityScore,
		&org.CreatedBy,
		&org.CreatedAt,
		&org.UpdatedAt,
	); err != nil {
		return domain.Organization{}, err
	}

	org.TaxID = taxID.String
	org.Email = email.String
	org.Phone = phone.String
	org.Address = address.String
	org.City = city.String
	org.Sector = sector.String
	org.LegalForm = legalForm.String
	if capital.Valid {
		value := capital.Float64
		org.Capital = &value
	}
	if employees.Valid {
		value := int(employees.Int32)
		org.Employees = &value
	}
	if registrationDate.Valid {
		ts := registrationDate.Time
		org.RegistrationDate = &ts
	}

	return org, nil
}

// textOrNull maps empty strings onto SQL NULL so partial unique indexes and
// coalesce merges behave.
func textOrNull(value string) any {
	if value == "" {
		return nil
	}
	return value
}
