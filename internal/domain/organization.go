package domain

import (
	"time"

	"github.com/google/uuid"
)

// Organization is a registered company in the chamber's registry. TaxID is the
// natural dedup key: always exactly 15 digits when present, empty otherwise.
type Organization struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	TaxID            string     `json:"tax_id,omitempty"`
	Email            string     `json:"email,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	Address          string     `json:"address,omitempty"`
	City             string     `json:"city,omitempty"`
	Sector           string     `json:"sector,omitempty"`
	LegalForm        string     `json:"legal_form,omitempty"`
	Capital          *float64   `json:"capital,omitempty"`
	Employees        *int       `json:"employees,omitempty"`
	RegistrationDate *time.Time `json:"registration_date,omitempty"`
	QualityScore     int        `json:"quality_score"`
	CreatedBy        string     `json:"created_by"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// NewOrganization creates an organization record with a fresh identifier.
func NewOrganization(name, createdBy string) Organization {
	now := time.Now()
	return Organization{
		ID:        uuid.New(),
		Name:      name,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ComputeQualityScore returns the completeness of the record as a percentage
// of its tracked profile fields that carry a value.
func (o Organization) ComputeQualityScore() int {
	fields := []string{o.Name, o.TaxID, o.Email, o.Phone, o.Address, o.City, o.Sector, o.LegalForm}
	filled := 0
	for _, f := range fields {
		if f != "" {
			filled++
		}
	}
	return filled * 100 / len(fields)
}

// Merge overlays the non-empty fields of incoming onto o, leaving existing
// values untouched where the incoming row is silent. The quality score is
// recomputed from the merged record.
func (o Organization) Merge(incoming Organization) Organization {
	merged := o
	if incoming.Name != "" {
		merged.Name = incoming.Name
	}
	if incoming.Email != "" {
		merged.Email = incoming.Email
	}
	if incoming.Phone != "" {
		merged.Phone = incoming.Phone
	}
	if incoming.Address != "" {
		merged.Address = incoming.Address
	}
	if incoming.City != "" {
		merged.City = incoming.City
	}
	if incoming.Sector != "" {
		merged.Sector = incoming.Sector
	}
	if incoming.LegalForm != "" {
		merged.LegalForm = incoming.LegalForm
	}
	if incoming.Capital != nil {
		merged.Capital = incoming.Capital
	}
	if incoming.Employees != nil {
		merged.Employees = incoming.Employees
	}
	if incoming.RegistrationDate != nil {
		merged.RegistrationDate = incoming.RegistrationDate
	}
	merged.QualityScore = merged.ComputeQualityScore()
	merged.UpdatedAt = time.Now()
	return merged
}
