package domain

import "fmt"

// EntityType identifies which importer consumes a staged file.
type EntityType string

const (
	EntityTypeCompany     EntityType = "company"
	EntityTypeActivity    EntityType = "activity"
	EntityTypeParticipant EntityType = "participant"
	EntityTypeBudget      EntityType = "budget"
)

// SupportedEntityTypes lists the importable entity kinds in display order.
func SupportedEntityTypes() []EntityType {
	return []EntityType{
		EntityTypeCompany,
		EntityTypeActivity,
		EntityTypeParticipant,
		EntityTypeBudget,
	}
}

// ParseEntityType validates a client supplied entity type value.
func ParseEntityType(raw string) (EntityType, error) {
	switch EntityType(raw) {
	case EntityTypeCompany, EntityTypeActivity, EntityTypeParticipant, EntityTypeBudget:
		return EntityType(raw), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidEntityType, raw)
}
