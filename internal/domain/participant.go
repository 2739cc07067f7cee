package domain

import (
	"time"

	"github.com/google/uuid"
)

// Participant is a person attending chamber activities.
type Participant struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Organization string    `json:"organization,omitempty"`
	Role         string    `json:"role,omitempty"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewParticipant creates a participant record with a fresh identifier.
func NewParticipant(firstName, lastName, email, createdBy string) Participant {
	now := time.Now()
	return Participant{
		ID:        uuid.New(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
