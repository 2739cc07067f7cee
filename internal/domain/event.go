package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is a chamber activity: a fair, training session, mission, or similar.
type Event struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	EventType   string     `json:"event_type,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Location    string     `json:"location,omitempty"`
	Budget      *float64   `json:"budget,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewEvent creates an event record with a fresh identifier.
func NewEvent(title, createdBy string) Event {
	now := time.Now()
	return Event{
		ID:        uuid.New(),
		Title:     title,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
