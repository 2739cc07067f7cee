package repository

import (
	"context"
	"fmt"

	"github.com/ccisvision/vision/internal/domain"
)

type eventRepository struct {
	q Querier
}

func (r *eventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	_, err := r.q.Exec(
		ctx,
		`INSERT INTO events (id, title, event_type, start_date, end_date, location, budget, description, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		event.ID,
		event.Title,
		textOrNull(event.EventType),
		event.StartDate,
		event.EndDate,
		textOrNull(event.Location),
		event.Budget,
		textOrNull(event.Description),
		event.CreatedBy,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return domain.Event{}, fmt.Errorf("failed to create event: %w", err)
	}

	return event, nil
}
