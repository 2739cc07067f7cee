package repository

import (
	"context"
	"fmt"

	"github.com/ccisvision/vision/internal/domain"
)

type participantRepository struct {
	q Querier
}

func (r *participantRepository) Create(ctx context.Context, participant domain.Participant) (domain.Participant, error) {
	_, err := r.q.Exec(
		ctx,
		`INSERT INTO participants (id, first_name, last_name, email, phone, organization, role, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		participant.ID,
		participant.FirstName,
		participant.LastName,
		participant.Email,
		textOrNull(participant.Phone),
		textOrNull(participant.Organization),
		textOrNull(participant.Role),
		participant.CreatedBy,
		participant.CreatedAt,
		participant.UpdatedAt,
	)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("failed to create participant: %w", err)
	}

	return participant, nil
}
