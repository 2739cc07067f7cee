package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ccisvision/vision/internal/domain"
	"github.com/ccisvision/vision/internal/normalize"
	"github.com/ccisvision/vision/internal/repository"
)

// participantImporter loads people attending chamber activities.
type participantImporter struct{}

func (participantImporter) entityType() domain.EntityType { return domain.EntityTypeParticipant }

func (participantImporter) fields() []fieldSpec {
	return []fieldSpec{
		{name: "first_name", aliases: []string{"prenom", "first_name"}},
		{name: "last_name", aliases: []string{"nom", "last_name"}},
		{name: "email", aliases: []string{"email", "e_mail", "mail", "courriel"}},
		{name: "phone", aliases: []string{"telephone", "tel", "gsm", "phone"}},
		{name: "organization", aliases: []string{"societe", "entreprise", "organisation", "organization"}},
		{name: "role", aliases: []string{"fonction", "poste", "role"}},
	}
}

func (participantImporter) keyFields() []string { return []string{"first_name", "last_name", "email"} }

func (participantImporter) gate(fields map[string]string) error {
	var missing []string
	if fields["first_name"] == "" {
		missing = append(missing, "first name")
	}
	if fields["last_name"] == "" {
		missing = append(missing, "last name")
	}
	if _, ok := normalize.Email(fields["email"]); !ok {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return errors.New("participant requires " + strings.Join(missing, ", "))
	}
	return nil
}

func (p participantImporter) validate(fields map[string]string) []string {
	var issues []string
	if err := p.gate(fields); err != nil {
		issues = append(issues, err.Error())
	}
	if raw := fields["phone"]; raw != "" {
		if _, ok := normalize.Phone(raw, true); !ok {
			issues = append(issues, fmt.Sprintf("invalid phone number %q", raw))
		}
	}
	return issues
}

func (p participantImporter) importRow(ctx context.Context, store repository.Store, fields map[string]string, uploadedBy string) error {
	email, _ := normalize.Email(fields["email"])
	participant := domain.NewParticipant(
		strings.TrimSpace(fields["first_name"]),
		strings.TrimSpace(fields["last_name"]),
		email,
		uploadedBy,
	)
	if phone, ok := normalize.Phone(fields["phone"], true); ok {
		participant.Phone = phone
	}
	participant.Organization = normalize.OrgName(fields["organization"])
	participant.Role = fields["role"]

	_, err := store.Participants().Create(ctx, participant)
	return err
}
