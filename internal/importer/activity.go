package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/ccisvision/vision/internal/domain"
	"github.com/ccisvision/vision/internal/normalize"
	"github.com/ccisvision/vision/internal/repository"
)

// activityImporter loads chamber activities (fairs, trainings, missions).
type activityImporter struct{}

func (activityImporter) entityType() domain.EntityType { return domain.EntityTypeActivity }

func (activityImporter) fields() []fieldSpec {
	return []fieldSpec{
		{name: "title", aliases: []string{"titre", "intitule", "libelle", "title"}},
		{name: "event_type", aliases: []string{"type", "type_activite", "event_type"}},
		{name: "start_date", aliases: []string{"date_debut", "date", "start_date"}},
		{name: "end_date", aliases: []string{"date_fin", "end_date"}},
		{name: "location", aliases: []string{"lieu", "location", "ville"}},
		{name: "budget", aliases: []string{"budget", "montant", "budget_prevu"}},
		{name: "description", aliases: []string{"description", "descriptif"}},
	}
}

func (activityImporter) keyFields() []string { return []string{"title", "start_date"} }

func (activityImporter) gate(fields map[string]string) error {
	if fields["title"] == "" {
		return errors.New("activity title is required")
	}
	return nil
}

func (a activityImporter) validate(fields map[string]string) []string {
	var issues []string
	if err := a.gate(fields); err != nil {
		issues = append(issues, err.Error())
	}
	for _, field := range []string{"start_date", "end_date"} {
		if raw := fields[field]; raw != "" {
			if _, ok := normalize.FlexibleDate(raw); !ok {
				issues = append(issues, fmt.Sprintf("unrecognized date %q", raw))
			}
		}
	}
	if raw := fields["budget"]; raw != "" {
		if _, ok := normalize.Numeric(raw); !ok {
			issues = append(issues, fmt.Sprintf("invalid amount %q", raw))
		}
	}
	return issues
}

func (a activityImporter) importRow(ctx context.Context, store repository.Store, fields map[string]string, uploadedBy string) error {
	event := domain.NewEvent(fields["title"], uploadedBy)
	event.EventType = fields["event_type"]
	event.Location = fields["location"]
	event.Description = fields["description"]
	if start, ok := normalize.FlexibleDate(fields["start_date"]); ok {
		event.StartDate = &start
	}
	if end, ok := normalize.FlexibleDate(fields["end_date"]); ok {
		event.EndDate = &end
	}
	if budget, ok := normalize.Numeric(fields["budget"]); ok {
		event.Budget = &budget
	}

	_, err := store.Events().Create(ctx, event)
	return err
}
