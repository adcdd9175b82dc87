package service

import (
	"context"
	"time"

	"github.com/VBRVijay/Event-Management-Web-Application/internal/model"
	"github.com/VBRVijay/Event-Management-Web-Application/internal/repository"
)

// SeedSampleData inserts a small demo fixture of events and attendees.
// It refuses to run on a non-empty store.
func (s *EventService) SeedSampleData(ctx context.Context) error {
	n, err := s.store.CountEvents(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return repository.ErrSeeded
	}

	base := time.Now().UTC().AddDate(0, 1, 0).Truncate(24 * time.Hour)
	samples := []struct {
		event     model.NewEvent
		attendees []model.NewAttendee
	}{
		{
			event: model.NewEvent{
				Title:       "Tech Conference 2026",
				Description: "Annual developer conference with talks and workshops.",
				Date:        base,
				Location:    "Convention Center, Hall A",
				Capacity:    250,
			},
			attendees: []model.NewAttendee{
				{Name: "Alice Morgan", Email: "alice.morgan@example.com", Phone: "555-0101"},
				{Name: "Ben Carter", Email: "ben.carter@example.com"},
			},
		},
		{
			event: model.NewEvent{
				Title:       "Jazz Night",
				Description: "An evening of live jazz downtown.",
				Date:        base.AddDate(0, 0, 14),
				Location:    "Blue Note Club",
				Capacity:    80,
			},
			attendees: []model.NewAttendee{
				{Name: "Carla Diaz", Email: "carla.diaz@example.com", Phone: "555-0102"},
			},
		},
		{
			event: model.NewEvent{
				Title:       "Startup Pitch Evening",
				Description: "Local founders pitch to a panel of investors.",
				Date:        base.AddDate(0, 0, 30),
				Location:    "Innovation Hub",
				Capacity:    120,
			},
		},
	}

	for _, sample := range samples {
		ev, err := s.store.CreateEvent(ctx, sample.event)
		if err != nil {
			return err
		}
		for _, att := range sample.attendees {
			if _, err := s.store.RegisterAttendee(ctx, ev.ID, att); err != nil {
				return err
			}
		}
	}
	return nil
}
