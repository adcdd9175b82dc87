package service

import (
	"context"
	"errors"
	"strings"

	"github.com/VBRVijay/Event-Management-Web-Application/internal/model"
	"github.com/VBRVijay/Event-Management-Web-Application/internal/repository"
)

const reasonCapacityExceeded = "capacity exceeded"

// ImportAttendees registers a batch of records against one event, in input
// order. Invalid rows are skipped and reported, never fatal. Once the event
// runs out of seats every remaining row is failed with "capacity exceeded"
// without attempting it — validation failures are per-row, capacity is
// fail-fast. Each successful row is committed independently, so a stopped or
// partially failed import never leaves inconsistent state.
func (s *EventService) ImportAttendees(ctx context.Context, eventID string, records []model.ImportRecord) (*model.ImportSummary, error) {
	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}

	summary := &model.ImportSummary{Errors: []model.RowError{}}
	capacityHit := false
	for i, rec := range records {
		row := i + 1
		if capacityHit {
			summary.Failed++
			summary.Errors = append(summary.Errors, model.RowError{Row: row, Reason: reasonCapacityExceeded})
			continue
		}

		name := strings.TrimSpace(rec.Name)
		if name == "" {
			summary.Skipped++
			summary.Errors = append(summary.Errors, model.RowError{Row: row, Reason: "name is required"})
			continue
		}
		email, err := normalizeEmail(rec.Email)
		if err != nil {
			summary.Skipped++
			summary.Errors = append(summary.Errors, model.RowError{Row: row, Reason: err.Error()})
			continue
		}

		_, err = s.store.RegisterAttendee(ctx, eventID, model.NewAttendee{
			Name:  name,
			Email: email,
			Phone: strings.TrimSpace(rec.Phone),
		})
		switch {
		case err == nil:
			summary.Imported++
		case errors.Is(err, repository.ErrCapacityExceeded):
			capacityHit = true
			summary.Failed++
			summary.Errors = append(summary.Errors, model.RowError{Row: row, Reason: reasonCapacityExceeded})
		case errors.Is(err, repository.ErrAlreadyRegistered):
			summary.Failed++
			summary.Errors = append(summary.Errors, model.RowError{Row: row, Reason: err.Error()})
		case errors.Is(err, repository.ErrNotFound):
			// Event deleted mid-import; the batch cannot continue.
			return nil, err
		default:
			return nil, err
		}
	}
	return summary, nil
}
