// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/VBRVijay/Event-Management-Web-Application/internal/model"
	"github.com/VBRVijay/Event-Management-Web-Application/internal/repository"
)

// maxCapacity bounds event capacity to keep fat-finger input out of reports.
const maxCapacity = 100_000

// ValidationError marks malformed caller input. Handlers map it to 400.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// dateLayouts are the accepted event date formats, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, validationf("unparsable date %q", s)
}

func normalizeEmail(s string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(s))
	if email == "" {
		return "", validationf("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", validationf("email %q is not a valid email address", email)
	}
	return email, nil
}

// EventService orchestrates all event administration operations over a Store.
type EventService struct {
	store repository.Store
}

// NewEventService constructs an EventService.
func NewEventService(store repository.Store) *EventService {
	return &EventService{store: store}
}

// CreateEvent validates the request and delegates to the store.
func (s *EventService) CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, validationf("title is required")
	}
	req.Location = strings.TrimSpace(req.Location)
	if req.Location == "" {
		return nil, validationf("location is required")
	}
	if req.Capacity < 0 {
		return nil, validationf("capacity must be a non-negative integer")
	}
	if req.Capacity > maxCapacity {
		return nil, validationf("capacity cannot exceed %d", maxCapacity)
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	return s.store.CreateEvent(ctx, model.NewEvent{
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		Date:        date,
		Location:    req.Location,
		Capacity:    req.Capacity,
	})
}

// GetEvent returns a single event by ID.
func (s *EventService) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	if id == "" {
		return nil, validationf("event id is required")
	}
	return s.store.GetEvent(ctx, id)
}

// UpdateEvent validates the provided fields and applies a partial update.
// Lowering capacity below tickets_sold surfaces ErrCapacityConflict from the
// store, where the check is atomic against concurrent registrations.
func (s *EventService) UpdateEvent(ctx context.Context, id string, req model.UpdateEventRequest) (*model.Event, error) {
	if id == "" {
		return nil, validationf("event id is required")
	}
	patch := model.EventPatch{
		Description: req.Description,
		Location:    req.Location,
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, validationf("title cannot be empty")
		}
		patch.Title = &title
	}
	if req.Capacity != nil {
		if *req.Capacity < 0 {
			return nil, validationf("capacity must be a non-negative integer")
		}
		if *req.Capacity > maxCapacity {
			return nil, validationf("capacity cannot exceed %d", maxCapacity)
		}
		patch.Capacity = req.Capacity
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		patch.Date = &date
	}
	return s.store.UpdateEvent(ctx, id, patch)
}

// DeleteEvent removes the event and, by cascade, all of its attendees.
func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	if id == "" {
		return validationf("event id is required")
	}
	return s.store.DeleteEvent(ctx, id)
}

// SearchEvents lists events filtered by an optional case-insensitive title
// substring and an optional YYYY-MM-DD date. Both filters combine with AND;
// an empty result is a valid answer, not an error.
func (s *EventService) SearchEvents(ctx context.Context, title, date string) ([]model.Event, error) {
	filter := model.EventFilter{Title: strings.TrimSpace(title)}
	if strings.TrimSpace(date) != "" {
		d, err := time.Parse("2006-01-02", strings.TrimSpace(date))
		if err != nil {
			return nil, validationf("invalid date format, use YYYY-MM-DD")
		}
		filter.Date = &d
	}
	return s.store.ListEvents(ctx, filter)
}

// Register validates the registration request and delegates the
// concurrency-safe booking to the store.
func (s *EventService) Register(ctx context.Context, req model.RegisterRequest) (*model.Attendee, error) {
	if req.EventID == "" {
		return nil, validationf("event_id is required")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, validationf("name is required")
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	return s.store.RegisterAttendee(ctx, req.EventID, model.NewAttendee{
		Name:  req.Name,
		Email: email,
		Phone: strings.TrimSpace(req.Phone),
	})
}

// UpdateAttendee edits an attendee's contact fields. Moving an attendee to a
// different event is unsupported.
func (s *EventService) UpdateAttendee(ctx context.Context, id string, req model.UpdateAttendeeRequest) (*model.Attendee, error) {
	if id == "" {
		return nil, validationf("attendee id is required")
	}
	patch := model.AttendeePatch{Phone: req.Phone}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validationf("name cannot be empty")
		}
		patch.Name = &name
	}
	if req.Email != nil {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		patch.Email = &email
	}
	return s.store.UpdateAttendee(ctx, id, patch)
}

// Cancel removes a registration and frees its seat.
func (s *EventService) Cancel(ctx context.Context, id string) error {
	if id == "" {
		return validationf("attendee id is required")
	}
	return s.store.CancelAttendee(ctx, id)
}

// AttendeesByEvent lists an event's attendees, newest first.
func (s *EventService) AttendeesByEvent(ctx context.Context, eventID string) ([]model.Attendee, error) {
	if eventID == "" {
		return nil, validationf("event id is required")
	}
	return s.store.ListAttendeesByEvent(ctx, eventID)
}

// AllAttendees lists every attendee across all events, each annotated with
// its event's title.
func (s *EventService) AllAttendees(ctx context.Context) ([]model.Attendee, error) {
	return s.store.ListAllAttendees(ctx)
}
