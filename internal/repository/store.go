// Package repository implements persistence for events and attendees.
// Two implementations share one contract: a pgx-backed PostgreSQL store for
// production and a mutex-serialized in-memory store for tests and
// database-less runs.
package repository

import (
	"context"
	"errors"

	"github.com/VBRVijay/Event-Management-Web-Application/internal/model"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrCapacityExceeded is returned when a registration would overbook an event.
var ErrCapacityExceeded = errors.New("event is fully booked")

// ErrCapacityConflict is returned when an update would lower an event's
// capacity below its current tickets_sold.
var ErrCapacityConflict = errors.New("capacity cannot be less than tickets sold")

// ErrAlreadyRegistered is returned when the same email registers twice for
// one event.
var ErrAlreadyRegistered = errors.New("email already registered for this event")

// ErrSeeded is returned when sample data is requested but events already exist.
var ErrSeeded = errors.New("data already exists")

// Store is the persistence contract for the event administration core.
//
// Implementations must make the capacity check and the attendee insert one
// atomic unit per event: two registrations racing for the last seat see
// exactly one success and one ErrCapacityExceeded. DeleteEvent removes the
// event and every attendee referencing it as a single unit, so no ordering
// against a concurrent RegisterAttendee can leave an orphaned attendee.
type Store interface {
	CreateEvent(ctx context.Context, ev model.NewEvent) (*model.Event, error)
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	ListEvents(ctx context.Context, f model.EventFilter) ([]model.Event, error)
	UpdateEvent(ctx context.Context, id string, patch model.EventPatch) (*model.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	CountEvents(ctx context.Context) (int, error)

	RegisterAttendee(ctx context.Context, eventID string, att model.NewAttendee) (*model.Attendee, error)
	GetAttendee(ctx context.Context, id string) (*model.Attendee, error)
	UpdateAttendee(ctx context.Context, id string, patch model.AttendeePatch) (*model.Attendee, error)
	CancelAttendee(ctx context.Context, id string) error
	ListAttendeesByEvent(ctx context.Context, eventID string) ([]model.Attendee, error)
	ListAllAttendees(ctx context.Context) ([]model.Attendee, error)
}
