package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/VBRVijay/Event-Management-Web-Application/internal/model"
	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store. A single mutex serializes every mutation,
// which makes the capacity check and the attendee insert trivially atomic —
// the same guarantee the PostgreSQL store gets from row-level locks. Reads
// return copies, so callers hold immutable snapshots.
type MemoryStore struct {
	mu        sync.RWMutex
	events    map[string]*model.Event
	attendees map[string]*model.Attendee
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events:    make(map[string]*model.Event),
		attendees: make(map[string]*model.Attendee),
	}
}

func copyEvent(e *model.Event) *model.Event {
	c := *e
	c.Refresh()
	return &c
}

func (s *MemoryStore) copyAttendee(a *model.Attendee) *model.Attendee {
	c := *a
	if ev, ok := s.events[a.EventID]; ok {
		c.EventTitle = ev.Title
	}
	return &c
}

// CreateEvent inserts a new event with zero tickets sold.
func (s *MemoryStore) CreateEvent(ctx context.Context, ev model.NewEvent) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &model.Event{
		ID:          uuid.New().String(),
		Title:       ev.Title,
		Description: ev.Description,
		Date:        ev.Date,
		Location:    ev.Location,
		Capacity:    ev.Capacity,
		TicketsSold: 0,
		CreatedAt:   time.Now().UTC(),
	}
	s.events[e.ID] = e
	return copyEvent(e), nil
}

// GetEvent returns a single event or ErrNotFound.
func (s *MemoryStore) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyEvent(e), nil
}

// ListEvents returns events matching the filter, ordered by date ascending.
func (s *MemoryStore) ListEvents(ctx context.Context, f model.EventFilter) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	title := strings.ToLower(strings.TrimSpace(f.Title))
	var events []model.Event
	for _, e := range s.events {
		if title != "" && !strings.Contains(strings.ToLower(e.Title), title) {
			continue
		}
		if f.Date != nil && !sameDay(e.Date, *f.Date) {
			continue
		}
		events = append(events, *copyEvent(e))
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Date.Equal(events[j].Date) {
			return events[i].ID < events[j].ID
		}
		return events[i].Date.Before(events[j].Date)
	})
	return events, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// UpdateEvent applies a partial update. Lowering capacity below the current
// tickets_sold fails with ErrCapacityConflict; holding the write lock for the
// whole check-then-write keeps the guard atomic against concurrent
// registrations.
func (s *MemoryStore) UpdateEvent(ctx context.Context, id string, patch model.EventPatch) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Capacity != nil && *patch.Capacity < e.TicketsSold {
		return nil, ErrCapacityConflict
	}
	if patch.Title != nil {
		e.Title = *patch.Title
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.Date != nil {
		e.Date = *patch.Date
	}
	if patch.Location != nil {
		e.Location = *patch.Location
	}
	if patch.Capacity != nil {
		e.Capacity = *patch.Capacity
	}
	return copyEvent(e), nil
}

// DeleteEvent removes the event and cascades to every attendee referencing
// it, all under one critical section.
func (s *MemoryStore) DeleteEvent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return ErrNotFound
	}
	delete(s.events, id)
	for aid, a := range s.attendees {
		if a.EventID == id {
			delete(s.attendees, aid)
		}
	}
	return nil
}

// CountEvents returns the number of stored events.
func (s *MemoryStore) CountEvents(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events), nil
}

// RegisterAttendee performs the atomic check-then-insert: event lookup,
// capacity check, duplicate-email check, attendee insert, and counter
// increment all happen under the write lock.
func (s *MemoryStore) RegisterAttendee(ctx context.Context, eventID string, att model.NewAttendee) (*model.Attendee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[eventID]
	if !ok {
		return nil, ErrNotFound
	}
	if e.IsFull() {
		return nil, ErrCapacityExceeded
	}
	for _, existing := range s.attendees {
		if existing.EventID == eventID && existing.Email == att.Email {
			return nil, ErrAlreadyRegistered
		}
	}

	a := &model.Attendee{
		ID:               uuid.New().String(),
		EventID:          eventID,
		Name:             att.Name,
		Email:            att.Email,
		Phone:            att.Phone,
		RegistrationDate: time.Now().UTC(),
	}
	s.attendees[a.ID] = a
	e.TicketsSold++
	return s.copyAttendee(a), nil
}

// GetAttendee returns a single attendee or ErrNotFound.
func (s *MemoryStore) GetAttendee(ctx context.Context, id string) (*model.Attendee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.attendees[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.copyAttendee(a), nil
}

// UpdateAttendee edits contact fields only; the owning event never changes.
func (s *MemoryStore) UpdateAttendee(ctx context.Context, id string, patch model.AttendeePatch) (*model.Attendee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.attendees[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Email != nil && *patch.Email != a.Email {
		for _, existing := range s.attendees {
			if existing.EventID == a.EventID && existing.Email == *patch.Email {
				return nil, ErrAlreadyRegistered
			}
		}
	}
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Email != nil {
		a.Email = *patch.Email
	}
	if patch.Phone != nil {
		a.Phone = *patch.Phone
	}
	return s.copyAttendee(a), nil
}

// CancelAttendee removes the attendee and decrements the owning event's
// counter in the same critical section.
func (s *MemoryStore) CancelAttendee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.attendees[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.attendees, id)
	if e, ok := s.events[a.EventID]; ok {
		e.TicketsSold--
	}
	return nil
}

// ListAttendeesByEvent returns the event's attendees, newest registration
// first. The event must exist.
func (s *MemoryStore) ListAttendeesByEvent(ctx context.Context, eventID string) ([]model.Attendee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.events[eventID]; !ok {
		return nil, ErrNotFound
	}
	var attendees []model.Attendee
	for _, a := range s.attendees {
		if a.EventID == eventID {
			attendees = append(attendees, *s.copyAttendee(a))
		}
	}
	sortAttendees(attendees)
	return attendees, nil
}

// ListAllAttendees returns every attendee across all events, annotated with
// its event's title, newest registration first.
func (s *MemoryStore) ListAllAttendees(ctx context.Context) ([]model.Attendee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var attendees []model.Attendee
	for _, a := range s.attendees {
		attendees = append(attendees, *s.copyAttendee(a))
	}
	sortAttendees(attendees)
	return attendees, nil
}

func sortAttendees(attendees []model.Attendee) {
	sort.Slice(attendees, func(i, j int) bool {
		if attendees[i].RegistrationDate.Equal(attendees[j].RegistrationDate) {
			return attendees[i].ID < attendees[j].ID
		}
		return attendees[i].RegistrationDate.After(attendees[j].RegistrationDate)
	})
}
