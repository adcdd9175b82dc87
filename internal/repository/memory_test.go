package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/VBRVijay/Event-Management-Web-Application/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCreateEvent(t *testing.T, s Store, title string, capacity int) *model.Event {
	t.Helper()
	ev, err := s.CreateEvent(context.Background(), model.NewEvent{
		Title:    title,
		Date:     time.Date(2026, 10, 1, 19, 0, 0, 0, time.UTC),
		Location: "Main Hall",
		Capacity: capacity,
	})
	require.NoError(t, err)
	return ev
}

func TestCreateGetRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	created, err := s.CreateEvent(ctx, model.NewEvent{
		Title:       "Jazz Night",
		Description: "Live jazz downtown",
		Date:        time.Date(2026, 11, 20, 20, 0, 0, 0, time.UTC),
		Location:    "Blue Note Club",
		Capacity:    80,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := s.GetEvent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Jazz Night", got.Title)
	assert.Equal(t, "Live jazz downtown", got.Description)
	assert.Equal(t, "Blue Note Club", got.Location)
	assert.True(t, got.Date.Equal(time.Date(2026, 11, 20, 20, 0, 0, 0, time.UTC)))
	assert.Equal(t, 80, got.Capacity)
	assert.Equal(t, 0, got.TicketsSold)
	assert.Equal(t, 80, got.TicketsAvailable)
}

func TestGetEventNotFound(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.GetEvent(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterLastSeatRace(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	ev := mustCreateEvent(t, s, "Final Seat", 1)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.RegisterAttendee(ctx, ev.ID, model.NewAttendee{
				Name:  fmt.Sprintf("Racer %d", i),
				Email: fmt.Sprintf("racer%d@example.com", i),
			})
		}()
	}
	wg.Wait()

	var wins, full int
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, ErrCapacityExceeded)
		full++
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, full)

	got, err := s.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TicketsSold)
}

func TestCapacityInvariantUnderConcurrentRegister(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	const capacity = 5
	const racers = 20
	ev := mustCreateEvent(t, s, "Crowded", capacity)

	var wg sync.WaitGroup
	results := make([]error, racers)
	for i := 0; i < racers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = s.RegisterAttendee(ctx, ev.ID, model.NewAttendee{
				Name:  fmt.Sprintf("Attendee %d", i),
				Email: fmt.Sprintf("attendee%d@example.com", i),
			})
		}()
	}
	wg.Wait()

	var wins int
	for _, err := range results {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrCapacityExceeded)
		}
	}
	assert.Equal(t, capacity, wins)

	got, err := s.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, capacity, got.TicketsSold)
	assert.GreaterOrEqual(t, got.Capacity, got.TicketsSold)

	attendees, err := s.ListAttendeesByEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Len(t, attendees, capacity)
}

func TestRegisterUnknownEvent(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.RegisterAttendee(context.Background(), "missing", model.NewAttendee{
		Name: "Nobody", Email: "nobody@example.com",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	ev := mustCreateEvent(t, s, "Meetup", 10)

	_, err := s.RegisterAttendee(ctx, ev.ID, model.NewAttendee{Name: "A", Email: "dup@example.com"})
	require.NoError(t, err)
	_, err = s.RegisterAttendee(ctx, ev.ID, model.NewAttendee{Name: "B", Email: "dup@example.com"})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	got, err := s.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TicketsSold)
}

func TestCascadeDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	ev := mustCreateEvent(t, s, "Doomed", 10)
	other := mustCreateEvent(t, s, "Survivor", 10)

	for i := 0; i < 3; i++ {
		_, err := s.RegisterAttendee(ctx, ev.ID, model.NewAttendee{
			Name: fmt.Sprintf("A%d", i), Email: fmt.Sprintf("a%d@example.com", i),
		})
		require.NoError(t, err)
	}
	_, err := s.RegisterAttendee(ctx, other.ID, model.NewAttendee{Name: "Keep", Email: "keep@example.com"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteEvent(ctx, ev.ID))

	_, err = s.GetEvent(ctx, ev.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.ListAttendeesByEvent(ctx, ev.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := s.ListAllAttendees(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, other.ID, all[0].EventID)
	assert.Equal(t, "Survivor", all[0].EventTitle)
}

func TestDeleteEventNotFound(t *testing.T) {
	s := NewMemoryStore()
	assert.ErrorIs(t, s.DeleteEvent(context.Background(), "missing"), ErrNotFound)
}

func TestDeleteVsRegisterLeavesNoOrphans(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	ev := mustCreateEvent(t, s, "Contested", 1000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.RegisterAttendee(ctx, ev.ID, model.NewAttendee{
				Name: fmt.Sprintf("R%d", i), Email: fmt.Sprintf("r%d@example.com", i),
			})
			if err != nil {
				assert.ErrorIs(t, err, ErrNotFound)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, s.DeleteEvent(ctx, ev.ID))
	}()
	wg.Wait()

	// Either a registration landed before the delete (and was cascaded) or
	// it observed NotFound; in no case may an attendee outlive the event.
	all, err := s.ListAllAttendees(ctx)
	require.NoError(t, err)
	for _, a := range all {
		assert.NotEqual(t, ev.ID, a.EventID)
	}
}

func TestCapacityLoweringGuard(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	ev := mustCreateEvent(t, s, "Resizable", 5)

	for i := 0; i < 3; i++ {
		_, err := s.RegisterAttendee(ctx, ev.ID, model.NewAttendee{
			Name: fmt.Sprintf("A%d", i), Email: fmt.Sprintf("a%d@example.com", i),
		})
		require.NoError(t, err)
	}

	two := 2
	_, err := s.UpdateEvent(ctx, ev.ID, model.EventPatch{Capacity: &two})
	assert.ErrorIs(t, err, ErrCapacityConflict)

	three := 3
	got, err := s.UpdateEvent(ctx, ev.ID, model.EventPatch{Capacity: &three})
	require.NoError(t, err)
	assert.Equal(t, 3, got.Capacity)
	assert.Equal(t, 0, got.TicketsAvailable)
	assert.True(t, got.IsFull())
}

func TestUpdateEventPartialFields(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	ev := mustCreateEvent(t, s, "Before", 10)

	title := "After"
	loc := "New Venue"
	got, err := s.UpdateEvent(ctx, ev.ID, model.EventPatch{Title: &title, Location: &loc})
	require.NoError(t, err)
	assert.Equal(t, "After", got.Title)
	assert.Equal(t, "New Venue", got.Location)
	assert.Equal(t, 10, got.Capacity)
	assert.True(t, got.Date.Equal(ev.Date))
}

func TestCancelFreesSeat(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	ev := mustCreateEvent(t, s, "Cancellable", 1)

	a, err := s.RegisterAttendee(ctx, ev.ID, model.NewAttendee{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)

	_, err = s.RegisterAttendee(ctx, ev.ID, model.NewAttendee{Name: "B", Email: "b@example.com"})
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	require.NoError(t, s.CancelAttendee(ctx, a.ID))
	assert.ErrorIs(t, s.CancelAttendee(ctx, a.ID), ErrNotFound)

	got, err := s.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TicketsSold)

	_, err = s.RegisterAttendee(ctx, ev.ID, model.NewAttendee{Name: "B", Email: "b@example.com"})
	assert.NoError(t, err)
}

func TestUpdateAttendee(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	ev := mustCreateEvent(t, s, "Editable", 10)

	a, err := s.RegisterAttendee(ctx, ev.ID, model.NewAttendee{Name: "Old Name", Email: "old@example.com"})
	require.NoError(t, err)
	_, err = s.RegisterAttendee(ctx, ev.ID, model.NewAttendee{Name: "Taken", Email: "taken@example.com"})
	require.NoError(t, err)

	name := "New Name"
	phone := "555-0100"
	got, err := s.UpdateAttendee(ctx, a.ID, model.AttendeePatch{Name: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)
	assert.Equal(t, "555-0100", got.Phone)
	assert.Equal(t, "old@example.com", got.Email)
	assert.Equal(t, ev.ID, got.EventID)

	taken := "taken@example.com"
	_, err = s.UpdateAttendee(ctx, a.ID, model.AttendeePatch{Email: &taken})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	_, err = s.UpdateAttendee(ctx, "missing", model.AttendeePatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListEventsFilter(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	d1 := time.Date(2026, 10, 1, 19, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 10, 2, 21, 0, 0, 0, time.UTC)
	_, err := s.CreateEvent(ctx, model.NewEvent{Title: "Jazz Night", Date: d1, Location: "Club", Capacity: 10})
	require.NoError(t, err)
	_, err = s.CreateEvent(ctx, model.NewEvent{Title: "Rock Show", Date: d2, Location: "Arena", Capacity: 10})
	require.NoError(t, err)

	byTitle, err := s.ListEvents(ctx, model.EventFilter{Title: "jazz"})
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Jazz Night", byTitle[0].Title)

	day2 := time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)
	byDate, err := s.ListEvents(ctx, model.EventFilter{Date: &day2})
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, "Rock Show", byDate[0].Title)

	both, err := s.ListEvents(ctx, model.EventFilter{Title: "rock", Date: &day2})
	require.NoError(t, err)
	assert.Len(t, both, 1)

	miss, err := s.ListEvents(ctx, model.EventFilter{Title: "jazz", Date: &day2})
	require.NoError(t, err)
	assert.Empty(t, miss)

	all, err := s.ListEvents(ctx, model.EventFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Jazz Night", all[0].Title, "events are ordered by date ascending")
}

func TestCountEvents(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	n, err := s.CountEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	mustCreateEvent(t, s, "One", 1)
	mustCreateEvent(t, s, "Two", 2)

	n, err = s.CountEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
