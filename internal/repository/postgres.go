package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/VBRVijay/Event-Management-Web-Application/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the production Store backed by pgx (no ORM).
//
// Concurrency model: every operation that checks state before writing it
// (register, cancel, capacity-lowering update) runs inside a transaction that
// first takes a row-level lock on the owning event with SELECT ... FOR UPDATE.
// Concurrent transactions on the same event queue behind the lock, so the
// read-then-write on the tickets_sold counter is serialized and the event can
// never be overbooked. Cascade deletion of attendees rides on the
// ON DELETE CASCADE foreign key, which makes event deletion a single atomic
// statement.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const eventColumns = `id, title, description, date, location, capacity, tickets_sold, created_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location,
		&e.Capacity, &e.TicketsSold, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.Refresh()
	return &e, nil
}

// CreateEvent inserts a new event and returns it with a generated UUID.
func (s *PostgresStore) CreateEvent(ctx context.Context, ev model.NewEvent) (*model.Event, error) {
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
	_, err := s.db.Exec(ctx,
		`INSERT INTO events (id, title, description, date, location, capacity, tickets_sold, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.Title, e.Description, e.Date, e.Location, e.Capacity, e.TicketsSold, e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	e.Refresh()
	return e, nil
}

// GetEvent returns a single event or ErrNotFound.
func (s *PostgresStore) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	e, err := scanEvent(s.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// ListEvents returns events matching the filter, ordered by date ascending.
// The title filter is a case-insensitive substring; the date filter matches
// the calendar day of the event timestamp.
func (s *PostgresStore) ListEvents(ctx context.Context, f model.EventFilter) ([]model.Event, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+eventColumns+`
		 FROM events
		 WHERE ($1 = '' OR title ILIKE '%' || $1 || '%')
		   AND ($2::timestamptz IS NULL OR date::date = ($2::timestamptz)::date)
		 ORDER BY date ASC, id ASC`,
		f.Title, f.Date,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// UpdateEvent applies a partial update inside a transaction that locks the
// event row, so the capacity-lowering guard cannot race a concurrent
// registration into overbooking.
func (s *PostgresStore) UpdateEvent(ctx context.Context, id string, patch model.EventPatch) (*model.Event, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	e, err := scanEvent(tx.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock event row: %w", err)
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

	_, err = tx.Exec(ctx,
		`UPDATE events SET title = $2, description = $3, date = $4, location = $5, capacity = $6
		 WHERE id = $1`,
		id, e.Title, e.Description, e.Date, e.Location, e.Capacity,
	)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	e.Refresh()
	return e, nil
}

// DeleteEvent removes the event. Attendees cascade via the foreign key, so
// the event and its attendee set disappear in one atomic statement.
func (s *PostgresStore) DeleteEvent(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountEvents returns the number of stored events.
func (s *PostgresStore) CountEvents(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// RegisterAttendee performs a concurrency-safe registration. The event row is
// locked first; the capacity check, duplicate-email check, attendee insert,
// and counter increment all commit or roll back together.
func (s *PostgresStore) RegisterAttendee(ctx context.Context, eventID string, att model.NewAttendee) (*model.Attendee, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var title string
	var capacity, ticketsSold int
	err = tx.QueryRow(ctx,
		`SELECT title, capacity, tickets_sold FROM events WHERE id = $1 FOR UPDATE`,
		eventID,
	).Scan(&title, &capacity, &ticketsSold)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock event row: %w", err)
	}

	if ticketsSold >= capacity {
		return nil, ErrCapacityExceeded
	}

	var dup int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM attendees WHERE event_id = $1 AND email = $2`,
		eventID, att.Email,
	).Scan(&dup)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if dup > 0 {
		return nil, ErrAlreadyRegistered
	}

	a := &model.Attendee{
		ID:               uuid.New().String(),
		EventID:          eventID,
		Name:             att.Name,
		Email:            att.Email,
		Phone:            att.Phone,
		RegistrationDate: time.Now().UTC(),
		EventTitle:       title,
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO attendees (id, event_id, name, email, phone, registration_date)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.EventID, a.Name, a.Email, a.Phone, a.RegistrationDate,
	)
	if err != nil {
		return nil, fmt.Errorf("insert attendee: %w", err)
	}
	_, err = tx.Exec(ctx,
		`UPDATE events SET tickets_sold = tickets_sold + 1 WHERE id = $1`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("increment tickets_sold: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return a, nil
}

const attendeeJoin = `
	SELECT a.id, a.event_id, a.name, a.email, a.phone, a.registration_date, e.title
	FROM attendees a
	JOIN events e ON e.id = a.event_id`

func scanAttendee(row pgx.Row) (*model.Attendee, error) {
	var a model.Attendee
	err := row.Scan(&a.ID, &a.EventID, &a.Name, &a.Email, &a.Phone,
		&a.RegistrationDate, &a.EventTitle)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAttendee returns a single attendee, annotated with its event title.
func (s *PostgresStore) GetAttendee(ctx context.Context, id string) (*model.Attendee, error) {
	a, err := scanAttendee(s.db.QueryRow(ctx, attendeeJoin+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get attendee: %w", err)
	}
	return a, nil
}

// UpdateAttendee edits contact fields only. The attendee row is locked for
// the duration so the duplicate-email check stays consistent.
func (s *PostgresStore) UpdateAttendee(ctx context.Context, id string, patch model.AttendeePatch) (*model.Attendee, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var a model.Attendee
	err = tx.QueryRow(ctx,
		`SELECT id, event_id, name, email, phone, registration_date
		 FROM attendees WHERE id = $1 FOR UPDATE`,
		id,
	).Scan(&a.ID, &a.EventID, &a.Name, &a.Email, &a.Phone, &a.RegistrationDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock attendee row: %w", err)
	}

	if patch.Email != nil && *patch.Email != a.Email {
		var dup int
		err = tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM attendees WHERE event_id = $1 AND email = $2 AND id <> $3`,
			a.EventID, *patch.Email, id,
		).Scan(&dup)
		if err != nil {
			return nil, fmt.Errorf("check duplicate: %w", err)
		}
		if dup > 0 {
			return nil, ErrAlreadyRegistered
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

	_, err = tx.Exec(ctx,
		`UPDATE attendees SET name = $2, email = $3, phone = $4 WHERE id = $1`,
		id, a.Name, a.Email, a.Phone,
	)
	if err != nil {
		return nil, fmt.Errorf("update attendee: %w", err)
	}
	err = tx.QueryRow(ctx, `SELECT title FROM events WHERE id = $1`, a.EventID).Scan(&a.EventTitle)
	if err != nil {
		return nil, fmt.Errorf("join event title: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return &a, nil
}

// CancelAttendee removes the attendee and decrements the owning event's
// counter in one transaction. The event row is locked so the decrement
// serializes against concurrent registrations.
func (s *PostgresStore) CancelAttendee(ctx context.Context, id string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var eventID string
	err = tx.QueryRow(ctx,
		`SELECT event_id FROM attendees WHERE id = $1 FOR UPDATE`, id,
	).Scan(&eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lock attendee row: %w", err)
	}

	_, err = tx.Exec(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, eventID)
	if err != nil {
		return fmt.Errorf("lock event row: %w", err)
	}
	if _, err = tx.Exec(ctx, `DELETE FROM attendees WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete attendee: %w", err)
	}
	_, err = tx.Exec(ctx,
		`UPDATE events SET tickets_sold = tickets_sold - 1 WHERE id = $1`, eventID)
	if err != nil {
		return fmt.Errorf("decrement tickets_sold: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ListAttendeesByEvent returns the event's attendees, newest registration
// first. The event must exist.
func (s *PostgresStore) ListAttendeesByEvent(ctx context.Context, eventID string) ([]model.Attendee, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check event: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	rows, err := s.db.Query(ctx,
		attendeeJoin+` WHERE a.event_id = $1 ORDER BY a.registration_date DESC, a.id ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	defer rows.Close()
	return collectAttendees(rows)
}

// ListAllAttendees returns every attendee across all events, annotated with
// its event's title, newest registration first.
func (s *PostgresStore) ListAllAttendees(ctx context.Context) ([]model.Attendee, error) {
	rows, err := s.db.Query(ctx,
		attendeeJoin+` ORDER BY a.registration_date DESC, a.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	defer rows.Close()
	return collectAttendees(rows)
}

func collectAttendees(rows pgx.Rows) ([]model.Attendee, error) {
	var attendees []model.Attendee
	for rows.Next() {
		a, err := scanAttendee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		attendees = append(attendees, *a)
	}
	return attendees, rows.Err()
}
