// Package model defines the core domain types for the event management system.
package model

import "time"

// Event represents an administrable event with a fixed seating capacity.
// TicketsSold is a cached counter: every attendee insert/delete mutates it
// inside the same transaction (or critical section), so it never drifts from
// the attendee set it is derived from. TicketsAvailable is derived from the
// other two; the store recomputes it on every read so clients never do.
type Event struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Date             time.Time `json:"date"`
	Location         string    `json:"location"`
	Capacity         int       `json:"capacity"`
	TicketsSold      int       `json:"tickets_sold"`
	TicketsAvailable int       `json:"tickets_available"`
	CreatedAt        time.Time `json:"created_at"`
}

// Refresh recomputes the derived availability field.
func (e *Event) Refresh() {
	e.TicketsAvailable = e.Capacity - e.TicketsSold
}

// IsFull returns true when no seats remain.
func (e *Event) IsFull() bool {
	return e.TicketsSold >= e.Capacity
}

// Attendee represents a registration against a single event. An attendee is
// exclusively owned by its event and is cascade-deleted with it.
type Attendee struct {
	ID               string    `json:"id"`
	EventID          string    `json:"event_id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	RegistrationDate time.Time `json:"registration_date"`

	// EventTitle is a read-side annotation filled in by list queries.
	EventTitle string `json:"event_title,omitempty"`
}

// NewEvent carries the validated fields for an event insert.
type NewEvent struct {
	Title       string
	Description string
	Date        time.Time
	Location    string
	Capacity    int
}

// EventPatch carries a partial event update. Nil fields are left unchanged.
type EventPatch struct {
	Title       *string
	Description *string
	Date        *time.Time
	Location    *string
	Capacity    *int
}

// NewAttendee carries the validated fields for a registration.
type NewAttendee struct {
	Name  string
	Email string
	Phone string
}

// AttendeePatch carries a partial attendee update. The owning event cannot be
// changed; moving an attendee between events is unsupported.
type AttendeePatch struct {
	Name  *string
	Email *string
	Phone *string
}

// EventFilter narrows an event listing. Title matches as a case-insensitive
// substring; Date matches the calendar day of the event's timestamp. Both are
// optional and combine with logical AND.
type EventFilter struct {
	Title string
	Date  *time.Time
}

// CreateEventRequest is the payload for creating a new event.
type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Capacity    int    `json:"capacity"`
}

// UpdateEventRequest is the payload for a partial event update.
type UpdateEventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	Location    *string `json:"location"`
	Capacity    *int    `json:"capacity"`
}

// RegisterRequest is the payload for registering an attendee.
type RegisterRequest struct {
	EventID string `json:"event_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// UpdateAttendeeRequest is the payload for a partial attendee update.
type UpdateAttendeeRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// ImportRecord is one row of a bulk attendee import.
type ImportRecord struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ImportRequest is the JSON payload for the bulk import endpoint.
type ImportRequest struct {
	Records []ImportRecord `json:"records"`
}

// RowError reports a single failed or skipped import row. Row is 1-based to
// match how operators count spreadsheet rows.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportSummary is the outcome of a bulk import. Partial success is the
// normal case: imported rows stay committed even when later rows fail.
type ImportSummary struct {
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Failed   int        `json:"failed"`
	Errors   []RowError `json:"errors"`
}

// EventSales is the per-event slice of the sales report.
type EventSales struct {
	Event
	Revenue       int     `json:"revenue"`
	OccupancyRate float64 `json:"occupancy_rate"`
}

// SalesReport aggregates ticket sales across all events. It is computed from
// a single committed snapshot of the event set.
type SalesReport struct {
	TotalEvents      int          `json:"total_events"`
	TotalCapacity    int          `json:"total_capacity"`
	TotalTicketsSold int          `json:"total_tickets_sold"`
	TotalRevenue     int          `json:"total_revenue"`
	OverallOccupancy float64      `json:"overall_occupancy"`
	Events           []EventSales `json:"events"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
