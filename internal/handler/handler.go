// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/VBRVijay/Event-Management-Web-Application/internal/model"
	"github.com/VBRVijay/Event-Management-Web-Application/internal/repository"
	"github.com/VBRVijay/Event-Management-Web-Application/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// EventHandler holds all HTTP handlers for the event administration API.
type EventHandler struct {
	svc *service.EventService
	log *zap.Logger
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc *service.EventService, log *zap.Logger) *EventHandler {
	return &EventHandler{svc: svc, log: log}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeDomainError maps service/repository errors onto HTTP status codes.
func (h *EventHandler) writeDomainError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrCapacityExceeded),
		errors.Is(err, repository.ErrCapacityConflict),
		errors.Is(err, repository.ErrAlreadyRegistered),
		errors.Is(err, repository.ErrSeeded):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// ─── Event handlers ───────────────────────────────────────────────────────────

// ListEvents handles GET /api/events?title=&date=
// Filters combine with AND; no filters returns all events.
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.SearchEvents(r.Context(), r.URL.Query().Get("title"), r.URL.Query().Get("date"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	// Return an empty array rather than null for better client compatibility.
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// CreateEvent handles POST /api/events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	event, err := h.svc.CreateEvent(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// GetEvent handles GET /api/events/{id}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// UpdateEvent handles PUT /api/events/{id}
// Partial update; lowering capacity below tickets_sold yields 409.
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	event, err := h.svc.UpdateEvent(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// DeleteEvent handles DELETE /api/events/{id}
// Deletion cascades to every attendee of the event.
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteEvent(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "event deleted successfully"})
}

// ─── Attendee handlers ────────────────────────────────────────────────────────

// ListEventAttendees handles GET /api/events/{id}/attendees
func (h *EventHandler) ListEventAttendees(w http.ResponseWriter, r *http.Request) {
	attendees, err := h.svc.AttendeesByEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if attendees == nil {
		attendees = []model.Attendee{}
	}
	writeJSON(w, http.StatusOK, attendees)
}

// ListAllAttendees handles GET /api/attendees
// The flattened cross-event view, each attendee annotated with its event title.
func (h *EventHandler) ListAllAttendees(w http.ResponseWriter, r *http.Request) {
	attendees, err := h.svc.AllAttendees(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if attendees == nil {
		attendees = []model.Attendee{}
	}
	writeJSON(w, http.StatusOK, attendees)
}

// Register handles POST /api/attendees
// Registration is atomic per event: racing for the last seat, exactly one
// caller wins and the other sees 409.
func (h *EventHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	attendee, err := h.svc.Register(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, attendee)
}

// UpdateAttendee handles PUT /api/attendees/{id}
// Contact fields only; event_id in the payload is rejected by the decoder.
func (h *EventHandler) UpdateAttendee(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateAttendeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	attendee, err := h.svc.UpdateAttendee(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attendee)
}

// CancelAttendee handles DELETE /api/attendees/{id}
func (h *EventHandler) CancelAttendee(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Cancel(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "registration cancelled"})
}

// ─── Reports, import, seed ────────────────────────────────────────────────────

// SalesReport handles GET /api/reports/sales
func (h *EventHandler) SalesReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.SalesReport(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ImportAttendees handles POST /api/events/{id}/attendees/import
// Accepts a JSON record batch, a raw text/csv body, or a multipart upload
// with a "file" field. Partial success is the normal outcome; the summary
// reports imported/skipped/failed counts with per-row errors.
func (h *EventHandler) ImportAttendees(w http.ResponseWriter, r *http.Request) {
	records, err := decodeImportRecords(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	summary, err := h.svc.ImportAttendees(r.Context(), chi.URLParam(r, "id"), records)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// SeedSampleData handles POST /api/seed
func (h *EventHandler) SeedSampleData(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SeedSampleData(r.Context()); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "sample data created"})
}

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ─── Import decoding ──────────────────────────────────────────────────────────

func decodeImportRecords(r *http.Request) ([]model.ImportRecord, error) {
	ct := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(ct, "multipart/form-data"):
		if err := r.ParseMultipartForm(4 << 20); err != nil {
			return nil, errors.New("invalid multipart form: " + err.Error())
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, errors.New("no file provided")
		}
		defer file.Close()
		return parseCSVRecords(file)
	case strings.HasPrefix(ct, "text/csv"):
		return parseCSVRecords(http.MaxBytesReader(nil, r.Body, 4<<20))
	default:
		var req model.ImportRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, errors.New("invalid request body: " + err.Error())
		}
		return req.Records, nil
	}
}

// parseCSVRecords reads rows with a name,email,phone header. Column order is
// free; the phone column is optional. Malformed rows surface later as
// per-row import errors, so only structural CSV failures abort here.
func parseCSVRecords(r io.Reader) ([]model.ImportRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.New("empty or unreadable CSV")
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	nameIdx, ok := cols["name"]
	if !ok {
		return nil, errors.New("missing CSV column: name")
	}
	emailIdx, ok := cols["email"]
	if !ok {
		return nil, errors.New("missing CSV column: email")
	}
	phoneIdx, hasPhone := cols["phone"]

	var records []model.ImportRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.New("malformed CSV: " + err.Error())
		}
		rec := model.ImportRecord{}
		if nameIdx < len(row) {
			rec.Name = row[nameIdx]
		}
		if emailIdx < len(row) {
			rec.Email = row[emailIdx]
		}
		if hasPhone && phoneIdx < len(row) {
			rec.Phone = row[phoneIdx]
		}
		records = append(records, rec)
	}
	return records, nil
}
