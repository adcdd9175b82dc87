package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Router builds the full HTTP surface of the service.
func Router(h *EventHandler, log *zap.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger(log))             // structured access log
	r.Use(CORS)                    // permissive CORS for the browser client

	r.Get("/health", HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.ListEvents)
			r.Post("/", h.CreateEvent)
			r.Get("/{id}", h.GetEvent)
			r.Put("/{id}", h.UpdateEvent)
			r.Delete("/{id}", h.DeleteEvent)
			r.Get("/{id}/attendees", h.ListEventAttendees)
			r.Post("/{id}/attendees/import", h.ImportAttendees)
		})
		r.Route("/attendees", func(r chi.Router) {
			r.Get("/", h.ListAllAttendees)
			r.Post("/", h.Register)
			r.Put("/{id}", h.UpdateAttendee)
			r.Delete("/{id}", h.CancelAttendee)
		})
		r.Get("/reports/sales", h.SalesReport)
		r.Post("/seed", h.SeedSampleData)
	})

	// Static HTML – serve the web/ directory at the root when present.
	r.Handle("/*", http.FileServer(http.Dir("./web")))

	return r
}
