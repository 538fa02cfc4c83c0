// internal/app/features/attendance/routes.go
package attendance

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for attendance endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Record)
	r.Get("/", h.List)
	r.Put("/{attendanceID}/attendees", h.UpdateAttendee)
	return r
}
