// internal/app/features/memberfiles/routes.go
package memberfiles

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for member-file endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Post("/{fileID}/statuses", h.RecordStatus)
	r.Get("/{fileID}/statuses", h.ListStatuses)
	return r
}
