// internal/app/features/clubs/routes.go
package clubs

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for club endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{clubID}", h.Get)
	r.Put("/{clubID}/leader", h.SetLeader)
	return r
}
