// internal/app/features/requests/routes.go
package requests

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the join-request endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Submit)
	r.Get("/mine", h.Mine)
	r.Get("/pending", h.Pending)
	r.Post("/{requestID}/review", h.Review)
	return r
}
