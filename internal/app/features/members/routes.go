// internal/app/features/members/routes.go
package members

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for roster and ledger endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Get("/", h.Roster)
	r.Get("/{memberID}", h.Get)
	r.Post("/{memberID}/awards", h.Award)
	r.Get("/{memberID}/history", h.History)
	r.Post("/{memberID}/remarks", h.Remark)
	return r
}
