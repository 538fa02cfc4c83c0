// internal/app/features/auditevents/routes.go
package auditevents

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the audit log endpoint.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Recent)
	return r
}
