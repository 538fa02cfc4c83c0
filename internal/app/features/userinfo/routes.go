// internal/app/features/userinfo/routes.go
package userinfo

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the caller-identity endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Me)
	r.Post("/signout", h.SignOut)
	return r
}
