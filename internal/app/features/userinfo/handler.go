// internal/app/features/userinfo/handler.go
package userinfo

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/clubhub/internal/app/features/shared/respond"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
)

// Handler reports who the caller is and what their effective role is.
type Handler struct {
	Roles *authz.Resolver
	Log   *zap.Logger
}

func NewHandler(roles *authz.Resolver, log *zap.Logger) *Handler {
	return &Handler{Roles: roles, Log: log}
}

type meResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	ClubID   string `json:"club_id,omitempty"`
}

// Me handles GET /me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ident := auth.CurrentIdentity(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	role, err := h.Roles.Resolve(ctx, ident, nil)
	if err != nil {
		respond.Fault(w, h.Log, err)
		return
	}

	resp := meResponse{
		UserID:   ident.UserID.Hex(),
		Username: ident.Username,
		Email:    ident.Email,
		Role:     role.Kind.String(),
	}
	if !role.ClubID.IsZero() {
		resp.ClubID = role.ClubID.Hex()
	}
	respond.OK(w, resp)
}

// SignOut handles POST /me/signout.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := auth.SignOut(w, r); err != nil {
		h.Log.Warn("sign-out failed", zap.Error(err))
	}
	respond.NoContent(w)
}
