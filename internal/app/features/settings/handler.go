// internal/app/features/settings/handler.go
package settings

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/clubhub/internal/app/features/shared/respond"
	"github.com/dalemusser/clubhub/internal/app/service"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/faults"
	"github.com/dalemusser/clubhub/internal/domain/models"
)

// Handler exposes the settings singleton to the admin.
type Handler struct {
	Settings *service.SettingsOps
	Log      *zap.Logger
}

func NewHandler(settings *service.SettingsOps, log *zap.Logger) *Handler {
	return &Handler{Settings: settings, Log: log}
}

// Get handles GET /settings.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	s, err := h.Settings.Get(ctx, auth.CurrentIdentity(r))
	if err != nil {
		respond.Fault(w, h.Log, err)
		return
	}
	respond.OK(w, s)
}

// Update handles PUT /settings.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var body models.Settings
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.Fault(w, h.Log, faults.Wrap(faults.InvalidInput, err, "decode request body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Settings.Update(ctx, auth.CurrentIdentity(r), body); err != nil {
		respond.Fault(w, h.Log, err)
		return
	}
	respond.NoContent(w)
}
