// internal/app/features/auditevents/handler.go
package auditevents

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/clubhub/internal/app/features/shared/respond"
	"github.com/dalemusser/clubhub/internal/app/service"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
)

// Handler serves the audit event log to the admin.
type Handler struct {
	Trail *service.AuditTrail
	Log   *zap.Logger
}

func NewHandler(trail *service.AuditTrail, log *zap.Logger) *Handler {
	return &Handler{Trail: trail, Log: log}
}

// Recent handles GET /audit.
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Trail.Recent(ctx, auth.CurrentIdentity(r))
	if err != nil {
		respond.Fault(w, h.Log, err)
		return
	}
	respond.OK(w, list)
}
