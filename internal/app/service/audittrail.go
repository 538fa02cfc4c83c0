// internal/app/service/audittrail.go
package service

import (
	"context"

	"github.com/dalemusser/clubhub/internal/app/policy/accesspolicy"
	"github.com/dalemusser/clubhub/internal/app/store/audit"
	"github.com/dalemusser/clubhub/internal/domain/faults"
	"github.com/dalemusser/clubhub/internal/domain/identity"
)

type auditEvents interface {
	Recent(ctx context.Context, limit int64) ([]audit.Event, error)
}

// AuditTrail exposes the audit event log for operator review. Admin
// only; the trail spans every club.
type AuditTrail struct {
	events   auditEvents
	roles    RoleResolver
	settings SettingsSource
}

func NewAuditTrail(events auditEvents, roles RoleResolver, settings SettingsSource) *AuditTrail {
	return &AuditTrail{events: events, roles: roles, settings: settings}
}

// Recent returns the newest audit events, capped by the display limit.
func (a *AuditTrail) Recent(ctx context.Context, ident identity.Identity) ([]audit.Event, error) {
	role, err := a.roles.Resolve(ctx, ident, nil)
	if err != nil {
		return nil, err
	}
	if !role.IsAdmin() {
		return nil, denied(accesspolicy.Decision{Reason: accesspolicy.ReasonInsufficientRole})
	}

	list, err := a.events.Recent(ctx, displayLimit(ctx, a.settings))
	if err != nil {
		return nil, faults.Wrap(faults.Transient, err, "list audit events")
	}
	return list, nil
}
