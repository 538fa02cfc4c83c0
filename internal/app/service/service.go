// internal/app/service/service.go

// Package service holds the application operations. Every handler calls
// through here, and every operation follows the same shape: resolve the
// caller's effective role, ask the access policy, then touch storage.
// Storage is consumed through narrow per-service interfaces so the
// operations can be tested against in-memory fakes.
package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/clubhub/internal/app/policy/accesspolicy"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/domain/faults"
	"github.com/dalemusser/clubhub/internal/domain/identity"
	"github.com/dalemusser/clubhub/internal/domain/models"
)

// RoleResolver computes the caller's effective role. *authz.Resolver is
// the production implementation.
type RoleResolver interface {
	Resolve(ctx context.Context, ident identity.Identity, targetClub *primitive.ObjectID) (authz.Role, error)
}

// SettingsSource yields the current process-wide settings. The cached
// settings store satisfies it.
type SettingsSource interface {
	Get(ctx context.Context) (models.Settings, error)
}

// TxnRunner executes fn, in a multi-document transaction when the
// deployment supports one. It reports whether a transaction was used.
type TxnRunner func(ctx context.Context, fn func(ctx context.Context) error) (bool, error)

// denied converts a policy denial into the matching fault.
func denied(d accesspolicy.Decision) error {
	return faults.New(faults.InsufficientRole, "access denied: %s", d.Reason)
}

// displayLimit returns the list cap from settings, falling back to the
// default when settings cannot be read. List reads never fail on a
// settings hiccup.
func displayLimit(ctx context.Context, src SettingsSource) int64 {
	s, err := src.Get(ctx)
	if err != nil || s.DisplayLimit <= 0 {
		return models.DefaultDisplayLimit
	}
	return int64(s.DisplayLimit)
}
