// internal/app/service/settingsops.go
package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/clubhub/internal/app/policy/accesspolicy"
	"github.com/dalemusser/clubhub/internal/domain/faults"
	"github.com/dalemusser/clubhub/internal/domain/identity"
	"github.com/dalemusser/clubhub/internal/domain/models"
)

type settingsWriter interface {
	Save(ctx context.Context, settings models.Settings, updatedBy primitive.ObjectID) error
}

// Invalidator drops a settings cache after a write. The cached settings
// store satisfies it.
type Invalidator interface {
	Invalidate()
}

// SettingsOps exposes the settings singleton to the admin. Reads go
// through the cache; writes go to storage and drop the cache so the new
// values take effect immediately.
type SettingsOps struct {
	reader SettingsSource
	writer settingsWriter
	cache  Invalidator
	roles  RoleResolver
}

func NewSettingsOps(reader SettingsSource, writer settingsWriter, cache Invalidator, roles RoleResolver) *SettingsOps {
	return &SettingsOps{reader: reader, writer: writer, cache: cache, roles: roles}
}

// Get returns the current settings. Admin only; other roles have no
// business reading operational limits.
func (s *SettingsOps) Get(ctx context.Context, ident identity.Identity) (models.Settings, error) {
	if err := s.requireAdmin(ctx, ident); err != nil {
		return models.Settings{}, err
	}
	settings, err := s.reader.Get(ctx)
	if err != nil {
		return models.Settings{}, faults.Wrap(faults.Transient, err, "load settings")
	}
	return settings, nil
}

// Update replaces the settings singleton.
func (s *SettingsOps) Update(ctx context.Context, ident identity.Identity, in models.Settings) error {
	if err := s.requireAdmin(ctx, ident); err != nil {
		return err
	}
	if in.MaxUsersPerClub < 0 || in.DisplayLimit < 0 {
		return faults.New(faults.InvalidInput, "limits cannot be negative")
	}

	if err := s.writer.Save(ctx, in, ident.UserID); err != nil {
		return faults.Wrap(faults.Transient, err, "save settings")
	}
	if s.cache != nil {
		s.cache.Invalidate()
	}
	return nil
}

func (s *SettingsOps) requireAdmin(ctx context.Context, ident identity.Identity) error {
	role, err := s.roles.Resolve(ctx, ident, nil)
	if err != nil {
		return err
	}
	if !role.IsAdmin() {
		return denied(accesspolicy.Decision{Reason: accesspolicy.ReasonInsufficientRole})
	}
	return nil
}
