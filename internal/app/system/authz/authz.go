// internal/app/system/authz/authz.go

// Package authz resolves a verified caller identity into an effective
// role. The role is the only input the access policy engine needs; no
// other component inspects user records for authorization.
package authz

import (
	"context"
	"errors"

	"github.com/dalemusser/clubhub/internal/app/system/normalize"
	"github.com/dalemusser/clubhub/internal/domain/faults"
	"github.com/dalemusser/clubhub/internal/domain/identity"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserLookup is the narrow read the resolver needs from the user store.
type UserLookup interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Resolver computes effective roles. The administrator email is injected
// at construction (process-wide configuration), never read ad hoc, so the
// resolver is testable with fixed configuration.
type Resolver struct {
	users      UserLookup
	adminEmail string
}

// NewResolver builds a Resolver. adminEmail is matched case-insensitively;
// an empty adminEmail disables the SystemAdmin shortcut entirely.
func NewResolver(users UserLookup, adminEmail string) *Resolver {
	return &Resolver{
		users:      users,
		adminEmail: normalize.Email(adminEmail),
	}
}

// Resolve computes the caller's effective role for an optional target club.
//
// Order matters: the configured administrator wins regardless of club;
// a leader only counts as leader for their own club (or when no target is
// given); an approved user with a club is a member; everyone else is
// unaffiliated. A leader resolving against another club falls through to
// member of their own club, which the policy engine then scopes.
func (r *Resolver) Resolve(ctx context.Context, ident identity.Identity, targetClub *primitive.ObjectID) (Role, error) {
	if ident.Anonymous() {
		return Role{}, faults.New(faults.Unauthenticated, "no caller identity")
	}

	if r.adminEmail != "" && normalize.Email(ident.Email) == r.adminEmail {
		return Role{Kind: SystemAdmin}, nil
	}

	u, err := r.users.GetByID(ctx, ident.UserID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Role{}, faults.New(faults.NotFound, "identity %s no longer exists", ident.UserID.Hex())
		}
		return Role{}, faults.Wrap(faults.Transient, err, "load user for role resolution")
	}

	if u.IsClubLeader && u.ClubID != nil && (targetClub == nil || *u.ClubID == *targetClub) {
		return Role{Kind: ClubLeader, ClubID: *u.ClubID}, nil
	}
	if u.ClubID != nil && u.IsApproved {
		return Role{Kind: ClubMember, ClubID: *u.ClubID}, nil
	}
	return Role{Kind: Unaffiliated}, nil
}
