package authz

import (
	"context"
	"testing"

	"github.com/dalemusser/clubhub/internal/domain/faults"
	"github.com/dalemusser/clubhub/internal/domain/identity"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// fakeUsers is an in-memory UserLookup.
type fakeUsers map[primitive.ObjectID]*models.User

func (f fakeUsers) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return u, nil
}

func TestResolve_SystemAdmin(t *testing.T) {
	adminID := primitive.NewObjectID()
	r := NewResolver(fakeUsers{}, "Admin@Example.COM")

	// Admin resolves without a user record and regardless of target club.
	club := primitive.NewObjectID()
	role, err := r.Resolve(context.Background(), identity.Identity{
		UserID: adminID,
		Email:  "admin@example.com",
	}, &club)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if role.Kind != SystemAdmin {
		t.Errorf("Kind = %v, want SystemAdmin", role.Kind)
	}
}

func TestResolve_EmptyAdminEmailNeverMatches(t *testing.T) {
	uid := primitive.NewObjectID()
	users := fakeUsers{uid: {ID: uid, Email: ""}}
	r := NewResolver(users, "")

	role, err := r.Resolve(context.Background(), identity.Identity{UserID: uid, Email: ""}, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if role.Kind != Unaffiliated {
		t.Errorf("Kind = %v, want Unaffiliated", role.Kind)
	}
}

func TestResolve_ClubLeader(t *testing.T) {
	uid := primitive.NewObjectID()
	clubID := primitive.NewObjectID()
	users := fakeUsers{uid: {
		ID:           uid,
		Email:        "leader@example.com",
		ClubID:       &clubID,
		IsClubLeader: true,
		IsApproved:   true,
	}}
	r := NewResolver(users, "admin@example.com")
	ident := identity.Identity{UserID: uid, Email: "leader@example.com"}

	// No target: leader of own club.
	role, err := r.Resolve(context.Background(), ident, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !role.LeaderOf(clubID) {
		t.Errorf("expected leader of %s, got %+v", clubID.Hex(), role)
	}

	// Matching target club: still leader.
	role, err = r.Resolve(context.Background(), ident, &clubID)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if role.Kind != ClubLeader {
		t.Errorf("Kind = %v, want ClubLeader", role.Kind)
	}

	// Other club as target: degrades to member of own club, never leader
	// of the target.
	other := primitive.NewObjectID()
	role, err = r.Resolve(context.Background(), ident, &other)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if role.Kind != ClubMember || role.ClubID != clubID {
		t.Errorf("got %+v, want member of own club", role)
	}
}

func TestResolve_ClubMember(t *testing.T) {
	uid := primitive.NewObjectID()
	clubID := primitive.NewObjectID()
	users := fakeUsers{uid: {
		ID:         uid,
		Email:      "member@example.com",
		ClubID:     &clubID,
		IsApproved: true,
	}}
	r := NewResolver(users, "admin@example.com")

	role, err := r.Resolve(context.Background(), identity.Identity{UserID: uid, Email: "member@example.com"}, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if role.Kind != ClubMember || role.ClubID != clubID {
		t.Errorf("got %+v, want member of %s", role, clubID.Hex())
	}
}

func TestResolve_UnapprovedIsUnaffiliated(t *testing.T) {
	uid := primitive.NewObjectID()
	clubID := primitive.NewObjectID()
	users := fakeUsers{uid: {
		ID:         uid,
		ClubID:     &clubID,
		IsApproved: false,
	}}
	r := NewResolver(users, "admin@example.com")

	role, err := r.Resolve(context.Background(), identity.Identity{UserID: uid}, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if role.Kind != Unaffiliated {
		t.Errorf("Kind = %v, want Unaffiliated", role.Kind)
	}
}

func TestResolve_IdentityNotFound(t *testing.T) {
	r := NewResolver(fakeUsers{}, "admin@example.com")

	_, err := r.Resolve(context.Background(), identity.Identity{UserID: primitive.NewObjectID()}, nil)
	if !faults.Is(err, faults.NotFound) {
		t.Errorf("err = %v, want NotFound", err)
	}
}

func TestResolve_Anonymous(t *testing.T) {
	r := NewResolver(fakeUsers{}, "admin@example.com")

	_, err := r.Resolve(context.Background(), identity.Identity{}, nil)
	if !faults.Is(err, faults.Unauthenticated) {
		t.Errorf("err = %v, want Unauthenticated", err)
	}
}
