// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/clubhub/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateClub inserts a club with the given name.
func (f *Fixtures) CreateClub(ctx context.Context, name string) models.Club {
	f.t.Helper()

	now := time.Now().UTC()
	club := models.Club{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("clubs").InsertOne(ctx, club); err != nil {
		f.t.Fatalf("failed to create test club: %v", err)
	}
	return club
}

// CreateUser inserts a user. clubID may be nil for unaffiliated users;
// when set, the user is marked approved.
func (f *Fixtures) CreateUser(ctx context.Context, username, email string, clubID *primitive.ObjectID, isLeader bool) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		UsernameCI:   text.Fold(username),
		Email:        email,
		ClubID:       clubID,
		IsClubLeader: isLeader,
		IsApproved:   clubID != nil,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateTeamMember inserts a roster member with zeroed aggregates.
func (f *Fixtures) CreateTeamMember(ctx context.Context, clubID primitive.ObjectID, name, enrollment string) models.TeamMember {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.TeamMember{
		ID:               primitive.NewObjectID(),
		ClubID:           clubID,
		Name:             name,
		NameCI:           text.Fold(name),
		EnrollmentNumber: enrollment,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := f.db.Collection("team_members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test team member: %v", err)
	}
	return m
}

// CreateAttendance inserts a meeting record with the given attendees.
func (f *Fixtures) CreateAttendance(ctx context.Context, clubID, createdBy primitive.ObjectID, attendees []models.Attendee) models.Attendance {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Attendance{
		ID:           primitive.NewObjectID(),
		ClubID:       clubID,
		MeetingTitle: "Test Meeting",
		MeetingDate:  now,
		MeetingType:  models.MeetingRegular,
		Attendees:    attendees,
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("attendance").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test attendance record: %v", err)
	}
	return a
}
