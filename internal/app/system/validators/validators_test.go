package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/validators"
	"github.com/dalemusser/clubhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// EnsureAll should succeed on a clean database
	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// First call
	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}

	// Second call should also succeed (idempotent)
	err = validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Verify collections exist
	expectedCollections := []string{
		"users",
		"clubs",
		"access_requests",
		"team_members",
		"member_files",
		"member_statuses",
		"attendance",
		"settings",
		"audit_events",
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}

	collMap := make(map[string]bool)
	for _, name := range names {
		collMap[name] = true
	}

	for _, expected := range expectedCollections {
		if !collMap[expected] {
			t.Errorf("expected collection %q to exist", expected)
		}
	}
}

func TestUsersValidator_RequiredFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Try to insert user without required fields - should fail
	_, err = db.Collection("users").InsertOne(ctx, bson.M{
		"username": "test",
	})
	if err == nil {
		t.Error("expected validation error when inserting user without required fields")
	}
}

func TestUsersValidator_ValidUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Insert valid user - should succeed
	_, err = db.Collection("users").InsertOne(ctx, bson.M{
		"username":       "testuser",
		"username_ci":    "testuser",
		"email":          "test@example.edu",
		"is_club_leader": false,
		"is_approved":    false,
		"status":         "active",
	})
	if err != nil {
		t.Errorf("Insert valid user failed: %v", err)
	}
}

func TestUsersValidator_InvalidStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err = db.Collection("users").InsertOne(ctx, bson.M{
		"username":    "testuser",
		"username_ci": "testuser",
		"email":       "test@example.edu",
		"status":      "banished",
	})
	if err == nil {
		t.Error("expected validation error for unknown status")
	}
}

func TestAccessRequestsValidator_InvalidStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err = db.Collection("access_requests").InsertOne(ctx, bson.M{
		"user_id":    primitive.NewObjectID(),
		"club_id":    primitive.NewObjectID(),
		"name":       "Test User",
		"email":      "test@example.edu",
		"status":     "maybe",
		"created_at": time.Now().UTC(),
	})
	if err == nil {
		t.Error("expected validation error for unknown request status")
	}
}

func TestAccessRequestsValidator_ValidRequest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err = db.Collection("access_requests").InsertOne(ctx, bson.M{
		"user_id":    primitive.NewObjectID(),
		"club_id":    primitive.NewObjectID(),
		"name":       "Test User",
		"email":      "test@example.edu",
		"status":     "pending",
		"created_at": time.Now().UTC(),
	})
	if err != nil {
		t.Errorf("Insert valid request failed: %v", err)
	}
}

func TestTeamMembersValidator_NegativeAggregates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err = db.Collection("team_members").InsertOne(ctx, bson.M{
		"club_id":           primitive.NewObjectID(),
		"name":              "Test Member",
		"name_ci":           "test member",
		"enrollment_number": "EN-001",
		"points":            -5,
		"hours":             0.0,
	})
	if err == nil {
		t.Error("expected validation error for negative points")
	}
}

func TestAttendanceValidator_InvalidMeetingType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err = db.Collection("attendance").InsertOne(ctx, bson.M{
		"club_id":       primitive.NewObjectID(),
		"meeting_title": "Weekly Sync",
		"meeting_date":  time.Now().UTC(),
		"meeting_type":  "party",
		"attendees":     bson.A{},
		"created_by":    primitive.NewObjectID(),
	})
	if err == nil {
		t.Error("expected validation error for unknown meeting type")
	}
}

func TestAttendanceValidator_ValidMeeting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err = db.Collection("attendance").InsertOne(ctx, bson.M{
		"club_id":       primitive.NewObjectID(),
		"meeting_title": "Weekly Sync",
		"meeting_date":  time.Now().UTC(),
		"meeting_type":  "regular",
		"attendees": bson.A{
			bson.M{
				"member_id":   primitive.NewObjectID(),
				"member_name": "Test Member",
				"status":      "present",
			},
		},
		"created_by": primitive.NewObjectID(),
	})
	if err != nil {
		t.Errorf("Insert valid meeting failed: %v", err)
	}
}
