// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.

The unique indexes here back invariants the stores rely on:
  - users: unique email and username
  - clubs: unique folded name
  - access_requests: at most one pending request per user (partial)
  - team_members / member_files: unique enrollment number per club
*/
func EnsureAll(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureClubs(ctx, db); err != nil {
		problems = append(problems, "clubs: "+err.Error())
	}
	if err := ensureAccessRequests(ctx, db); err != nil {
		problems = append(problems, "access_requests: "+err.Error())
	}
	if err := ensureTeamMembers(ctx, db); err != nil {
		problems = append(problems, "team_members: "+err.Error())
	}
	if err := ensureMemberFiles(ctx, db); err != nil {
		problems = append(problems, "member_files: "+err.Error())
	}
	if err := ensureMemberStatuses(ctx, db); err != nil {
		problems = append(problems, "member_statuses: "+err.Error())
	}
	if err := ensureAttendance(ctx, db); err != nil {
		problems = append(problems, "attendance: "+err.Error())
	}
	if err := ensureSettings(ctx, db); err != nil {
		problems = append(problems, "settings: "+err.Error())
	}
	if err := ensureAuditEvents(ctx, db); err != nil {
		problems = append(problems, "audit_events: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	if log != nil {
		log.Info("indexes ensured")
	}
	return nil
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	for _, m := range models {
		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			// Same keys under a different name or with different options.
			// Safe to continue on conflict; the keys are already indexed.
			if isOptionsConflictErr(err) {
				continue
			}
			name := ""
			if m.Options != nil && m.Options.Name != nil {
				name = *m.Options.Name
			}
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Mongo sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name.
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func uniqueNamed(name string) *options.IndexOptions {
	return options.Index().SetName(name).SetUnique(true)
}

func named(name string) *options.IndexOptions {
	return options.Index().SetName(name)
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: uniqueNamed("uniq_email")},
		{Keys: bson.D{{Key: "username_ci", Value: 1}}, Options: uniqueNamed("uniq_username_ci")},
		{Keys: bson.D{{Key: "club_id", Value: 1}, {Key: "is_approved", Value: 1}}, Options: named("club_approved")},
	})
}

func ensureClubs(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("clubs"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "name_ci", Value: 1}}, Options: uniqueNamed("uniq_name_ci")},
	})
}

func ensureAccessRequests(ctx context.Context, db *mongo.Database) error {
	// The partial unique index is what makes duplicate pending
	// submissions impossible under concurrency.
	pendingOnly := options.Index().
		SetName("uniq_pending_per_user").
		SetUnique(true).
		SetPartialFilterExpression(bson.M{"status": "pending"})

	return ensureIndexSet(ctx, db.Collection("access_requests"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: pendingOnly},
		{Keys: bson.D{{Key: "club_id", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}}, Options: named("club_status_created")},
	})
}

func ensureTeamMembers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("team_members"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "club_id", Value: 1}, {Key: "enrollment_number", Value: 1}}, Options: uniqueNamed("uniq_enrollment_per_club")},
		{Keys: bson.D{{Key: "club_id", Value: 1}, {Key: "name_ci", Value: 1}}, Options: named("club_name")},
	})
}

func ensureMemberFiles(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("member_files"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "club_id", Value: 1}, {Key: "enrollment_number", Value: 1}}, Options: uniqueNamed("uniq_enrollment_per_club")},
	})
}

func ensureMemberStatuses(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("member_statuses"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "member_file_id", Value: 1}, {Key: "recorded_at", Value: -1}}, Options: named("file_recorded")},
	})
}

func ensureAttendance(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("attendance"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "club_id", Value: 1}, {Key: "meeting_date", Value: -1}}, Options: named("club_meeting_date")},
		{Keys: bson.D{{Key: "meeting_date", Value: -1}}, Options: named("meeting_date")},
	})
}

func ensureSettings(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("settings"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "key", Value: 1}}, Options: uniqueNamed("uniq_key")},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("audit_events"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}, Options: named("created")},
		{Keys: bson.D{{Key: "event_id", Value: 1}}, Options: uniqueNamed("uniq_event_id")},
	})
}
