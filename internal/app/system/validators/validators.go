// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/clubhub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	// helper: ensure collection exists (with truthful logging) and then validator (if provided)
	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			// DocumentDB or other deployments may not support collMod/validators.
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	// Core collections this app uses
	ensure("users", usersSchema())
	ensure("clubs", clubsSchema())
	ensure("access_requests", accessRequestsSchema())
	ensure("team_members", teamMembersSchema())
	ensure("member_files", memberFilesSchema())
	ensure("member_statuses", memberStatusesSchema())
	ensure("attendance", attendanceSchema())
	ensure("settings", settingsSchema())

	// Audit events only need the collection to exist.
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"username", "username_ci", "email"},
			"properties": bson.M{
				"username":       bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"username_ci":    bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"email":          bson.M{"bsonType": "string", "minLength": 3},
				"phone":          bson.M{"bsonType": "string"},
				"credential_ref": bson.M{"bsonType": "string"},
				"club_id":        bson.M{"bsonType": bson.A{"objectId", "null"}},
				"is_club_leader": bson.M{"bsonType": "bool"},
				"is_approved":    bson.M{"bsonType": "bool"},
				"status":         bson.M{"enum": bson.A{"active", "disabled"}},
			},
		},
	}
}

func clubsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "name_ci"},
			"properties": bson.M{
				"name":        bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"name_ci":     bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"description": bson.M{"bsonType": "string"},
				"leader_id":   bson.M{"bsonType": bson.A{"objectId", "null"}},
			},
		},
	}
}

func accessRequestsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "club_id", "name", "email", "status"},
			"properties": bson.M{
				"user_id": bson.M{"bsonType": "objectId"},
				"club_id": bson.M{"bsonType": "objectId"},
				"name":    bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"email":   bson.M{"bsonType": "string", "minLength": 3},
				"status": bson.M{
					"enum": bson.A{models.RequestPending, models.RequestApproved, models.RequestRejected},
				},
				"reviewed_by":      bson.M{"bsonType": bson.A{"objectId", "null"}},
				"rejection_reason": bson.M{"bsonType": "string"},
				"created_at":       bson.M{"bsonType": "date"},
			},
		},
	}
}

func teamMembersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"club_id", "name", "name_ci", "enrollment_number", "points", "hours"},
			"properties": bson.M{
				"club_id":           bson.M{"bsonType": "objectId"},
				"name":              bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"name_ci":           bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"enrollment_number": bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"position":          bson.M{"bsonType": "string"},
				// Aggregates stay non-negative; the store's guarded update
				// enforces it and the schema backstops it.
				"points": bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
				"hours":  bson.M{"bsonType": bson.A{"double", "int", "long"}, "minimum": 0},
			},
		},
	}
}

func memberFilesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"club_id", "name", "name_ci", "enrollment_number"},
			"properties": bson.M{
				"club_id":           bson.M{"bsonType": "objectId"},
				"name":              bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"name_ci":           bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"enrollment_number": bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"position":          bson.M{"bsonType": "string"},
			},
		},
	}
}

func memberStatusesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"member_file_id", "club_id", "recorded_by", "recorded_at"},
			"properties": bson.M{
				"member_file_id": bson.M{"bsonType": "objectId"},
				"club_id":        bson.M{"bsonType": "objectId"},
				"points":         bson.M{"bsonType": bson.A{"int", "long"}},
				"hours":          bson.M{"bsonType": bson.A{"double", "int", "long"}},
				"remark":         bson.M{"bsonType": "string"},
				"recorded_by":    bson.M{"bsonType": "objectId"},
				"recorded_at":    bson.M{"bsonType": "date"},
			},
		},
	}
}

func attendanceSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"club_id", "meeting_title", "meeting_date", "meeting_type", "attendees", "created_by"},
			"properties": bson.M{
				"club_id":       bson.M{"bsonType": "objectId"},
				"meeting_title": bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"meeting_date":  bson.M{"bsonType": "date"},
				"meeting_type": bson.M{
					"enum": bson.A{models.MeetingRegular, models.MeetingSpecial, models.MeetingEmergency, models.MeetingWorkshop},
				},
				"duration_minutes": bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
				"location":         bson.M{"bsonType": "string"},
				"attendees": bson.M{
					"bsonType": "array",
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"member_id", "member_name", "status"},
						"properties": bson.M{
							"member_id":   bson.M{"bsonType": "objectId"},
							"member_name": bson.M{"bsonType": "string", "minLength": 1},
							"status": bson.M{
								"enum": bson.A{models.AttendeePresent, models.AttendeeAbsent, models.AttendeeLate},
							},
						},
					},
				},
				"created_by": bson.M{"bsonType": "objectId"},
			},
		},
	}
}

func settingsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"key"},
			"properties": bson.M{
				"key":                bson.M{"bsonType": "string", "minLength": 1},
				"maintenance_mode":   bson.M{"bsonType": "bool"},
				"max_users_per_club": bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
				"registration_open":  bson.M{"bsonType": "bool"},
				"default_role":       bson.M{"bsonType": "string"},
				"display_limit":      bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
			},
		},
	}
}
