// internal/app/store/attendance/attendancestore.go
package attendancestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("attendance")}
}

var (
	// ErrDuplicateAttendee is returned when an attendee list repeats a
	// member id. Nothing is persisted in that case.
	ErrDuplicateAttendee = errors.New("attendee list contains the same member more than once")
	// ErrMemberNotInMeeting is returned when updating a member absent
	// from the record's attendee list.
	ErrMemberNotInMeeting = errors.New("member is not in this meeting's attendee list")
)

// GetByID loads an attendance record by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Attendance, error) {
	var a models.Attendance
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts one meeting record. The attendee list is rejected whole
// if any member id repeats, so the no-duplicate invariant holds from the
// first write.
func (s *Store) Create(ctx context.Context, a models.Attendance) (models.Attendance, error) {
	seen := make(map[primitive.ObjectID]bool, len(a.Attendees))
	for i, att := range a.Attendees {
		if seen[att.MemberID] {
			return models.Attendance{}, ErrDuplicateAttendee
		}
		seen[att.MemberID] = true
		a.Attendees[i].Remarks = htmlsanitize.StripTags(att.Remarks)
	}

	a.ID = primitive.NewObjectID()
	a.LastUpdatedBy = nil
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.Attendees == nil {
		a.Attendees = []models.Attendee{}
	}

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Attendance{}, err
	}
	return a, nil
}

// UpdateAttendee replaces one attendee's status, check-in time, and
// remarks, stamping last_updated_by. The positional filter matches the
// existing entry only, so a member can never be added twice through this
// path; applying the same status twice is a no-op on the final state.
func (s *Store) UpdateAttendee(ctx context.Context, attendanceID, memberID primitive.ObjectID, status string, checkIn *time.Time, remarks string, actor primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": attendanceID, "attendees.member_id": memberID},
		bson.M{"$set": bson.M{
			"attendees.$.status":        status,
			"attendees.$.check_in_time": checkIn,
			"attendees.$.remarks":       htmlsanitize.StripTags(remarks),
			"last_updated_by":           actor,
			"updated_at":                time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing record from a member not on the list.
		if err := s.c.FindOne(ctx, bson.M{"_id": attendanceID}).Err(); err == mongo.ErrNoDocuments {
			return mongo.ErrNoDocuments
		} else if err != nil {
			return err
		}
		return ErrMemberNotInMeeting
	}
	return nil
}

// ListByClub returns a club's meetings sorted by meeting date descending,
// capped at limit.
func (s *Store) ListByClub(ctx context.Context, clubID primitive.ObjectID, limit int64) ([]models.Attendance, error) {
	opts := options.Find().SetSort(bson.D{{Key: "meeting_date", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{"club_id": clubID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []models.Attendance
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListAll returns meetings across all clubs for admin views, sorted by
// meeting date descending, capped at limit.
func (s *Store) ListAll(ctx context.Context, limit int64) ([]models.Attendance, error) {
	opts := options.Find().SetSort(bson.D{{Key: "meeting_date", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []models.Attendance
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
