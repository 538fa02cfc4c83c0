// internal/app/store/teammembers/memberstore.go
package teammemberstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/normalize"
	"github.com/dalemusser/clubhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("team_members")}
}

var (
	// ErrDuplicateEnrollment is returned when the enrollment number is
	// already on the club's roster.
	ErrDuplicateEnrollment = errors.New("a team member with this enrollment number already exists in the club")
	// ErrNegativeAggregate is returned when an award would drive the
	// member's points or hours below zero.
	ErrNegativeAggregate = errors.New("award would make aggregate points or hours negative")
)

// GetByID loads a team member by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.TeamMember, error) {
	var m models.TeamMember
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a roster record with zero aggregates and empty history.
// ClubID is immutable after this point.
func (s *Store) Create(ctx context.Context, m models.TeamMember) (models.TeamMember, error) {
	m.ID = primitive.NewObjectID()
	m.Name = normalize.Name(m.Name)
	m.NameCI = text.Fold(m.Name)
	m.EnrollmentNumber = normalize.Enrollment(m.EnrollmentNumber)
	m.Position = normalize.Name(m.Position)
	m.Points = 0
	m.Hours = 0
	m.Remarks = nil
	m.UpdateHistory = nil

	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.TeamMember{}, ErrDuplicateEnrollment
		}
		return models.TeamMember{}, err
	}
	return m, nil
}

// Award appends one immutable ledger entry and adjusts the aggregates in
// the same document write, so points == sum(history.points) and
// hours == sum(history.hours) hold at every observable moment.
//
// The filter refuses the write when a negative delta would take an
// aggregate below zero; that refusal surfaces as ErrNegativeAggregate.
func (s *Store) Award(ctx context.Context, id primitive.ObjectID, entry models.LedgerEntry) (*models.TeamMember, error) {
	entry.Remark = htmlsanitize.StripTags(entry.Remark)
	entry.AddedAt = time.Now().UTC()
	if entry.Date.IsZero() {
		entry.Date = entry.AddedAt
	}

	filter := bson.M{"_id": id}
	if entry.Points < 0 {
		filter["points"] = bson.M{"$gte": -entry.Points}
	}
	if entry.Hours < 0 {
		filter["hours"] = bson.M{"$gte": -entry.Hours}
	}

	after := options.After
	var updated models.TeamMember
	err := s.c.FindOneAndUpdate(ctx, filter,
		bson.M{
			"$push": bson.M{"update_history": entry},
			"$inc":  bson.M{"points": entry.Points, "hours": entry.Hours},
			"$set":  bson.M{"updated_at": entry.AddedAt},
		},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		// The guarded filter did not match: either the member is gone or
		// the delta would break the non-negative invariant.
		if lookupErr := s.c.FindOne(ctx, bson.M{"_id": id}).Err(); lookupErr == mongo.ErrNoDocuments {
			return nil, mongo.ErrNoDocuments
		} else if lookupErr != nil {
			return nil, lookupErr
		}
		return nil, ErrNegativeAggregate
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// AddRemark appends a timestamped note.
func (s *Store) AddRemark(ctx context.Context, id primitive.ObjectID, remark models.Remark) error {
	remark.Text = htmlsanitize.StripTags(remark.Text)
	remark.AddedAt = time.Now().UTC()

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"remarks": remark},
			"$set":  bson.M{"updated_at": remark.AddedAt},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ListByClub returns the club roster sorted by name, capped at limit.
func (s *Store) ListByClub(ctx context.Context, clubID primitive.ObjectID, limit int64) ([]models.TeamMember, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{"club_id": clubID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var members []models.TeamMember
	if err := cur.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}
