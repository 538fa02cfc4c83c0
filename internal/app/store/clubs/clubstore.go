// internal/app/store/clubs/clubstore.go
package clubstore

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
	c     *mongo.Collection
	users *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("clubs"),
		users: db.Collection("users"),
	}
}

// ErrDuplicateName is returned when a club with the name already exists.
var ErrDuplicateName = errors.New("a club with this name already exists")

// GetByID loads a club by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Club, error) {
	var c models.Club
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new club without a leader. Leadership is assigned
// separately through SetLeader so the bidirectional invariant is repaired
// in one place.
func (s *Store) Create(ctx context.Context, c models.Club) (models.Club, error) {
	c.ID = primitive.NewObjectID()
	c.Name = normalize.Name(c.Name)
	c.NameCI = text.Fold(c.Name)
	c.Description = htmlsanitize.StripTags(c.Description)
	c.LeaderID = nil

	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Club{}, ErrDuplicateName
		}
		return models.Club{}, err
	}
	return c, nil
}

// SetLeader makes userID the leader of clubID and repairs both sides of
// the relationship: the club's authoritative leader_id, the new leader's
// denormalized flags, and the previous leader's demotion. Caller is
// expected to run this inside txn.Run.
func (s *Store) SetLeader(ctx context.Context, clubID, userID primitive.ObjectID) error {
	var club models.Club
	if err := s.c.FindOne(ctx, bson.M{"_id": clubID}).Decode(&club); err != nil {
		return err
	}

	now := time.Now().UTC()

	// Demote the previous leader first; the club document below is the
	// authoritative edge, so a failure after this point leaves no club
	// pointing at a non-leader.
	if club.LeaderID != nil && *club.LeaderID != userID {
		if _, err := s.users.UpdateOne(ctx,
			bson.M{"_id": *club.LeaderID},
			bson.M{"$set": bson.M{"is_club_leader": false, "updated_at": now}},
		); err != nil {
			return err
		}
	}

	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{
			"is_club_leader": true,
			"is_approved":    true,
			"club_id":        clubID,
			"updated_at":     now,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	_, err = s.c.UpdateOne(ctx,
		bson.M{"_id": clubID},
		bson.M{"$set": bson.M{"leader_id": userID, "updated_at": now}},
	)
	return err
}

// List returns clubs sorted by name, capped at limit.
func (s *Store) List(ctx context.Context, limit int64) ([]models.Club, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var clubs []models.Club
	if err := cur.All(ctx, &clubs); err != nil {
		return nil, err
	}
	return clubs, nil
}
