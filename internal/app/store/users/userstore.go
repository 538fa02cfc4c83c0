// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

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
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when a user with the email already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrDuplicateUsername is returned when the username is already taken.
	ErrDuplicateUsername = errors.New("a user with this username already exists")
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername looks up a user by case-insensitive username.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"username_ci": normalize.Username(username)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing fields. New users start
// unapproved and without a club; approval and club assignment happen
// through the membership lifecycle only.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Username = normalize.Name(u.Username)
	u.UsernameCI = text.Fold(u.Username)
	u.Email = normalize.Email(u.Email)
	u.ClubID = nil
	u.IsClubLeader = false
	u.IsApproved = false
	if u.Status == "" {
		u.Status = "active"
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			// The unique index on email is checked before username, so a
			// collision on either surfaces; disambiguate with a lookup.
			if existing, lookupErr := s.GetByEmail(ctx, u.Email); lookupErr == nil && existing != nil {
				return models.User{}, ErrDuplicateEmail
			}
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, err
	}
	return u, nil
}

// ApproveIntoClub sets is_approved and assigns the club if the user has
// none yet. Used by the membership lifecycle inside its approve
// transaction; it must never be called outside that path.
func (s *Store) ApproveIntoClub(ctx context.Context, userID, clubID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		[]bson.M{{
			"$set": bson.M{
				"is_approved": true,
				"club_id":     bson.M{"$ifNull": []interface{}{"$club_id", clubID}},
				"updated_at":  time.Now().UTC(),
			},
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetLeaderFlag flips is_club_leader and, when promoting, pins the club.
// Demoting keeps the club assignment so the user remains a member.
func (s *Store) SetLeaderFlag(ctx context.Context, userID primitive.ObjectID, clubID *primitive.ObjectID, isLeader bool) error {
	set := bson.M{
		"is_club_leader": isLeader,
		"updated_at":     time.Now().UTC(),
	}
	if isLeader && clubID != nil {
		set["club_id"] = *clubID
		set["is_approved"] = true
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CountApprovedInClub returns the number of approved users assigned to a
// club. The membership lifecycle compares it against the configured
// per-club cap before approving.
func (s *Store) CountApprovedInClub(ctx context.Context, clubID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"club_id": clubID, "is_approved": true})
}

// ListByClub returns users assigned to a club, capped at limit.
func (s *Store) ListByClub(ctx context.Context, clubID primitive.ObjectID, limit int64) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "username_ci", Value: 1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{"club_id": clubID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
