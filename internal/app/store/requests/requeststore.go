// internal/app/store/requests/requeststore.go
package requeststore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/normalize"
	"github.com/dalemusser/clubhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("access_requests")}
}

var (
	// ErrPendingExists is returned when the user already has an open request.
	// Enforced by the partial unique index on (user_id, status=pending).
	ErrPendingExists = errors.New("user already has a pending access request")
	// ErrNotPending is returned when reviewing a request that already
	// reached a terminal state. Terminal records are immutable.
	ErrNotPending = errors.New("access request is not pending")
)

// GetByID loads a request by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.AccessRequest, error) {
	var req models.AccessRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// Submit creates a new pending request. The partial unique index makes
// concurrent double-submission impossible; the duplicate key error maps
// to ErrPendingExists.
func (s *Store) Submit(ctx context.Context, req models.AccessRequest) (models.AccessRequest, error) {
	req.ID = primitive.NewObjectID()
	req.Name = normalize.Name(req.Name)
	req.Email = normalize.Email(req.Email)
	req.Message = htmlsanitize.StripTags(req.Message)
	req.Status = models.RequestPending
	req.ReviewedBy = nil
	req.ReviewedAt = nil
	req.RejectionReason = ""
	req.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, req); err != nil {
		if wafflemongo.IsDup(err) {
			return models.AccessRequest{}, ErrPendingExists
		}
		return models.AccessRequest{}, err
	}
	return req, nil
}

// MarkApproved transitions pending → approved, stamping the reviewer.
// The status filter guarantees the transition happens at most once even
// under concurrent reviews.
func (s *Store) MarkApproved(ctx context.Context, id, reviewer primitive.ObjectID, at time.Time) error {
	return s.transition(ctx, id, bson.M{
		"status":      models.RequestApproved,
		"reviewed_by": reviewer,
		"reviewed_at": at,
	})
}

// MarkRejected transitions pending → rejected with the required reason.
func (s *Store) MarkRejected(ctx context.Context, id, reviewer primitive.ObjectID, at time.Time, reason string) error {
	return s.transition(ctx, id, bson.M{
		"status":           models.RequestRejected,
		"reviewed_by":      reviewer,
		"reviewed_at":      at,
		"rejection_reason": htmlsanitize.StripTags(reason),
	})
}

func (s *Store) transition(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.RequestPending},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the request does not exist or it already left pending.
		if err := s.c.FindOne(ctx, bson.M{"_id": id}).Err(); err == mongo.ErrNoDocuments {
			return mongo.ErrNoDocuments
		} else if err != nil {
			return err
		}
		return ErrNotPending
	}
	return nil
}

// HasPending reports whether the user currently has an open request.
func (s *Store) HasPending(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"user_id": userID, "status": models.RequestPending}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListPending returns open requests, newest first, optionally scoped to a
// club, capped at limit.
func (s *Store) ListPending(ctx context.Context, clubID *primitive.ObjectID, limit int64) ([]models.AccessRequest, error) {
	filter := bson.M{"status": models.RequestPending}
	if clubID != nil {
		filter["club_id"] = *clubID
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var reqs []models.AccessRequest
	if err := cur.All(ctx, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// ListByUser returns all of a user's requests, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.AccessRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var reqs []models.AccessRequest
	if err := cur.All(ctx, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}
