// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories.
const (
	CategoryMembership = "membership"
	CategoryScoring    = "scoring"
	CategoryAttendance = "attendance"
	CategorySystem     = "system"
)

// Event is one audit record. EventID is a uuid string so events can be
// referenced in operator tooling independent of Mongo ids.
type Event struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	EventID   string              `bson:"event_id" json:"event_id"`
	Category  string              `bson:"category" json:"category"`
	EventType string              `bson:"event_type" json:"event_type"`
	Success   bool                `bson:"success" json:"success"`
	ActorID   *primitive.ObjectID `bson:"actor_id,omitempty" json:"actor_id,omitempty"`
	TargetID  *primitive.ObjectID `bson:"target_id,omitempty" json:"target_id,omitempty"`
	ClubID    *primitive.ObjectID `bson:"club_id,omitempty" json:"club_id,omitempty"`
	Details   map[string]string   `bson:"details,omitempty" json:"details,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}

// Store provides access to the audit_events collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Insert writes one event.
func (s *Store) Insert(ctx context.Context, e Event) error {
	e.ID = primitive.NewObjectID()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, e)
	return err
}

// Recent returns the newest events, capped at limit.
func (s *Store) Recent(ctx context.Context, limit int64) ([]Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// DeleteOlderThan removes events created before cutoff. Returns how many
// were removed. Used by the retention worker.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
