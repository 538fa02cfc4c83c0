// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"context"
	"time"

	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// settingsKey identifies the singleton document. There is never more
// than one settings document.
const settingsKey = "global"

// Store provides access to the settings collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new settings store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("settings")}
}

// Get returns the settings singleton, or defaults if none was saved yet.
func (s *Store) Get(ctx context.Context) (models.Settings, error) {
	var settings models.Settings
	err := s.c.FindOne(ctx, bson.M{"key": settingsKey}).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}

// Save upserts the settings singleton, stamping the updater.
func (s *Store) Save(ctx context.Context, settings models.Settings, updatedBy primitive.ObjectID) error {
	now := time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"maintenance_mode":   settings.MaintenanceMode,
			"max_users_per_club": settings.MaxUsersPerClub,
			"registration_open":  settings.RegistrationOpen,
			"default_role":       settings.DefaultRole,
			"display_limit":      settings.DisplayLimit,
			"updated_at":         now,
			"updated_by_id":      updatedBy,
		},
		"$setOnInsert": bson.M{
			"_id": primitive.NewObjectID(),
			"key": settingsKey,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, bson.M{"key": settingsKey}, update, opts)
	return err
}
