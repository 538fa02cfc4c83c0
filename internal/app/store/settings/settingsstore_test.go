// internal/app/store/settings/settingsstore_test.go
package settingsstore

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/clubhub/internal/app/system/indexes"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/clubhub/internal/testutil"
)

func TestGetReturnsDefaultsWhenUnset(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	got, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := models.DefaultSettings()
	if got.MaxUsersPerClub != want.MaxUsersPerClub || got.DisplayLimit != want.DisplayLimit ||
		!got.RegistrationOpen || got.MaintenanceMode {
		t.Fatalf("defaults = %+v, want %+v", got, want)
	}
}

func TestSaveUpsertsSingleton(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, nil); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	store := New(db)
	admin := primitive.NewObjectID()

	first := models.DefaultSettings()
	first.MaintenanceMode = true
	first.MaxUsersPerClub = 25
	if err := store.Save(ctx, first, admin); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	second := first
	second.MaintenanceMode = false
	second.DisplayLimit = 10
	if err := store.Save(ctx, second, admin); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.MaintenanceMode || got.MaxUsersPerClub != 25 || got.DisplayLimit != 10 {
		t.Fatalf("settings = %+v, want second save applied", got)
	}
	if got.UpdatedAt == nil || got.UpdatedByID == nil || *got.UpdatedByID != admin {
		t.Fatalf("updater not stamped: %+v", got)
	}

	// Repeated saves still leave exactly one document.
	count, err := db.Collection("settings").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("CountDocuments: %v", err)
	}
	if count != 1 {
		t.Fatalf("settings documents = %d, want 1", count)
	}
}
