// internal/domain/models/settings.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Settings is the process-wide singleton configuration document, read by
// the policy and lifecycle layers. There is exactly one document in the
// settings collection (fixed key), never created per-request.
type Settings struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`

	MaintenanceMode  bool   `bson:"maintenance_mode" json:"maintenance_mode"`
	MaxUsersPerClub  int    `bson:"max_users_per_club" json:"max_users_per_club"`
	RegistrationOpen bool   `bson:"registration_open" json:"registration_open"`
	DefaultRole      string `bson:"default_role" json:"default_role"`
	DisplayLimit     int    `bson:"display_limit" json:"display_limit"`

	UpdatedAt   *time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdatedByID *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"updated_by_id,omitempty"`
}

// Defaults used when no settings document has been saved yet.
const (
	DefaultMaxUsersPerClub = 100
	DefaultDisplayLimit    = 50
	DefaultMemberRole      = "member"
)

// DefaultSettings returns the settings used before an admin saves any.
func DefaultSettings() Settings {
	return Settings{
		MaintenanceMode:  false,
		MaxUsersPerClub:  DefaultMaxUsersPerClub,
		RegistrationOpen: true,
		DefaultRole:      DefaultMemberRole,
		DisplayLimit:     DefaultDisplayLimit,
	}
}
