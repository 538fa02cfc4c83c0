// internal/domain/models/club.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Club represents one club inside the organization.
//
// LeaderID is the authoritative leader edge. The leader's User document
// must carry club_id == this club and is_club_leader == true; SetLeader
// on the club store repairs both sides.
type Club struct {
	ID          primitive.ObjectID  `bson:"_id" json:"id"`
	Name        string              `bson:"name" json:"name"`
	NameCI      string              `bson:"name_ci" json:"name_ci"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	LeaderID    *primitive.ObjectID `bson:"leader_id,omitempty" json:"leader_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
