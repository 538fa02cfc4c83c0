// internal/domain/models/teammember.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LedgerEntry is one immutable points/hours adjustment in a team member's
// update history. Entries are only ever appended; corrections are new
// entries with compensating deltas.
type LedgerEntry struct {
	Points  int                `bson:"points" json:"points"`
	Hours   float64            `bson:"hours" json:"hours"`
	Remark  string             `bson:"remark,omitempty" json:"remark,omitempty"`
	Date    time.Time          `bson:"date" json:"date"`
	AddedBy primitive.ObjectID `bson:"added_by" json:"added_by"`
	AddedAt time.Time          `bson:"added_at" json:"added_at"`
}

// Remark is a timestamped free-text note on a team member.
type Remark struct {
	Text    string             `bson:"text" json:"text"`
	AddedBy primitive.ObjectID `bson:"added_by" json:"added_by"`
	AddedAt time.Time          `bson:"added_at" json:"added_at"`
}

// TeamMember is the authoritative per-club roster record.
//
// Invariant: Points == sum of UpdateHistory[].Points and Hours == sum of
// UpdateHistory[].Hours at all times. The store maintains both in a single
// document write so the invariant cannot be observed broken.
//
// ClubID is required and immutable after creation.
type TeamMember struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClubID           primitive.ObjectID `bson:"club_id" json:"club_id"`
	Name             string             `bson:"name" json:"name"`
	NameCI           string             `bson:"name_ci" json:"name_ci"`
	EnrollmentNumber string             `bson:"enrollment_number" json:"enrollment_number"`
	Position         string             `bson:"position,omitempty" json:"position,omitempty"`

	Points int     `bson:"points" json:"points"`
	Hours  float64 `bson:"hours" json:"hours"`

	Remarks       []Remark      `bson:"remarks,omitempty" json:"remarks,omitempty"`
	UpdateHistory []LedgerEntry `bson:"update_history,omitempty" json:"update_history,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
