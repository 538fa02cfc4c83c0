// internal/domain/models/memberfile.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberFile is a roster entry independent of login identity. It records a
// physical club member who may or may not have a User account.
type MemberFile struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClubID           primitive.ObjectID `bson:"club_id" json:"club_id"`
	Name             string             `bson:"name" json:"name"`
	NameCI           string             `bson:"name_ci" json:"name_ci"`
	EnrollmentNumber string             `bson:"enrollment_number" json:"enrollment_number"`
	Position         string             `bson:"position,omitempty" json:"position,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// MemberStatus is an award record attached to a MemberFile. It is a
// standalone note of points/hours for members without TeamMember records;
// it never feeds TeamMember aggregates (UpdateHistory is the sole
// authoritative ledger for those).
type MemberStatus struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberFileID primitive.ObjectID `bson:"member_file_id" json:"member_file_id"`
	ClubID       primitive.ObjectID `bson:"club_id" json:"club_id"`
	Points       int                `bson:"points" json:"points"`
	Hours        float64            `bson:"hours" json:"hours"`
	Remark       string             `bson:"remark,omitempty" json:"remark,omitempty"`
	RecordedBy   primitive.ObjectID `bson:"recorded_by" json:"recorded_by"`
	RecordedAt   time.Time          `bson:"recorded_at" json:"recorded_at"`
}
