// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a login identity: admins, club leaders, and members.
//
// NOTE:
//   - ClubID is a denormalized back-reference. Club.LeaderID is the
//     authoritative side of the leader relationship; the membership
//     lifecycle keeps the two in sync.
//   - Users are never physically deleted; disable via Status instead.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username   string             `bson:"username" json:"username"`
	UsernameCI string             `bson:"username_ci" json:"username_ci"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`

	// CredentialRef points at the credential record managed by the external
	// auth collaborator. Opaque here; never a raw password.
	CredentialRef string `bson:"credential_ref,omitempty" json:"-"`

	ClubID       *primitive.ObjectID `bson:"club_id,omitempty" json:"club_id,omitempty"`
	IsClubLeader bool                `bson:"is_club_leader" json:"is_club_leader"`
	IsApproved   bool                `bson:"is_approved" json:"is_approved"`

	Status string `bson:"status,omitempty" json:"status,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
