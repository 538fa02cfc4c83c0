// internal/domain/models/accessrequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccessRequest statuses. pending is the only non-terminal state.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// AccessRequest is a pending-join workflow record. A user has at most one
// pending request at a time (partial unique index on user_id where
// status == "pending"). Terminal records are immutable; re-requesting
// creates a new document.
type AccessRequest struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	ClubID primitive.ObjectID `bson:"club_id" json:"club_id"`

	// Contact snapshot taken at submission time so reviewers see what the
	// requester entered even if the user record changes later.
	Name    string `bson:"name" json:"name"`
	Email   string `bson:"email" json:"email"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
	Message string `bson:"message,omitempty" json:"message,omitempty"`

	Status          string              `bson:"status" json:"status"`
	ReviewedBy      *primitive.ObjectID `bson:"reviewed_by,omitempty" json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time          `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`
	RejectionReason string              `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Terminal reports whether the request has reached a final state.
func (r *AccessRequest) Terminal() bool {
	return r.Status == RequestApproved || r.Status == RequestRejected
}
