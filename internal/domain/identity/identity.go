// internal/domain/identity/identity.go

// Package identity defines the verified caller context produced by the
// external credential-verification collaborator. Every core operation
// receives one; the core never sees raw credentials.
package identity

import "go.mongodb.org/mongo-driver/bson/primitive"

// Identity is a verified caller.
type Identity struct {
	UserID   primitive.ObjectID
	Username string
	Email    string
	// IsAdmin is derived from the configured administrator email at
	// resolution time, not stored on the user record.
	IsAdmin bool
}

// Anonymous reports whether the identity carries no user.
func (id Identity) Anonymous() bool {
	return id.UserID.IsZero()
}
