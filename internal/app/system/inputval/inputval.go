// internal/app/system/inputval/inputval.go

// Package inputval validates user-submitted input before it reaches the
// service layer. Struct fields carry `validate` tags naming the rules and
// a `label` tag used in the error message shown to the caller.
package inputval

import (
	"net/mail"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IsValidEmail reports whether s is a well-formed address. Display-name
// forms ("User <user@example.com>") are rejected; only the bare address
// is accepted. Single-label domains pass, which keeps dev and test
// environments usable.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Name == "" && addr.Address == s
}

// IsValidObjectID reports whether s is a 24-character hex ObjectID.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}
