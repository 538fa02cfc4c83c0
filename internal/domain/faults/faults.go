// internal/domain/faults/faults.go

// Package faults defines the error taxonomy shared by the core services.
// Every failure a service returns to its transport collaborator is one of
// these kinds; the collaborator maps kinds to status codes.
package faults

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// Unknown is the zero kind for errors that did not come from this package.
	Unknown Kind = iota
	// Unauthenticated means no or invalid caller identity.
	Unauthenticated
	// InsufficientRole is a policy denial.
	InsufficientRole
	// NotFound means a referenced entity is missing.
	NotFound
	// DuplicateRequest means the user already has a pending access request.
	DuplicateRequest
	// DuplicateAttendee means an attendee list repeats a member id.
	DuplicateAttendee
	// MemberNotInMeeting means the member is absent from the attendee list.
	MemberNotInMeeting
	// NegativeAggregate means an award would drive points or hours below zero.
	NegativeAggregate
	// InvalidInput covers malformed dates, enums, and payload fields.
	InvalidInput
	// Transient is a storage timeout or unavailability; safe to retry.
	Transient
	// Inconsistent means an atomicity guarantee could not be satisfied.
	// Treated as a bug signal: always logged with full context.
	Inconsistent
)

var kindNames = map[Kind]string{
	Unknown:            "unknown",
	Unauthenticated:    "unauthenticated",
	InsufficientRole:   "insufficient_role",
	NotFound:           "not_found",
	DuplicateRequest:   "duplicate_request",
	DuplicateAttendee:  "duplicate_attendee",
	MemberNotInMeeting: "member_not_in_meeting",
	NegativeAggregate:  "negative_aggregate",
	InvalidInput:       "invalid_input",
	Transient:          "transient",
	Inconsistent:       "inconsistent",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Fault is a kinded error, optionally wrapping a cause.
type Fault struct {
	Kind Kind
	Msg  string
	Err  error
}

func (f *Fault) Error() string {
	switch {
	case f.Msg != "" && f.Err != nil:
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Msg, f.Err)
	case f.Msg != "":
		return fmt.Sprintf("%s: %s", f.Kind, f.Msg)
	case f.Err != nil:
		return fmt.Sprintf("%s: %v", f.Kind, f.Err)
	}
	return f.Kind.String()
}

func (f *Fault) Unwrap() error { return f.Err }

// New creates a fault with a formatted message.
func New(kind Kind, format string, args ...any) error {
	return &Fault{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates a fault wrapping cause. Returns nil if cause is nil.
func Wrap(kind Kind, cause error, msg string) error {
	if cause == nil {
		return nil
	}
	return &Fault{Kind: kind, Msg: msg, Err: cause}
}

// KindOf returns the kind of err, or Unknown if err is not a Fault.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Retryable reports whether the caller may safely retry the operation.
func Retryable(err error) bool {
	return Is(err, Transient)
}
