// Package accesspolicy is the single decision point for every read and
// write in the system. It is a pure function over (effective role,
// requested operation, owning club); it never touches storage, which
// keeps it trivially testable and forces callers to resolve roles first.
//
// Rules are evaluated in order, first match wins, default deny.
package accesspolicy

import (
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resource classifies what a request targets.
type Resource int

const (
	// ResourceUser is a user profile.
	ResourceUser Resource = iota
	// ResourceClub is a club record.
	ResourceClub
	// ResourceRoster covers TeamMember records, including their scoring
	// ledger.
	ResourceRoster
	// ResourceAttendance covers per-meeting attendance records.
	ResourceAttendance
	// ResourceMemberFile covers roster files and their status awards.
	ResourceMemberFile
	// ResourceAccessRequest covers join-request records.
	ResourceAccessRequest
	// ResourceSettings is the process-wide settings singleton.
	ResourceSettings
)

// Action is what the caller wants to do.
type Action int

const (
	// ActionRead is any non-mutating access.
	ActionRead Action = iota
	// ActionWrite is any mutation, including scoring awards and
	// attendance updates.
	ActionWrite
	// ActionSubmitRequest is the one write an unaffiliated user may
	// perform: creating their own access request.
	ActionSubmitRequest
)

// Request describes one operation for the policy engine.
type Request struct {
	Caller   primitive.ObjectID
	Action   Action
	Resource Resource
	// ClubID is the owning club of the target resource; zero when the
	// resource has no club scope (settings, unassigned users).
	ClubID primitive.ObjectID
	// OwnerID is the owning user for profile and request reads; zero
	// otherwise.
	OwnerID primitive.ObjectID
}

// Decision is the policy outcome. Reason is set only on denial.
type Decision struct {
	Allowed bool
	Reason  string
}

// Denial reasons.
const (
	ReasonInsufficientRole = "insufficient_role"
	ReasonWrongClub        = "wrong_club"
	ReasonReadOnly         = "read_only"
)

func allow() Decision             { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Allowed: false, Reason: reason} }

// leaderResources are the club-scoped resources a leader fully controls.
var leaderResources = map[Resource]bool{
	ResourceRoster:        true,
	ResourceAttendance:    true,
	ResourceMemberFile:    true,
	ResourceAccessRequest: true,
}

// Decide returns the policy outcome for one request.
func Decide(role authz.Role, req Request) Decision {
	// Rule 1: the administrator can do everything, everywhere.
	if role.Kind == authz.SystemAdmin {
		return allow()
	}

	// Rule 2: anyone authenticated reads their own records.
	if req.Action == ActionRead {
		if req.OwnerID == req.Caller && !req.Caller.IsZero() {
			return allow()
		}
		if role.MemberOf(req.ClubID) {
			switch req.Resource {
			case ResourceClub, ResourceRoster, ResourceAttendance, ResourceMemberFile:
				return allow()
			}
		}
	}

	switch role.Kind {
	case authz.ClubLeader:
		// Rule 3: leaders read and write club-scoped records of their
		// own club only.
		if !leaderResources[req.Resource] {
			return deny(ReasonInsufficientRole)
		}
		if req.ClubID != role.ClubID {
			return deny(ReasonWrongClub)
		}
		return allow()

	case authz.ClubMember:
		// Rule 4: members are read-only, and rule 2 already granted
		// every read they are entitled to.
		if req.Action == ActionRead {
			return deny(ReasonWrongClub)
		}
		return deny(ReasonReadOnly)

	case authz.Unaffiliated:
		// Rule 5: the only write an unaffiliated user may perform is
		// submitting their own access request.
		if req.Action == ActionSubmitRequest && req.Resource == ResourceAccessRequest {
			return allow()
		}
		return deny(ReasonInsufficientRole)
	}

	return deny(ReasonInsufficientRole)
}
