// internal/app/system/authz/roles.go
package authz

import "go.mongodb.org/mongo-driver/bson/primitive"

// Kind is the authorization tier of an effective role.
type Kind int

const (
	// Unaffiliated is any authenticated user without an approved club.
	Unaffiliated Kind = iota
	// ClubMember is an approved member of the role's club.
	ClubMember
	// ClubLeader leads the role's club.
	ClubLeader
	// SystemAdmin matches the configured administrator email.
	SystemAdmin
)

var kindNames = map[Kind]string{
	Unaffiliated: "unaffiliated",
	ClubMember:   "club_member",
	ClubLeader:   "club_leader",
	SystemAdmin:  "system_admin",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unaffiliated"
}

// Role is an effective role. ClubID is set for ClubLeader and ClubMember.
type Role struct {
	Kind   Kind
	ClubID primitive.ObjectID
}

// IsAdmin reports whether the role is the global administrator.
func (r Role) IsAdmin() bool { return r.Kind == SystemAdmin }

// LeaderOf reports whether the role leads the given club.
func (r Role) LeaderOf(clubID primitive.ObjectID) bool {
	return r.Kind == ClubLeader && r.ClubID == clubID
}

// MemberOf reports whether the role belongs to the given club, as either
// leader or member.
func (r Role) MemberOf(clubID primitive.ObjectID) bool {
	return (r.Kind == ClubLeader || r.Kind == ClubMember) && r.ClubID == clubID
}
