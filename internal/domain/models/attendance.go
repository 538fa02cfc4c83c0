// internal/domain/models/attendance.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Meeting types.
const (
	MeetingRegular   = "regular"
	MeetingSpecial   = "special"
	MeetingEmergency = "emergency"
	MeetingWorkshop  = "workshop"
)

// Attendee statuses.
const (
	AttendeePresent = "present"
	AttendeeAbsent  = "absent"
	AttendeeLate    = "late"
)

// ValidMeetingType reports whether t is one of the known meeting types.
func ValidMeetingType(t string) bool {
	switch t {
	case MeetingRegular, MeetingSpecial, MeetingEmergency, MeetingWorkshop:
		return true
	}
	return false
}

// ValidAttendeeStatus reports whether s is a known attendee status.
func ValidAttendeeStatus(s string) bool {
	switch s {
	case AttendeePresent, AttendeeAbsent, AttendeeLate:
		return true
	}
	return false
}

// Attendee is one member's check-in snapshot inside an Attendance record.
type Attendee struct {
	MemberID         primitive.ObjectID `bson:"member_id" json:"member_id"`
	MemberName       string             `bson:"member_name" json:"member_name"`
	EnrollmentNumber string             `bson:"enrollment_number,omitempty" json:"enrollment_number,omitempty"`
	Status           string             `bson:"status" json:"status"`
	CheckInTime      *time.Time         `bson:"check_in_time,omitempty" json:"check_in_time,omitempty"`
	Remarks          string             `bson:"remarks,omitempty" json:"remarks,omitempty"`
}

// Attendance is one record per meeting.
//
// Invariant: Attendees holds at most one entry per MemberID. The store
// rejects duplicate member ids at creation and uses a filtered positional
// update for status changes, so the invariant holds under concurrency.
type Attendance struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClubID          primitive.ObjectID `bson:"club_id" json:"club_id"`
	MeetingTitle    string             `bson:"meeting_title" json:"meeting_title"`
	MeetingDate     time.Time          `bson:"meeting_date" json:"meeting_date"`
	MeetingType     string             `bson:"meeting_type" json:"meeting_type"`
	DurationMinutes int                `bson:"duration_minutes,omitempty" json:"duration_minutes,omitempty"`
	Location        string             `bson:"location,omitempty" json:"location,omitempty"`

	Attendees []Attendee `bson:"attendees" json:"attendees"`

	CreatedBy     primitive.ObjectID  `bson:"created_by" json:"created_by"`
	LastUpdatedBy *primitive.ObjectID `bson:"last_updated_by,omitempty" json:"last_updated_by,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
