// internal/app/service/attendance.go
package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/clubhub/internal/app/policy/accesspolicy"
	attendancestore "github.com/dalemusser/clubhub/internal/app/store/attendance"
	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/domain/faults"
	"github.com/dalemusser/clubhub/internal/domain/identity"
	"github.com/dalemusser/clubhub/internal/domain/models"
)

type attendanceRecords interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Attendance, error)
	Create(ctx context.Context, a models.Attendance) (models.Attendance, error)
	UpdateAttendee(ctx context.Context, attendanceID, memberID primitive.ObjectID, status string, checkIn *time.Time, remarks string, actor primitive.ObjectID) error
	ListByClub(ctx context.Context, clubID primitive.ObjectID, limit int64) ([]models.Attendance, error)
	ListAll(ctx context.Context, limit int64) ([]models.Attendance, error)
}

type attendanceMembers interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.TeamMember, error)
}

// Attendance records per-meeting check-ins against the club roster.
type Attendance struct {
	records  attendanceRecords
	members  attendanceMembers
	roles    RoleResolver
	settings SettingsSource
}

func NewAttendance(records attendanceRecords, members attendanceMembers, roles RoleResolver, settings SettingsSource) *Attendance {
	return &Attendance{records: records, members: members, roles: roles, settings: settings}
}

// AttendeeInput is one member's check-in as submitted by the caller.
type AttendeeInput struct {
	MemberID    primitive.ObjectID
	Status      string
	CheckInTime *time.Time
	Remarks     string
}

// RecordMeetingInput describes one meeting and its attendee list.
type RecordMeetingInput struct {
	ClubID          primitive.ObjectID
	MeetingTitle    string
	MeetingDate     time.Time
	MeetingType     string
	DurationMinutes int
	Location        string
	Attendees       []AttendeeInput
}

// RecordMeeting validates and stores one meeting record. The whole
// attendee list is validated before anything is written, so a bad entry
// leaves no partial record behind.
func (a *Attendance) RecordMeeting(ctx context.Context, ident identity.Identity, in RecordMeetingInput) (models.Attendance, error) {
	role, err := a.roles.Resolve(ctx, ident, &in.ClubID)
	if err != nil {
		return models.Attendance{}, err
	}
	d := accesspolicy.Decide(role, accesspolicy.Request{
		Caller:   ident.UserID,
		Action:   accesspolicy.ActionWrite,
		Resource: accesspolicy.ResourceAttendance,
		ClubID:   in.ClubID,
	})
	if !d.Allowed {
		return models.Attendance{}, denied(d)
	}

	if in.MeetingTitle == "" {
		return models.Attendance{}, faults.New(faults.InvalidInput, "meeting title is required")
	}
	if in.MeetingDate.IsZero() {
		return models.Attendance{}, faults.New(faults.InvalidInput, "meeting date is required")
	}
	if !models.ValidMeetingType(in.MeetingType) {
		return models.Attendance{}, faults.New(faults.InvalidInput, "unknown meeting type %q", in.MeetingType)
	}

	seen := make(map[primitive.ObjectID]bool, len(in.Attendees))
	attendees := make([]models.Attendee, 0, len(in.Attendees))
	for _, att := range in.Attendees {
		if seen[att.MemberID] {
			return models.Attendance{}, faults.New(faults.DuplicateAttendee, "member %s listed twice", att.MemberID.Hex())
		}
		seen[att.MemberID] = true

		if !models.ValidAttendeeStatus(att.Status) {
			return models.Attendance{}, faults.New(faults.InvalidInput, "unknown attendee status %q", att.Status)
		}

		member, err := a.members.GetByID(ctx, att.MemberID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return models.Attendance{}, faults.New(faults.NotFound, "team member %s not found", att.MemberID.Hex())
			}
			return models.Attendance{}, faults.Wrap(faults.Transient, err, "load team member")
		}
		if member.ClubID != in.ClubID {
			return models.Attendance{}, faults.New(faults.InvalidInput, "member %s belongs to another club", att.MemberID.Hex())
		}

		attendees = append(attendees, models.Attendee{
			MemberID:         member.ID,
			MemberName:       member.Name,
			EnrollmentNumber: member.EnrollmentNumber,
			Status:           att.Status,
			CheckInTime:      att.CheckInTime,
			Remarks:          htmlsanitize.StripTags(att.Remarks),
		})
	}

	created, err := a.records.Create(ctx, models.Attendance{
		ClubID:          in.ClubID,
		MeetingTitle:    htmlsanitize.StripTags(in.MeetingTitle),
		MeetingDate:     in.MeetingDate,
		MeetingType:     in.MeetingType,
		DurationMinutes: in.DurationMinutes,
		Location:        htmlsanitize.StripTags(in.Location),
		Attendees:       attendees,
		CreatedBy:       ident.UserID,
	})
	if err != nil {
		if errors.Is(err, attendancestore.ErrDuplicateAttendee) {
			return models.Attendance{}, faults.Wrap(faults.DuplicateAttendee, err, "record meeting")
		}
		return models.Attendance{}, faults.Wrap(faults.Transient, err, "record meeting")
	}
	return created, nil
}

// UpdateAttendee changes one member's status inside an existing meeting
// record. Updating a member twice with the same values is harmless.
func (a *Attendance) UpdateAttendee(ctx context.Context, ident identity.Identity, attendanceID primitive.ObjectID, in AttendeeInput) error {
	record, err := a.records.GetByID(ctx, attendanceID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return faults.New(faults.NotFound, "attendance record %s not found", attendanceID.Hex())
		}
		return faults.Wrap(faults.Transient, err, "load attendance record")
	}

	role, err := a.roles.Resolve(ctx, ident, &record.ClubID)
	if err != nil {
		return err
	}
	d := accesspolicy.Decide(role, accesspolicy.Request{
		Caller:   ident.UserID,
		Action:   accesspolicy.ActionWrite,
		Resource: accesspolicy.ResourceAttendance,
		ClubID:   record.ClubID,
	})
	if !d.Allowed {
		return denied(d)
	}

	if !models.ValidAttendeeStatus(in.Status) {
		return faults.New(faults.InvalidInput, "unknown attendee status %q", in.Status)
	}

	err = a.records.UpdateAttendee(ctx, attendanceID, in.MemberID, in.Status, in.CheckInTime, htmlsanitize.StripTags(in.Remarks), ident.UserID)
	if err != nil {
		switch {
		case errors.Is(err, attendancestore.ErrMemberNotInMeeting):
			return faults.Wrap(faults.MemberNotInMeeting, err, "update attendee")
		case errors.Is(err, mongo.ErrNoDocuments):
			return faults.New(faults.NotFound, "attendance record %s not found", attendanceID.Hex())
		default:
			return faults.Wrap(faults.Transient, err, "update attendee")
		}
	}
	return nil
}

// ListForClub lists a club's meetings, newest first, capped by the
// display limit.
func (a *Attendance) ListForClub(ctx context.Context, ident identity.Identity, clubID primitive.ObjectID) ([]models.Attendance, error) {
	role, err := a.roles.Resolve(ctx, ident, &clubID)
	if err != nil {
		return nil, err
	}
	d := accesspolicy.Decide(role, accesspolicy.Request{
		Caller:   ident.UserID,
		Action:   accesspolicy.ActionRead,
		Resource: accesspolicy.ResourceAttendance,
		ClubID:   clubID,
	})
	if !d.Allowed {
		return nil, denied(d)
	}

	list, err := a.records.ListByClub(ctx, clubID, displayLimit(ctx, a.settings))
	if err != nil {
		return nil, faults.Wrap(faults.Transient, err, "list attendance")
	}
	return list, nil
}

// ListAll lists meetings across every club. Admin only.
func (a *Attendance) ListAll(ctx context.Context, ident identity.Identity) ([]models.Attendance, error) {
	role, err := a.roles.Resolve(ctx, ident, nil)
	if err != nil {
		return nil, err
	}
	if !role.IsAdmin() {
		return nil, denied(accesspolicy.Decision{Reason: accesspolicy.ReasonInsufficientRole})
	}

	list, err := a.records.ListAll(ctx, displayLimit(ctx, a.settings))
	if err != nil {
		return nil, faults.Wrap(faults.Transient, err, "list attendance")
	}
	return list, nil
}
