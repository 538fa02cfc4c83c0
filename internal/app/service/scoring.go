// internal/app/service/scoring.go
package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/clubhub/internal/app/policy/accesspolicy"
	teammemberstore "github.com/dalemusser/clubhub/internal/app/store/teammembers"
	"github.com/dalemusser/clubhub/internal/app/system/auditlog"
	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/normalize"
	"github.com/dalemusser/clubhub/internal/domain/faults"
	"github.com/dalemusser/clubhub/internal/domain/identity"
	"github.com/dalemusser/clubhub/internal/domain/models"
)

type scoringMembers interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.TeamMember, error)
	Create(ctx context.Context, m models.TeamMember) (models.TeamMember, error)
	Award(ctx context.Context, id primitive.ObjectID, entry models.LedgerEntry) (*models.TeamMember, error)
	AddRemark(ctx context.Context, id primitive.ObjectID, remark models.Remark) error
	ListByClub(ctx context.Context, clubID primitive.ObjectID, limit int64) ([]models.TeamMember, error)
}

// Scoring maintains the per-member points/hours ledger. Aggregates are
// derived only from ledger entries; nothing else ever writes them.
type Scoring struct {
	members  scoringMembers
	roles    RoleResolver
	settings SettingsSource
	audit    *auditlog.Logger
}

func NewScoring(members scoringMembers, roles RoleResolver, settings SettingsSource, audit *auditlog.Logger) *Scoring {
	return &Scoring{members: members, roles: roles, settings: settings, audit: audit}
}

// AddMemberInput describes a new roster member.
type AddMemberInput struct {
	ClubID           primitive.ObjectID
	Name             string
	EnrollmentNumber string
	Position         string
}

// AddMember creates a roster member with zeroed aggregates.
func (s *Scoring) AddMember(ctx context.Context, ident identity.Identity, in AddMemberInput) (models.TeamMember, error) {
	role, err := s.roles.Resolve(ctx, ident, &in.ClubID)
	if err != nil {
		return models.TeamMember{}, err
	}
	d := accesspolicy.Decide(role, accesspolicy.Request{
		Caller:   ident.UserID,
		Action:   accesspolicy.ActionWrite,
		Resource: accesspolicy.ResourceRoster,
		ClubID:   in.ClubID,
	})
	if !d.Allowed {
		return models.TeamMember{}, denied(d)
	}

	name := normalize.Name(in.Name)
	enrollment := normalize.Enrollment(in.EnrollmentNumber)
	if name == "" || enrollment == "" {
		return models.TeamMember{}, faults.New(faults.InvalidInput, "name and enrollment number are required")
	}

	created, err := s.members.Create(ctx, models.TeamMember{
		ClubID:           in.ClubID,
		Name:             name,
		EnrollmentNumber: enrollment,
		Position:         normalize.Name(in.Position),
	})
	if err != nil {
		if errors.Is(err, teammemberstore.ErrDuplicateEnrollment) {
			return models.TeamMember{}, faults.Wrap(faults.InvalidInput, err, "create team member")
		}
		return models.TeamMember{}, faults.Wrap(faults.Transient, err, "create team member")
	}
	return created, nil
}

// AwardInput is one ledger adjustment. Negative deltas are corrections;
// they are refused if an aggregate would go below zero.
type AwardInput struct {
	MemberID primitive.ObjectID
	Points   int
	Hours    float64
	Remark   string
	// Date is when the awarded activity happened; zero means now.
	Date time.Time
}

// Award appends a ledger entry and updates the aggregates in the same
// document write.
func (s *Scoring) Award(ctx context.Context, ident identity.Identity, in AwardInput) (*models.TeamMember, error) {
	if in.Points == 0 && in.Hours == 0 {
		return nil, faults.New(faults.InvalidInput, "award must change points or hours")
	}

	member, err := s.members.GetByID(ctx, in.MemberID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, faults.New(faults.NotFound, "team member %s not found", in.MemberID.Hex())
		}
		return nil, faults.Wrap(faults.Transient, err, "load team member")
	}

	role, err := s.roles.Resolve(ctx, ident, &member.ClubID)
	if err != nil {
		return nil, err
	}
	d := accesspolicy.Decide(role, accesspolicy.Request{
		Caller:   ident.UserID,
		Action:   accesspolicy.ActionWrite,
		Resource: accesspolicy.ResourceRoster,
		ClubID:   member.ClubID,
	})
	if !d.Allowed {
		return nil, denied(d)
	}

	now := time.Now().UTC()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	entry := models.LedgerEntry{
		Points:  in.Points,
		Hours:   in.Hours,
		Remark:  htmlsanitize.StripTags(in.Remark),
		Date:    date,
		AddedBy: ident.UserID,
		AddedAt: now,
	}

	updated, err := s.members.Award(ctx, in.MemberID, entry)
	if err != nil {
		switch {
		case errors.Is(err, teammemberstore.ErrNegativeAggregate):
			return nil, faults.Wrap(faults.NegativeAggregate, err, "award refused")
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, faults.New(faults.NotFound, "team member %s not found", in.MemberID.Hex())
		default:
			return nil, faults.Wrap(faults.Transient, err, "apply award")
		}
	}

	s.audit.Award(ctx, in.MemberID, ident.UserID, member.ClubID, in.Points, in.Hours)
	return updated, nil
}

// AddRemark appends a free-text note to a roster member.
func (s *Scoring) AddRemark(ctx context.Context, ident identity.Identity, memberID primitive.ObjectID, text string) error {
	text = htmlsanitize.StripTags(text)
	if text == "" {
		return faults.New(faults.InvalidInput, "remark text is required")
	}

	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return faults.New(faults.NotFound, "team member %s not found", memberID.Hex())
		}
		return faults.Wrap(faults.Transient, err, "load team member")
	}

	role, err := s.roles.Resolve(ctx, ident, &member.ClubID)
	if err != nil {
		return err
	}
	d := accesspolicy.Decide(role, accesspolicy.Request{
		Caller:   ident.UserID,
		Action:   accesspolicy.ActionWrite,
		Resource: accesspolicy.ResourceRoster,
		ClubID:   member.ClubID,
	})
	if !d.Allowed {
		return denied(d)
	}

	err = s.members.AddRemark(ctx, memberID, models.Remark{
		Text:    text,
		AddedBy: ident.UserID,
		AddedAt: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return faults.New(faults.NotFound, "team member %s not found", memberID.Hex())
		}
		return faults.Wrap(faults.Transient, err, "add remark")
	}
	return nil
}

// History returns a member's full ledger, oldest first.
func (s *Scoring) History(ctx context.Context, ident identity.Identity, memberID primitive.ObjectID) ([]models.LedgerEntry, error) {
	member, err := s.readMember(ctx, ident, memberID)
	if err != nil {
		return nil, err
	}
	return member.UpdateHistory, nil
}

// Member returns one roster record after a policy check.
func (s *Scoring) Member(ctx context.Context, ident identity.Identity, memberID primitive.ObjectID) (*models.TeamMember, error) {
	return s.readMember(ctx, ident, memberID)
}

func (s *Scoring) readMember(ctx context.Context, ident identity.Identity, memberID primitive.ObjectID) (*models.TeamMember, error) {
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, faults.New(faults.NotFound, "team member %s not found", memberID.Hex())
		}
		return nil, faults.Wrap(faults.Transient, err, "load team member")
	}

	role, err := s.roles.Resolve(ctx, ident, &member.ClubID)
	if err != nil {
		return nil, err
	}
	d := accesspolicy.Decide(role, accesspolicy.Request{
		Caller:   ident.UserID,
		Action:   accesspolicy.ActionRead,
		Resource: accesspolicy.ResourceRoster,
		ClubID:   member.ClubID,
	})
	if !d.Allowed {
		return nil, denied(d)
	}
	return member, nil
}

// Roster lists a club's members, capped by the display limit.
func (s *Scoring) Roster(ctx context.Context, ident identity.Identity, clubID primitive.ObjectID) ([]models.TeamMember, error) {
	role, err := s.roles.Resolve(ctx, ident, &clubID)
	if err != nil {
		return nil, err
	}
	d := accesspolicy.Decide(role, accesspolicy.Request{
		Caller:   ident.UserID,
		Action:   accesspolicy.ActionRead,
		Resource: accesspolicy.ResourceRoster,
		ClubID:   clubID,
	})
	if !d.Allowed {
		return nil, denied(d)
	}

	list, err := s.members.ListByClub(ctx, clubID, displayLimit(ctx, s.settings))
	if err != nil {
		return nil, faults.Wrap(faults.Transient, err, "list roster")
	}
	return list, nil
}
