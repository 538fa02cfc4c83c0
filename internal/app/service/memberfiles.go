// internal/app/service/memberfiles.go
package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/clubhub/internal/app/policy/accesspolicy"
	memberfilestore "github.com/dalemusser/clubhub/internal/app/store/memberfiles"
	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/normalize"
	"github.com/dalemusser/clubhub/internal/domain/faults"
	"github.com/dalemusser/clubhub/internal/domain/identity"
	"github.com/dalemusser/clubhub/internal/domain/models"
)

type memberFileStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.MemberFile, error)
	Create(ctx context.Context, f models.MemberFile) (models.MemberFile, error)
	ListByClub(ctx context.Context, clubID primitive.ObjectID, limit int64) ([]models.MemberFile, error)
	RecordStatus(ctx context.Context, st models.MemberStatus) (models.MemberStatus, error)
	ListStatuses(ctx context.Context, memberFileID primitive.ObjectID) ([]models.MemberStatus, error)
}

// MemberFiles manages roster files for physical members who may not have
// login accounts, plus their standalone status awards. Status awards
// never touch TeamMember aggregates.
type MemberFiles struct {
	files    memberFileStore
	roles    RoleResolver
	settings SettingsSource
}

func NewMemberFiles(files memberFileStore, roles RoleResolver, settings SettingsSource) *MemberFiles {
	return &MemberFiles{files: files, roles: roles, settings: settings}
}

// CreateFileInput describes a new member file.
type CreateFileInput struct {
	ClubID           primitive.ObjectID
	Name             string
	EnrollmentNumber string
	Position         string
}

// CreateFile adds a roster file to the club.
func (m *MemberFiles) CreateFile(ctx context.Context, ident identity.Identity, in CreateFileInput) (models.MemberFile, error) {
	if err := m.checkWrite(ctx, ident, in.ClubID); err != nil {
		return models.MemberFile{}, err
	}

	name := normalize.Name(in.Name)
	enrollment := normalize.Enrollment(in.EnrollmentNumber)
	if name == "" || enrollment == "" {
		return models.MemberFile{}, faults.New(faults.InvalidInput, "name and enrollment number are required")
	}

	created, err := m.files.Create(ctx, models.MemberFile{
		ClubID:           in.ClubID,
		Name:             name,
		EnrollmentNumber: enrollment,
		Position:         normalize.Name(in.Position),
	})
	if err != nil {
		if errors.Is(err, memberfilestore.ErrDuplicateEnrollment) {
			return models.MemberFile{}, faults.Wrap(faults.InvalidInput, err, "create member file")
		}
		return models.MemberFile{}, faults.Wrap(faults.Transient, err, "create member file")
	}
	return created, nil
}

// RecordStatus attaches a points/hours note to a member file.
func (m *MemberFiles) RecordStatus(ctx context.Context, ident identity.Identity, fileID primitive.ObjectID, points int, hours float64, remark string) (models.MemberStatus, error) {
	file, err := m.files.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.MemberStatus{}, faults.New(faults.NotFound, "member file %s not found", fileID.Hex())
		}
		return models.MemberStatus{}, faults.Wrap(faults.Transient, err, "load member file")
	}
	if err := m.checkWrite(ctx, ident, file.ClubID); err != nil {
		return models.MemberStatus{}, err
	}

	created, err := m.files.RecordStatus(ctx, models.MemberStatus{
		MemberFileID: fileID,
		ClubID:       file.ClubID,
		Points:       points,
		Hours:        hours,
		Remark:       htmlsanitize.StripTags(remark),
		RecordedBy:   ident.UserID,
		RecordedAt:   time.Now().UTC(),
	})
	if err != nil {
		return models.MemberStatus{}, faults.Wrap(faults.Transient, err, "record member status")
	}
	return created, nil
}

// ListFiles lists a club's member files, capped by the display limit.
func (m *MemberFiles) ListFiles(ctx context.Context, ident identity.Identity, clubID primitive.ObjectID) ([]models.MemberFile, error) {
	if err := m.checkRead(ctx, ident, clubID); err != nil {
		return nil, err
	}
	list, err := m.files.ListByClub(ctx, clubID, displayLimit(ctx, m.settings))
	if err != nil {
		return nil, faults.Wrap(faults.Transient, err, "list member files")
	}
	return list, nil
}

// ListStatuses lists the status awards of one member file, newest first.
func (m *MemberFiles) ListStatuses(ctx context.Context, ident identity.Identity, fileID primitive.ObjectID) ([]models.MemberStatus, error) {
	file, err := m.files.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, faults.New(faults.NotFound, "member file %s not found", fileID.Hex())
		}
		return nil, faults.Wrap(faults.Transient, err, "load member file")
	}
	if err := m.checkRead(ctx, ident, file.ClubID); err != nil {
		return nil, err
	}

	list, err := m.files.ListStatuses(ctx, fileID)
	if err != nil {
		return nil, faults.Wrap(faults.Transient, err, "list member statuses")
	}
	return list, nil
}

func (m *MemberFiles) checkWrite(ctx context.Context, ident identity.Identity, clubID primitive.ObjectID) error {
	return m.check(ctx, ident, clubID, accesspolicy.ActionWrite)
}

func (m *MemberFiles) checkRead(ctx context.Context, ident identity.Identity, clubID primitive.ObjectID) error {
	return m.check(ctx, ident, clubID, accesspolicy.ActionRead)
}

func (m *MemberFiles) check(ctx context.Context, ident identity.Identity, clubID primitive.ObjectID, action accesspolicy.Action) error {
	role, err := m.roles.Resolve(ctx, ident, &clubID)
	if err != nil {
		return err
	}
	d := accesspolicy.Decide(role, accesspolicy.Request{
		Caller:   ident.UserID,
		Action:   action,
		Resource: accesspolicy.ResourceMemberFile,
		ClubID:   clubID,
	})
	if !d.Allowed {
		return denied(d)
	}
	return nil
}
