// internal/app/service/membership.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/clubhub/internal/app/policy/accesspolicy"
	requeststore "github.com/dalemusser/clubhub/internal/app/store/requests"
	"github.com/dalemusser/clubhub/internal/app/system/auditlog"
	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/normalize"
	"github.com/dalemusser/clubhub/internal/domain/faults"
	"github.com/dalemusser/clubhub/internal/domain/identity"
	"github.com/dalemusser/clubhub/internal/domain/models"
)

type membershipUsers interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ApproveIntoClub(ctx context.Context, userID, clubID primitive.ObjectID) error
	CountApprovedInClub(ctx context.Context, clubID primitive.ObjectID) (int64, error)
}

type membershipClubs interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Club, error)
}

type membershipRequests interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.AccessRequest, error)
	Submit(ctx context.Context, req models.AccessRequest) (models.AccessRequest, error)
	MarkApproved(ctx context.Context, id, reviewer primitive.ObjectID, at time.Time) error
	MarkRejected(ctx context.Context, id, reviewer primitive.ObjectID, at time.Time, reason string) error
	ListPending(ctx context.Context, clubID *primitive.ObjectID, limit int64) ([]models.AccessRequest, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.AccessRequest, error)
}

// Membership drives the join-approval workflow: an unaffiliated user
// submits a request, a leader or the admin reviews it, and approval
// attaches the user to the club.
type Membership struct {
	users    membershipUsers
	clubs    membershipClubs
	requests membershipRequests
	roles    RoleResolver
	settings SettingsSource
	txn      TxnRunner
	audit    *auditlog.Logger
}

func NewMembership(users membershipUsers, clubs membershipClubs, requests membershipRequests,
	roles RoleResolver, settings SettingsSource, txn TxnRunner, audit *auditlog.Logger) *Membership {
	return &Membership{
		users:    users,
		clubs:    clubs,
		requests: requests,
		roles:    roles,
		settings: settings,
		txn:      txn,
		audit:    audit,
	}
}

// SubmitRequestInput is the caller-supplied portion of a join request.
type SubmitRequestInput struct {
	ClubID  primitive.ObjectID
	Name    string
	Email   string
	Phone   string
	Message string
}

// Submit creates a pending access request for the caller.
//
// The partial unique index on pending requests makes the one-pending-
// request rule hold even when two submissions race; the second one
// surfaces as DuplicateRequest.
func (m *Membership) Submit(ctx context.Context, ident identity.Identity, in SubmitRequestInput) (models.AccessRequest, error) {
	role, err := m.roles.Resolve(ctx, ident, &in.ClubID)
	if err != nil {
		return models.AccessRequest{}, err
	}
	d := accesspolicy.Decide(role, accesspolicy.Request{
		Caller:   ident.UserID,
		Action:   accesspolicy.ActionSubmitRequest,
		Resource: accesspolicy.ResourceAccessRequest,
		ClubID:   in.ClubID,
		OwnerID:  ident.UserID,
	})
	if !d.Allowed {
		return models.AccessRequest{}, denied(d)
	}

	settings, err := m.settings.Get(ctx)
	if err != nil {
		return models.AccessRequest{}, faults.Wrap(faults.Transient, err, "load settings")
	}
	if settings.MaintenanceMode {
		return models.AccessRequest{}, faults.New(faults.InvalidInput, "the system is in maintenance mode")
	}
	if !settings.RegistrationOpen {
		return models.AccessRequest{}, faults.New(faults.InvalidInput, "registration is closed")
	}

	if _, err := m.clubs.GetByID(ctx, in.ClubID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.AccessRequest{}, faults.New(faults.NotFound, "club %s not found", in.ClubID.Hex())
		}
		return models.AccessRequest{}, faults.Wrap(faults.Transient, err, "load club")
	}

	approved, err := m.users.CountApprovedInClub(ctx, in.ClubID)
	if err != nil {
		return models.AccessRequest{}, faults.Wrap(faults.Transient, err, "count club members")
	}
	if settings.MaxUsersPerClub > 0 && approved >= int64(settings.MaxUsersPerClub) {
		return models.AccessRequest{}, faults.New(faults.InvalidInput, "club is at its member limit")
	}

	name := normalize.Name(in.Name)
	if name == "" {
		return models.AccessRequest{}, faults.New(faults.InvalidInput, "name is required")
	}

	req := models.AccessRequest{
		UserID:  ident.UserID,
		ClubID:  in.ClubID,
		Name:    name,
		Email:   normalize.Email(in.Email),
		Phone:   normalize.Name(in.Phone),
		Message: htmlsanitize.StripTags(in.Message),
	}
	created, err := m.requests.Submit(ctx, req)
	if err != nil {
		if errors.Is(err, requeststore.ErrPendingExists) {
			return models.AccessRequest{}, faults.Wrap(faults.DuplicateRequest, err, "submit access request")
		}
		return models.AccessRequest{}, faults.Wrap(faults.Transient, err, "submit access request")
	}
	return created, nil
}

// Review approves or rejects a pending request. Approval marks the
// request and attaches the user to the club in one transaction; on
// deployments without transaction support a torn write is reported as
// Inconsistent and logged for repair.
func (m *Membership) Review(ctx context.Context, ident identity.Identity, requestID primitive.ObjectID, approve bool, reason string) error {
	req, err := m.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return faults.New(faults.NotFound, "access request %s not found", requestID.Hex())
		}
		return faults.Wrap(faults.Transient, err, "load access request")
	}
	if req.Terminal() {
		return faults.New(faults.InvalidInput, "access request is already %s", req.Status)
	}

	role, err := m.roles.Resolve(ctx, ident, &req.ClubID)
	if err != nil {
		return err
	}
	d := accesspolicy.Decide(role, accesspolicy.Request{
		Caller:   ident.UserID,
		Action:   accesspolicy.ActionWrite,
		Resource: accesspolicy.ResourceAccessRequest,
		ClubID:   req.ClubID,
	})
	if !d.Allowed {
		return denied(d)
	}

	now := time.Now().UTC()

	if !approve {
		// Sanitizing first means a markup-only reason cannot sneak past
		// the requirement as blank text.
		reason = strings.TrimSpace(htmlsanitize.StripTags(reason))
		if reason == "" {
			return faults.New(faults.InvalidInput, "a rejection reason is required")
		}
		if err := m.requests.MarkRejected(ctx, requestID, ident.UserID, now, reason); err != nil {
			return reviewTransitionFault(err, requestID)
		}
		m.audit.ReviewDecision(ctx, "rejected", requestID, ident.UserID, req.ClubID, reason)
		return nil
	}

	// requestMarked lets the fallback path detect a torn write: the
	// request flipped to approved but the user was never attached.
	requestMarked := false
	inTxn, err := m.txn(ctx, func(ctx context.Context) error {
		if err := m.requests.MarkApproved(ctx, requestID, ident.UserID, now); err != nil {
			return err
		}
		requestMarked = true
		return m.users.ApproveIntoClub(ctx, req.UserID, req.ClubID)
	})
	if err != nil {
		if !inTxn && requestMarked {
			m.audit.Inconsistency(ctx, "membership.approve", requestID, map[string]string{
				"user_id": req.UserID.Hex(),
				"club_id": req.ClubID.Hex(),
				"error":   err.Error(),
			})
			return faults.Wrap(faults.Inconsistent, err, "request approved but user not attached to club")
		}
		return reviewTransitionFault(err, requestID)
	}

	m.audit.ReviewDecision(ctx, "approved", requestID, ident.UserID, req.ClubID, "")
	return nil
}

func reviewTransitionFault(err error, requestID primitive.ObjectID) error {
	switch {
	case errors.Is(err, requeststore.ErrNotPending):
		return faults.Wrap(faults.InvalidInput, err, "access request is no longer pending")
	case errors.Is(err, mongo.ErrNoDocuments):
		return faults.New(faults.NotFound, "access request %s not found", requestID.Hex())
	default:
		return faults.Wrap(faults.Transient, err, "review access request")
	}
}

// PendingRequests lists open requests. The admin sees all clubs when
// clubID is nil; a leader is always scoped to their own club.
func (m *Membership) PendingRequests(ctx context.Context, ident identity.Identity, clubID *primitive.ObjectID) ([]models.AccessRequest, error) {
	role, err := m.roles.Resolve(ctx, ident, clubID)
	if err != nil {
		return nil, err
	}

	scope := clubID
	if !role.IsAdmin() {
		if scope == nil {
			scope = &role.ClubID
		}
		d := accesspolicy.Decide(role, accesspolicy.Request{
			Caller:   ident.UserID,
			Action:   accesspolicy.ActionRead,
			Resource: accesspolicy.ResourceAccessRequest,
			ClubID:   *scope,
		})
		if !d.Allowed {
			return nil, denied(d)
		}
	}

	list, err := m.requests.ListPending(ctx, scope, displayLimit(ctx, m.settings))
	if err != nil {
		return nil, faults.Wrap(faults.Transient, err, "list pending requests")
	}
	return list, nil
}

// MyRequests lists the caller's own requests, newest first.
func (m *Membership) MyRequests(ctx context.Context, ident identity.Identity) ([]models.AccessRequest, error) {
	if ident.Anonymous() {
		return nil, faults.New(faults.Unauthenticated, "no caller identity")
	}
	list, err := m.requests.ListByUser(ctx, ident.UserID)
	if err != nil {
		return nil, faults.Wrap(faults.Transient, err, "list own requests")
	}
	return list, nil
}
