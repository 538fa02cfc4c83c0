// internal/app/service/clubs.go
package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/clubhub/internal/app/policy/accesspolicy"
	clubstore "github.com/dalemusser/clubhub/internal/app/store/clubs"
	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/normalize"
	"github.com/dalemusser/clubhub/internal/domain/faults"
	"github.com/dalemusser/clubhub/internal/domain/identity"
	"github.com/dalemusser/clubhub/internal/domain/models"
)

type clubWriter interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Club, error)
	Create(ctx context.Context, c models.Club) (models.Club, error)
	SetLeader(ctx context.Context, clubID, userID primitive.ObjectID) error
	List(ctx context.Context, limit int64) ([]models.Club, error)
}

type clubUsers interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Clubs manages club records and the leader assignment. Club creation
// and leadership changes are admin operations.
type Clubs struct {
	clubs    clubWriter
	users    clubUsers
	roles    RoleResolver
	settings SettingsSource
	txn      TxnRunner
}

func NewClubs(clubs clubWriter, users clubUsers, roles RoleResolver, settings SettingsSource, txn TxnRunner) *Clubs {
	return &Clubs{clubs: clubs, users: users, roles: roles, settings: settings, txn: txn}
}

// CreateClubInput names a new club.
type CreateClubInput struct {
	Name        string
	Description string
}

// Create registers a new club with no leader.
func (c *Clubs) Create(ctx context.Context, ident identity.Identity, in CreateClubInput) (models.Club, error) {
	role, err := c.roles.Resolve(ctx, ident, nil)
	if err != nil {
		return models.Club{}, err
	}
	if !role.IsAdmin() {
		return models.Club{}, denied(accesspolicy.Decision{Reason: accesspolicy.ReasonInsufficientRole})
	}

	name := normalize.Name(in.Name)
	if name == "" {
		return models.Club{}, faults.New(faults.InvalidInput, "club name is required")
	}

	created, err := c.clubs.Create(ctx, models.Club{
		Name:        name,
		Description: htmlsanitize.StripTags(in.Description),
	})
	if err != nil {
		if errors.Is(err, clubstore.ErrDuplicateName) {
			return models.Club{}, faults.Wrap(faults.InvalidInput, err, "create club")
		}
		return models.Club{}, faults.Wrap(faults.Transient, err, "create club")
	}
	return created, nil
}

// SetLeader makes userID the leader of clubID, demoting the previous
// leader. The user must already be an approved member of the club. The
// store repairs both sides of the leader edge; we run it under a
// transaction so the handoff is not observable half-done.
func (c *Clubs) SetLeader(ctx context.Context, ident identity.Identity, clubID, userID primitive.ObjectID) error {
	role, err := c.roles.Resolve(ctx, ident, nil)
	if err != nil {
		return err
	}
	if !role.IsAdmin() {
		return denied(accesspolicy.Decision{Reason: accesspolicy.ReasonInsufficientRole})
	}

	if _, err := c.clubs.GetByID(ctx, clubID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return faults.New(faults.NotFound, "club %s not found", clubID.Hex())
		}
		return faults.Wrap(faults.Transient, err, "load club")
	}

	u, err := c.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return faults.New(faults.NotFound, "user %s not found", userID.Hex())
		}
		return faults.Wrap(faults.Transient, err, "load user")
	}
	if u.ClubID == nil || *u.ClubID != clubID || !u.IsApproved {
		return faults.New(faults.InvalidInput, "user is not an approved member of the club")
	}

	if _, err := c.txn(ctx, func(ctx context.Context) error {
		return c.clubs.SetLeader(ctx, clubID, userID)
	}); err != nil {
		return faults.Wrap(faults.Transient, err, "set club leader")
	}
	return nil
}

// Get returns one club after a policy check.
func (c *Clubs) Get(ctx context.Context, ident identity.Identity, clubID primitive.ObjectID) (*models.Club, error) {
	role, err := c.roles.Resolve(ctx, ident, &clubID)
	if err != nil {
		return nil, err
	}
	d := accesspolicy.Decide(role, accesspolicy.Request{
		Caller:   ident.UserID,
		Action:   accesspolicy.ActionRead,
		Resource: accesspolicy.ResourceClub,
		ClubID:   clubID,
	})
	if !d.Allowed {
		return nil, denied(d)
	}

	club, err := c.clubs.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, faults.New(faults.NotFound, "club %s not found", clubID.Hex())
		}
		return nil, faults.Wrap(faults.Transient, err, "load club")
	}
	return club, nil
}

// List returns all clubs. Any authenticated caller may browse the club
// directory; that is how an unaffiliated user picks one to join.
func (c *Clubs) List(ctx context.Context, ident identity.Identity) ([]models.Club, error) {
	if ident.Anonymous() {
		return nil, faults.New(faults.Unauthenticated, "no caller identity")
	}
	list, err := c.clubs.List(ctx, displayLimit(ctx, c.settings))
	if err != nil {
		return nil, faults.Wrap(faults.Transient, err, "list clubs")
	}
	return list, nil
}
