// internal/app/service/fakes_test.go
package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	attendancestore "github.com/dalemusser/clubhub/internal/app/store/attendance"
	clubstore "github.com/dalemusser/clubhub/internal/app/store/clubs"
	requeststore "github.com/dalemusser/clubhub/internal/app/store/requests"
	teammemberstore "github.com/dalemusser/clubhub/internal/app/store/teammembers"
	"github.com/dalemusser/clubhub/internal/app/system/auditlog"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/domain/faults"
	"github.com/dalemusser/clubhub/internal/domain/identity"
	"github.com/dalemusser/clubhub/internal/domain/models"
)

// fakeRoles mirrors the production resolver's behavior: a leader
// resolving against another club degrades to member of their own club.
type fakeRoles struct {
	roles map[primitive.ObjectID]authz.Role
}

func (f *fakeRoles) Resolve(_ context.Context, ident identity.Identity, targetClub *primitive.ObjectID) (authz.Role, error) {
	if ident.Anonymous() {
		return authz.Role{}, faults.New(faults.Unauthenticated, "no caller identity")
	}
	r, ok := f.roles[ident.UserID]
	if !ok {
		return authz.Role{Kind: authz.Unaffiliated}, nil
	}
	if r.Kind == authz.ClubLeader && targetClub != nil && *targetClub != r.ClubID {
		return authz.Role{Kind: authz.ClubMember, ClubID: r.ClubID}, nil
	}
	return r, nil
}

type fakeSettings struct {
	settings models.Settings
	err      error
}

func (f *fakeSettings) Get(context.Context) (models.Settings, error) {
	if f.err != nil {
		return models.Settings{}, f.err
	}
	return f.settings, nil
}

func defaultFakeSettings() *fakeSettings {
	return &fakeSettings{settings: models.DefaultSettings()}
}

// passTxn pretends transactions are supported.
func passTxn(ctx context.Context, fn func(ctx context.Context) error) (bool, error) {
	return true, fn(ctx)
}

// noTxn mimics a standalone server: fn runs outside any transaction.
func noTxn(ctx context.Context, fn func(ctx context.Context) error) (bool, error) {
	return false, fn(ctx)
}

func nopAudit() *auditlog.Logger {
	return auditlog.New(nil, zap.NewNop())
}

/*── users ───────────────────────────────────────────────────────────────────*/

type fakeUsers struct {
	byID       map[primitive.ObjectID]*models.User
	approveErr error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUsers) put(u *models.User) *models.User {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	f.byID[u.ID] = u
	return u
}

func (f *fakeUsers) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) ApproveIntoClub(_ context.Context, userID, clubID primitive.ObjectID) error {
	if f.approveErr != nil {
		return f.approveErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.IsApproved = true
	if u.ClubID == nil {
		u.ClubID = &clubID
	}
	return nil
}

func (f *fakeUsers) CountApprovedInClub(_ context.Context, clubID primitive.ObjectID) (int64, error) {
	var n int64
	for _, u := range f.byID {
		if u.IsApproved && u.ClubID != nil && *u.ClubID == clubID {
			n++
		}
	}
	return n, nil
}

/*── clubs ───────────────────────────────────────────────────────────────────*/

type fakeClubs struct {
	byID map[primitive.ObjectID]*models.Club
}

func newFakeClubs() *fakeClubs {
	return &fakeClubs{byID: make(map[primitive.ObjectID]*models.Club)}
}

func (f *fakeClubs) put(c *models.Club) *models.Club {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	f.byID[c.ID] = c
	return c
}

func (f *fakeClubs) GetByID(_ context.Context, id primitive.ObjectID) (*models.Club, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *c
	return &cp, nil
}

func (f *fakeClubs) Create(_ context.Context, c models.Club) (models.Club, error) {
	for _, existing := range f.byID {
		if existing.Name == c.Name {
			return models.Club{}, clubstore.ErrDuplicateName
		}
	}
	c.ID = primitive.NewObjectID()
	f.byID[c.ID] = &c
	return c, nil
}

func (f *fakeClubs) SetLeader(_ context.Context, clubID, userID primitive.ObjectID) error {
	c, ok := f.byID[clubID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	c.LeaderID = &userID
	return nil
}

func (f *fakeClubs) List(context.Context, int64) ([]models.Club, error) {
	out := make([]models.Club, 0, len(f.byID))
	for _, c := range f.byID {
		out = append(out, *c)
	}
	return out, nil
}

/*── access requests ─────────────────────────────────────────────────────────*/

type fakeRequests struct {
	byID map[primitive.ObjectID]*models.AccessRequest
}

func newFakeRequests() *fakeRequests {
	return &fakeRequests{byID: make(map[primitive.ObjectID]*models.AccessRequest)}
}

func (f *fakeRequests) GetByID(_ context.Context, id primitive.ObjectID) (*models.AccessRequest, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRequests) Submit(_ context.Context, req models.AccessRequest) (models.AccessRequest, error) {
	for _, existing := range f.byID {
		if existing.UserID == req.UserID && existing.Status == models.RequestPending {
			return models.AccessRequest{}, requeststore.ErrPendingExists
		}
	}
	req.ID = primitive.NewObjectID()
	req.Status = models.RequestPending
	req.CreatedAt = time.Now().UTC()
	f.byID[req.ID] = &req
	return req, nil
}

func (f *fakeRequests) MarkApproved(_ context.Context, id, reviewer primitive.ObjectID, at time.Time) error {
	return f.transition(id, models.RequestApproved, reviewer, at, "")
}

func (f *fakeRequests) MarkRejected(_ context.Context, id, reviewer primitive.ObjectID, at time.Time, reason string) error {
	return f.transition(id, models.RequestRejected, reviewer, at, reason)
}

func (f *fakeRequests) transition(id primitive.ObjectID, status string, reviewer primitive.ObjectID, at time.Time, reason string) error {
	r, ok := f.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if r.Status != models.RequestPending {
		return requeststore.ErrNotPending
	}
	r.Status = status
	r.ReviewedBy = &reviewer
	r.ReviewedAt = &at
	r.RejectionReason = reason
	return nil
}

func (f *fakeRequests) ListPending(_ context.Context, clubID *primitive.ObjectID, _ int64) ([]models.AccessRequest, error) {
	var out []models.AccessRequest
	for _, r := range f.byID {
		if r.Status != models.RequestPending {
			continue
		}
		if clubID != nil && r.ClubID != *clubID {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRequests) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.AccessRequest, error) {
	var out []models.AccessRequest
	for _, r := range f.byID {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

/*── team members ────────────────────────────────────────────────────────────*/

type fakeMembers struct {
	byID map[primitive.ObjectID]*models.TeamMember
}

func newFakeMembers() *fakeMembers {
	return &fakeMembers{byID: make(map[primitive.ObjectID]*models.TeamMember)}
}

func (f *fakeMembers) put(m *models.TeamMember) *models.TeamMember {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	f.byID[m.ID] = m
	return m
}

func (f *fakeMembers) GetByID(_ context.Context, id primitive.ObjectID) (*models.TeamMember, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMembers) Create(_ context.Context, m models.TeamMember) (models.TeamMember, error) {
	for _, existing := range f.byID {
		if existing.ClubID == m.ClubID && existing.EnrollmentNumber == m.EnrollmentNumber {
			return models.TeamMember{}, teammemberstore.ErrDuplicateEnrollment
		}
	}
	m.ID = primitive.NewObjectID()
	f.byID[m.ID] = &m
	return m, nil
}

func (f *fakeMembers) Award(_ context.Context, id primitive.ObjectID, entry models.LedgerEntry) (*models.TeamMember, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if m.Points+entry.Points < 0 || m.Hours+entry.Hours < 0 {
		return nil, teammemberstore.ErrNegativeAggregate
	}
	m.Points += entry.Points
	m.Hours += entry.Hours
	m.UpdateHistory = append(m.UpdateHistory, entry)
	cp := *m
	return &cp, nil
}

func (f *fakeMembers) AddRemark(_ context.Context, id primitive.ObjectID, remark models.Remark) error {
	m, ok := f.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	m.Remarks = append(m.Remarks, remark)
	return nil
}

func (f *fakeMembers) ListByClub(_ context.Context, clubID primitive.ObjectID, _ int64) ([]models.TeamMember, error) {
	var out []models.TeamMember
	for _, m := range f.byID {
		if m.ClubID == clubID {
			out = append(out, *m)
		}
	}
	return out, nil
}

/*── attendance ──────────────────────────────────────────────────────────────*/

type fakeAttendance struct {
	byID map[primitive.ObjectID]*models.Attendance
}

func newFakeAttendance() *fakeAttendance {
	return &fakeAttendance{byID: make(map[primitive.ObjectID]*models.Attendance)}
}

func (f *fakeAttendance) GetByID(_ context.Context, id primitive.ObjectID) (*models.Attendance, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAttendance) Create(_ context.Context, a models.Attendance) (models.Attendance, error) {
	seen := make(map[primitive.ObjectID]bool, len(a.Attendees))
	for _, att := range a.Attendees {
		if seen[att.MemberID] {
			return models.Attendance{}, attendancestore.ErrDuplicateAttendee
		}
		seen[att.MemberID] = true
	}
	a.ID = primitive.NewObjectID()
	f.byID[a.ID] = &a
	return a, nil
}

func (f *fakeAttendance) UpdateAttendee(_ context.Context, attendanceID, memberID primitive.ObjectID, status string, checkIn *time.Time, remarks string, actor primitive.ObjectID) error {
	a, ok := f.byID[attendanceID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for i := range a.Attendees {
		if a.Attendees[i].MemberID == memberID {
			a.Attendees[i].Status = status
			a.Attendees[i].CheckInTime = checkIn
			a.Attendees[i].Remarks = remarks
			a.LastUpdatedBy = &actor
			return nil
		}
	}
	return attendancestore.ErrMemberNotInMeeting
}

func (f *fakeAttendance) ListByClub(_ context.Context, clubID primitive.ObjectID, _ int64) ([]models.Attendance, error) {
	var out []models.Attendance
	for _, a := range f.byID {
		if a.ClubID == clubID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAttendance) ListAll(context.Context, int64) ([]models.Attendance, error) {
	var out []models.Attendance
	for _, a := range f.byID {
		out = append(out, *a)
	}
	return out, nil
}
