// internal/app/features/members/handler.go
package members

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/clubhub/internal/app/features/shared/respond"
	"github.com/dalemusser/clubhub/internal/app/service"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/inputval"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/faults"
)

// Handler serves the club roster and the points/hours ledger.
type Handler struct {
	Scoring *service.Scoring
	Log     *zap.Logger
}

func NewHandler(scoring *service.Scoring, log *zap.Logger) *Handler {
	return &Handler{Scoring: scoring, Log: log}
}

type createBody struct {
	ClubID           string `json:"club_id" validate:"required,objectid" label:"Club"`
	Name             string `json:"name" validate:"required,max=200" label:"Name"`
	EnrollmentNumber string `json:"enrollment_number" validate:"required,max=50" label:"Enrollment number"`
	Position         string `json:"position" validate:"max=100" label:"Position"`
}

// Create handles POST /members.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var body createBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.Fault(w, h.Log, faults.Wrap(faults.InvalidInput, err, "decode request body"))
		return
	}
	if result := inputval.Validate(body); result.HasErrors() {
		respond.Fault(w, h.Log, faults.New(faults.InvalidInput, "%s", result.All()))
		return
	}
	clubID, err := primitive.ObjectIDFromHex(body.ClubID)
	if err != nil {
		respond.Fault(w, h.Log, faults.New(faults.InvalidInput, "club_id is not a valid id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Scoring.AddMember(ctx, auth.CurrentIdentity(r), service.AddMemberInput{
		ClubID:           clubID,
		Name:             body.Name,
		EnrollmentNumber: body.EnrollmentNumber,
		Position:         body.Position,
	})
	if err != nil {
		respond.Fault(w, h.Log, err)
		return
	}
	respond.Created(w, created)
}

// Roster handles GET /members?club_id=…
func (h *Handler) Roster(w http.ResponseWriter, r *http.Request) {
	clubID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("club_id"))
	if err != nil {
		respond.Fault(w, h.Log, faults.New(faults.InvalidInput, "club_id is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Scoring.Roster(ctx, auth.CurrentIdentity(r), clubID)
	if err != nil {
		respond.Fault(w, h.Log, err)
		return
	}
	respond.OK(w, list)
}

// Get handles GET /members/{memberID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	memberID, err := memberParam(r)
	if err != nil {
		respond.Fault(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	member, err := h.Scoring.Member(ctx, auth.CurrentIdentity(r), memberID)
	if err != nil {
		respond.Fault(w, h.Log, err)
		return
	}
	respond.OK(w, member)
}

type awardBody struct {
	Points int     `json:"points"`
	Hours  float64 `json:"hours"`
	Remark string  `json:"remark"`
	// Date is RFC 3339; empty means now.
	Date string `json:"date"`
}

// Award handles POST /members/{memberID}/awards.
func (h *Handler) Award(w http.ResponseWriter, r *http.Request) {
	memberID, err := memberParam(r)
	if err != nil {
		respond.Fault(w, h.Log, err)
		return
	}
	var body awardBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.Fault(w, h.Log, faults.Wrap(faults.InvalidInput, err, "decode request body"))
		return
	}

	var date time.Time
	if body.Date != "" {
		date, err = time.Parse(time.RFC3339, body.Date)
		if err != nil {
			respond.Fault(w, h.Log, faults.New(faults.InvalidInput, "date must be RFC 3339"))
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := h.Scoring.Award(ctx, auth.CurrentIdentity(r), service.AwardInput{
		MemberID: memberID,
		Points:   body.Points,
		Hours:    body.Hours,
		Remark:   body.Remark,
		Date:     date,
	})
	if err != nil {
		respond.Fault(w, h.Log, err)
		return
	}
	respond.OK(w, updated)
}

// History handles GET /members/{memberID}/history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	memberID, err := memberParam(r)
	if err != nil {
		respond.Fault(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	history, err := h.Scoring.History(ctx, auth.CurrentIdentity(r), memberID)
	if err != nil {
		respond.Fault(w, h.Log, err)
		return
	}
	respond.OK(w, history)
}

type remarkBody struct {
	Text string `json:"text"`
}

// Remark handles POST /members/{memberID}/remarks.
func (h *Handler) Remark(w http.ResponseWriter, r *http.Request) {
	memberID, err := memberParam(r)
	if err != nil {
		respond.Fault(w, h.Log, err)
		return
	}
	var body remarkBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.Fault(w, h.Log, faults.Wrap(faults.InvalidInput, err, "decode request body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Scoring.AddRemark(ctx, auth.CurrentIdentity(r), memberID, body.Text); err != nil {
		respond.Fault(w, h.Log, err)
		return
	}
	respond.NoContent(w)
}

func memberParam(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "memberID"))
	if err != nil {
		return primitive.NilObjectID, faults.New(faults.InvalidInput, "member id is not valid")
	}
	return id, nil
}
