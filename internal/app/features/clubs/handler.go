// internal/app/features/clubs/handler.go
package clubs

import (
	"context"
	"encoding/json"
	"net/http"

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

// Handler serves club records and leadership assignment.
type Handler struct {
	Clubs *service.Clubs
	Log   *zap.Logger
}

func NewHandler(clubs *service.Clubs, log *zap.Logger) *Handler {
	return &Handler{Clubs: clubs, Log: log}
}

type createBody struct {
	Name        string `json:"name" validate:"required,max=200" label:"Name"`
	Description string `json:"description" validate:"max=2000" label:"Description"`
}

// Create handles POST /clubs.
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Clubs.Create(ctx, auth.CurrentIdentity(r), service.CreateClubInput{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		respond.Fault(w, h.Log, err)
		return
	}
	respond.Created(w, created)
}

// List handles GET /clubs.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Clubs.List(ctx, auth.CurrentIdentity(r))
	if err != nil {
		respond.Fault(w, h.Log, err)
		return
	}
	respond.OK(w, list)
}

// Get handles GET /clubs/{clubID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	clubID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "clubID"))
	if err != nil {
		respond.Fault(w, h.Log, faults.New(faults.InvalidInput, "club id is not valid"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	club, err := h.Clubs.Get(ctx, auth.CurrentIdentity(r), clubID)
	if err != nil {
		respond.Fault(w, h.Log, err)
		return
	}
	respond.OK(w, club)
}

type setLeaderBody struct {
	UserID string `json:"user_id"`
}

// SetLeader handles PUT /clubs/{clubID}/leader.
func (h *Handler) SetLeader(w http.ResponseWriter, r *http.Request) {
	clubID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "clubID"))
	if err != nil {
		respond.Fault(w, h.Log, faults.New(faults.InvalidInput, "club id is not valid"))
		return
	}
	var body setLeaderBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.Fault(w, h.Log, faults.Wrap(faults.InvalidInput, err, "decode request body"))
		return
	}
	userID, err := primitive.ObjectIDFromHex(body.UserID)
	if err != nil {
		respond.Fault(w, h.Log, faults.New(faults.InvalidInput, "user_id is not a valid id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	// Leadership repair touches the club and the user in one transaction.
	if err := h.Clubs.SetLeader(ctx, auth.CurrentIdentity(r), clubID, userID); err != nil {
		respond.Fault(w, h.Log, err)
		return
	}
	respond.NoContent(w)
}
