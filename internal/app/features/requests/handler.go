// internal/app/features/requests/handler.go
package requests

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

// Handler serves the join-request workflow.
type Handler struct {
	Membership *service.Membership
	Log        *zap.Logger
}

func NewHandler(membership *service.Membership, log *zap.Logger) *Handler {
	return &Handler{Membership: membership, Log: log}
}

type submitBody struct {
	ClubID  string `json:"club_id" validate:"required,objectid" label:"Club"`
	Name    string `json:"name" validate:"required,max=200" label:"Name"`
	Email   string `json:"email" validate:"required,email" label:"Email"`
	Phone   string `json:"phone" validate:"max=40" label:"Phone"`
	Message string `json:"message" validate:"max=2000" label:"Message"`
}

// Submit handles POST /requests.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var body submitBody
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Membership.Submit(ctx, auth.CurrentIdentity(r), service.SubmitRequestInput{
		ClubID:  clubID,
		Name:    body.Name,
		Email:   body.Email,
		Phone:   body.Phone,
		Message: body.Message,
	})
	if err != nil {
		respond.Fault(w, h.Log, err)
		return
	}
	respond.Created(w, created)
}

// Mine handles GET /requests/mine.
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Membership.MyRequests(ctx, auth.CurrentIdentity(r))
	if err != nil {
		respond.Fault(w, h.Log, err)
		return
	}
	respond.OK(w, list)
}

// Pending handles GET /requests/pending. The optional club_id query
// parameter narrows the list; the admin omits it to see every club.
func (h *Handler) Pending(w http.ResponseWriter, r *http.Request) {
	var clubID *primitive.ObjectID
	if raw := r.URL.Query().Get("club_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respond.Fault(w, h.Log, faults.New(faults.InvalidInput, "club_id is not a valid id"))
			return
		}
		clubID = &id
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Membership.PendingRequests(ctx, auth.CurrentIdentity(r), clubID)
	if err != nil {
		respond.Fault(w, h.Log, err)
		return
	}
	respond.OK(w, list)
}

type reviewBody struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

// Review handles POST /requests/{requestID}/review.
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	requestID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "requestID"))
	if err != nil {
		respond.Fault(w, h.Log, faults.New(faults.InvalidInput, "request id is not valid"))
		return
	}
	var body reviewBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.Fault(w, h.Log, faults.Wrap(faults.InvalidInput, err, "decode request body"))
		return
	}

	// Approval may span two collections in one transaction.
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Membership.Review(ctx, auth.CurrentIdentity(r), requestID, body.Approve, body.Reason); err != nil {
		respond.Fault(w, h.Log, err)
		return
	}
	respond.NoContent(w)
}
