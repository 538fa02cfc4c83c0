// internal/app/features/memberfiles/handler.go
package memberfiles

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
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/faults"
)

// Handler serves roster files and their status awards.
type Handler struct {
	Files *service.MemberFiles
	Log   *zap.Logger
}

func NewHandler(files *service.MemberFiles, log *zap.Logger) *Handler {
	return &Handler{Files: files, Log: log}
}

type createBody struct {
	ClubID           string `json:"club_id"`
	Name             string `json:"name"`
	EnrollmentNumber string `json:"enrollment_number"`
	Position         string `json:"position"`
}

// Create handles POST /memberfiles.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var body createBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.Fault(w, h.Log, faults.Wrap(faults.InvalidInput, err, "decode request body"))
		return
	}
	clubID, err := primitive.ObjectIDFromHex(body.ClubID)
	if err != nil {
		respond.Fault(w, h.Log, faults.New(faults.InvalidInput, "club_id is not a valid id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Files.CreateFile(ctx, auth.CurrentIdentity(r), service.CreateFileInput{
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

// List handles GET /memberfiles?club_id=…
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	clubID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("club_id"))
	if err != nil {
		respond.Fault(w, h.Log, faults.New(faults.InvalidInput, "club_id is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Files.ListFiles(ctx, auth.CurrentIdentity(r), clubID)
	if err != nil {
		respond.Fault(w, h.Log, err)
		return
	}
	respond.OK(w, list)
}

type statusBody struct {
	Points int     `json:"points"`
	Hours  float64 `json:"hours"`
	Remark string  `json:"remark"`
}

// RecordStatus handles POST /memberfiles/{fileID}/statuses.
func (h *Handler) RecordStatus(w http.ResponseWriter, r *http.Request) {
	fileID, err := fileParam(r)
	if err != nil {
		respond.Fault(w, h.Log, err)
		return
	}
	var body statusBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.Fault(w, h.Log, faults.Wrap(faults.InvalidInput, err, "decode request body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Files.RecordStatus(ctx, auth.CurrentIdentity(r), fileID, body.Points, body.Hours, body.Remark)
	if err != nil {
		respond.Fault(w, h.Log, err)
		return
	}
	respond.Created(w, created)
}

// ListStatuses handles GET /memberfiles/{fileID}/statuses.
func (h *Handler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	fileID, err := fileParam(r)
	if err != nil {
		respond.Fault(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Files.ListStatuses(ctx, auth.CurrentIdentity(r), fileID)
	if err != nil {
		respond.Fault(w, h.Log, err)
		return
	}
	respond.OK(w, list)
}

func fileParam(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "fileID"))
	if err != nil {
		return primitive.NilObjectID, faults.New(faults.InvalidInput, "member file id is not valid")
	}
	return id, nil
}
