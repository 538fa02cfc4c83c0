// internal/app/features/attendance/handler.go
package attendance

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
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/faults"
)

// Handler serves meeting attendance records.
type Handler struct {
	Attendance *service.Attendance
	Log        *zap.Logger
}

func NewHandler(attendance *service.Attendance, log *zap.Logger) *Handler {
	return &Handler{Attendance: attendance, Log: log}
}

type attendeeBody struct {
	MemberID string `json:"member_id"`
	Status   string `json:"status"`
	// CheckInTime is RFC 3339; empty means no check-in recorded.
	CheckInTime string `json:"check_in_time"`
	Remarks     string `json:"remarks"`
}

func (b attendeeBody) toInput() (service.AttendeeInput, error) {
	memberID, err := primitive.ObjectIDFromHex(b.MemberID)
	if err != nil {
		return service.AttendeeInput{}, faults.New(faults.InvalidInput, "member_id is not a valid id")
	}
	in := service.AttendeeInput{
		MemberID: memberID,
		Status:   b.Status,
		Remarks:  b.Remarks,
	}
	if b.CheckInTime != "" {
		t, err := time.Parse(time.RFC3339, b.CheckInTime)
		if err != nil {
			return service.AttendeeInput{}, faults.New(faults.InvalidInput, "check_in_time must be RFC 3339")
		}
		in.CheckInTime = &t
	}
	return in, nil
}

type recordBody struct {
	ClubID          string         `json:"club_id"`
	MeetingTitle    string         `json:"meeting_title"`
	MeetingDate     string         `json:"meeting_date"`
	MeetingType     string         `json:"meeting_type"`
	DurationMinutes int            `json:"duration_minutes"`
	Location        string         `json:"location"`
	Attendees       []attendeeBody `json:"attendees"`
}

// Record handles POST /attendance.
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	var body recordBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.Fault(w, h.Log, faults.Wrap(faults.InvalidInput, err, "decode request body"))
		return
	}
	clubID, err := primitive.ObjectIDFromHex(body.ClubID)
	if err != nil {
		respond.Fault(w, h.Log, faults.New(faults.InvalidInput, "club_id is not a valid id"))
		return
	}
	meetingDate, err := time.Parse(time.RFC3339, body.MeetingDate)
	if err != nil {
		respond.Fault(w, h.Log, faults.New(faults.InvalidInput, "meeting_date must be RFC 3339"))
		return
	}

	attendees := make([]service.AttendeeInput, 0, len(body.Attendees))
	for _, ab := range body.Attendees {
		in, err := ab.toInput()
		if err != nil {
			respond.Fault(w, h.Log, err)
			return
		}
		attendees = append(attendees, in)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Attendance.RecordMeeting(ctx, auth.CurrentIdentity(r), service.RecordMeetingInput{
		ClubID:          clubID,
		MeetingTitle:    body.MeetingTitle,
		MeetingDate:     meetingDate,
		MeetingType:     body.MeetingType,
		DurationMinutes: body.DurationMinutes,
		Location:        body.Location,
		Attendees:       attendees,
	})
	if err != nil {
		respond.Fault(w, h.Log, err)
		return
	}
	respond.Created(w, created)
}

// UpdateAttendee handles PUT /attendance/{attendanceID}/attendees.
func (h *Handler) UpdateAttendee(w http.ResponseWriter, r *http.Request) {
	attendanceID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "attendanceID"))
	if err != nil {
		respond.Fault(w, h.Log, faults.New(faults.InvalidInput, "attendance id is not valid"))
		return
	}
	var body attendeeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.Fault(w, h.Log, faults.Wrap(faults.InvalidInput, err, "decode request body"))
		return
	}
	in, err := body.toInput()
	if err != nil {
		respond.Fault(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Attendance.UpdateAttendee(ctx, auth.CurrentIdentity(r), attendanceID, in); err != nil {
		respond.Fault(w, h.Log, err)
		return
	}
	respond.NoContent(w)
}

// List handles GET /attendance?club_id=…; the admin omits club_id to see
// every club.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if raw := r.URL.Query().Get("club_id"); raw != "" {
		clubID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respond.Fault(w, h.Log, faults.New(faults.InvalidInput, "club_id is not a valid id"))
			return
		}
		list, err := h.Attendance.ListForClub(ctx, auth.CurrentIdentity(r), clubID)
		if err != nil {
			respond.Fault(w, h.Log, err)
			return
		}
		respond.OK(w, list)
		return
	}

	list, err := h.Attendance.ListAll(ctx, auth.CurrentIdentity(r))
	if err != nil {
		respond.Fault(w, h.Log, err)
		return
	}
	respond.OK(w, list)
}
