// internal/app/features/shared/respond/respond.go

// Package respond writes JSON responses and maps fault kinds onto HTTP
// status codes so every feature reports errors the same way.
package respond

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/clubhub/internal/domain/faults"
)

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Created writes v with 201.
func Created(w http.ResponseWriter, v any) { JSON(w, http.StatusCreated, v) }

// OK writes v with 200.
func OK(w http.ResponseWriter, v any) { JSON(w, http.StatusOK, v) }

// NoContent writes 204.
func NoContent(w http.ResponseWriter) { w.WriteHeader(http.StatusNoContent) }

// Fault writes err as JSON with the status implied by its kind. Unknown
// and transient errors are logged and reported as 500/503 without
// leaking internals.
func Fault(w http.ResponseWriter, log *zap.Logger, err error) {
	kind := faults.KindOf(err)
	status := statusFor(kind)

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		if log != nil {
			log.Error("request failed", zap.String("kind", kind.String()), zap.Error(err))
		}
		msg = http.StatusText(status)
	}
	JSON(w, status, errorBody{Error: msg, Kind: kind.String()})
}

func statusFor(kind faults.Kind) int {
	switch kind {
	case faults.Unauthenticated:
		return http.StatusUnauthorized
	case faults.InsufficientRole:
		return http.StatusForbidden
	case faults.NotFound:
		return http.StatusNotFound
	case faults.DuplicateRequest, faults.DuplicateAttendee:
		return http.StatusConflict
	case faults.MemberNotInMeeting:
		return http.StatusNotFound
	case faults.NegativeAggregate, faults.InvalidInput:
		return http.StatusUnprocessableEntity
	case faults.Transient:
		return http.StatusServiceUnavailable
	case faults.Inconsistent:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Status exposes the kind-to-status mapping for tests.
func Status(err error) int { return statusFor(faults.KindOf(err)) }
