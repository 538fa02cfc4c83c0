// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"

	"github.com/dalemusser/clubhub/internal/app/store/audit"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Logger records audit events to both the audit_events collection and
// structured logs. A storage failure while auditing never fails the
// audited operation; it is logged and dropped.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
}

// New creates an audit Logger. store may be nil in tests, in which case
// events go to zap only.
func New(store *audit.Store, zapLog *zap.Logger) *Logger {
	return &Logger{store: store, zapLog: zapLog}
}

// ReviewDecision records an access-request approval or rejection.
func (l *Logger) ReviewDecision(ctx context.Context, decision string, requestID, reviewerID primitive.ObjectID, clubID primitive.ObjectID, reason string) {
	details := map[string]string{"decision": decision}
	if reason != "" {
		details["reason"] = reason
	}
	l.emit(ctx, audit.Event{
		EventID:   uuid.NewString(),
		Category:  audit.CategoryMembership,
		EventType: "request_review",
		Success:   true,
		ActorID:   &reviewerID,
		TargetID:  &requestID,
		ClubID:    &clubID,
		Details:   details,
	})
}

// Award records one scoring ledger append.
func (l *Logger) Award(ctx context.Context, memberID, actorID, clubID primitive.ObjectID, points int, hours float64) {
	l.emit(ctx, audit.Event{
		EventID:   uuid.NewString(),
		Category:  audit.CategoryScoring,
		EventType: "award",
		Success:   true,
		ActorID:   &actorID,
		TargetID:  &memberID,
		ClubID:    &clubID,
		Details: map[string]string{
			"points": itoa(points),
			"hours":  ftoa(hours),
		},
	})
}

// Inconsistency records a failed atomicity guarantee. These are bug
// signals for operator follow-up; every call also logs at error level
// with full context.
func (l *Logger) Inconsistency(ctx context.Context, operation string, targetID primitive.ObjectID, details map[string]string) {
	if details == nil {
		details = map[string]string{}
	}
	details["operation"] = operation
	l.emit(ctx, audit.Event{
		EventID:   uuid.NewString(),
		Category:  audit.CategorySystem,
		EventType: "inconsistency",
		Success:   false,
		TargetID:  &targetID,
		Details:   details,
	})
}

func (l *Logger) emit(ctx context.Context, e audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("event_id", e.EventID),
		zap.String("category", e.Category),
		zap.String("event_type", e.EventType),
		zap.Bool("success", e.Success),
	}
	if e.ActorID != nil {
		fields = append(fields, zap.String("actor_id", e.ActorID.Hex()))
	}
	if e.TargetID != nil {
		fields = append(fields, zap.String("target_id", e.TargetID.Hex()))
	}
	if e.ClubID != nil {
		fields = append(fields, zap.String("club_id", e.ClubID.Hex()))
	}
	for k, v := range e.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if e.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Error("audit event", fields...)
	}

	if l.store == nil {
		return
	}
	if err := l.store.Insert(ctx, e); err != nil {
		l.zapLog.Warn("audit event not persisted", zap.String("event_id", e.EventID), zap.Error(err))
	}
}
