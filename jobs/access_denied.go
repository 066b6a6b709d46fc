package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/courierdesk/courierdesk/internal/audit"
	jobmetrics "github.com/courierdesk/courierdesk/internal/jobs"
	"github.com/courierdesk/courierdesk/internal/shared"
)

// AuditRecorder persists audit entries.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// AccessDeniedJob writes refused requests into the audit log.
type AccessDeniedJob struct {
	Audit   AuditRecorder
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewAccessDeniedJob wires dependencies for the denial handler.
func NewAccessDeniedJob(recorder AuditRecorder, logger *slog.Logger, metrics *jobmetrics.Metrics) *AccessDeniedJob {
	return &AccessDeniedJob{Audit: recorder, Logger: logger, Metrics: metrics}
}

// Handle processes TaskAccessDenied tasks. Malformed payloads are dropped
// without retry.
func (j *AccessDeniedJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Audit == nil {
		return errors.New("access denied: handler not configured")
	}
	var payload AccessDeniedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		j.logger().Warn("access denied: bad payload", slog.Any("error", err))
		return asynq.SkipRetry
	}
	if payload.Path == "" || payload.Reason == "" {
		return asynq.SkipRetry
	}
	if payload.At.IsZero() {
		payload.At = time.Now().UTC()
	}

	tracker := j.Metrics.Track(TaskAccessDenied)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	err := j.Audit.Record(ctx, shared.AuditLog{
		ActorID:  payload.ActorID,
		Action:   audit.ActionAccessDenied,
		Entity:   "route",
		EntityID: payload.Method + " " + payload.Path,
		Meta: map[string]any{
			"role":   payload.Role,
			"reason": payload.Reason,
		},
		At: payload.At,
	})
	if err != nil {
		j.logger().Error("access denied: record audit", slog.String("path", payload.Path), slog.Any("error", err))
		return err
	}
	j.Metrics.RecordDenial(payload.Reason)
	return nil
}

func (j *AccessDeniedJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
