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
)

// TaskAuditPurge is the task type for trimming old denial audits.
const TaskAuditPurge = "audit:purge"

// AuditPurgePayload carries the retention window in days.
type AuditPurgePayload struct {
	RetentionDays int `json:"retention_days"`
}

// NewAuditPurgeTask constructs the periodic purge task.
func NewAuditPurgeTask(retentionDays int) (*asynq.Task, error) {
	data, err := json.Marshal(AuditPurgePayload{RetentionDays: retentionDays})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditPurge, data, asynq.Queue(QueueDefault), asynq.MaxRetry(3), asynq.Timeout(5*time.Minute)), nil
}

// AuditPurger deletes audit rows older than a cutoff.
type AuditPurger interface {
	PurgeBefore(ctx context.Context, action string, cutoff time.Time) (int64, error)
}

// AuditPurgeJob removes denial audits past retention.
type AuditPurgeJob struct {
	Purger  AuditPurger
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	now     func() time.Time
}

// NewAuditPurgeJob wires dependencies for the purge handler.
func NewAuditPurgeJob(purger AuditPurger, logger *slog.Logger, metrics *jobmetrics.Metrics) *AuditPurgeJob {
	return &AuditPurgeJob{Purger: purger, Logger: logger, Metrics: metrics, now: time.Now}
}

// Handle processes TaskAuditPurge tasks.
func (j *AuditPurgeJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Purger == nil {
		return errors.New("audit purge: handler not configured")
	}
	var payload AuditPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.RetentionDays <= 0 {
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskAuditPurge)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	now := time.Now
	if j.now != nil {
		now = j.now
	}
	cutoff := now().UTC().AddDate(0, 0, -payload.RetentionDays)
	deleted, err := j.Purger.PurgeBefore(ctx, audit.ActionAccessDenied, cutoff)
	if err != nil {
		return err
	}
	j.Metrics.RecordPurged(deleted)
	logger := j.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("audit purge done", slog.Int64("deleted", deleted), slog.Time("cutoff", cutoff))
	return nil
}
