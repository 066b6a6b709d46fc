package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// QueueAudit carries audit writes so they never queue behind other work.
	QueueAudit = "audit"
	// TaskAccessDenied is the task type for recording a refused request.
	TaskAccessDenied = "audit:access_denied"
)

// AccessDeniedPayload describes one refused request.
type AccessDeniedPayload struct {
	ActorID string    `json:"actor_id,omitempty"`
	Role    string    `json:"role,omitempty"`
	Path    string    `json:"path"`
	Method  string    `json:"method"`
	Reason  string    `json:"reason"`
	At      time.Time `json:"at"`
}

// NewAccessDeniedTask constructs an Asynq task.
func NewAccessDeniedTask(payload AccessDeniedPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAccessDenied, data, asynq.MaxRetry(5), asynq.Timeout(30*time.Second)), nil
}
