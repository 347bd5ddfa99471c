// Package jobs holds the background tasks of the progress service: the inactivity reminder task,
// the worker handler that mails reminder digests and the scheduler side that enqueues them.
package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TypeInactivityReminder is the asynq task type of inactivity reminders
	TypeInactivityReminder = "reminders:inactivity"
	// QueueDefault is the queue reminders are enqueued to
	QueueDefault = "default"
)

// InactivityReminderPayload is the payload of an inactivity reminder task
type InactivityReminderPayload struct {
	CompanyID int `json:"companyId"`
}

// NewInactivityReminderTask creates the reminder task of one company
func NewInactivityReminderTask(companyID int) (*asynq.Task, error) {
	if companyID <= 0 {
		return nil, fmt.Errorf("invalid company ID %d", companyID)
	}
	payload, err := json.Marshal(InactivityReminderPayload{CompanyID: companyID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reminder payload: %w", err)
	}
	return asynq.NewTask(TypeInactivityReminder, payload,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
	), nil
}

// parseInactivityReminderPayload decodes a reminder payload.
// Malformed payloads are never retried.
func parseInactivityReminderPayload(t *asynq.Task) (InactivityReminderPayload, error) {
	var p InactivityReminderPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("failed to parse reminder payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.CompanyID <= 0 {
		return p, fmt.Errorf("invalid company ID %d: %w", p.CompanyID, asynq.SkipRetry)
	}
	return p, nil
}
