package jobs

import (
	"context"
	"fmt"

	"github.com/corplearning/backend/internal/models"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// CompanyLister lists every company
type CompanyLister interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
}

// TaskEnqueuer enqueues asynq tasks; *asynq.Client satisfies it
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ReminderEnqueuer fans the reminder schedule out into one task per company
type ReminderEnqueuer struct {
	companies CompanyLister
	client    TaskEnqueuer
	logger    *zap.Logger
}

// NewReminderEnqueuer creates a new reminder enqueuer
func NewReminderEnqueuer(companies CompanyLister, client TaskEnqueuer, logger *zap.Logger) *ReminderEnqueuer {
	return &ReminderEnqueuer{
		companies: companies,
		client:    client,
		logger:    logger,
	}
}

// EnqueueAll enqueues a reminder task for every company.
// A failed company is logged and skipped; the number of enqueued tasks is returned.
func (e *ReminderEnqueuer) EnqueueAll(ctx context.Context) (int, error) {
	companies, err := e.companies.ListCompanies(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list companies: %w", err)
	}

	enqueued := 0
	for _, c := range companies {
		task, err := NewInactivityReminderTask(c.ID)
		if err != nil {
			e.logger.Error("Failed to create reminder task", zap.Int("company_id", c.ID), zap.Error(err))
			continue
		}
		info, err := e.client.EnqueueContext(ctx, task)
		if err != nil {
			e.logger.Error("Failed to enqueue reminder task", zap.Int("company_id", c.ID), zap.Error(err))
			continue
		}
		enqueued++
		e.logger.Debug("Enqueued reminder task", zap.Int("company_id", c.ID), zap.String("task_id", info.ID))
	}

	e.logger.Info("Enqueued inactivity reminders", zap.Int("count", enqueued), zap.Int("companies", len(companies)))
	return enqueued, nil
}
