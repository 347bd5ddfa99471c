package jobs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/corplearning/backend/internal/models"
	"github.com/corplearning/backend/internal/repositories"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InactiveAssignmentsProvider lists the inactive assignments of a company
type InactiveAssignmentsProvider interface {
	// GetInactiveAssignments returns the unfinished assignments past the inactivity threshold
	//
	// "ctx" is the context for the request.
	// "companyID" is the ID of the company.
	//
	// Returns a list of derived statuses and an error if any.
	GetInactiveAssignments(ctx context.Context, companyID int) ([]models.DerivedStatus, error)
}

// CompanyRepository defines methods for company lookups
type CompanyRepository interface {
	// GetCompany retrieves a company by ID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the company.
	//
	// Returns the company and an error if any.
	GetCompany(ctx context.Context, id int) (*models.Company, error)
}

var digestTemplate = template.Must(template.New("digest").Parse(`<p>Hello {{.Company.Name}},</p>
<p>{{len .Assignments}} course assignment(s) had no activity for {{.Threshold}} days or more:</p>
<table>
<tr><th>User</th><th>Course</th><th>Status</th><th>Progress</th><th>Days inactive</th></tr>
{{range .Assignments}}<tr><td>{{.UserID}}</td><td>{{.CourseID}}</td><td>{{.Status}}</td><td>{{.ProgressPercent}}%</td><td>{{.DaysInactive}}</td></tr>
{{end}}</table>
`))

// ReminderHandler processes inactivity reminder tasks
type ReminderHandler struct {
	progress  InactiveAssignmentsProvider
	companies CompanyRepository
	mailer    Mailer
	threshold int
	logger    *zap.Logger
}

// NewReminderHandler creates a new reminder handler.
// "threshold" is the inactivity threshold in days, only used in the digest text.
func NewReminderHandler(progress InactiveAssignmentsProvider, companies CompanyRepository, mailer Mailer, threshold int, logger *zap.Logger) *ReminderHandler {
	return &ReminderHandler{
		progress:  progress,
		companies: companies,
		mailer:    mailer,
		threshold: threshold,
		logger:    logger,
	}
}

// HandleInactivityReminder emails the company contact a digest of its inactive assignments.
// Nothing is sent when the company has no contact or no inactive assignment.
func (h *ReminderHandler) HandleInactivityReminder(ctx context.Context, t *asynq.Task) error {
	payload, err := parseInactivityReminderPayload(t)
	if err != nil {
		return err
	}

	company, err := h.companies.GetCompany(ctx, payload.CompanyID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			h.logger.Warn("reminder for unknown company skipped", zap.Int("company_id", payload.CompanyID))
			return nil
		}
		return fmt.Errorf("failed to get company: %w", err)
	}
	if company.ContactEmail == "" {
		h.logger.Info("company has no contact email", zap.Int("company_id", company.ID))
		return nil
	}

	inactive, err := h.progress.GetInactiveAssignments(ctx, company.ID)
	if err != nil {
		return fmt.Errorf("failed to get inactive assignments: %w", err)
	}
	if len(inactive) == 0 {
		return nil
	}

	body, err := h.renderDigest(company, inactive)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("%d inactive course assignments", len(inactive))
	if err := h.mailer.Send(company.ContactEmail, subject, body); err != nil {
		return err
	}

	h.logger.Info("inactivity reminder sent",
		zap.Int("company_id", company.ID),
		zap.Int("inactive", len(inactive)),
	)
	return nil
}

func (h *ReminderHandler) renderDigest(company *models.Company, inactive []models.DerivedStatus) (string, error) {
	var buf bytes.Buffer
	err := digestTemplate.Execute(&buf, struct {
		Company     *models.Company
		Assignments []models.DerivedStatus
		Threshold   int
	}{company, inactive, h.threshold})
	if err != nil {
		return "", fmt.Errorf("failed to render reminder digest: %w", err)
	}
	return buf.String(), nil
}
