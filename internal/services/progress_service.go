package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/corplearning/backend/internal/logger"
	"github.com/corplearning/backend/internal/models"
	"github.com/corplearning/backend/internal/progress"
	"github.com/corplearning/backend/internal/repositories"
	"go.uber.org/zap"
)

// SnapshotRepository defines methods for loading progress snapshots
type SnapshotRepository interface {
	// Load reads a consistent snapshot of every collection needed to evaluate the matching assignments
	//
	// "ctx" is the context for the request.
	// "filter" restricts the assignments; zero fields mean no restriction.
	//
	// Returns the snapshot and an error if any.
	Load(ctx context.Context, filter models.SnapshotFilter) (*progress.Snapshot, error)
}

// CompanyRepository defines methods for company data access
type CompanyRepository interface {
	// GetCompany retrieves a company by ID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the company.
	//
	// Returns the company and an error if any; repositories.ErrNotFound when it does not exist.
	GetCompany(ctx context.Context, id int) (*models.Company, error)
	// ListCompanies retrieves all companies
	//
	// "ctx" is the context for the request.
	//
	// Returns the companies ordered by ID and an error if any.
	ListCompanies(ctx context.Context) ([]models.Company, error)
}

// ReportCache defines methods for caching company reports
type ReportCache interface {
	// Get returns the cached report of a company
	//
	// "ctx" is the context for the request.
	// "companyID" is the ID of the company.
	//
	// Returns nil without error on a cache miss.
	Get(ctx context.Context, companyID int) (*models.CompanyReport, error)
	// Set caches the report of a company
	//
	// "ctx" is the context for the request.
	// "report" is the report to cache.
	//
	// Returns an error if any.
	Set(ctx context.Context, report *models.CompanyReport) error
	// Invalidate drops the cached report of a company
	//
	// "ctx" is the context for the request.
	// "companyID" is the ID of the company.
	//
	// Returns an error if any.
	Invalidate(ctx context.Context, companyID int) error
}

type progressService struct {
	snapshotRepo SnapshotRepository
	companyRepo  CompanyRepository
	cache        ReportCache
	engine       *progress.Engine
	logger       *zap.Logger
}

// NewProgressService creates a new progress service
func NewProgressService(
	snapshotRepo SnapshotRepository,
	companyRepo CompanyRepository,
	cache ReportCache,
	engine *progress.Engine,
	logger *zap.Logger,
) *progressService {
	return &progressService{
		snapshotRepo: snapshotRepo,
		companyRepo:  companyRepo,
		cache:        cache,
		engine:       engine,
		logger:       logger,
	}
}

// GetAssignmentStatus derives the status of one assignment
func (s *progressService) GetAssignmentStatus(ctx context.Context, userID, courseID int) (*models.DerivedStatus, error) {
	result, err := s.evaluate(ctx, models.SnapshotFilter{UserID: userID, CourseID: courseID})
	if err != nil {
		return nil, err
	}
	if len(result.Statuses) == 0 {
		return nil, ErrNotAssigned
	}

	return &result.Statuses[0], nil
}

// GetUserStatuses derives the status of every assignment of a user
func (s *progressService) GetUserStatuses(ctx context.Context, userID int) ([]models.DerivedStatus, error) {
	result, err := s.evaluate(ctx, models.SnapshotFilter{UserID: userID})
	if err != nil {
		return nil, err
	}

	return result.Statuses, nil
}

// GetCompanyReport returns the statuses, overall stats and per-course cohorts of a company
func (s *progressService) GetCompanyReport(ctx context.Context, companyID int) (*models.CompanyReport, error) {
	cached, err := s.cache.Get(ctx, companyID)
	if err != nil {
		logger.FromContext(ctx, s.logger).Warn("failed to read report cache", zap.Int("company_id", companyID), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	if _, err := s.companyRepo.GetCompany(ctx, companyID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	result, err := s.evaluate(ctx, models.SnapshotFilter{CompanyID: companyID})
	if err != nil {
		return nil, err
	}

	report := &models.CompanyReport{
		CompanyID: companyID,
		Stats:     result.Stats,
		Courses:   progress.AggregateByCourse(result.Statuses),
		Statuses:  result.Statuses,
	}

	if err := s.cache.Set(ctx, report); err != nil {
		logger.FromContext(ctx, s.logger).Warn("failed to cache report", zap.Int("company_id", companyID), zap.Error(err))
	}

	return report, nil
}

// GetCompaniesSummary aggregates every company, including companies without assignments
func (s *progressService) GetCompaniesSummary(ctx context.Context) ([]models.CompanySummary, error) {
	companies, err := s.companyRepo.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	result, err := s.evaluate(ctx, models.SnapshotFilter{})
	if err != nil {
		return nil, err
	}
	byCompany := progress.AggregateByCompany(result.Statuses)

	summaries := make([]models.CompanySummary, 0, len(companies))
	for _, c := range companies {
		summaries = append(summaries, models.CompanySummary{
			CompanyID:   c.ID,
			CompanyName: c.Name,
			Stats:       byCompany[c.ID],
		})
	}

	return summaries, nil
}

// GetInactiveAssignments returns the unfinished assignments of a company past the inactivity threshold
func (s *progressService) GetInactiveAssignments(ctx context.Context, companyID int) ([]models.DerivedStatus, error) {
	report, err := s.GetCompanyReport(ctx, companyID)
	if err != nil {
		return nil, err
	}

	inactive := []models.DerivedStatus{}
	for _, status := range report.Statuses {
		if status.IsInactive {
			inactive = append(inactive, status)
		}
	}

	return inactive, nil
}

// evaluate loads a snapshot and runs the engine over it, logging every ignored record
func (s *progressService) evaluate(ctx context.Context, filter models.SnapshotFilter) (*progress.BatchResult, error) {
	snap, err := s.snapshotRepo.Load(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	result, err := s.engine.Evaluate(ctx, *snap)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate progress: %w", err)
	}

	for _, issue := range result.Issues {
		logger.FromContext(ctx, s.logger).Warn("progress record ignored",
			zap.String("kind", issue.Kind),
			zap.Int("user_id", issue.UserID),
			zap.Int("course_id", issue.CourseID),
			zap.Int("record_id", issue.RecordID),
			zap.String("detail", issue.Detail),
		)
	}

	return result, nil
}
