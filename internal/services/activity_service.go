package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/corplearning/backend/internal/logger"
	"github.com/corplearning/backend/internal/models"
	"github.com/corplearning/backend/internal/progress"
	"github.com/corplearning/backend/internal/repositories"
	"go.uber.org/zap"
)

// CatalogRepository defines methods for course catalogue data access
type CatalogRepository interface {
	// GetLesson retrieves a lesson by ID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the lesson.
	//
	// Returns the lesson and an error if any; repositories.ErrNotFound when it does not exist.
	GetLesson(ctx context.Context, id int) (*models.Lesson, error)
	// GetEvaluation retrieves an evaluation definition by ID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the evaluation.
	//
	// Returns the evaluation and an error if any; repositories.ErrNotFound when it does not exist.
	GetEvaluation(ctx context.Context, id int) (*models.EvaluationDefinition, error)
}

// ActivityRepository defines methods for recording participant activity
type ActivityRepository interface {
	// RecordLessonCompletion inserts or refreshes a lesson completion event
	//
	// "ctx" is the context for the request.
	// "event" is the completion event to store.
	//
	// Returns an error if any.
	RecordLessonCompletion(ctx context.Context, event *models.LessonCompletionEvent) error
	// CreateAttempt inserts an evaluation attempt and sets its ID
	//
	// "ctx" is the context for the request.
	// "attempt" is the attempt to store.
	// "courseID" is the course of the evaluation.
	//
	// Returns repositories.ErrDuplicate when the attempt number is already taken.
	CreateAttempt(ctx context.Context, attempt *models.EvaluationAttempt, courseID int) error
	// CreateSignature inserts an attendance signature and sets its ID
	//
	// "ctx" is the context for the request.
	// "signature" is the signature to store.
	// "courseID" is the course the signature belongs to.
	//
	// Returns repositories.ErrDuplicate when the same signature already exists.
	CreateSignature(ctx context.Context, signature *models.AttendanceSignature, courseID int) error
	// UpsertCertificate registers a certificate or replaces its URL
	//
	// "ctx" is the context for the request.
	// "certificate" is the certificate to store.
	//
	// Returns an error if any.
	UpsertCertificate(ctx context.Context, certificate *models.Certificate) error
}

// StatusProvider derives the current status of an assignment
type StatusProvider interface {
	// GetAssignmentStatus derives the status of one assignment
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseID" is the ID of the course.
	//
	// Returns ErrNotAssigned when the user is not enrolled in the course.
	GetAssignmentStatus(ctx context.Context, userID, courseID int) (*models.DerivedStatus, error)
}

type activityService struct {
	catalogRepo  CatalogRepository
	activityRepo ActivityRepository
	statuses     StatusProvider
	cache        ReportCache
	logger       *zap.Logger
	now          func() time.Time
}

// NewActivityService creates a new activity service
func NewActivityService(
	catalogRepo CatalogRepository,
	activityRepo ActivityRepository,
	statuses StatusProvider,
	cache ReportCache,
	logger *zap.Logger,
) *activityService {
	return &activityService{
		catalogRepo:  catalogRepo,
		activityRepo: activityRepo,
		statuses:     statuses,
		cache:        cache,
		logger:       logger,
		now:          time.Now,
	}
}

// CompleteLesson marks a lesson as completed and returns the updated assignment status
func (s *activityService) CompleteLesson(ctx context.Context, userID, lessonID int) (*models.DerivedStatus, error) {
	lesson, err := s.catalogRepo.GetLesson(ctx, lessonID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}

	status, err := s.statuses.GetAssignmentStatus(ctx, userID, lesson.CourseID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	event := &models.LessonCompletionEvent{
		UserID:      userID,
		LessonID:    lesson.ID,
		CourseID:    lesson.CourseID,
		Completed:   true,
		CompletedAt: &now,
	}
	if err := s.activityRepo.RecordLessonCompletion(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to record lesson completion: %w", err)
	}

	logger.FromContext(ctx, s.logger).Info("lesson completed",
		zap.Int("user_id", userID),
		zap.Int("course_id", lesson.CourseID),
		zap.Int("lesson_id", lesson.ID),
	)

	return s.refresh(ctx, userID, lesson.CourseID, status.CompanyID)
}

// SubmitAttempt records an evaluation attempt if the evaluation gate still accepts one
func (s *activityService) SubmitAttempt(ctx context.Context, userID, evaluationID int, score float64) (*models.AttemptResult, error) {
	if math.IsNaN(score) || score < 0 || score > 100 {
		return nil, fmt.Errorf("%w: %v", progress.ErrInvalidScore, score)
	}

	definition, err := s.catalogRepo.GetEvaluation(ctx, evaluationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEvaluationNotFound
		}
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}
	if !definition.IsActive {
		return nil, ErrEvaluationNotFound
	}

	status, err := s.statuses.GetAssignmentStatus(ctx, userID, definition.CourseID)
	if err != nil {
		return nil, err
	}

	gate := status.Evaluation
	switch {
	case !gate.Configured || gate.EvaluationID != definition.ID:
		return nil, ErrEvaluationNotFound
	case gate.HasPassed:
		return nil, ErrAlreadyPassed
	case !gate.CanRetake:
		return nil, ErrNoAttemptsLeft
	case status.ActivityType.HasLessons() && status.ProgressPercent < 100:
		return nil, ErrLessonsIncomplete
	}

	attempt := models.EvaluationAttempt{
		UserID:        userID,
		EvaluationID:  definition.ID,
		AttemptNumber: gate.AttemptsUsed + 1,
		Score:         score,
		Passed:        progress.IsPassingScore(*definition, score),
		CompletedAt:   s.now(),
	}
	if err := s.activityRepo.CreateAttempt(ctx, &attempt, definition.CourseID); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrConcurrentAttempt
		}
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}

	logger.FromContext(ctx, s.logger).Info("evaluation attempt recorded",
		zap.Int("user_id", userID),
		zap.Int("evaluation_id", definition.ID),
		zap.Int("attempt_number", attempt.AttemptNumber),
		zap.Bool("passed", attempt.Passed),
	)

	updated, err := s.refresh(ctx, userID, definition.CourseID, status.CompanyID)
	if err != nil {
		return nil, err
	}

	return &models.AttemptResult{Attempt: attempt, Status: *updated}, nil
}

// Sign captures the attendance signature the assignment is waiting for.
// Signing twice is a no-op.
func (s *activityService) Sign(ctx context.Context, userID, courseID int) (*models.DerivedStatus, error) {
	status, err := s.statuses.GetAssignmentStatus(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	if !status.Signature.Required {
		return nil, ErrSignatureNotRequired
	}
	if status.Signature.Signed {
		return status, nil
	}

	signature := &models.AttendanceSignature{
		UserID:   userID,
		SignedAt: s.now(),
	}
	if status.ActivityType == models.ActivityTypeAttendanceOnly {
		signature.CourseID = &courseID
	} else {
		signature.EvaluationAttemptID = status.Evaluation.PassingAttemptID
	}

	if err := s.activityRepo.CreateSignature(ctx, signature, courseID); err != nil && !errors.Is(err, repositories.ErrDuplicate) {
		return nil, fmt.Errorf("failed to create signature: %w", err)
	}

	logger.FromContext(ctx, s.logger).Info("attendance signed", zap.Int("user_id", userID), zap.Int("course_id", courseID))

	return s.refresh(ctx, userID, courseID, status.CompanyID)
}

// IssueCertificate registers the certificate of an assignment that is allowed to receive one
func (s *activityService) IssueCertificate(ctx context.Context, req models.IssueCertificateRequest) (*models.DerivedStatus, error) {
	status, err := s.statuses.GetAssignmentStatus(ctx, req.UserID, req.CourseID)
	if err != nil {
		return nil, err
	}
	if !status.CertificateIssuable {
		return nil, ErrCertificateNotAllowed
	}

	certificate := &models.Certificate{
		UserID:         req.UserID,
		CourseID:       req.CourseID,
		CompletionDate: s.now(),
	}
	if req.CertificateURL != "" {
		certificate.CertificateURL = &req.CertificateURL
	}
	if err := s.activityRepo.UpsertCertificate(ctx, certificate); err != nil {
		return nil, fmt.Errorf("failed to issue certificate: %w", err)
	}

	logger.FromContext(ctx, s.logger).Info("certificate issued", zap.Int("user_id", req.UserID), zap.Int("course_id", req.CourseID))

	return s.refresh(ctx, req.UserID, req.CourseID, status.CompanyID)
}

// refresh drops the cached company report and recomputes the assignment status
func (s *activityService) refresh(ctx context.Context, userID, courseID, companyID int) (*models.DerivedStatus, error) {
	if err := s.cache.Invalidate(ctx, companyID); err != nil {
		logger.FromContext(ctx, s.logger).Warn("failed to invalidate report cache", zap.Int("company_id", companyID), zap.Error(err))
	}

	return s.statuses.GetAssignmentStatus(ctx, userID, courseID)
}
