package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/corplearning/backend/internal/models"
	"github.com/corplearning/backend/internal/progress"
	"github.com/corplearning/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockCatalogRepository is a mock implementation of CatalogRepository
type mockCatalogRepository struct {
	lesson     *models.Lesson
	evaluation *models.EvaluationDefinition
	err        error
}

func (m *mockCatalogRepository) GetLesson(ctx context.Context, id int) (*models.Lesson, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.lesson == nil {
		return nil, repositories.ErrNotFound
	}
	return m.lesson, nil
}

func (m *mockCatalogRepository) GetEvaluation(ctx context.Context, id int) (*models.EvaluationDefinition, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.evaluation == nil {
		return nil, repositories.ErrNotFound
	}
	return m.evaluation, nil
}

// mockActivityRepository is a mock implementation of ActivityRepository
type mockActivityRepository struct {
	err          error
	completions  []models.LessonCompletionEvent
	attempts     []models.EvaluationAttempt
	signatures   []models.AttendanceSignature
	certificates []models.Certificate
}

func (m *mockActivityRepository) RecordLessonCompletion(ctx context.Context, event *models.LessonCompletionEvent) error {
	if m.err != nil {
		return m.err
	}
	m.completions = append(m.completions, *event)
	return nil
}

func (m *mockActivityRepository) CreateAttempt(ctx context.Context, attempt *models.EvaluationAttempt, courseID int) error {
	if m.err != nil {
		return m.err
	}
	attempt.ID = len(m.attempts) + 1
	m.attempts = append(m.attempts, *attempt)
	return nil
}

func (m *mockActivityRepository) CreateSignature(ctx context.Context, signature *models.AttendanceSignature, courseID int) error {
	if m.err != nil {
		return m.err
	}
	m.signatures = append(m.signatures, *signature)
	return nil
}

func (m *mockActivityRepository) UpsertCertificate(ctx context.Context, certificate *models.Certificate) error {
	if m.err != nil {
		return m.err
	}
	m.certificates = append(m.certificates, *certificate)
	return nil
}

// mockStatusProvider returns the configured statuses one call after another, repeating the last one
type mockStatusProvider struct {
	statuses []models.DerivedStatus
	err      error
	calls    int
}

func (m *mockStatusProvider) GetAssignmentStatus(ctx context.Context, userID, courseID int) (*models.DerivedStatus, error) {
	if m.err != nil {
		return nil, m.err
	}
	i := m.calls
	if i >= len(m.statuses) {
		i = len(m.statuses) - 1
	}
	m.calls++
	status := m.statuses[i]
	return &status, nil
}

func newTestActivityService(catalog *mockCatalogRepository, activity *mockActivityRepository, statuses *mockStatusProvider, cache *mockReportCache) *activityService {
	svc := NewActivityService(catalog, activity, statuses, cache, zap.NewNop())
	svc.now = func() time.Time { return serviceNow }
	return svc
}

// evaluationStatus is a full course of company 7 with every lesson done and the given evaluation gate
func evaluationStatus(gate models.EvaluationGate) models.DerivedStatus {
	return models.DerivedStatus{
		UserID:          100,
		CourseID:        1,
		CompanyID:       7,
		ActivityType:    models.ActivityTypeFullCourse,
		Status:          models.StatusEvaluationPending,
		ProgressPercent: 100,
		Evaluation:      gate,
	}
}

func TestNewActivityService(t *testing.T) {
	logger := zap.NewNop()
	catalog := &mockCatalogRepository{}
	activity := &mockActivityRepository{}
	statuses := &mockStatusProvider{}
	cache := &mockReportCache{}

	svc := NewActivityService(catalog, activity, statuses, cache, logger)

	assert.NotNil(t, svc)
	assert.Equal(t, catalog, svc.catalogRepo)
	assert.Equal(t, activity, svc.activityRepo)
	assert.Equal(t, statuses, svc.statuses)
	assert.Equal(t, cache, svc.cache)
	assert.Equal(t, logger, svc.logger)
	assert.NotNil(t, svc.now)
}

func TestActivityService_CompleteLesson(t *testing.T) {
	lesson := &models.Lesson{ID: 11, ModuleID: 10, CourseID: 1}
	before := models.DerivedStatus{UserID: 100, CourseID: 1, CompanyID: 7, Status: models.StatusNotStarted}
	after := models.DerivedStatus{UserID: 100, CourseID: 1, CompanyID: 7, Status: models.StatusInProgress, ProgressPercent: 50}

	tests := []struct {
		name           string
		catalog        *mockCatalogRepository
		activity       *mockActivityRepository
		statuses       *mockStatusProvider
		expectedError  error
		expectedStatus models.Status
	}{
		{
			name:           "success",
			catalog:        &mockCatalogRepository{lesson: lesson},
			activity:       &mockActivityRepository{},
			statuses:       &mockStatusProvider{statuses: []models.DerivedStatus{before, after}},
			expectedStatus: models.StatusInProgress,
		},
		{
			name:          "unknown lesson",
			catalog:       &mockCatalogRepository{},
			activity:      &mockActivityRepository{},
			statuses:      &mockStatusProvider{statuses: []models.DerivedStatus{before}},
			expectedError: ErrLessonNotFound,
		},
		{
			name:          "not assigned",
			catalog:       &mockCatalogRepository{lesson: lesson},
			activity:      &mockActivityRepository{},
			statuses:      &mockStatusProvider{err: ErrNotAssigned},
			expectedError: ErrNotAssigned,
		},
		{
			name:          "repository error",
			catalog:       &mockCatalogRepository{lesson: lesson},
			activity:      &mockActivityRepository{err: errors.New("database error")},
			statuses:      &mockStatusProvider{statuses: []models.DerivedStatus{before}},
			expectedError: errors.New("failed to record lesson completion: database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := &mockReportCache{}
			svc := newTestActivityService(tt.catalog, tt.activity, tt.statuses, cache)

			status, err := svc.CompleteLesson(context.Background(), 100, 11)

			if tt.expectedError != nil {
				assert.EqualError(t, err, tt.expectedError.Error())
				assert.Nil(t, status)
				assert.Empty(t, cache.invalidated)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, status.Status)
			require.Len(t, tt.activity.completions, 1)
			event := tt.activity.completions[0]
			assert.Equal(t, 11, event.LessonID)
			assert.Equal(t, 1, event.CourseID)
			assert.True(t, event.Completed)
			assert.Equal(t, serviceNow, *event.CompletedAt)
			assert.Equal(t, []int{7}, cache.invalidated)
		})
	}
}

func TestActivityService_SubmitAttempt(t *testing.T) {
	definition := &models.EvaluationDefinition{ID: 5, CourseID: 1, PassingScore: 70, MaxAttempts: 3, IsActive: true}
	open := models.EvaluationGate{Required: true, Configured: true, EvaluationID: 5, CanRetake: true, AttemptsUsed: 1, AttemptsRemaining: 2}
	passedID := 9
	passed := models.EvaluationGate{Required: true, Configured: true, EvaluationID: 5, HasPassed: true, AttemptsUsed: 2, PassingAttemptID: &passedID}
	exhausted := models.EvaluationGate{Required: true, Configured: true, EvaluationID: 5, AttemptsUsed: 3}
	superseded := open
	superseded.EvaluationID = 6
	incomplete := evaluationStatus(open)
	incomplete.ProgressPercent = 50
	incomplete.Status = models.StatusInProgress

	tests := []struct {
		name           string
		score          float64
		catalog        *mockCatalogRepository
		activity       *mockActivityRepository
		statuses       *mockStatusProvider
		expectedError  error
		expectedPassed bool
		expectedNumber int
	}{
		{
			name:           "passing attempt",
			score:          85,
			catalog:        &mockCatalogRepository{evaluation: definition},
			activity:       &mockActivityRepository{},
			statuses:       &mockStatusProvider{statuses: []models.DerivedStatus{evaluationStatus(open)}},
			expectedPassed: true,
			expectedNumber: 2,
		},
		{
			name:           "score equal to passing score passes",
			score:          70,
			catalog:        &mockCatalogRepository{evaluation: definition},
			activity:       &mockActivityRepository{},
			statuses:       &mockStatusProvider{statuses: []models.DerivedStatus{evaluationStatus(open)}},
			expectedPassed: true,
			expectedNumber: 2,
		},
		{
			name:           "failing attempt",
			score:          69.5,
			catalog:        &mockCatalogRepository{evaluation: definition},
			activity:       &mockActivityRepository{},
			statuses:       &mockStatusProvider{statuses: []models.DerivedStatus{evaluationStatus(open)}},
			expectedPassed: false,
			expectedNumber: 2,
		},
		{
			name:          "score above range",
			score:         101,
			catalog:       &mockCatalogRepository{evaluation: definition},
			activity:      &mockActivityRepository{},
			statuses:      &mockStatusProvider{statuses: []models.DerivedStatus{evaluationStatus(open)}},
			expectedError: progress.ErrInvalidScore,
		},
		{
			name:          "negative score",
			score:         -1,
			catalog:       &mockCatalogRepository{evaluation: definition},
			activity:      &mockActivityRepository{},
			statuses:      &mockStatusProvider{statuses: []models.DerivedStatus{evaluationStatus(open)}},
			expectedError: progress.ErrInvalidScore,
		},
		{
			name:          "unknown evaluation",
			score:         85,
			catalog:       &mockCatalogRepository{},
			activity:      &mockActivityRepository{},
			statuses:      &mockStatusProvider{statuses: []models.DerivedStatus{evaluationStatus(open)}},
			expectedError: ErrEvaluationNotFound,
		},
		{
			name:          "inactive evaluation",
			score:         85,
			catalog:       &mockCatalogRepository{evaluation: &models.EvaluationDefinition{ID: 5, CourseID: 1, PassingScore: 70, MaxAttempts: 3}},
			activity:      &mockActivityRepository{},
			statuses:      &mockStatusProvider{statuses: []models.DerivedStatus{evaluationStatus(open)}},
			expectedError: ErrEvaluationNotFound,
		},
		{
			name:          "superseded evaluation",
			score:         85,
			catalog:       &mockCatalogRepository{evaluation: definition},
			activity:      &mockActivityRepository{},
			statuses:      &mockStatusProvider{statuses: []models.DerivedStatus{evaluationStatus(superseded)}},
			expectedError: ErrEvaluationNotFound,
		},
		{
			name:          "already passed",
			score:         85,
			catalog:       &mockCatalogRepository{evaluation: definition},
			activity:      &mockActivityRepository{},
			statuses:      &mockStatusProvider{statuses: []models.DerivedStatus{evaluationStatus(passed)}},
			expectedError: ErrAlreadyPassed,
		},
		{
			name:          "attempts exhausted",
			score:         85,
			catalog:       &mockCatalogRepository{evaluation: definition},
			activity:      &mockActivityRepository{},
			statuses:      &mockStatusProvider{statuses: []models.DerivedStatus{evaluationStatus(exhausted)}},
			expectedError: ErrNoAttemptsLeft,
		},
		{
			name:          "lessons incomplete",
			score:         85,
			catalog:       &mockCatalogRepository{evaluation: definition},
			activity:      &mockActivityRepository{},
			statuses:      &mockStatusProvider{statuses: []models.DerivedStatus{incomplete}},
			expectedError: ErrLessonsIncomplete,
		},
		{
			name:          "not assigned",
			score:         85,
			catalog:       &mockCatalogRepository{evaluation: definition},
			activity:      &mockActivityRepository{},
			statuses:      &mockStatusProvider{err: ErrNotAssigned},
			expectedError: ErrNotAssigned,
		},
		{
			name:          "concurrent attempt",
			score:         85,
			catalog:       &mockCatalogRepository{evaluation: definition},
			activity:      &mockActivityRepository{err: repositories.ErrDuplicate},
			statuses:      &mockStatusProvider{statuses: []models.DerivedStatus{evaluationStatus(open)}},
			expectedError: ErrConcurrentAttempt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := &mockReportCache{}
			svc := newTestActivityService(tt.catalog, tt.activity, tt.statuses, cache)

			result, err := svc.SubmitAttempt(context.Background(), 100, 5, tt.score)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
				assert.Empty(t, tt.activity.attempts)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedPassed, result.Attempt.Passed)
			assert.Equal(t, tt.expectedNumber, result.Attempt.AttemptNumber)
			assert.Equal(t, 1, result.Attempt.ID)
			assert.Equal(t, serviceNow, result.Attempt.CompletedAt)
			assert.Equal(t, 100, result.Status.UserID)
			assert.Equal(t, []int{7}, cache.invalidated)
		})
	}
}

func TestActivityService_SubmitAttempt_TopicHasNoLessonRequirement(t *testing.T) {
	definition := &models.EvaluationDefinition{ID: 5, CourseID: 1, PassingScore: 70, MaxAttempts: 1, IsActive: true}
	status := evaluationStatus(models.EvaluationGate{Required: true, Configured: true, EvaluationID: 5, CanRetake: true, AttemptsRemaining: 1})
	status.ActivityType = models.ActivityTypeTopic
	status.ProgressPercent = 0
	activity := &mockActivityRepository{}
	svc := newTestActivityService(&mockCatalogRepository{evaluation: definition}, activity, &mockStatusProvider{statuses: []models.DerivedStatus{status}}, &mockReportCache{})

	result, err := svc.SubmitAttempt(context.Background(), 100, 5, 90)

	require.NoError(t, err)
	assert.True(t, result.Attempt.Passed)
	assert.Equal(t, 1, result.Attempt.AttemptNumber)
}

func TestActivityService_Sign(t *testing.T) {
	attemptID := 9
	attendance := models.DerivedStatus{
		UserID:       100,
		CourseID:     1,
		CompanyID:    7,
		ActivityType: models.ActivityTypeAttendanceOnly,
		Status:       models.StatusSignaturePending,
		Signature:    models.SignatureGate{Required: true},
	}
	signed := attendance
	signed.Signature.Signed = true
	signed.Status = models.StatusCompleted
	afterEvaluation := evaluationStatus(models.EvaluationGate{Required: true, Configured: true, EvaluationID: 5, HasPassed: true, PassingAttemptID: &attemptID})
	afterEvaluation.ActivityType = models.ActivityTypeTopic
	afterEvaluation.Signature = models.SignatureGate{Required: true}
	afterEvaluation.Status = models.StatusSignaturePending
	noSignature := evaluationStatus(models.EvaluationGate{})

	tests := []struct {
		name               string
		activity           *mockActivityRepository
		statuses           *mockStatusProvider
		expectedError      error
		expectedSignatures int
		expectedCourseID   bool
		expectedAttemptID  *int
	}{
		{
			name:               "attendance only signs the course",
			activity:           &mockActivityRepository{},
			statuses:           &mockStatusProvider{statuses: []models.DerivedStatus{attendance, signed}},
			expectedSignatures: 1,
			expectedCourseID:   true,
		},
		{
			name:               "topic signs the passing attempt",
			activity:           &mockActivityRepository{},
			statuses:           &mockStatusProvider{statuses: []models.DerivedStatus{afterEvaluation}},
			expectedSignatures: 1,
			expectedAttemptID:  &attemptID,
		},
		{
			name:     "already signed is a no-op",
			activity: &mockActivityRepository{},
			statuses: &mockStatusProvider{statuses: []models.DerivedStatus{signed}},
		},
		{
			name:     "duplicate signature is treated as success",
			activity: &mockActivityRepository{err: repositories.ErrDuplicate},
			statuses: &mockStatusProvider{statuses: []models.DerivedStatus{attendance, signed}},
		},
		{
			name:          "signature not required",
			activity:      &mockActivityRepository{},
			statuses:      &mockStatusProvider{statuses: []models.DerivedStatus{noSignature}},
			expectedError: ErrSignatureNotRequired,
		},
		{
			name:          "repository error",
			activity:      &mockActivityRepository{err: errors.New("database error")},
			statuses:      &mockStatusProvider{statuses: []models.DerivedStatus{attendance}},
			expectedError: errors.New("failed to create signature: database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestActivityService(&mockCatalogRepository{}, tt.activity, tt.statuses, &mockReportCache{})

			status, err := svc.Sign(context.Background(), 100, 1)

			if tt.expectedError != nil {
				assert.EqualError(t, err, tt.expectedError.Error())
				assert.Nil(t, status)
				return
			}
			require.NoError(t, err)
			require.Len(t, tt.activity.signatures, tt.expectedSignatures)
			if tt.expectedSignatures == 0 {
				return
			}
			signature := tt.activity.signatures[0]
			assert.Equal(t, 100, signature.UserID)
			assert.Equal(t, serviceNow, signature.SignedAt)
			if tt.expectedCourseID {
				require.NotNil(t, signature.CourseID)
				assert.Equal(t, 1, *signature.CourseID)
				assert.Nil(t, signature.EvaluationAttemptID)
			} else {
				assert.Nil(t, signature.CourseID)
				assert.Equal(t, tt.expectedAttemptID, signature.EvaluationAttemptID)
			}
		})
	}
}

func TestActivityService_IssueCertificate(t *testing.T) {
	eligible := models.DerivedStatus{UserID: 100, CourseID: 1, CompanyID: 7, Status: models.StatusCompleted, CertificateEligible: true, CertificateIssuable: true}
	issued := eligible
	issued.Status = models.StatusCertificateGenerated
	notIssuable := eligible
	notIssuable.CertificateIssuable = false

	tests := []struct {
		name          string
		req           models.IssueCertificateRequest
		activity      *mockActivityRepository
		statuses      *mockStatusProvider
		expectedError error
		expectURL     bool
	}{
		{
			name:      "success with url",
			req:       models.IssueCertificateRequest{UserID: 100, CourseID: 1, CertificateURL: "https://files.example.com/c.pdf"},
			activity:  &mockActivityRepository{},
			statuses:  &mockStatusProvider{statuses: []models.DerivedStatus{eligible, issued}},
			expectURL: true,
		},
		{
			name:     "success without url",
			req:      models.IssueCertificateRequest{UserID: 100, CourseID: 1},
			activity: &mockActivityRepository{},
			statuses: &mockStatusProvider{statuses: []models.DerivedStatus{eligible, issued}},
		},
		{
			name:          "not issuable",
			req:           models.IssueCertificateRequest{UserID: 100, CourseID: 1},
			activity:      &mockActivityRepository{},
			statuses:      &mockStatusProvider{statuses: []models.DerivedStatus{notIssuable}},
			expectedError: ErrCertificateNotAllowed,
		},
		{
			name:          "not assigned",
			req:           models.IssueCertificateRequest{UserID: 100, CourseID: 1},
			activity:      &mockActivityRepository{},
			statuses:      &mockStatusProvider{err: ErrNotAssigned},
			expectedError: ErrNotAssigned,
		},
		{
			name:          "repository error",
			req:           models.IssueCertificateRequest{UserID: 100, CourseID: 1},
			activity:      &mockActivityRepository{err: errors.New("database error")},
			statuses:      &mockStatusProvider{statuses: []models.DerivedStatus{eligible}},
			expectedError: errors.New("failed to issue certificate: database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := &mockReportCache{invalidateErr: errors.New("redis down")}
			svc := newTestActivityService(&mockCatalogRepository{}, tt.activity, tt.statuses, cache)

			status, err := svc.IssueCertificate(context.Background(), tt.req)

			if tt.expectedError != nil {
				assert.EqualError(t, err, tt.expectedError.Error())
				assert.Nil(t, status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.StatusCertificateGenerated, status.Status)
			require.Len(t, tt.activity.certificates, 1)
			certificate := tt.activity.certificates[0]
			assert.Equal(t, serviceNow, certificate.CompletionDate)
			if tt.expectURL {
				require.NotNil(t, certificate.CertificateURL)
				assert.Equal(t, tt.req.CertificateURL, *certificate.CertificateURL)
			} else {
				assert.Nil(t, certificate.CertificateURL)
			}
			assert.Equal(t, []int{7}, cache.invalidated)
		})
	}
}
