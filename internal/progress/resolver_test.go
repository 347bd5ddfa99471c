package progress

import (
	"testing"
	"time"

	"github.com/corplearning/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

// resolveScenario runs the whole pipeline for one assignment the way the engine does
func resolveScenario(assignment models.Assignment, course models.Course, hierarchy *models.CourseHierarchy, events []models.LessonCompletionEvent, definition *models.EvaluationDefinition, attempts []models.EvaluationAttempt, signatures []models.AttendanceSignature, hasCertificate bool) models.DerivedStatus {
	lessonProgress := CalculateProgress(hierarchy, events)
	gate := EvaluateGate(assignment.ActivityType, course.RequiresEvaluation, definition, attempts)
	signature := EvaluateSignature(assignment.UserID, assignment.CourseID, assignment.ActivityType, gate, signatures)
	return Resolve(ResolveInput{
		Assignment:     assignment,
		Progress:       lessonProgress,
		Evaluation:     gate,
		Signature:      signature,
		HasCertificate: hasCertificate,
		Now:            testNow,
		Policy:         DefaultPolicy(),
	})
}

func TestResolve_Scenarios(t *testing.T) {
	recent := timePtr(testNow.Add(-24 * time.Hour))
	definition := &models.EvaluationDefinition{ID: 10, CourseID: 1, PassingScore: 70, MaxAttempts: 3, IsActive: true}

	t.Run("three of ten lessons is in progress", func(t *testing.T) {
		assignment := models.Assignment{UserID: 1, CourseID: 1, ActivityType: models.ActivityTypeFullCourse, LastActivityAt: recent}
		status := resolveScenario(assignment, models.Course{ID: 1}, buildHierarchy(1, 10), completedEvents(1, 1, 2, 3), nil, nil, nil, false)

		assert.Equal(t, 30, status.ProgressPercent)
		assert.Equal(t, models.StatusInProgress, status.Status)
		assert.False(t, status.CertificateEligible)
	})

	t.Run("full course done without evaluation", func(t *testing.T) {
		assignment := models.Assignment{UserID: 1, CourseID: 1, ActivityType: models.ActivityTypeFullCourse, LastActivityAt: recent}
		status := resolveScenario(assignment, models.Course{ID: 1}, buildHierarchy(1, 2, 2), completedEvents(1, 1, 2, 3, 4), nil, nil, nil, false)

		assert.Equal(t, 100, status.ProgressPercent)
		assert.Equal(t, models.StatusLessonsCompleted, status.Status)
		assert.True(t, status.CertificateEligible)
		assert.True(t, status.CertificateIssuable)
	})

	t.Run("topic with two failed attempts of three", func(t *testing.T) {
		assignment := models.Assignment{UserID: 1, CourseID: 1, ActivityType: models.ActivityTypeTopic, LastActivityAt: recent}
		attempts := []models.EvaluationAttempt{attempt(1, 1, 10, 1, 30), attempt(2, 1, 10, 2, 50)}
		status := resolveScenario(assignment, models.Course{ID: 1}, nil, nil, definition, attempts, nil, false)

		assert.Equal(t, 1, status.Evaluation.AttemptsRemaining)
		assert.True(t, status.Evaluation.CanRetake)
		assert.Equal(t, models.StatusEvaluationPending, status.Status)
	})

	t.Run("topic passed without signature", func(t *testing.T) {
		assignment := models.Assignment{UserID: 1, CourseID: 1, ActivityType: models.ActivityTypeTopic, LastActivityAt: recent}
		attempts := []models.EvaluationAttempt{attempt(1, 1, 10, 1, 85)}
		status := resolveScenario(assignment, models.Course{ID: 1}, nil, nil, definition, attempts, nil, false)

		assert.Equal(t, models.StatusSignaturePending, status.Status)
		assert.False(t, status.CertificateEligible)
	})

	t.Run("attendance only before and after signing", func(t *testing.T) {
		assignment := models.Assignment{UserID: 1, CourseID: 1, ActivityType: models.ActivityTypeAttendanceOnly, LastActivityAt: recent}

		status := resolveScenario(assignment, models.Course{ID: 1}, nil, nil, nil, nil, nil, false)
		assert.True(t, status.Signature.Required)
		assert.False(t, status.Signature.Signed)
		assert.Equal(t, models.StatusSignaturePending, status.Status)
		assert.False(t, status.CertificateEligible)

		signatures := []models.AttendanceSignature{{ID: 1, UserID: 1, CourseID: intPtr(1), SignedAt: testNow}}
		status = resolveScenario(assignment, models.Course{ID: 1}, nil, nil, nil, nil, signatures, false)
		assert.Equal(t, models.StatusCompleted, status.Status)
		assert.True(t, status.CertificateEligible)
		assert.False(t, status.CertificateIssuable)
		assert.Equal(t, 100, status.ProgressPercent)
	})

	t.Run("in progress and inactive for twenty days", func(t *testing.T) {
		assignment := models.Assignment{UserID: 1, CourseID: 1, ActivityType: models.ActivityTypeFullCourse, LastActivityAt: timePtr(testNow.Add(-20 * 24 * time.Hour))}
		status := resolveScenario(assignment, models.Course{ID: 1}, buildHierarchy(1, 4), completedEvents(1, 1), nil, nil, nil, false)

		assert.Equal(t, models.StatusInProgress, status.Status)
		assert.Equal(t, 20, status.DaysInactive)
		assert.True(t, status.IsInactive)
	})
}

func TestResolve_Transitions(t *testing.T) {
	recent := timePtr(testNow)
	definition := &models.EvaluationDefinition{ID: 10, CourseID: 1, PassingScore: 70, MaxAttempts: 2, IsActive: true}
	gatedCourse := models.Course{ID: 1, RequiresEvaluation: true}
	full := models.Assignment{UserID: 1, CourseID: 1, ActivityType: models.ActivityTypeFullCourse, LastActivityAt: recent}
	allLessons := completedEvents(1, 1, 2)
	passing := []models.EvaluationAttempt{attempt(3, 1, 10, 1, 90)}
	passingSigned := []models.AttendanceSignature{{ID: 1, UserID: 1, EvaluationAttemptID: intPtr(3), SignedAt: testNow}}

	tests := []struct {
		name             string
		course           models.Course
		events           []models.LessonCompletionEvent
		definition       *models.EvaluationDefinition
		attempts         []models.EvaluationAttempt
		signatures       []models.AttendanceSignature
		certificate      bool
		expected         models.Status
		expectedEligible bool
	}{
		{
			name:     "nothing done",
			course:   models.Course{ID: 1},
			expected: models.StatusNotStarted,
		},
		{
			name:       "lessons done but evaluation outstanding",
			course:     gatedCourse,
			events:     allLessons,
			definition: definition,
			expected:   models.StatusEvaluationPending,
		},
		{
			name:     "evaluation required but not configured",
			course:   gatedCourse,
			events:   allLessons,
			expected: models.StatusEvaluationPending,
		},
		{
			name:       "evaluation attempts exhausted",
			course:     gatedCourse,
			events:     allLessons,
			definition: definition,
			attempts:   []models.EvaluationAttempt{attempt(1, 1, 10, 1, 10), attempt(2, 1, 10, 2, 20)},
			expected:   models.StatusEvaluationFailed,
		},
		{
			name:       "evaluation outstanding with lessons missing",
			course:     gatedCourse,
			events:     completedEvents(1, 1),
			definition: definition,
			expected:   models.StatusInProgress,
		},
		{
			name:       "evaluation passed awaiting signature",
			course:     gatedCourse,
			events:     allLessons,
			definition: definition,
			attempts:   passing,
			expected:   models.StatusSignaturePending,
		},
		{
			name:             "evaluation passed and signed",
			course:           gatedCourse,
			events:           allLessons,
			definition:       definition,
			attempts:         passing,
			signatures:       passingSigned,
			expected:         models.StatusCompleted,
			expectedEligible: true,
		},
		{
			name:             "certificate issued",
			course:           gatedCourse,
			events:           allLessons,
			definition:       definition,
			attempts:         passing,
			signatures:       passingSigned,
			certificate:      true,
			expected:         models.StatusCertificateGenerated,
			expectedEligible: true,
		},
		{
			name:             "plain course with certificate",
			course:           models.Course{ID: 1},
			events:           allLessons,
			certificate:      true,
			expected:         models.StatusCertificateGenerated,
			expectedEligible: true,
		},
		{
			name:        "certificate without completion is ignored",
			course:      models.Course{ID: 1},
			events:      completedEvents(1, 1),
			certificate: true,
			expected:    models.StatusInProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := resolveScenario(full, tt.course, buildHierarchy(1, 2), tt.events, tt.definition, tt.attempts, tt.signatures, tt.certificate)

			assert.Equal(t, tt.expected, status.Status)
			assert.Equal(t, tt.expectedEligible, status.CertificateEligible)
		})
	}
}

func TestResolve_CertificateGating(t *testing.T) {
	definition := &models.EvaluationDefinition{ID: 10, CourseID: 1, PassingScore: 70, MaxAttempts: 3, IsActive: true}
	activities := []models.ActivityType{models.ActivityTypeFullCourse, models.ActivityTypeTopic, models.ActivityTypeAttendanceOnly}
	eventSets := [][]models.LessonCompletionEvent{nil, completedEvents(1, 1), completedEvents(1, 1, 2)}
	definitions := []*models.EvaluationDefinition{nil, definition}
	attemptSets := [][]models.EvaluationAttempt{
		nil,
		{attempt(1, 1, 10, 1, 20)},
		{attempt(1, 1, 10, 1, 20), attempt(2, 1, 10, 2, 90)},
	}
	signatureSets := [][]models.AttendanceSignature{
		nil,
		{{ID: 1, UserID: 1, CourseID: intPtr(1)}},
		{{ID: 2, UserID: 1, EvaluationAttemptID: intPtr(2)}},
	}

	for _, activity := range activities {
		for _, requires := range []bool{false, true} {
			for _, events := range eventSets {
				for _, def := range definitions {
					for _, attempts := range attemptSets {
						for _, signatures := range signatureSets {
							for _, certificate := range []bool{false, true} {
								assignment := models.Assignment{UserID: 1, CourseID: 1, ActivityType: activity, AssignedAt: testNow}
								course := models.Course{ID: 1, RequiresEvaluation: requires}
								status := resolveScenario(assignment, course, buildHierarchy(1, 2), events, def, attempts, signatures, certificate)

								assert.GreaterOrEqual(t, status.ProgressPercent, 0)
								assert.LessOrEqual(t, status.ProgressPercent, 100)
								if status.CertificateEligible {
									assert.True(t, status.Evaluation.Satisfied(), "evaluation gate open for %+v", status)
									assert.True(t, status.Signature.Satisfied(), "signature gate open for %+v", status)
								}
								if status.CertificateIssuable {
									assert.True(t, status.CertificateEligible)
								}
							}
						}
					}
				}
			}
		}
	}
}

func TestResolve_Idempotent(t *testing.T) {
	in := ResolveInput{
		Assignment: models.Assignment{UserID: 1, CourseID: 1, ActivityType: models.ActivityTypeFullCourse, AssignedAt: testNow.Add(-40 * 24 * time.Hour)},
		Progress:   CalculateProgress(buildHierarchy(1, 3, 3), completedEvents(1, 1, 2)),
		Evaluation: models.EvaluationGate{Required: true, Configured: true, CanRetake: true, AttemptsRemaining: 3},
		Now:        testNow,
		Policy:     DefaultPolicy(),
	}

	first := Resolve(in)
	second := Resolve(in)

	assert.Equal(t, first, second)
}

func TestResolve_Inactivity(t *testing.T) {
	tests := []struct {
		name             string
		assignment       models.Assignment
		events           []models.LessonCompletionEvent
		certificate      bool
		policy           Policy
		expectedDays     int
		expectedInactive bool
	}{
		{
			name:             "fourteen days is still active",
			assignment:       models.Assignment{UserID: 1, CourseID: 1, LastActivityAt: timePtr(testNow.Add(-14 * 24 * time.Hour))},
			events:           completedEvents(1, 1),
			policy:           DefaultPolicy(),
			expectedDays:     14,
			expectedInactive: false,
		},
		{
			name:             "exactly fifteen days",
			assignment:       models.Assignment{UserID: 1, CourseID: 1, LastActivityAt: timePtr(testNow.Add(-15 * 24 * time.Hour))},
			events:           completedEvents(1, 1),
			policy:           DefaultPolicy(),
			expectedDays:     15,
			expectedInactive: true,
		},
		{
			name:             "never active counts from assignment date",
			assignment:       models.Assignment{UserID: 1, CourseID: 1, AssignedAt: testNow.Add(-30 * 24 * time.Hour)},
			policy:           DefaultPolicy(),
			expectedDays:     30,
			expectedInactive: true,
		},
		{
			name:             "finished assignments are never inactive",
			assignment:       models.Assignment{UserID: 1, CourseID: 1, LastActivityAt: timePtr(testNow.Add(-90 * 24 * time.Hour))},
			events:           completedEvents(1, 1, 2),
			certificate:      true,
			policy:           DefaultPolicy(),
			expectedDays:     90,
			expectedInactive: false,
		},
		{
			name:             "custom threshold",
			assignment:       models.Assignment{UserID: 1, CourseID: 1, LastActivityAt: timePtr(testNow.Add(-8 * 24 * time.Hour))},
			events:           completedEvents(1, 1),
			policy:           Policy{InactivityDays: 7},
			expectedDays:     8,
			expectedInactive: true,
		},
		{
			name:             "activity in the future",
			assignment:       models.Assignment{UserID: 1, CourseID: 1, LastActivityAt: timePtr(testNow.Add(time.Hour))},
			policy:           DefaultPolicy(),
			expectedDays:     0,
			expectedInactive: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.assignment.ActivityType = models.ActivityTypeFullCourse
			status := Resolve(ResolveInput{
				Assignment:     tt.assignment,
				Progress:       CalculateProgress(buildHierarchy(1, 2), tt.events),
				Signature:      models.SignatureGate{Signed: true},
				HasCertificate: tt.certificate,
				Now:            testNow,
				Policy:         tt.policy,
			})

			assert.Equal(t, tt.expectedDays, status.DaysInactive)
			assert.Equal(t, tt.expectedInactive, status.IsInactive)
		})
	}
}

func TestResolve_AttendanceCertificatePolicy(t *testing.T) {
	in := ResolveInput{
		Assignment: models.Assignment{UserID: 1, CourseID: 1, ActivityType: models.ActivityTypeAttendanceOnly, AssignedAt: testNow},
		Signature:  models.SignatureGate{Required: true, Signed: true},
		Now:        testNow,
		Policy:     DefaultPolicy(),
	}

	status := Resolve(in)
	assert.True(t, status.CertificateEligible)
	assert.False(t, status.CertificateIssuable)

	in.Policy.AllowAttendanceCertificates = true
	status = Resolve(in)
	assert.True(t, status.CertificateIssuable)
}

func TestResolve_UnknownActivityIsTreatedAsLessonCourse(t *testing.T) {
	status := Resolve(ResolveInput{
		Assignment: models.Assignment{UserID: 1, CourseID: 1, ActivityType: "webinar"},
		Signature:  models.SignatureGate{Signed: true},
		Now:        testNow,
	})

	assert.Equal(t, models.ActivityTypeFullCourse, status.ActivityType)
	assert.Equal(t, models.StatusNotStarted, status.Status)
	assert.False(t, status.CertificateEligible)
}
