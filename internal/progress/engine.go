// Package progress derives course status, completion and certificate eligibility from
// already-loaded enrollment data. Every function in the package is free of I/O.
package progress

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/corplearning/backend/internal/models"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Snapshot is a consistent, already-joined set of collections for a batch of assignments
type Snapshot struct {
	Assignments  []models.Assignment
	Courses      []models.Course
	Hierarchies  []models.CourseHierarchy
	Completions  []models.LessonCompletionEvent
	Evaluations  []models.EvaluationDefinition
	Attempts     []models.EvaluationAttempt
	Signatures   []models.AttendanceSignature
	Certificates []models.Certificate
}

// BatchResult holds one derived status per assignment (in assignment order), the records that
// were ignored while computing them and the aggregate of all statuses
type BatchResult struct {
	Statuses []models.DerivedStatus
	Issues   []RecordIssue
	Stats    models.AggregateStats
}

// Engine evaluates snapshots concurrently
type Engine struct {
	logger   *zap.Logger
	validate *validator.Validate
	policy   Policy
	workers  int
	now      func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithPolicy sets the business policy
func WithPolicy(policy Policy) Option {
	return func(e *Engine) { e.policy = policy }
}

// WithWorkers bounds the number of assignments resolved in parallel
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithClock overrides the time source used for inactivity
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates a new progress engine
func NewEngine(logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		logger:   logger,
		validate: validator.New(),
		policy:   DefaultPolicy(),
		workers:  runtime.GOMAXPROCS(0),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the configured business policy
func (e *Engine) Policy() Policy {
	return e.policy
}

// Evaluate derives the status of every assignment in the snapshot.
//
// Malformed single records (invalid scores, orphan attempts, missing hierarchies) are reported as
// issues and never stop the batch. Only a malformed assignments collection aborts the evaluation
// with ErrInvalidAssignments.
func (e *Engine) Evaluate(ctx context.Context, snap Snapshot) (*BatchResult, error) {
	if err := validateAssignments(snap.Assignments); err != nil {
		return nil, err
	}

	idx, issues := e.buildIndex(snap)
	now := e.now()

	statuses := make([]models.DerivedStatus, len(snap.Assignments))
	assignmentIssues := make([][]RecordIssue, len(snap.Assignments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range snap.Assignments {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			statuses[i], assignmentIssues[i] = e.resolve(idx, snap.Assignments[i], now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, list := range assignmentIssues {
		issues = append(issues, list...)
	}

	result := &BatchResult{
		Statuses: statuses,
		Issues:   issues,
		Stats:    Aggregate(statuses),
	}

	e.logger.Debug("progress batch evaluated",
		zap.Int("assignments", len(statuses)),
		zap.Int("issues", len(issues)),
	)

	return result, nil
}

func (e *Engine) resolve(idx *index, assignment models.Assignment, now time.Time) (models.DerivedStatus, []RecordIssue) {
	var issues []RecordIssue

	course, hasCourse := idx.courses[assignment.CourseID]
	if assignment.ActivityType == "" && hasCourse {
		assignment.ActivityType = course.ActivityType
	}
	if assignment.ActivityType == "" {
		assignment.ActivityType = models.ActivityTypeFullCourse
	}

	hierarchy := idx.hierarchies[assignment.CourseID]
	if assignment.ActivityType.HasLessons() && hierarchy.LessonCount() == 0 {
		issues = append(issues, newIssue(ErrMissingHierarchy, assignment.UserID, assignment.CourseID, assignment.CourseID, ""))
	}
	lessonProgress := CalculateProgress(hierarchy, idx.completions[assignment.UserID])

	definition := idx.evaluations[assignment.CourseID]
	var attempts []models.EvaluationAttempt
	if definition != nil {
		attempts = idx.attempts[userKey{assignment.UserID, definition.ID}]
	}
	gate := EvaluateGate(assignment.ActivityType, course.RequiresEvaluation, definition, attempts)
	signature := EvaluateSignature(assignment.UserID, assignment.CourseID, assignment.ActivityType, gate, idx.signatures[assignment.UserID])

	_, hasCertificate := idx.certificates[userKey{assignment.UserID, assignment.CourseID}]

	return Resolve(ResolveInput{
		Assignment:     assignment,
		Progress:       lessonProgress,
		Evaluation:     gate,
		Signature:      signature,
		HasCertificate: hasCertificate,
		Now:            now,
		Policy:         e.policy,
	}), issues
}

// validateAssignments rejects collections that cannot be evaluated at all
func validateAssignments(assignments []models.Assignment) error {
	seen := make(map[userKey]struct{}, len(assignments))
	for i, a := range assignments {
		if a.UserID <= 0 || a.CourseID <= 0 {
			return fmt.Errorf("%w: assignment %d has non-positive ids", ErrInvalidAssignments, i)
		}
		if a.ActivityType != "" && !a.ActivityType.Valid() {
			return fmt.Errorf("%w: assignment %d has unknown activity type %q", ErrInvalidAssignments, i, a.ActivityType)
		}
		key := userKey{a.UserID, a.CourseID}
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: duplicate assignment of user %d to course %d", ErrInvalidAssignments, a.UserID, a.CourseID)
		}
		seen[key] = struct{}{}
	}
	return nil
}
