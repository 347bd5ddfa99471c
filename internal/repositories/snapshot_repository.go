package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/corplearning/backend/internal/models"
	"github.com/corplearning/backend/internal/progress"
)

type snapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *sql.DB) *snapshotRepository {
	return &snapshotRepository{
		db: db,
	}
}

// Load reads every collection the progress engine needs for the assignments matching filter.
//
// All reads run in one read-only REPEATABLE READ transaction so the engine sees a consistent
// snapshot. Dependent collections are scoped by joining on the filtered assignments.
func (r *snapshotRepository) Load(ctx context.Context, filter models.SnapshotFilter) (*progress.Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	where, args := filterClause(filter)
	snap := &progress.Snapshot{}

	if snap.Assignments, err = loadAssignments(ctx, tx, where, args); err != nil {
		return nil, err
	}
	if len(snap.Assignments) == 0 {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return snap, nil
	}

	if snap.Courses, err = loadCourses(ctx, tx, where, args); err != nil {
		return nil, err
	}
	if snap.Hierarchies, err = loadHierarchies(ctx, tx, where, args); err != nil {
		return nil, err
	}
	if snap.Completions, err = loadCompletions(ctx, tx, where, args); err != nil {
		return nil, err
	}
	if snap.Evaluations, err = loadEvaluations(ctx, tx, where, args); err != nil {
		return nil, err
	}
	if len(snap.Evaluations) > 0 {
		if snap.Attempts, err = loadAttempts(ctx, tx, where, args); err != nil {
			return nil, err
		}
	}
	if snap.Signatures, err = loadSignatures(ctx, tx, where, args); err != nil {
		return nil, err
	}
	if snap.Certificates, err = loadCertificates(ctx, tx, where, args); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return snap, nil
}

// filterClause builds the condition on the assignments alias "a"
func filterClause(filter models.SnapshotFilter) (string, []any) {
	conditions := []string{"1 = 1"}
	args := []any{}
	if filter.UserID > 0 {
		conditions = append(conditions, "a.user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.CourseID > 0 {
		conditions = append(conditions, "a.course_id = ?")
		args = append(args, filter.CourseID)
	}
	if filter.CompanyID > 0 {
		conditions = append(conditions, "a.company_id = ?")
		args = append(args, filter.CompanyID)
	}
	return strings.Join(conditions, " AND "), args
}

func loadAssignments(ctx context.Context, tx *sql.Tx, where string, args []any) ([]models.Assignment, error) {
	query := fmt.Sprintf(`
		SELECT a.user_id, a.course_id, a.company_id, COALESCE(a.activity_type, ''), a.assigned_at, a.last_activity_at
		FROM assignments a
		WHERE %s
		ORDER BY a.company_id, a.user_id, a.course_id
	`, where)

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	assignments := []models.Assignment{}
	for rows.Next() {
		var a models.Assignment
		var activity string
		var lastActivity sql.NullTime
		if err := rows.Scan(&a.UserID, &a.CourseID, &a.CompanyID, &activity, &a.AssignedAt, &lastActivity); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		a.ActivityType = models.ActivityType(activity)
		if lastActivity.Valid {
			t := lastActivity.Time
			a.LastActivityAt = &t
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}

	return assignments, nil
}

func loadCourses(ctx context.Context, tx *sql.Tx, where string, args []any) ([]models.Course, error) {
	query := fmt.Sprintf(`
		SELECT c.id, c.title, c.activity_type, c.requires_evaluation
		FROM courses c
		WHERE c.id IN (SELECT a.course_id FROM assignments a WHERE %s)
		ORDER BY c.id
	`, where)

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var c models.Course
		var activity string
		if err := rows.Scan(&c.ID, &c.Title, &activity, &c.RequiresEvaluation); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		c.ActivityType = models.ActivityType(activity)
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating courses: %w", err)
	}

	return courses, nil
}

func loadHierarchies(ctx context.Context, tx *sql.Tx, where string, args []any) ([]models.CourseHierarchy, error) {
	query := fmt.Sprintf(`
		SELECT m.id, m.course_id, m.title, m.sort_order, l.id, l.title, l.sort_order
		FROM course_modules m
		LEFT JOIN lessons l ON l.module_id = m.id
		WHERE m.course_id IN (SELECT a.course_id FROM assignments a WHERE %s)
		ORDER BY m.course_id, m.sort_order, m.id, l.sort_order, l.id
	`, where)

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query course hierarchies: %w", err)
	}
	defer rows.Close()

	var hierarchies []models.CourseHierarchy
	for rows.Next() {
		var m models.Module
		var lessonID, lessonOrder sql.NullInt64
		var lessonTitle sql.NullString
		if err := rows.Scan(&m.ID, &m.CourseID, &m.Title, &m.Order, &lessonID, &lessonTitle, &lessonOrder); err != nil {
			return nil, fmt.Errorf("failed to scan course hierarchy: %w", err)
		}

		// Rows arrive grouped by course, then module
		if n := len(hierarchies); n == 0 || hierarchies[n-1].CourseID != m.CourseID {
			hierarchies = append(hierarchies, models.CourseHierarchy{CourseID: m.CourseID})
		}
		h := &hierarchies[len(hierarchies)-1]
		if n := len(h.Modules); n == 0 || h.Modules[n-1].Module.ID != m.ID {
			h.Modules = append(h.Modules, models.ModuleLessons{Module: m})
		}
		if lessonID.Valid {
			module := &h.Modules[len(h.Modules)-1]
			module.Lessons = append(module.Lessons, models.Lesson{
				ID:       int(lessonID.Int64),
				ModuleID: m.ID,
				CourseID: m.CourseID,
				Title:    lessonTitle.String,
				Order:    int(lessonOrder.Int64),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course hierarchies: %w", err)
	}

	return hierarchies, nil
}

func loadCompletions(ctx context.Context, tx *sql.Tx, where string, args []any) ([]models.LessonCompletionEvent, error) {
	query := fmt.Sprintf(`
		SELECT lc.user_id, lc.lesson_id, lc.course_id, lc.completed, lc.completed_at
		FROM lesson_completions lc
		JOIN assignments a ON a.user_id = lc.user_id AND a.course_id = lc.course_id
		WHERE %s
	`, where)

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lesson completions: %w", err)
	}
	defer rows.Close()

	var events []models.LessonCompletionEvent
	for rows.Next() {
		var e models.LessonCompletionEvent
		var completedAt sql.NullTime
		if err := rows.Scan(&e.UserID, &e.LessonID, &e.CourseID, &e.Completed, &completedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lesson completion: %w", err)
		}
		if completedAt.Valid {
			t := completedAt.Time
			e.CompletedAt = &t
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lesson completions: %w", err)
	}

	return events, nil
}

func loadEvaluations(ctx context.Context, tx *sql.Tx, where string, args []any) ([]models.EvaluationDefinition, error) {
	query := fmt.Sprintf(`
		SELECT e.id, e.course_id, e.passing_score, e.max_attempts, e.is_active
		FROM evaluations e
		WHERE e.course_id IN (SELECT a.course_id FROM assignments a WHERE %s)
		ORDER BY e.id
	`, where)

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluations: %w", err)
	}
	defer rows.Close()

	var evaluations []models.EvaluationDefinition
	for rows.Next() {
		var e models.EvaluationDefinition
		if err := rows.Scan(&e.ID, &e.CourseID, &e.PassingScore, &e.MaxAttempts, &e.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}
		evaluations = append(evaluations, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating evaluations: %w", err)
	}

	return evaluations, nil
}

func loadAttempts(ctx context.Context, tx *sql.Tx, where string, args []any) ([]models.EvaluationAttempt, error) {
	query := fmt.Sprintf(`
		SELECT t.id, t.user_id, t.evaluation_id, t.attempt_number, t.score, t.passed, t.completed_at
		FROM evaluation_attempts t
		JOIN evaluations e ON e.id = t.evaluation_id
		JOIN assignments a ON a.user_id = t.user_id AND a.course_id = e.course_id
		WHERE %s
		ORDER BY t.user_id, t.evaluation_id, t.attempt_number
	`, where)

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluation attempts: %w", err)
	}
	defer rows.Close()

	var attempts []models.EvaluationAttempt
	for rows.Next() {
		var t models.EvaluationAttempt
		if err := rows.Scan(&t.ID, &t.UserID, &t.EvaluationID, &t.AttemptNumber, &t.Score, &t.Passed, &t.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation attempt: %w", err)
		}
		attempts = append(attempts, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating evaluation attempts: %w", err)
	}

	return attempts, nil
}

func loadSignatures(ctx context.Context, tx *sql.Tx, where string, args []any) ([]models.AttendanceSignature, error) {
	query := fmt.Sprintf(`
		SELECT s.id, s.user_id, s.course_id, s.evaluation_attempt_id, s.signed_at
		FROM attendance_signatures s
		WHERE s.user_id IN (SELECT a.user_id FROM assignments a WHERE %s)
	`, where)

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance signatures: %w", err)
	}
	defer rows.Close()

	var signatures []models.AttendanceSignature
	for rows.Next() {
		var s models.AttendanceSignature
		var courseID, attemptID sql.NullInt64
		if err := rows.Scan(&s.ID, &s.UserID, &courseID, &attemptID, &s.SignedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance signature: %w", err)
		}
		s.CourseID = nullIntPtr(courseID)
		s.EvaluationAttemptID = nullIntPtr(attemptID)
		signatures = append(signatures, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance signatures: %w", err)
	}

	return signatures, nil
}

func loadCertificates(ctx context.Context, tx *sql.Tx, where string, args []any) ([]models.Certificate, error) {
	query := fmt.Sprintf(`
		SELECT c.id, c.user_id, c.course_id, c.completion_date, c.certificate_url
		FROM certificates c
		JOIN assignments a ON a.user_id = c.user_id AND a.course_id = c.course_id
		WHERE %s
	`, where)

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query certificates: %w", err)
	}
	defer rows.Close()

	var certificates []models.Certificate
	for rows.Next() {
		var c models.Certificate
		var url sql.NullString
		if err := rows.Scan(&c.ID, &c.UserID, &c.CourseID, &c.CompletionDate, &url); err != nil {
			return nil, fmt.Errorf("failed to scan certificate: %w", err)
		}
		if url.Valid {
			c.CertificateURL = &url.String
		}
		certificates = append(certificates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating certificates: %w", err)
	}

	return certificates, nil
}

func nullIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
