package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/corplearning/backend/internal/models"
)

type activityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a repository for participant writes.
// Every write also refreshes the last activity time of the matching assignment.
func NewActivityRepository(db *sql.DB) *activityRepository {
	return &activityRepository{
		db: db,
	}
}

// RecordLessonCompletion inserts or refreshes the completion event of a lesson
func (r *activityRepository) RecordLessonCompletion(ctx context.Context, event *models.LessonCompletionEvent) error {
	at := time.Now()
	if event.CompletedAt != nil {
		at = *event.CompletedAt
	}

	return r.withinTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO lesson_completions (user_id, lesson_id, course_id, completed, completed_at)
			VALUES (?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE
				completed = VALUES(completed),
				completed_at = COALESCE(completed_at, VALUES(completed_at))
		`
		if _, err := tx.ExecContext(ctx, query, event.UserID, event.LessonID, event.CourseID, event.Completed, at); err != nil {
			return fmt.Errorf("failed to upsert lesson completion: %w", err)
		}

		return touchAssignment(ctx, tx, event.UserID, event.CourseID, at)
	})
}

// CreateAttempt inserts an evaluation attempt of a course the user is assigned to.
// A concurrent attempt with the same number yields ErrDuplicate.
func (r *activityRepository) CreateAttempt(ctx context.Context, attempt *models.EvaluationAttempt, courseID int) error {
	return r.withinTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO evaluation_attempts (user_id, evaluation_id, attempt_number, score, passed, completed_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`
		result, err := tx.ExecContext(ctx, query,
			attempt.UserID,
			attempt.EvaluationID,
			attempt.AttemptNumber,
			attempt.Score,
			attempt.Passed,
			attempt.CompletedAt,
		)
		if err != nil {
			if isDuplicateKey(err) {
				return ErrDuplicate
			}
			return fmt.Errorf("failed to create evaluation attempt: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		attempt.ID = int(id)

		return touchAssignment(ctx, tx, attempt.UserID, courseID, attempt.CompletedAt)
	})
}

// CreateSignature inserts an attendance signature. An existing identical signature yields ErrDuplicate.
func (r *activityRepository) CreateSignature(ctx context.Context, signature *models.AttendanceSignature, courseID int) error {
	return r.withinTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO attendance_signatures (user_id, course_id, evaluation_attempt_id, signed_at)
			VALUES (?, ?, ?, ?)
		`
		result, err := tx.ExecContext(ctx, query,
			signature.UserID,
			signature.CourseID,
			signature.EvaluationAttemptID,
			signature.SignedAt,
		)
		if err != nil {
			if isDuplicateKey(err) {
				return ErrDuplicate
			}
			return fmt.Errorf("failed to create attendance signature: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		signature.ID = int(id)

		return touchAssignment(ctx, tx, signature.UserID, courseID, signature.SignedAt)
	})
}

// UpsertCertificate registers a certificate. Re-issuing keeps the original completion date
// and replaces the URL.
func (r *activityRepository) UpsertCertificate(ctx context.Context, certificate *models.Certificate) error {
	query := `
		INSERT INTO certificates (user_id, course_id, completion_date, certificate_url)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			certificate_url = COALESCE(VALUES(certificate_url), certificate_url)
	`

	_, err := r.db.ExecContext(ctx, query,
		certificate.UserID,
		certificate.CourseID,
		certificate.CompletionDate,
		certificate.CertificateURL,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert certificate: %w", err)
	}

	return nil
}

func (r *activityRepository) withinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// touchAssignment moves last_activity_at forward, never backwards
func touchAssignment(ctx context.Context, tx *sql.Tx, userID, courseID int, at time.Time) error {
	query := `
		UPDATE assignments
		SET last_activity_at = GREATEST(COALESCE(last_activity_at, ?), ?)
		WHERE user_id = ? AND course_id = ?
	`
	if _, err := tx.ExecContext(ctx, query, at, at, userID, courseID); err != nil {
		return fmt.Errorf("failed to update last activity: %w", err)
	}
	return nil
}
