package services

import "errors"

var (
	// ErrNotAssigned is returned when the user is not enrolled in the course
	ErrNotAssigned = errors.New("user is not assigned to this course")
	// ErrLessonNotFound is returned for unknown lessons
	ErrLessonNotFound = errors.New("lesson not found")
	// ErrEvaluationNotFound is returned for unknown, inactive or superseded evaluations
	ErrEvaluationNotFound = errors.New("evaluation not found")
	// ErrCompanyNotFound is returned for unknown companies
	ErrCompanyNotFound = errors.New("company not found")
	// ErrLessonsIncomplete is returned when an evaluation is attempted before every lesson is done
	ErrLessonsIncomplete = errors.New("all lessons must be completed before the evaluation")
	// ErrAlreadyPassed is returned when an attempt is submitted after a passing attempt
	ErrAlreadyPassed = errors.New("evaluation already passed")
	// ErrNoAttemptsLeft is returned when the maximum number of attempts is used up
	ErrNoAttemptsLeft = errors.New("no evaluation attempts left")
	// ErrConcurrentAttempt is returned when another attempt was recorded at the same time
	ErrConcurrentAttempt = errors.New("another attempt was recorded concurrently")
	// ErrSignatureNotRequired is returned when there is nothing to sign
	ErrSignatureNotRequired = errors.New("no attendance signature is required")
	// ErrCertificateNotAllowed is returned when the assignment cannot receive a certificate yet
	ErrCertificateNotAllowed = errors.New("certificate cannot be issued for this assignment")
)
