package progress

import (
	"time"

	"github.com/corplearning/backend/internal/models"
)

// DefaultInactivityDays is the number of days without activity after which an unfinished
// assignment is flagged as inactive
const DefaultInactivityDays = 15

// Policy holds the business rules applied on top of the generic state machine
type Policy struct {
	// InactivityDays is the inactivity threshold in whole days
	InactivityDays int
	// AllowAttendanceCertificates lets attendance-only activities issue certificates
	AllowAttendanceCertificates bool
}

// DefaultPolicy returns the policy used when none is configured
func DefaultPolicy() Policy {
	return Policy{InactivityDays: DefaultInactivityDays}
}

// ResolveInput bundles everything the resolver needs for one assignment
type ResolveInput struct {
	Assignment     models.Assignment
	Progress       models.LessonProgress
	Evaluation     models.EvaluationGate
	Signature      models.SignatureGate
	HasCertificate bool
	Now            time.Time
	Policy         Policy
}

// Resolve combines lesson progress and both gates into the lifecycle status of an assignment.
//
// Rules are evaluated in precedence order and the first match wins:
// certificate_generated, completed, signature_pending, evaluation_pending (evaluation_failed once
// attempts are exhausted), lessons_completed, in_progress, not_started.
// A lesson course without gates that has every lesson done reports lessons_completed until its
// certificate exists, while already being certificate eligible.
func Resolve(in ResolveInput) models.DerivedStatus {
	activity := in.Assignment.ActivityType
	if !activity.Valid() {
		activity = models.ActivityTypeFullCourse
	}

	lessonsDone := in.Progress.TotalLessons > 0 && in.Progress.ProgressPercent == 100
	if !activity.HasLessons() {
		lessonsDone = true
	}

	activityDone := false
	switch activity {
	case models.ActivityTypeFullCourse:
		activityDone = in.Progress.TotalLessons > 0 && in.Progress.ProgressPercent == 100
	case models.ActivityTypeTopic:
		activityDone = in.Evaluation.HasPassed
	case models.ActivityTypeAttendanceOnly:
		activityDone = in.Signature.Required && in.Signature.Signed
	}

	eligible := activityDone && in.Evaluation.Satisfied() && in.Signature.Satisfied()
	gated := in.Evaluation.Required || in.Signature.Required || !activity.HasLessons()

	progressPercent := in.Progress.ProgressPercent
	if !activity.HasLessons() {
		progressPercent = 0
		if activityDone {
			progressPercent = 100
		}
	}

	var status models.Status
	switch {
	case eligible && in.HasCertificate:
		status = models.StatusCertificateGenerated
	case eligible && gated:
		status = models.StatusCompleted
	case eligible:
		status = models.StatusLessonsCompleted
	case in.Signature.Required && !in.Signature.Signed:
		status = models.StatusSignaturePending
	case in.Evaluation.Required && !in.Evaluation.HasPassed && lessonsDone:
		status = models.StatusEvaluationPending
		if in.Evaluation.AttemptsUsed > 0 && !in.Evaluation.CanRetake {
			status = models.StatusEvaluationFailed
		}
	case progressPercent == 100 && !in.Evaluation.Required && !in.Signature.Required:
		status = models.StatusLessonsCompleted
	case progressPercent > 0:
		status = models.StatusInProgress
	default:
		status = models.StatusNotStarted
	}

	result := models.DerivedStatus{
		UserID:              in.Assignment.UserID,
		CourseID:            in.Assignment.CourseID,
		CompanyID:           in.Assignment.CompanyID,
		ActivityType:        activity,
		Status:              status,
		ProgressPercent:     progressPercent,
		CompletedLessons:    in.Progress.CompletedLessons,
		TotalLessons:        in.Progress.TotalLessons,
		Modules:             in.Progress.Modules,
		Evaluation:          in.Evaluation,
		Signature:           in.Signature,
		CertificateEligible: eligible,
		CertificateIssuable: eligible && (activity != models.ActivityTypeAttendanceOnly || in.Policy.AllowAttendanceCertificates),
	}

	result.DaysInactive = DaysInactive(in.Assignment, in.Now)
	threshold := in.Policy.InactivityDays
	if threshold <= 0 {
		threshold = DefaultInactivityDays
	}
	result.IsInactive = result.DaysInactive >= threshold && !status.IsFinished()

	return result
}

// DaysInactive returns the whole days elapsed since the last activity of an assignment.
// Assignments without any activity count from the assignment date.
func DaysInactive(assignment models.Assignment, now time.Time) int {
	ref := assignment.AssignedAt
	if assignment.LastActivityAt != nil {
		ref = *assignment.LastActivityAt
	}
	if ref.IsZero() || now.Before(ref) {
		return 0
	}
	return int(now.Sub(ref) / (24 * time.Hour))
}
