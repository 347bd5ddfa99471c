package progress

import (
	"github.com/corplearning/backend/internal/models"
)

// EvaluateSignature decides whether an attendance signature blocks completion of an assignment.
//
// Attendance-only activities always need a course signature. Activities with a required evaluation
// need a signature of the passing attempt, but only once that attempt exists. Everything else is
// vacuously signed.
func EvaluateSignature(userID, courseID int, activity models.ActivityType, evaluation models.EvaluationGate, signatures []models.AttendanceSignature) models.SignatureGate {
	switch {
	case activity == models.ActivityTypeAttendanceOnly:
		return models.SignatureGate{
			Required: true,
			Signed:   hasCourseSignature(userID, courseID, signatures),
		}
	case evaluation.Required:
		if !evaluation.HasPassed || evaluation.PassingAttemptID == nil {
			return models.SignatureGate{}
		}
		return models.SignatureGate{
			Required: true,
			Signed:   hasAttemptSignature(userID, *evaluation.PassingAttemptID, signatures),
		}
	default:
		return models.SignatureGate{Required: false, Signed: true}
	}
}

func hasCourseSignature(userID, courseID int, signatures []models.AttendanceSignature) bool {
	for _, s := range signatures {
		if s.UserID == userID && s.EvaluationAttemptID == nil && s.CourseID != nil && *s.CourseID == courseID {
			return true
		}
	}
	return false
}

func hasAttemptSignature(userID, attemptID int, signatures []models.AttendanceSignature) bool {
	for _, s := range signatures {
		if s.UserID == userID && s.EvaluationAttemptID != nil && *s.EvaluationAttemptID == attemptID {
			return true
		}
	}
	return false
}
