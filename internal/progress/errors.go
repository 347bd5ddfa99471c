package progress

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingHierarchy is reported when a lesson-based course has no modules or lessons
	ErrMissingHierarchy = errors.New("course has no modules or lessons")
	// ErrInconsistentAttempt is reported when an attempt references an unknown or inactive evaluation
	ErrInconsistentAttempt = errors.New("attempt references an unknown or inactive evaluation")
	// ErrInvalidScore is reported when a score, passing score or attempt counter is out of range,
	// or when a passed flag contradicts the score
	ErrInvalidScore = errors.New("score out of range")
	// ErrInvalidAssignments aborts a whole batch when the assignments collection is malformed
	ErrInvalidAssignments = errors.New("invalid assignments collection")
)

// RecordIssue describes a single record that was ignored or degraded during evaluation.
// Issues never abort a batch.
type RecordIssue struct {
	Err      error  `json:"-"`
	Kind     string `json:"kind"`
	UserID   int    `json:"userId,omitempty"`
	CourseID int    `json:"courseId,omitempty"`
	RecordID int    `json:"recordId,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

func newIssue(err error, userID, courseID, recordID int, detail string) RecordIssue {
	return RecordIssue{
		Err:      err,
		Kind:     issueKind(err),
		UserID:   userID,
		CourseID: courseID,
		RecordID: recordID,
		Detail:   detail,
	}
}

func issueKind(err error) string {
	switch {
	case errors.Is(err, ErrMissingHierarchy):
		return "missing_hierarchy"
	case errors.Is(err, ErrInconsistentAttempt):
		return "inconsistent_attempt"
	case errors.Is(err, ErrInvalidScore):
		return "invalid_score"
	}
	return "unknown"
}

// Error implements the error interface
func (i RecordIssue) Error() string {
	msg := fmt.Sprintf("%v (user %d, course %d, record %d)", i.Err, i.UserID, i.CourseID, i.RecordID)
	if i.Detail != "" {
		msg += ": " + i.Detail
	}
	return msg
}

// Unwrap returns the sentinel error of the issue
func (i RecordIssue) Unwrap() error {
	return i.Err
}
