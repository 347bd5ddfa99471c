package models

import "time"

// Assignment represents one participant enrolled in one course
type Assignment struct {
	UserID         int          `json:"userId"`
	CourseID       int          `json:"courseId"`
	CompanyID      int          `json:"companyId"`
	ActivityType   ActivityType `json:"activityType"`
	AssignedAt     time.Time    `json:"assignedAt"`
	LastActivityAt *time.Time   `json:"lastActivityAt,omitempty"`
}

// LessonCompletionEvent is the completion record of a lesson for a user.
// There is at most one event per (UserID, LessonID).
type LessonCompletionEvent struct {
	UserID      int        `json:"userId"`
	LessonID    int        `json:"lessonId"`
	CourseID    int        `json:"courseId,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// SnapshotFilter selects which assignments a snapshot is loaded for.
// Zero values mean "no restriction".
type SnapshotFilter struct {
	UserID    int
	CourseID  int
	CompanyID int
}
