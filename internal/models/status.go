package models

// Status is the lifecycle state of an assignment
type Status string

const (
	StatusNotStarted           Status = "not_started"
	StatusInProgress           Status = "in_progress"
	StatusLessonsCompleted     Status = "lessons_completed"
	StatusEvaluationPending    Status = "evaluation_pending"
	StatusEvaluationFailed     Status = "evaluation_failed"
	StatusSignaturePending     Status = "signature_pending"
	StatusCompleted            Status = "completed"
	StatusCertificateGenerated Status = "certificate_generated"
)

// IsFinished reports whether the status is one of the completed states
func (s Status) IsFinished() bool {
	return s == StatusCompleted || s == StatusCertificateGenerated
}

// IsActive reports whether the participant has started but not finished
func (s Status) IsActive() bool {
	switch s {
	case StatusInProgress, StatusLessonsCompleted, StatusEvaluationPending, StatusEvaluationFailed, StatusSignaturePending:
		return true
	}
	return false
}

// ModuleProgress is the lesson progress within one module
type ModuleProgress struct {
	ModuleID         int  `json:"moduleId"`
	CompletedLessons int  `json:"completedLessons"`
	TotalLessons     int  `json:"totalLessons"`
	ProgressPercent  int  `json:"progressPercent"`
	Completed        bool `json:"completed"`
}

// LessonProgress is the output of the progress calculator
type LessonProgress struct {
	ProgressPercent  int              `json:"progressPercent"`
	CompletedLessons int              `json:"completedLessons"`
	TotalLessons     int              `json:"totalLessons"`
	Modules          []ModuleProgress `json:"modules,omitempty"`
}

// EvaluationGate is the output of the evaluation gate
type EvaluationGate struct {
	Required          bool     `json:"required"`
	Configured        bool     `json:"configured"`
	EvaluationID      int      `json:"evaluationId,omitempty"`
	HasPassed         bool     `json:"hasPassed"`
	CanRetake         bool     `json:"canRetake"`
	AttemptsUsed      int      `json:"attemptsUsed"`
	AttemptsRemaining int      `json:"attemptsRemaining"`
	LastScore         *float64 `json:"lastScore"`
	PassingAttemptID  *int     `json:"passingAttemptId,omitempty"`
}

// Satisfied reports whether the gate does not block completion
func (g EvaluationGate) Satisfied() bool {
	return !g.Required || g.HasPassed
}

// SignatureGate is the output of the signature gate
type SignatureGate struct {
	Required bool `json:"required"`
	Signed   bool `json:"signed"`
}

// Satisfied reports whether the gate does not block completion
func (g SignatureGate) Satisfied() bool {
	return !g.Required || g.Signed
}

// DerivedStatus is the computed, non-persisted state of one assignment
type DerivedStatus struct {
	UserID              int              `json:"userId"`
	CourseID            int              `json:"courseId"`
	CompanyID           int              `json:"companyId"`
	ActivityType        ActivityType     `json:"activityType"`
	Status              Status           `json:"status"`
	ProgressPercent     int              `json:"progressPercent"`
	CompletedLessons    int              `json:"completedLessons"`
	TotalLessons        int              `json:"totalLessons"`
	Modules             []ModuleProgress `json:"modules,omitempty"`
	Evaluation          EvaluationGate   `json:"evaluation"`
	Signature           SignatureGate    `json:"signature"`
	CertificateEligible bool             `json:"certificateEligible"`
	CertificateIssuable bool             `json:"certificateIssuable"`
	DaysInactive        int              `json:"daysInactive"`
	IsInactive          bool             `json:"isInactive"`
}

// AggregateStats summarises a set of derived statuses
type AggregateStats struct {
	TotalAssignments      int `json:"totalAssignments"`
	NotStarted            int `json:"notStarted"`
	InProgress            int `json:"inProgress"`
	Completed             int `json:"completed"`
	InactiveCount         int `json:"inactiveCount"`
	AverageCompletionRate int `json:"averageCompletionRate"`
}

// CompanyReport is the progress report of one company
type CompanyReport struct {
	CompanyID int                    `json:"companyId"`
	Stats     AggregateStats         `json:"stats"`
	Courses   map[int]AggregateStats `json:"courses"`
	Statuses  []DerivedStatus        `json:"statuses"`
}

// CompanySummary is one row of the cross-company overview
type CompanySummary struct {
	CompanyID   int            `json:"companyId"`
	CompanyName string         `json:"companyName"`
	Stats       AggregateStats `json:"stats"`
}
