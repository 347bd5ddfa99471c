package models

import "time"

// EvaluationDefinition describes the evaluation attached to a course
type EvaluationDefinition struct {
	ID           int     `json:"id" validate:"gt=0"`
	CourseID     int     `json:"courseId" validate:"gt=0"`
	PassingScore float64 `json:"passingScore" validate:"gte=0,lte=100"`
	MaxAttempts  int     `json:"maxAttempts" validate:"gte=1"`
	IsActive     bool    `json:"isActive"`
}

// EvaluationAttempt is one append-only attempt of a user at an evaluation
type EvaluationAttempt struct {
	ID            int       `json:"id"`
	UserID        int       `json:"userId"`
	EvaluationID  int       `json:"evaluationId"`
	AttemptNumber int       `json:"attemptNumber" validate:"gte=1"`
	Score         float64   `json:"score" validate:"gte=0,lte=100"`
	Passed        bool      `json:"passed"`
	CompletedAt   time.Time `json:"completedAt"`
}

// SubmitAttemptRequest represents a request to record an evaluation attempt
type SubmitAttemptRequest struct {
	Score float64 `json:"score" validate:"gte=0,lte=100" example:"85"`
}

// AttendanceSignature is a captured attendance signature. Exactly one of
// CourseID and EvaluationAttemptID is set.
type AttendanceSignature struct {
	ID                  int       `json:"id"`
	UserID              int       `json:"userId"`
	CourseID            *int      `json:"courseId,omitempty"`
	EvaluationAttemptID *int      `json:"evaluationAttemptId,omitempty"`
	SignedAt            time.Time `json:"signedAt"`
}

// SignRequest represents a request to capture an attendance signature
type SignRequest struct {
	CourseID int `json:"courseId" validate:"gt=0" example:"1"`
}

// Certificate is the issued certificate of a user for a course
type Certificate struct {
	ID             int       `json:"id"`
	UserID         int       `json:"userId"`
	CourseID       int       `json:"courseId"`
	CompletionDate time.Time `json:"completionDate"`
	CertificateURL *string   `json:"certificateUrl,omitempty"`
}

// IssueCertificateRequest represents a request from the document renderer to register a certificate
type IssueCertificateRequest struct {
	UserID         int    `json:"userId" validate:"gt=0" example:"1"`
	CourseID       int    `json:"courseId" validate:"gt=0" example:"1"`
	CertificateURL string `json:"certificateUrl,omitempty" validate:"omitempty,url" example:"https://files.example.com/certificates/1-1.pdf"`
}

// AttemptResult is the recorded attempt together with the recomputed assignment status
type AttemptResult struct {
	Attempt EvaluationAttempt `json:"attempt"`
	Status  DerivedStatus     `json:"status"`
}
