package progress

import (
	"fmt"

	"github.com/corplearning/backend/internal/models"
)

// userKey identifies a (user, course) or (user, evaluation) pair
type userKey struct {
	userID int
	id     int
}

// index is a read-only lookup view over a snapshot, shared by all workers of a batch
type index struct {
	courses      map[int]models.Course
	hierarchies  map[int]*models.CourseHierarchy
	completions  map[int][]models.LessonCompletionEvent
	evaluations  map[int]*models.EvaluationDefinition
	attempts     map[userKey][]models.EvaluationAttempt
	signatures   map[int][]models.AttendanceSignature
	certificates map[userKey]struct{}
}

// buildIndex indexes the snapshot and drops the records that must not take part in gating
func (e *Engine) buildIndex(snap Snapshot) (*index, []RecordIssue) {
	var issues []RecordIssue

	idx := &index{
		courses:      make(map[int]models.Course, len(snap.Courses)),
		hierarchies:  make(map[int]*models.CourseHierarchy, len(snap.Hierarchies)),
		completions:  make(map[int][]models.LessonCompletionEvent),
		evaluations:  make(map[int]*models.EvaluationDefinition),
		attempts:     make(map[userKey][]models.EvaluationAttempt),
		signatures:   make(map[int][]models.AttendanceSignature),
		certificates: make(map[userKey]struct{}, len(snap.Certificates)),
	}

	for _, c := range snap.Courses {
		idx.courses[c.ID] = c
	}
	for i := range snap.Hierarchies {
		h := &snap.Hierarchies[i]
		idx.hierarchies[h.CourseID] = h
	}
	for _, event := range snap.Completions {
		idx.completions[event.UserID] = append(idx.completions[event.UserID], event)
	}

	// Only one active definition per course is considered; the most recent one wins.
	validByID := make(map[int]*models.EvaluationDefinition)
	for i := range snap.Evaluations {
		def := &snap.Evaluations[i]
		if !def.IsActive {
			continue
		}
		if err := e.validate.Struct(def); err != nil {
			issues = append(issues, newIssue(ErrInvalidScore, 0, def.CourseID, def.ID, err.Error()))
			continue
		}
		validByID[def.ID] = def
		if current, ok := idx.evaluations[def.CourseID]; ok && current.ID > def.ID {
			continue
		}
		idx.evaluations[def.CourseID] = def
	}

	for _, attempt := range snap.Attempts {
		def, ok := validByID[attempt.EvaluationID]
		courseID := 0
		if ok {
			courseID = def.CourseID
		}
		if err := e.validate.Struct(attempt); err != nil {
			issues = append(issues, newIssue(ErrInvalidScore, attempt.UserID, courseID, attempt.ID, err.Error()))
			continue
		}
		if !ok {
			issues = append(issues, newIssue(ErrInconsistentAttempt, attempt.UserID, courseID, attempt.ID, ""))
			continue
		}
		// Attempts of a superseded definition do not gate the course.
		if idx.evaluations[def.CourseID].ID != def.ID {
			continue
		}
		if attempt.Passed != IsPassingScore(*def, attempt.Score) {
			detail := fmt.Sprintf("passed=%t contradicts score %g against passing score %g", attempt.Passed, attempt.Score, def.PassingScore)
			issues = append(issues, newIssue(ErrInvalidScore, attempt.UserID, courseID, attempt.ID, detail))
			continue
		}
		key := userKey{attempt.UserID, attempt.EvaluationID}
		idx.attempts[key] = append(idx.attempts[key], attempt)
	}

	for _, s := range snap.Signatures {
		idx.signatures[s.UserID] = append(idx.signatures[s.UserID], s)
	}
	for _, c := range snap.Certificates {
		idx.certificates[userKey{c.UserID, c.CourseID}] = struct{}{}
	}

	return idx, issues
}
