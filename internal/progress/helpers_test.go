package progress

import (
	"time"

	"github.com/corplearning/backend/internal/models"
)

// buildHierarchy creates a course hierarchy with the given number of lessons per module.
// Lesson ids are numbered from 1 in order.
func buildHierarchy(courseID int, lessonsPerModule ...int) *models.CourseHierarchy {
	h := &models.CourseHierarchy{CourseID: courseID}
	lessonID := 1
	for m, count := range lessonsPerModule {
		module := models.ModuleLessons{Module: models.Module{ID: m + 1, CourseID: courseID, Order: m + 1}}
		for l := 0; l < count; l++ {
			module.Lessons = append(module.Lessons, models.Lesson{ID: lessonID, ModuleID: m + 1, CourseID: courseID, Order: l + 1})
			lessonID++
		}
		h.Modules = append(h.Modules, module)
	}
	return h
}

// completedEvents marks the given lesson ids as completed for a user
func completedEvents(userID int, lessonIDs ...int) []models.LessonCompletionEvent {
	events := make([]models.LessonCompletionEvent, 0, len(lessonIDs))
	for _, id := range lessonIDs {
		at := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
		events = append(events, models.LessonCompletionEvent{UserID: userID, LessonID: id, Completed: true, CompletedAt: &at})
	}
	return events
}

// attempt creates an evaluation attempt with the passed flag derived from a passing score of 70
func attempt(id, userID, evaluationID, number int, score float64) models.EvaluationAttempt {
	return models.EvaluationAttempt{
		ID:            id,
		UserID:        userID,
		EvaluationID:  evaluationID,
		AttemptNumber: number,
		Score:         score,
		Passed:        score >= 70,
		CompletedAt:   time.Date(2026, 10, number, 0, 0, 0, 0, time.UTC),
	}
}

func intPtr(v int) *int {
	return &v
}

func timePtr(t time.Time) *time.Time {
	return &t
}
