package progress

import (
	"math"

	"github.com/corplearning/backend/internal/models"
)

// CalculateProgress computes lesson completion for one user in one course.
//
// "hierarchy" is the module/lesson tree of the course; nil is treated as a course without lessons.
// "events" are the user's lesson completion events; events for lessons outside the hierarchy are ignored.
//
// A lesson counts as completed only when an event with Completed set exists for it.
func CalculateProgress(hierarchy *models.CourseHierarchy, events []models.LessonCompletionEvent) models.LessonProgress {
	result := models.LessonProgress{}
	if hierarchy == nil {
		return result
	}

	completed := make(map[int]struct{}, len(events))
	for _, event := range events {
		if event.Completed {
			completed[event.LessonID] = struct{}{}
		}
	}

	result.Modules = make([]models.ModuleProgress, 0, len(hierarchy.Modules))
	for _, module := range hierarchy.Modules {
		mp := models.ModuleProgress{
			ModuleID:     module.Module.ID,
			TotalLessons: len(module.Lessons),
		}
		for _, lesson := range module.Lessons {
			if _, ok := completed[lesson.ID]; ok {
				mp.CompletedLessons++
			}
		}
		mp.ProgressPercent = percent(mp.CompletedLessons, mp.TotalLessons)
		mp.Completed = mp.TotalLessons > 0 && mp.CompletedLessons == mp.TotalLessons

		result.TotalLessons += mp.TotalLessons
		result.CompletedLessons += mp.CompletedLessons
		result.Modules = append(result.Modules, mp)
	}

	result.ProgressPercent = percent(result.CompletedLessons, result.TotalLessons)
	return result
}

// percent returns round(100 * part / total) clamped to [0, 100], or 0 when total is not positive
func percent(part, total int) int {
	if total <= 0 || part <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(part) / float64(total)))
	if p > 100 {
		return 100
	}
	return p
}
