package progress

import (
	"math"

	"github.com/corplearning/backend/internal/models"
)

// Aggregate rolls a set of derived statuses up into summary counters
func Aggregate(statuses []models.DerivedStatus) models.AggregateStats {
	stats := models.AggregateStats{TotalAssignments: len(statuses)}
	if len(statuses) == 0 {
		return stats
	}

	sum := 0
	for _, s := range statuses {
		switch {
		case s.Status.IsFinished():
			stats.Completed++
		case s.Status.IsActive():
			stats.InProgress++
		case s.Status == models.StatusNotStarted:
			stats.NotStarted++
		}
		if s.IsInactive {
			stats.InactiveCount++
		}
		sum += s.ProgressPercent
	}
	stats.AverageCompletionRate = int(math.Round(float64(sum) / float64(len(statuses))))

	return stats
}

// GroupBy partitions statuses by the key returned for each of them, keeping input order inside groups
func GroupBy(statuses []models.DerivedStatus, key func(models.DerivedStatus) int) map[int][]models.DerivedStatus {
	groups := make(map[int][]models.DerivedStatus)
	for _, s := range statuses {
		k := key(s)
		groups[k] = append(groups[k], s)
	}
	return groups
}

// AggregateByCompany aggregates statuses per company
func AggregateByCompany(statuses []models.DerivedStatus) map[int]models.AggregateStats {
	return aggregateGroups(GroupBy(statuses, func(s models.DerivedStatus) int { return s.CompanyID }))
}

// AggregateByCourse aggregates statuses per course cohort
func AggregateByCourse(statuses []models.DerivedStatus) map[int]models.AggregateStats {
	return aggregateGroups(GroupBy(statuses, func(s models.DerivedStatus) int { return s.CourseID }))
}

func aggregateGroups(groups map[int][]models.DerivedStatus) map[int]models.AggregateStats {
	result := make(map[int]models.AggregateStats, len(groups))
	for k, group := range groups {
		result[k] = Aggregate(group)
	}
	return result
}
