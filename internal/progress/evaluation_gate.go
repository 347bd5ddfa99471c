package progress

import (
	"github.com/corplearning/backend/internal/models"
)

// EvaluationRequired reports whether an assignment must pass an evaluation
func EvaluationRequired(activity models.ActivityType, requiresEvaluation bool) bool {
	return activity == models.ActivityTypeTopic || requiresEvaluation
}

// EvaluateGate decides whether an evaluation blocks completion of an assignment.
//
// "definition" is the active evaluation of the course, nil when the course has none.
// "attempts" are the user's attempts; attempts of other evaluations are ignored.
//
// Attempts are ordered by AttemptNumber only. A passing attempt is permanent: later failed
// attempts never revoke it.
func EvaluateGate(activity models.ActivityType, requiresEvaluation bool, definition *models.EvaluationDefinition, attempts []models.EvaluationAttempt) models.EvaluationGate {
	gate := models.EvaluationGate{
		Required: EvaluationRequired(activity, requiresEvaluation),
	}
	if definition == nil || !definition.IsActive {
		return gate
	}
	gate.Configured = true
	gate.EvaluationID = definition.ID

	var last, firstPassed *models.EvaluationAttempt
	for i := range attempts {
		attempt := &attempts[i]
		if attempt.EvaluationID != definition.ID {
			continue
		}
		gate.AttemptsUsed++
		if last == nil || attempt.AttemptNumber > last.AttemptNumber {
			last = attempt
		}
		if attempt.Passed {
			gate.HasPassed = true
			if firstPassed == nil || attempt.AttemptNumber < firstPassed.AttemptNumber {
				firstPassed = attempt
			}
		}
	}

	gate.AttemptsRemaining = max(0, definition.MaxAttempts-gate.AttemptsUsed)
	gate.CanRetake = !gate.HasPassed && gate.AttemptsRemaining > 0

	if last != nil {
		score := last.Score
		gate.LastScore = &score
	}
	if firstPassed != nil {
		id := firstPassed.ID
		gate.PassingAttemptID = &id
	}

	return gate
}

// IsPassingScore reports whether a score passes the evaluation
func IsPassingScore(definition models.EvaluationDefinition, score float64) bool {
	return score >= definition.PassingScore
}
