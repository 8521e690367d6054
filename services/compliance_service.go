package services

import (
	"math"

	"quality-portal-api/models"
)

// The compliance rules in this file are pure folds over a snapshot of
// submissions already filtered to one (unit, campus, year, cycle) key.
// Every dashboard, report and alert view calls through here so the
// requirement and completion semantics exist in exactly one place.

// CurrentByType reduces a submission history to the current record per
// report type. Resubmission may create a new row rather than update in
// place, so several rows can share a key; the newest one wins, with the
// higher submission_id breaking creation-time ties.
func CurrentByType(submissions []models.Submission) map[int]models.Submission {
	current := make(map[int]models.Submission)
	for _, sub := range submissions {
		existing, ok := current[sub.ReportTypeID]
		if !ok {
			current[sub.ReportTypeID] = sub
			continue
		}
		if sub.CreateAt.After(existing.CreateAt) ||
			(sub.CreateAt.Equal(existing.CreateAt) && sub.SubmissionID > existing.SubmissionID) {
			current[sub.ReportTypeID] = sub
		}
	}
	return current
}

// RequiredTypes resolves which report types the unit owes for this cycle,
// in canonical catalog order. The full catalog is required except that the
// Action Plan is waived once the cycle's own current Risk Registry
// submission records a low rating. An absent Registry, or one without a
// recorded low rating, leaves the Action Plan required: the waiver is
// earned, never assumed. The resolution is cycle-local and must be
// recomputed for the Final cycle from the Final cycle's own Registry.
func RequiredTypes(catalog []models.ReportType, submissionsForKey []models.Submission) []models.ReportType {
	current := CurrentByType(submissionsForKey)

	actionPlanExempt := false
	for _, rt := range catalog {
		if rt.TypeCode != models.TypeCodeRiskRegistry {
			continue
		}
		if registry, ok := current[rt.ReportTypeID]; ok {
			if registry.RiskRating != nil && *registry.RiskRating == models.RiskRatingLow {
				actionPlanExempt = true
			}
		}
	}

	required := make([]models.ReportType, 0, len(catalog))
	for _, rt := range catalog {
		if actionPlanExempt && rt.TypeCode == models.TypeCodeActionPlan {
			continue
		}
		required = append(required, rt)
	}
	return required
}

// Completion is the per-cycle evaluation result for one unit.
type Completion struct {
	SatisfiedTypes []models.ReportType `json:"satisfied_types"`
	MissingTypes   []models.ReportType `json:"missing_types"`
	ApprovedCount  int                 `json:"approved_count"`
	RequiredCount  int                 `json:"required_count"`
	Percentage     int                 `json:"percentage"`
}

// Evaluate computes per-type satisfaction for one unit/cycle. A type is
// satisfied only when its current submission is approved; submitted and
// rejected both stay outstanding. MissingTypes keeps canonical order —
// it is rendered verbatim as the unit's action item list.
func Evaluate(requiredTypes []models.ReportType, submissionsForKey []models.Submission) Completion {
	current := CurrentByType(submissionsForKey)

	result := Completion{
		SatisfiedTypes: make([]models.ReportType, 0, len(requiredTypes)),
		MissingTypes:   make([]models.ReportType, 0, len(requiredTypes)),
		RequiredCount:  len(requiredTypes),
	}

	for _, rt := range requiredTypes {
		if sub, ok := current[rt.ReportTypeID]; ok && sub.Status == models.StatusApproved {
			result.SatisfiedTypes = append(result.SatisfiedTypes, rt)
			result.ApprovedCount++
		} else {
			result.MissingTypes = append(result.MissingTypes, rt)
		}
	}

	result.Percentage = completionPercentage(result.ApprovedCount, result.RequiredCount)
	return result
}

// EvaluateCycle resolves requirements and evaluates completion in one step.
func EvaluateCycle(catalog []models.ReportType, submissionsForKey []models.Submission) Completion {
	return Evaluate(RequiredTypes(catalog, submissionsForKey), submissionsForKey)
}

// CombinedPercentage folds the two cycles of a year into one annual figure
// by summing counts before dividing. Averaging the two cycle percentages
// would double-penalize the cycle with the smaller denominator.
func CombinedPercentage(first, final Completion) int {
	return completionPercentage(
		first.ApprovedCount+final.ApprovedCount,
		first.RequiredCount+final.RequiredCount,
	)
}

func completionPercentage(approved, required int) int {
	if required == 0 {
		return 0
	}
	return int(math.Round(float64(approved) / float64(required) * 100))
}
