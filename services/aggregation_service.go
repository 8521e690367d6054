package services

import (
	"sort"
	"strings"

	"quality-portal-api/models"
)

// Minimum combined percentage a unit must reach before it appears on a
// leaderboard. Anything below is treated as not-yet-started noise.
const leaderboardFloor = 5

// Compliance matrix cell states. "submitted" deliberately means "a current
// submission record exists" regardless of approval — the public transparency
// view has always read that way, while leaderboards count approved records
// only. Both reductions are implemented explicitly; see DESIGN.md.
const (
	MatrixSubmitted     = "submitted"
	MatrixNotApplicable = "not-applicable"
	MatrixMissing       = "missing"
)

// UnitCycleSubmissions carries one unit's submission snapshot for both
// cycles of a year, as fetched by the scope service.
type UnitCycleSubmissions struct {
	Unit   models.Unit
	Campus models.Campus
	First  []models.Submission
	Final  []models.Submission
}

// LeaderboardEntry is one row of a campus or institution leaderboard.
type LeaderboardEntry struct {
	UnitID        int    `json:"unit_id"`
	UnitName      string `json:"unit_name"`
	CampusID      int    `json:"campus_id"`
	CampusName    string `json:"campus_name"`
	ApprovedCount int    `json:"approved_count"`
	RequiredCount int    `json:"required_count"`
	Percentage    int    `json:"percentage"`
	Stars         int    `json:"stars"`
}

// StarsForPercentage maps a combined percentage to a 0-5 star count.
func StarsForPercentage(percentage int) int {
	stars := percentage / 20
	if stars < 0 {
		return 0
	}
	if stars > 5 {
		return 5
	}
	return stars
}

// BuildLeaderboard evaluates every unit in scope for the year and ranks
// them by combined percentage, descending. Units under the floor are
// dropped. Ties keep a stable alphabetical order so repeated renders do
// not reshuffle rows.
func BuildLeaderboard(catalog []models.ReportType, rows []UnitCycleSubmissions) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		first := EvaluateCycle(catalog, row.First)
		final := EvaluateCycle(catalog, row.Final)

		percentage := CombinedPercentage(first, final)
		if percentage < leaderboardFloor {
			continue
		}

		entries = append(entries, LeaderboardEntry{
			UnitID:        row.Unit.UnitID,
			UnitName:      row.Unit.UnitName,
			CampusID:      row.Campus.CampusID,
			CampusName:    row.Campus.CampusName,
			ApprovedCount: first.ApprovedCount + final.ApprovedCount,
			RequiredCount: first.RequiredCount + final.RequiredCount,
			Percentage:    percentage,
			Stars:         StarsForPercentage(percentage),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Percentage != entries[j].Percentage {
			return entries[i].Percentage > entries[j].Percentage
		}
		return entries[i].UnitName < entries[j].UnitName
	})
	return entries
}

// MissingEntry is one row of the incomplete-units alert list.
type MissingEntry struct {
	UnitID       int                 `json:"unit_id"`
	UnitName     string              `json:"unit_name"`
	CampusID     int                 `json:"campus_id"`
	CampusName   string              `json:"campus_name"`
	MissingFirst []models.ReportType `json:"missing_first"`
	MissingFinal []models.ReportType `json:"missing_final"`
	MissingCount int                 `json:"missing_count"`
}

// BuildMissingList lists only units still owing documents, worst first.
// Each cycle is evaluated independently and the two missing counts summed.
func BuildMissingList(catalog []models.ReportType, rows []UnitCycleSubmissions) []MissingEntry {
	entries := make([]MissingEntry, 0, len(rows))
	for _, row := range rows {
		first := EvaluateCycle(catalog, row.First)
		final := EvaluateCycle(catalog, row.Final)

		missing := len(first.MissingTypes) + len(final.MissingTypes)
		if missing == 0 {
			continue
		}

		entries = append(entries, MissingEntry{
			UnitID:       row.Unit.UnitID,
			UnitName:     row.Unit.UnitName,
			CampusID:     row.Campus.CampusID,
			CampusName:   row.Campus.CampusName,
			MissingFirst: first.MissingTypes,
			MissingFinal: final.MissingTypes,
			MissingCount: missing,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].MissingCount != entries[j].MissingCount {
			return entries[i].MissingCount > entries[j].MissingCount
		}
		return entries[i].UnitName < entries[j].UnitName
	})
	return entries
}

// MatrixKey builds the composite status key consumed by the public
// transparency view: "{campus}-{unit}-{report type display name}-{cycle}".
// The campus and unit components are the short codes (campus_code,
// unit_code), standing in for the numeric ids as the stable identifiers
// published to external consumers. Each component is lower-cased
// independently before concatenation; the shape must not change.
func MatrixKey(campusID, unitID, typeName, cycleID string) string {
	return strings.ToLower(campusID) + "-" +
		strings.ToLower(unitID) + "-" +
		strings.ToLower(typeName) + "-" +
		strings.ToLower(cycleID)
}

// BuildComplianceMatrix classifies every (campus, unit, report type, cycle)
// quadruple in scope. Presence of any current record counts as submitted;
// a type waived by a low Registry rating is not-applicable; everything
// else is missing. Keys use the unit and campus codes, their stable
// external identifiers.
func BuildComplianceMatrix(catalog []models.ReportType, rows []UnitCycleSubmissions) map[string]string {
	matrix := make(map[string]string)
	for _, row := range rows {
		cycles := []struct {
			cycleID     string
			submissions []models.Submission
		}{
			{models.CycleFirst, row.First},
			{models.CycleFinal, row.Final},
		}

		for _, cycle := range cycles {
			required := RequiredTypes(catalog, cycle.submissions)
			requiredIDs := make(map[int]bool, len(required))
			for _, rt := range required {
				requiredIDs[rt.ReportTypeID] = true
			}
			current := CurrentByType(cycle.submissions)

			for _, rt := range catalog {
				key := MatrixKey(row.Campus.CampusCode, row.Unit.UnitCode, rt.TypeName, cycle.cycleID)
				switch {
				case !requiredIDs[rt.ReportTypeID]:
					matrix[key] = MatrixNotApplicable
				case currentExists(current, rt.ReportTypeID):
					matrix[key] = MatrixSubmitted
				default:
					matrix[key] = MatrixMissing
				}
			}
		}
	}
	return matrix
}

func currentExists(current map[int]models.Submission, reportTypeID int) bool {
	_, ok := current[reportTypeID]
	return ok
}
