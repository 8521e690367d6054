package services

import (
	"reflect"
	"testing"
	"time"

	"quality-portal-api/models"
)

// testCatalog returns the six-type catalog in canonical order, ids 1-6.
func testCatalog() []models.ReportType {
	return []models.ReportType{
		{ReportTypeID: 1, TypeName: "Quality Objectives Plan", TypeCode: models.TypeCodeQualityObjectives, DisplayOrder: 1, IsActive: true},
		{ReportTypeID: 2, TypeName: "Needs and Expectations of Interested Parties", TypeCode: models.TypeCodeInterestedParties, DisplayOrder: 2, CarryOverEligible: true, IsActive: true},
		{ReportTypeID: 3, TypeName: "Context of the Organization Analysis", TypeCode: models.TypeCodeOrgContext, DisplayOrder: 3, CarryOverEligible: true, IsActive: true},
		{ReportTypeID: 4, TypeName: "Risk and Opportunity Registry", TypeCode: models.TypeCodeRiskRegistry, DisplayOrder: 4, IsActive: true},
		{ReportTypeID: 5, TypeName: "Risk/Opportunity Action Plan", TypeCode: models.TypeCodeActionPlan, DisplayOrder: 5, IsActive: true},
		{ReportTypeID: 6, TypeName: "Management Review Minutes", TypeCode: models.TypeCodeManagementReview, DisplayOrder: 6, IsActive: true},
	}
}

func submissionFor(id, reportTypeID int, status string, createdAt time.Time) models.Submission {
	return models.Submission{
		SubmissionID: id,
		UnitID:       1,
		CampusID:     1,
		Year:         2025,
		CycleID:      models.CycleFirst,
		ReportTypeID: reportTypeID,
		Status:       status,
		ContentURL:   "https://docs.example.org/doc",
		CreateAt:     createdAt,
		UpdateAt:     createdAt,
	}
}

func registrySubmission(id int, status, rating string, createdAt time.Time) models.Submission {
	sub := submissionFor(id, 4, status, createdAt)
	sub.RiskRating = &rating
	return sub
}

func typeCodes(types []models.ReportType) []string {
	codes := make([]string, 0, len(types))
	for _, rt := range types {
		codes = append(codes, rt.TypeCode)
	}
	return codes
}

func TestCurrentByTypeMostRecentWins(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	subs := []models.Submission{
		submissionFor(1, 1, models.StatusRejected, base),
		submissionFor(2, 1, models.StatusSubmitted, base.Add(time.Hour)),
		submissionFor(3, 6, models.StatusApproved, base),
	}

	current := CurrentByType(subs)
	if len(current) != 2 {
		t.Fatalf("expected 2 current records, got %d", len(current))
	}
	if current[1].SubmissionID != 2 {
		t.Fatalf("expected resubmission 2 to win, got %d", current[1].SubmissionID)
	}
}

func TestCurrentByTypeBreaksCreationTimeTiesByID(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	subs := []models.Submission{
		submissionFor(7, 1, models.StatusApproved, at),
		submissionFor(5, 1, models.StatusRejected, at),
	}

	current := CurrentByType(subs)
	if current[1].SubmissionID != 7 {
		t.Fatalf("expected submission 7 to win the tie, got %d", current[1].SubmissionID)
	}
}

func TestRequiredTypesDefaultsToFullCatalog(t *testing.T) {
	required := RequiredTypes(testCatalog(), nil)
	if len(required) != 6 {
		t.Fatalf("expected 6 required types, got %d", len(required))
	}
	if !reflect.DeepEqual(typeCodes(required), typeCodes(testCatalog())) {
		t.Fatalf("required types not in canonical order: %v", typeCodes(required))
	}
}

func TestRequiredTypesWaivesActionPlanOnLowRegistry(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	subs := []models.Submission{
		registrySubmission(1, models.StatusSubmitted, models.RiskRatingLow, base),
	}

	required := RequiredTypes(testCatalog(), subs)
	if len(required) != 5 {
		t.Fatalf("expected 5 required types, got %d", len(required))
	}
	for _, rt := range required {
		if rt.TypeCode == models.TypeCodeActionPlan {
			t.Fatal("action plan should be waived for a low registry rating")
		}
	}
}

func TestRequiredTypesKeepsActionPlanOnMediumHighRegistry(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	subs := []models.Submission{
		registrySubmission(1, models.StatusApproved, models.RiskRatingMediumHigh, base),
	}

	required := RequiredTypes(testCatalog(), subs)
	if len(required) != 6 {
		t.Fatalf("expected 6 required types, got %d", len(required))
	}
}

func TestRequiredTypesUsesMostRecentRegistryRecord(t *testing.T) {
	// A low-rated registry superseded by a medium-high resubmission keeps
	// the action plan required.
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	subs := []models.Submission{
		registrySubmission(1, models.StatusApproved, models.RiskRatingLow, base),
		registrySubmission(2, models.StatusSubmitted, models.RiskRatingMediumHigh, base.Add(time.Hour)),
	}

	required := RequiredTypes(testCatalog(), subs)
	if len(required) != 6 {
		t.Fatalf("expected 6 required types after resubmission, got %d", len(required))
	}
}

// Scenario: registry approved with a low rating, all four other
// non-action-plan types approved. The unit is fully compliant with five
// required types.
func TestEvaluateFullyCompliantWithWaivedActionPlan(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	subs := []models.Submission{
		registrySubmission(1, models.StatusApproved, models.RiskRatingLow, base),
		submissionFor(2, 1, models.StatusApproved, base),
		submissionFor(3, 2, models.StatusApproved, base),
		submissionFor(4, 3, models.StatusApproved, base),
		submissionFor(5, 6, models.StatusApproved, base),
	}

	catalog := testCatalog()
	result := Evaluate(RequiredTypes(catalog, subs), subs)

	if result.RequiredCount != 5 {
		t.Fatalf("required count: got %d want 5", result.RequiredCount)
	}
	if result.ApprovedCount != 5 {
		t.Fatalf("approved count: got %d want 5", result.ApprovedCount)
	}
	if result.Percentage != 100 {
		t.Fatalf("percentage: got %d want 100", result.Percentage)
	}
	if len(result.MissingTypes) != 0 {
		t.Fatalf("expected no missing types, got %v", typeCodes(result.MissingTypes))
	}
}

// Scenario: same unit but the registry was never submitted. The action
// plan stays required and both it and the registry appear as missing.
func TestEvaluateWithoutRegistryKeepsActionPlanRequired(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	subs := []models.Submission{
		submissionFor(2, 1, models.StatusApproved, base),
		submissionFor(3, 2, models.StatusApproved, base),
		submissionFor(4, 3, models.StatusApproved, base),
		submissionFor(5, 6, models.StatusApproved, base),
	}

	catalog := testCatalog()
	result := Evaluate(RequiredTypes(catalog, subs), subs)

	if result.RequiredCount != 6 {
		t.Fatalf("required count: got %d want 6", result.RequiredCount)
	}
	if result.ApprovedCount != 4 {
		t.Fatalf("approved count: got %d want 4", result.ApprovedCount)
	}
	missing := typeCodes(result.MissingTypes)
	want := []string{models.TypeCodeRiskRegistry, models.TypeCodeActionPlan}
	if !reflect.DeepEqual(missing, want) {
		t.Fatalf("missing types: got %v want %v", missing, want)
	}
}

func TestEvaluateTreatsSubmittedAndRejectedAsOutstanding(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	subs := []models.Submission{
		submissionFor(1, 1, models.StatusSubmitted, base),
		submissionFor(2, 2, models.StatusRejected, base),
		submissionFor(3, 3, models.StatusApproved, base),
	}

	result := EvaluateCycle(testCatalog(), subs)
	if result.ApprovedCount != 1 {
		t.Fatalf("approved count: got %d want 1", result.ApprovedCount)
	}
	if len(result.MissingTypes) != 5 {
		t.Fatalf("missing count: got %d want 5", len(result.MissingTypes))
	}
}

func TestEvaluateMissingAccountingIsExact(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	subs := []models.Submission{
		registrySubmission(1, models.StatusApproved, models.RiskRatingMediumHigh, base),
		submissionFor(2, 1, models.StatusApproved, base),
	}

	result := EvaluateCycle(testCatalog(), subs)
	if result.ApprovedCount > result.RequiredCount {
		t.Fatalf("approved %d exceeds required %d", result.ApprovedCount, result.RequiredCount)
	}
	if len(result.MissingTypes) != result.RequiredCount-result.ApprovedCount {
		t.Fatalf("missing %d != required %d - approved %d",
			len(result.MissingTypes), result.RequiredCount, result.ApprovedCount)
	}
	seen := make(map[string]bool)
	for _, rt := range result.MissingTypes {
		if seen[rt.TypeCode] {
			t.Fatalf("duplicate missing type %s", rt.TypeCode)
		}
		seen[rt.TypeCode] = true
	}
}

func TestEvaluateIsIdempotentOnSameSnapshot(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	subs := []models.Submission{
		registrySubmission(1, models.StatusApproved, models.RiskRatingLow, base),
		submissionFor(2, 1, models.StatusSubmitted, base),
		submissionFor(3, 6, models.StatusApproved, base),
	}

	catalog := testCatalog()
	first := EvaluateCycle(catalog, subs)
	second := EvaluateCycle(catalog, subs)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("evaluator is not idempotent: %+v vs %+v", first, second)
	}
}

func TestEvaluateEmptyRequiredSetYieldsZeroPercentage(t *testing.T) {
	result := Evaluate(nil, nil)
	if result.Percentage != 0 {
		t.Fatalf("percentage for empty required set: got %d want 0", result.Percentage)
	}
}

func TestCombinedPercentageSumsCountsAcrossCycles(t *testing.T) {
	// 5/5 in the first cycle and 0/6 in the final cycle is 5/11 = 45%,
	// not the 50% a per-cycle average would claim.
	first := Completion{ApprovedCount: 5, RequiredCount: 5}
	final := Completion{ApprovedCount: 0, RequiredCount: 6}

	if got := CombinedPercentage(first, final); got != 45 {
		t.Fatalf("combined percentage: got %d want 45", got)
	}
}

func TestCombinedPercentageRounds(t *testing.T) {
	first := Completion{ApprovedCount: 1, RequiredCount: 6}
	final := Completion{ApprovedCount: 1, RequiredCount: 6}

	// 2/12 = 16.67 rounds to 17.
	if got := CombinedPercentage(first, final); got != 17 {
		t.Fatalf("combined percentage: got %d want 17", got)
	}
}
