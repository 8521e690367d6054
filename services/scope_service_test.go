package services

import (
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"quality-portal-api/models"
)

var submissionListColumns = []string{
	"submission_id", "unit_id", "campus_id", "year", "cycle_id",
	"report_type_id", "status", "content_url", "create_at",
}

func intPtr(v int) *int { return &v }

func TestListSubmissionsContributorSeesOnlyOwnUnit(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `submissions` WHERE delete_at IS NULL AND unit_id = \\? AND year = \\? ORDER BY create_at DESC"),
			args:    []driver.Value{int64(42), int64(2025)},
			columns: submissionListColumns,
			rows: [][]driver.Value{{
				int64(1), int64(42), int64(1), int64(2025),
				models.CycleFirst, int64(1), models.StatusSubmitted, "https://docs.example.org/plan.pdf", created,
			}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewScopeService(db)
	scope := Scope{RoleID: models.RoleContributor, UnitID: intPtr(42)}
	submissions, err := svc.ListSubmissions(scope, SubmissionFilter{Year: intPtr(2025)})
	if err != nil {
		t.Fatalf("ListSubmissions failed: %v", err)
	}
	if len(submissions) != 1 || submissions[0].UnitID != 42 {
		t.Fatalf("unexpected result: %+v", submissions)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListSubmissionsSupervisorScopedToCampus(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `submissions` WHERE delete_at IS NULL AND campus_id = \\? AND year = \\? ORDER BY create_at DESC"),
			args:    []driver.Value{int64(3), int64(2025)},
			columns: submissionListColumns,
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewScopeService(db)
	scope := Scope{RoleID: models.RoleCampusSupervisor, CampusID: intPtr(3)}
	if _, err := svc.ListSubmissions(scope, SubmissionFilter{Year: intPtr(2025)}); err != nil {
		t.Fatalf("ListSubmissions failed: %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListSubmissionsAdminIsUnrestricted(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `submissions` WHERE delete_at IS NULL AND year = \\? ORDER BY create_at DESC"),
			args:    []driver.Value{int64(2025)},
			columns: submissionListColumns,
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewScopeService(db)
	if _, err := svc.ListSubmissions(AdminScope(), SubmissionFilter{Year: intPtr(2025)}); err != nil {
		t.Fatalf("ListSubmissions failed: %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListSubmissionsContributorWithoutUnitFails(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	svc := NewScopeService(db)
	scope := Scope{RoleID: models.RoleContributor}
	if _, err := svc.ListSubmissions(scope, SubmissionFilter{}); err == nil {
		t.Fatal("expected error for unit scope without a unit")
	}

	// No query must reach the store when the scope itself is invalid.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListSubmissionsRejectsMalformedCycle(t *testing.T) {
	db, _, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	svc := NewScopeService(db)
	badCycle := "midterm"
	_, err := svc.ListSubmissions(AdminScope(), SubmissionFilter{CycleID: &badCycle})
	if err == nil {
		t.Fatal("expected error for malformed cycle id")
	}
}

func TestListRisksContributorScopedToUnit(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `risks` WHERE delete_at IS NULL AND unit_id = \\? ORDER BY create_at DESC"),
			args:    []driver.Value{int64(42)},
			columns: []string{"risk_id", "unit_id", "campus_id", "year", "cycle_id", "likelihood", "consequence", "magnitude", "rating"},
			rows: [][]driver.Value{{
				int64(5), int64(42), int64(1), int64(2025), models.CycleFirst,
				int64(2), int64(2), int64(4), RatingLow,
			}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewScopeService(db)
	scope := Scope{RoleID: models.RoleContributor, UnitID: intPtr(42)}
	risks, err := svc.ListRisks(scope, RiskFilter{})
	if err != nil {
		t.Fatalf("ListRisks failed: %v", err)
	}
	if len(risks) != 1 || risks[0].Rating != RatingLow {
		t.Fatalf("unexpected result: %+v", risks)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
