package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"quality-portal-api/models"
)

// ScopeService is the role-scoped read side of the document store. Every
// view reads submissions and risks through here so visibility rules live
// in one place: admins and auditors see everything, campus supervisors see
// their campus, everyone else sees only their own unit.
type ScopeService struct {
	db *gorm.DB
}

func NewScopeService(db *gorm.DB) *ScopeService {
	return &ScopeService{db: db}
}

// Scope describes the caller's visibility, taken from their auth claims.
type Scope struct {
	RoleID   int
	UnitID   *int
	CampusID *int
}

// AdminScope is the unrestricted scope used by system jobs.
func AdminScope() Scope {
	return Scope{RoleID: models.RoleAdmin}
}

// SubmissionFilter narrows a submission listing. Equality filters only.
type SubmissionFilter struct {
	UnitID       *int
	CampusID     *int
	Year         *int
	CycleID      *string
	ReportTypeID *int
}

// RiskFilter narrows a risk listing. Equality filters only.
type RiskFilter struct {
	UnitID   *int
	CampusID *int
	Year     *int
	CycleID  *string
}

func applyScope(query *gorm.DB, scope Scope) (*gorm.DB, error) {
	switch scope.RoleID {
	case models.RoleAdmin, models.RoleAuditor:
		return query, nil
	case models.RoleCampusSupervisor:
		if scope.CampusID == nil {
			return nil, errors.New("campus supervisor scope requires a campus")
		}
		return query.Where("campus_id = ?", *scope.CampusID), nil
	default:
		if scope.UnitID == nil {
			return nil, errors.New("unit scope requires a unit")
		}
		return query.Where("unit_id = ?", *scope.UnitID), nil
	}
}

// ListSubmissions returns the submissions visible to the scope, newest
// first. Callers needing "the current record per key" reduce the result
// with CurrentByType; the store is never trusted to hold unique keys.
func (s *ScopeService) ListSubmissions(scope Scope, filter SubmissionFilter) ([]models.Submission, error) {
	query, err := applyScope(s.db.Where("delete_at IS NULL"), scope)
	if err != nil {
		return nil, err
	}

	if filter.UnitID != nil {
		query = query.Where("unit_id = ?", *filter.UnitID)
	}
	if filter.CampusID != nil {
		query = query.Where("campus_id = ?", *filter.CampusID)
	}
	if filter.Year != nil {
		query = query.Where("year = ?", *filter.Year)
	}
	if filter.CycleID != nil {
		cycle, err := models.ParseCycle(*filter.CycleID)
		if err != nil {
			return nil, err
		}
		query = query.Where("cycle_id = ?", cycle)
	}
	if filter.ReportTypeID != nil {
		query = query.Where("report_type_id = ?", *filter.ReportTypeID)
	}

	var submissions []models.Submission
	if err := query.Order("create_at DESC").Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}

// ListRisks returns the risks visible to the scope.
func (s *ScopeService) ListRisks(scope Scope, filter RiskFilter) ([]models.Risk, error) {
	query, err := applyScope(s.db.Where("delete_at IS NULL"), scope)
	if err != nil {
		return nil, err
	}

	if filter.UnitID != nil {
		query = query.Where("unit_id = ?", *filter.UnitID)
	}
	if filter.CampusID != nil {
		query = query.Where("campus_id = ?", *filter.CampusID)
	}
	if filter.Year != nil {
		query = query.Where("year = ?", *filter.Year)
	}
	if filter.CycleID != nil {
		cycle, err := models.ParseCycle(*filter.CycleID)
		if err != nil {
			return nil, err
		}
		query = query.Where("cycle_id = ?", cycle)
	}

	var risks []models.Risk
	if err := query.Order("create_at DESC").Find(&risks).Error; err != nil {
		return nil, fmt.Errorf("failed to list risks: %w", err)
	}
	return risks, nil
}

// ListUnitCycleSubmissions assembles the per-unit, per-cycle snapshots the
// aggregation layer folds for one year. An optional campus filter narrows
// an institution-wide call to one campus; scoped callers are narrowed by
// their scope regardless.
func (s *ScopeService) ListUnitCycleSubmissions(scope Scope, year int, campusID *int) ([]UnitCycleSubmissions, error) {
	filter := SubmissionFilter{Year: &year, CampusID: campusID}
	submissions, err := s.ListSubmissions(scope, filter)
	if err != nil {
		return nil, err
	}

	unitQuery := s.db.Where("delete_at IS NULL AND is_active = ?", true)
	if scope.RoleID != models.RoleAdmin && scope.RoleID != models.RoleAuditor && scope.RoleID != models.RoleCampusSupervisor {
		if scope.UnitID == nil {
			return nil, errors.New("unit scope requires a unit")
		}
		unitQuery = unitQuery.Where("unit_id = ?", *scope.UnitID)
	}

	var units []models.Unit
	if err := unitQuery.Order("unit_name ASC").Preload("Campuses").Find(&units).Error; err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}

	type key struct {
		unitID   int
		campusID int
	}
	byKey := make(map[key]*UnitCycleSubmissions)
	rows := make([]*UnitCycleSubmissions, 0, len(units))
	for _, unit := range units {
		for _, campus := range unit.Campuses {
			if campusID != nil && campus.CampusID != *campusID {
				continue
			}
			if scope.RoleID == models.RoleCampusSupervisor && scope.CampusID != nil && campus.CampusID != *scope.CampusID {
				continue
			}
			row := &UnitCycleSubmissions{Unit: unit, Campus: campus}
			byKey[key{unit.UnitID, campus.CampusID}] = row
			rows = append(rows, row)
		}
	}

	for _, sub := range submissions {
		row, ok := byKey[key{sub.UnitID, sub.CampusID}]
		if !ok {
			continue
		}
		switch sub.CycleID {
		case models.CycleFirst:
			row.First = append(row.First, sub)
		case models.CycleFinal:
			row.Final = append(row.Final, sub)
		}
	}

	result := make([]UnitCycleSubmissions, 0, len(rows))
	for _, row := range rows {
		result = append(result, *row)
	}
	return result, nil
}
