package models

import "time"

// ReportType represents the report_types table — the canonical catalog of
// documents every unit must submit each cycle. Exactly one source of truth:
// display_order defines the canonical ordering used everywhere a type list
// is shown or compared, and carry_over_eligible marks the types whose
// First-cycle content may be cloned into the Final cycle.
type ReportType struct {
	ReportTypeID      int        `gorm:"primaryKey;column:report_type_id" json:"report_type_id"`
	TypeName          string     `gorm:"column:type_name" json:"type_name"`
	TypeCode          string     `gorm:"column:type_code" json:"type_code"`
	DisplayOrder      int        `gorm:"column:display_order" json:"display_order"`
	CarryOverEligible bool       `gorm:"column:carry_over_eligible" json:"carry_over_eligible"`
	IsActive          bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt          time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt          time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt          *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// Type codes as seeded in report_types. The Registry and Action Plan codes
// are referenced by the requirement rules; the rest exist for completeness.
const (
	TypeCodeQualityObjectives = "quality_objectives"
	TypeCodeInterestedParties = "interested_parties"
	TypeCodeOrgContext        = "org_context"
	TypeCodeRiskRegistry      = "risk_registry"
	TypeCodeActionPlan        = "action_plan"
	TypeCodeManagementReview  = "management_review"
)

// TableName overrides the table name for ReportType
func (ReportType) TableName() string {
	return "report_types"
}
