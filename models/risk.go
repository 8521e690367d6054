package models

import "time"

// Risk represents the risks table. Likelihood and consequence are 1-5
// ordinals; magnitude and rating are derived by the rating calculator at
// write time and stored alongside the inputs.
type Risk struct {
	RiskID      int        `gorm:"primaryKey;column:risk_id" json:"risk_id"`
	UnitID      int        `gorm:"column:unit_id" json:"unit_id"`
	CampusID    int        `gorm:"column:campus_id" json:"campus_id"`
	Year        int        `gorm:"column:year" json:"year"`
	CycleID     string     `gorm:"column:cycle_id;type:enum('first','final')" json:"cycle_id"`
	Title       string     `gorm:"column:title" json:"title"`
	Description *string    `gorm:"column:description" json:"description,omitempty"`
	Likelihood  int        `gorm:"column:likelihood" json:"likelihood"`
	Consequence int        `gorm:"column:consequence" json:"consequence"`
	Magnitude   int        `gorm:"column:magnitude" json:"magnitude"`
	Rating      string     `gorm:"column:rating;type:enum('Low','Medium','High')" json:"rating"`
	CreatedBy   *int       `gorm:"column:created_by" json:"created_by,omitempty"`
	CreateAt    time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt    time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Unit   Unit   `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	Campus Campus `gorm:"foreignKey:CampusID" json:"campus,omitempty"`
}

// TableName overrides the table name for Risk
func (Risk) TableName() string {
	return "risks"
}
