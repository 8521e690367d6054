package models

import "time"

// Campus represents the campuses table
type Campus struct {
	CampusID   int        `gorm:"primaryKey;column:campus_id" json:"campus_id"`
	CampusName string     `gorm:"column:campus_name" json:"campus_name"`
	CampusCode string     `gorm:"column:campus_code" json:"campus_code"`
	IsActive   bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt   time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt   time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt   *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// Unit represents the units table. A unit may belong to more than one
// campus through unit_campuses.
type Unit struct {
	UnitID   int        `gorm:"primaryKey;column:unit_id" json:"unit_id"`
	UnitName string     `gorm:"column:unit_name" json:"unit_name"`
	UnitCode string     `gorm:"column:unit_code" json:"unit_code"`
	IsActive bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Campuses []Campus `gorm:"many2many:unit_campuses;foreignKey:UnitID;joinForeignKey:UnitID;References:CampusID;joinReferences:CampusID" json:"campuses,omitempty"`
}

// UnitCampus represents the unit_campuses join table
type UnitCampus struct {
	UnitID   int `gorm:"primaryKey;column:unit_id" json:"unit_id"`
	CampusID int `gorm:"primaryKey;column:campus_id" json:"campus_id"`
}

// TableName overrides
func (Campus) TableName() string {
	return "campuses"
}

func (Unit) TableName() string {
	return "units"
}

func (UnitCampus) TableName() string {
	return "unit_campuses"
}
