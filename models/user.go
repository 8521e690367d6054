package models

import (
	"time"
)

type User struct {
	UserID    int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	UserFname string     `gorm:"column:user_fname" json:"user_fname"`
	UserLname string     `gorm:"column:user_lname" json:"user_lname"`
	Email     string     `gorm:"column:email;unique" json:"email"`
	Password  string     `gorm:"column:password" json:"-"`
	RoleID    int        `gorm:"column:role_id" json:"role_id"`
	UnitID    *int       `gorm:"column:unit_id" json:"unit_id,omitempty"`
	CampusID  *int       `gorm:"column:campus_id" json:"campus_id,omitempty"`
	Tel       *string    `gorm:"column:tel" json:"tel,omitempty"`
	CreateAt  *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt  *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt  *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Role   Role    `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Unit   *Unit   `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	Campus *Campus `gorm:"foreignKey:CampusID" json:"campus,omitempty"`
}

type Role struct {
	RoleID   int        `gorm:"primaryKey;column:role_id" json:"role_id"`
	Role     string     `gorm:"column:role" json:"role"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// Role IDs as seeded in the roles table.
const (
	RoleContributor      = 1 // unit member, submits documents
	RoleCampusSupervisor = 2 // reviews and approves within one campus
	RoleAdmin            = 3 // institution-wide access
	RoleAuditor          = 4 // read-only institution-wide access
)

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}
