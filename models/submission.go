// models/submission.go
package models

import (
	"fmt"
	"strings"
	"time"
)

// Submission statuses. A submission is created as "submitted", moves to
// "approved" or "rejected" by a supervisor, and a rejected one returns to
// "submitted" on resubmission (either as a status reset or as a brand new
// record — readers must reduce to the most recent record per key).
const (
	StatusSubmitted = "submitted"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
)

// Risk ratings carried on Risk Registry submissions.
const (
	RiskRatingLow        = "low"
	RiskRatingMediumHigh = "medium-high"
)

// Submission cycles. Each year has exactly two independent cycles.
const (
	CycleFirst = "first"
	CycleFinal = "final"
)

// ParseCycle validates a cycle identifier. Anything other than the two
// known cycles is a caller contract violation, not a default.
func ParseCycle(cycleID string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(cycleID)) {
	case CycleFirst:
		return CycleFirst, nil
	case CycleFinal:
		return CycleFinal, nil
	default:
		return "", fmt.Errorf("invalid cycle id %q: must be %q or %q", cycleID, CycleFirst, CycleFinal)
	}
}

// Submission represents the submissions table. Content never lives here;
// submissions only carry a link to the externally stored document.
type Submission struct {
	SubmissionID     int        `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	SubmissionNumber string     `gorm:"column:submission_number" json:"submission_number"`
	UnitID           int        `gorm:"column:unit_id" json:"unit_id"`
	CampusID         int        `gorm:"column:campus_id" json:"campus_id"`
	Year             int        `gorm:"column:year" json:"year"`
	CycleID          string     `gorm:"column:cycle_id;type:enum('first','final')" json:"cycle_id"`
	ReportTypeID     int        `gorm:"column:report_type_id" json:"report_type_id"`
	Status           string     `gorm:"column:status;type:enum('submitted','approved','rejected');default:'submitted'" json:"status"`
	ContentURL       string     `gorm:"column:content_url" json:"content_url"`
	RiskRating       *string    `gorm:"column:risk_rating;type:enum('low','medium-high')" json:"risk_rating,omitempty"`
	CreatedBy        *int       `gorm:"column:created_by" json:"created_by,omitempty"`
	CreateAt         time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt         time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt         *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Unit       Unit                `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	Campus     Campus              `gorm:"foreignKey:CampusID" json:"campus,omitempty"`
	ReportType ReportType          `gorm:"foreignKey:ReportTypeID" json:"report_type,omitempty"`
	Creator    *User               `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Comments   []SubmissionComment `gorm:"foreignKey:SubmissionID" json:"comments,omitempty"`
}

// SubmissionComment represents the submission_comments table. AuthorID is
// null for system-authored comments (carry-over notices).
type SubmissionComment struct {
	CommentID    int       `gorm:"primaryKey;column:comment_id" json:"comment_id"`
	SubmissionID int       `gorm:"column:submission_id" json:"submission_id"`
	AuthorID     *int      `gorm:"column:author_id" json:"author_id,omitempty"`
	AuthorRole   string    `gorm:"column:author_role" json:"author_role"`
	CommentText  string    `gorm:"column:comment_text" json:"comment_text"`
	CreateAt     time.Time `gorm:"column:create_at" json:"create_at"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// TableName overrides
func (Submission) TableName() string {
	return "submissions"
}

func (SubmissionComment) TableName() string {
	return "submission_comments"
}
