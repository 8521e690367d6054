package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quality-portal-api/models"
)

// Precondition failures are named so controllers can tell the user exactly
// why a carry-over was refused instead of showing a generic store error.
var (
	ErrCarryOverNotEligible   = errors.New("report type is not eligible for carry-over")
	ErrCarryOverNoSource      = errors.New("no first-cycle submission exists to carry over")
	ErrCarryOverAlreadyExists = errors.New("a final-cycle submission already exists for this report type")
)

const carryOverCommentText = "Carried over from the first-cycle submission without changes."

// CarryOverService clones a First-cycle submission into the Final cycle
// without a new upload. This is the only write the compliance engine
// performs; everything else in the engine is read-only derivation.
type CarryOverService struct {
	db *gorm.DB
}

func NewCarryOverService(db *gorm.DB) *CarryOverService {
	return &CarryOverService{db: db}
}

type CarryOverInput struct {
	UnitID       int
	CampusID     int
	Year         int
	ReportTypeID int
	RequestedBy  int
}

// CarryOver creates the Final-cycle clone when both preconditions hold:
// a current First-cycle submission of any status exists for the type, and
// no Final-cycle submission exists yet. The precondition reads and the
// write run in one transaction so they see the same snapshot and the
// submission never lands without its system comment (or vice versa).
func (s *CarryOverService) CarryOver(in CarryOverInput) (*models.Submission, error) {
	var reportType models.ReportType
	if err := s.db.
		Where("report_type_id = ? AND delete_at IS NULL", in.ReportTypeID).
		First(&reportType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("report type %d not found", in.ReportTypeID)
		}
		return nil, fmt.Errorf("failed to load report type: %w", err)
	}
	if !reportType.CarryOverEligible {
		return nil, ErrCarryOverNotEligible
	}

	var created *models.Submission
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var source models.Submission
		err := tx.
			Where("unit_id = ? AND campus_id = ? AND year = ? AND cycle_id = ? AND report_type_id = ? AND delete_at IS NULL",
				in.UnitID, in.CampusID, in.Year, models.CycleFirst, in.ReportTypeID).
			Order("create_at DESC, submission_id DESC").
			First(&source).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCarryOverNoSource
		}
		if err != nil {
			return fmt.Errorf("failed to load first-cycle submission: %w", err)
		}

		var finalCount int64
		if err := tx.Model(&models.Submission{}).
			Where("unit_id = ? AND campus_id = ? AND year = ? AND cycle_id = ? AND report_type_id = ? AND delete_at IS NULL",
				in.UnitID, in.CampusID, in.Year, models.CycleFinal, in.ReportTypeID).
			Count(&finalCount).Error; err != nil {
			return fmt.Errorf("failed to check final-cycle submissions: %w", err)
		}
		if finalCount > 0 {
			return ErrCarryOverAlreadyExists
		}

		now := time.Now()
		submission := models.Submission{
			SubmissionNumber: uuid.NewString(),
			UnitID:           in.UnitID,
			CampusID:         in.CampusID,
			Year:             source.Year,
			CycleID:          models.CycleFinal,
			ReportTypeID:     in.ReportTypeID,
			Status:           models.StatusSubmitted,
			ContentURL:       source.ContentURL,
			CreatedBy:        &in.RequestedBy,
			CreateAt:         now,
			UpdateAt:         now,
		}
		if err := tx.Create(&submission).Error; err != nil {
			return fmt.Errorf("failed to create carry-over submission: %w", err)
		}

		comment := models.SubmissionComment{
			SubmissionID: submission.SubmissionID,
			AuthorRole:   "system",
			CommentText:  carryOverCommentText,
			CreateAt:     now,
		}
		if err := tx.Create(&comment).Error; err != nil {
			return fmt.Errorf("failed to record carry-over comment: %w", err)
		}

		submission.Comments = []models.SubmissionComment{comment}
		created = &submission
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
