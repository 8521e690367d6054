// controllers/submission.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"quality-portal-api/config"
	"quality-portal-api/models"
	"quality-portal-api/services"
	"quality-portal-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ===================== SUBMISSION MANAGEMENT =====================

// scopeFromContext builds the caller's visibility scope from auth claims.
func scopeFromContext(c *gin.Context) services.Scope {
	scope := services.Scope{}
	if v, ok := c.Get("roleID"); ok {
		if roleID, ok := v.(int); ok {
			scope.RoleID = roleID
		}
	}
	if v, ok := c.Get("unitID"); ok {
		if unitID, ok := v.(*int); ok {
			scope.UnitID = unitID
		}
	}
	if v, ok := c.Get("campusID"); ok {
		if campusID, ok := v.(*int); ok {
			scope.CampusID = campusID
		}
	}
	return scope
}

func intQuery(c *gin.Context, name string) (*int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}
	return &value, true
}

// GetSubmissions returns submissions visible to the caller
func GetSubmissions(c *gin.Context) {
	filter := services.SubmissionFilter{}

	var ok bool
	if filter.UnitID, ok = intQuery(c, "unit_id"); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid unit_id"})
		return
	}
	if filter.CampusID, ok = intQuery(c, "campus_id"); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid campus_id"})
		return
	}
	if filter.Year, ok = intQuery(c, "year"); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return
	}
	if filter.ReportTypeID, ok = intQuery(c, "report_type_id"); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report_type_id"})
		return
	}
	if cycle := c.Query("cycle_id"); cycle != "" {
		filter.CycleID = &cycle
	}

	scopeService := services.NewScopeService(config.DB)
	submissions, err := scopeService.ListSubmissions(scopeFromContext(c), filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Re-fetch with relations for display. The scoped listing already
	// decided visibility; this only decorates the rows it returned.
	ids := make([]int, 0, len(submissions))
	for _, sub := range submissions {
		ids = append(ids, sub.SubmissionID)
	}
	if len(ids) > 0 {
		if err := config.DB.
			Preload("Unit").Preload("Campus").Preload("ReportType").
			Preload("Comments", func(db *gorm.DB) *gorm.DB {
				return db.Order("create_at ASC")
			}).
			Preload("Comments.Author").
			Where("submission_id IN ?", ids).
			Order("create_at DESC").
			Find(&submissions).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": submissions,
		"total":       len(submissions),
	})
}

// GetSubmission returns a specific submission
func GetSubmission(c *gin.Context) {
	submissionID := c.Param("id")

	var submission models.Submission
	if err := config.DB.
		Preload("Unit").Preload("Campus").Preload("ReportType").Preload("Creator").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("create_at ASC")
		}).
		Preload("Comments.Author").
		Where("submission_id = ? AND delete_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	if !canViewSubmission(scopeFromContext(c), submission) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"submission": submission,
	})
}

func canViewSubmission(scope services.Scope, submission models.Submission) bool {
	switch scope.RoleID {
	case models.RoleAdmin, models.RoleAuditor:
		return true
	case models.RoleCampusSupervisor:
		return scope.CampusID != nil && *scope.CampusID == submission.CampusID
	default:
		return scope.UnitID != nil && *scope.UnitID == submission.UnitID
	}
}

type CreateSubmissionRequest struct {
	CampusID       int    `json:"campus_id" binding:"required"`
	Year           int    `json:"year" binding:"required"`
	CycleID        string `json:"cycle_id" binding:"required"`
	ReportTypeCode string `json:"report_type_code" binding:"required"`
	ContentURL     string `json:"content_url" binding:"required,url"`
}

// CreateSubmission records a new compliance document submission for the
// caller's unit. Submissions only carry a link; file content never passes
// through this API.
func CreateSubmission(c *gin.Context) {
	var req CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	scope := scopeFromContext(c)
	if scope.UnitID == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your account is not assigned to a unit"})
		return
	}
	unitID := *scope.UnitID

	cycle, err := models.ParseCycle(req.CycleID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reportType, err := services.GetReportTypeByCode(req.ReportTypeCode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var membership int64
	if err := config.DB.Model(&models.UnitCampus{}).
		Where("unit_id = ? AND campus_id = ?", unitID, req.CampusID).
		Count(&membership).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify campus membership"})
		return
	}
	if membership == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unit does not belong to the given campus"})
		return
	}

	now := time.Now()
	submission := models.Submission{
		SubmissionNumber: uuid.NewString(),
		UnitID:           unitID,
		CampusID:         req.CampusID,
		Year:             req.Year,
		CycleID:          cycle,
		ReportTypeID:     reportType.ReportTypeID,
		Status:           models.StatusSubmitted,
		ContentURL:       utils.SanitizeInput(req.ContentURL),
		CreatedBy:        &userID,
		CreateAt:         now,
		UpdateAt:         now,
	}

	// A Risk Registry submission carries the rating derived from the
	// unit's recorded risks for this cycle. The rating is copied here, at
	// creation, never recomputed by the compliance rules later.
	if reportType.TypeCode == models.TypeCodeRiskRegistry {
		rating, err := registryRatingForKey(unitID, req.CampusID, req.Year, cycle)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		submission.RiskRating = &rating
	}

	if err := config.DB.Create(&submission).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create submission"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"submission": submission,
	})
}

// registryRatingForKey folds the unit's recorded risks for a cycle into
// the two-value rating stored on the Registry submission. Any non-Low risk
// pushes the whole registry to medium-high.
func registryRatingForKey(unitID, campusID, year int, cycleID string) (string, error) {
	var risks []models.Risk
	if err := config.DB.
		Where("unit_id = ? AND campus_id = ? AND year = ? AND cycle_id = ? AND delete_at IS NULL",
			unitID, campusID, year, cycleID).
		Find(&risks).Error; err != nil {
		return "", errors.New("failed to load recorded risks")
	}
	if len(risks) == 0 {
		return "", errors.New("record the unit's risks for this cycle before submitting the registry")
	}
	for _, risk := range risks {
		if risk.Rating != services.RatingLow {
			return models.RiskRatingMediumHigh, nil
		}
	}
	return models.RiskRatingLow, nil
}

type UpdateSubmissionStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Comment string `json:"comment"`
}

// UpdateSubmissionStatus lets a supervisor approve or reject a submission,
// optionally attaching a review comment in the same transaction.
func UpdateSubmissionStatus(c *gin.Context) {
	var req UpdateSubmissionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Status != models.StatusApproved && req.Status != models.StatusRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be 'approved' or 'rejected'"})
		return
	}

	submissionID := c.Param("id")
	userID := c.GetInt("userID")
	scope := scopeFromContext(c)

	var submission models.Submission
	if err := config.DB.
		Where("submission_id = ? AND delete_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	if scope.RoleID == models.RoleCampusSupervisor {
		if scope.CampusID == nil || *scope.CampusID != submission.CampusID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Submission is outside your campus"})
			return
		}
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := tx.Model(&models.Submission{}).
			Where("submission_id = ?", submission.SubmissionID).
			Updates(map[string]interface{}{"status": req.Status, "update_at": now}).Error; err != nil {
			return err
		}
		if req.Comment == "" {
			return nil
		}
		comment := models.SubmissionComment{
			SubmissionID: submission.SubmissionID,
			AuthorID:     &userID,
			AuthorRole:   "supervisor",
			CommentText:  utils.SanitizeInput(req.Comment),
			CreateAt:     now,
		}
		return tx.Create(&comment).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update submission status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Submission " + req.Status,
	})
}

type AddCommentRequest struct {
	CommentText string `json:"comment_text" binding:"required"`
}

// AddSubmissionComment appends a review comment to a submission
func AddSubmissionComment(c *gin.Context) {
	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submissionID := c.Param("id")
	userID := c.GetInt("userID")
	scope := scopeFromContext(c)

	var submission models.Submission
	if err := config.DB.
		Where("submission_id = ? AND delete_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	if !canViewSubmission(scope, submission) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	role := "contributor"
	switch scope.RoleID {
	case models.RoleCampusSupervisor:
		role = "supervisor"
	case models.RoleAdmin:
		role = "admin"
	case models.RoleAuditor:
		role = "auditor"
	}

	comment := models.SubmissionComment{
		SubmissionID: submission.SubmissionID,
		AuthorID:     &userID,
		AuthorRole:   role,
		CommentText:  utils.SanitizeInput(req.CommentText),
		CreateAt:     time.Now(),
	}
	if err := config.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"comment": comment,
	})
}

type CarryOverRequest struct {
	CampusID       int    `json:"campus_id" binding:"required"`
	Year           int    `json:"year" binding:"required"`
	ReportTypeCode string `json:"report_type_code" binding:"required"`
}

// CarryOverSubmission clones the caller's First-cycle submission of an
// eligible report type into the Final cycle without a new upload.
func CarryOverSubmission(c *gin.Context) {
	var req CarryOverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	scope := scopeFromContext(c)
	if scope.UnitID == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your account is not assigned to a unit"})
		return
	}

	reportType, err := services.GetReportTypeByCode(req.ReportTypeCode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	carryOver := services.NewCarryOverService(config.DB)
	submission, err := carryOver.CarryOver(services.CarryOverInput{
		UnitID:       *scope.UnitID,
		CampusID:     req.CampusID,
		Year:         req.Year,
		ReportTypeID: reportType.ReportTypeID,
		RequestedBy:  userID,
	})
	switch {
	case errors.Is(err, services.ErrCarryOverNotEligible):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, services.ErrCarryOverNoSource),
		errors.Is(err, services.ErrCarryOverAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to carry over submission"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"submission": submission,
	})
}
