package controllers

import (
	"net/http"
	"time"

	"quality-portal-api/config"
	"quality-portal-api/models"
	"quality-portal-api/services"
	"quality-portal-api/utils"

	"github.com/gin-gonic/gin"
)

// ===================== RISK MANAGEMENT =====================

// GetRisks returns risks visible to the caller
func GetRisks(c *gin.Context) {
	filter := services.RiskFilter{}

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
	if cycle := c.Query("cycle_id"); cycle != "" {
		filter.CycleID = &cycle
	}

	scopeService := services.NewScopeService(config.DB)
	risks, err := scopeService.ListRisks(scopeFromContext(c), filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"risks":   risks,
		"total":   len(risks),
	})
}

type RiskScoreRequest struct {
	Likelihood  int `json:"likelihood" binding:"required"`
	Consequence int `json:"consequence" binding:"required"`
}

// PreviewRiskScore computes magnitude and rating without persisting,
// so the risk form can show the tier while the user is still typing.
func PreviewRiskScore(c *gin.Context) {
	var req RiskScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scale, err := services.LoadRatingScale()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	score, err := services.CalculateRiskScore(req.Likelihood, req.Consequence, scale)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"score":   score,
	})
}

type CreateRiskRequest struct {
	CampusID    int     `json:"campus_id" binding:"required"`
	Year        int     `json:"year" binding:"required"`
	CycleID     string  `json:"cycle_id" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Likelihood  int     `json:"likelihood" binding:"required"`
	Consequence int     `json:"consequence" binding:"required"`
}

// CreateRisk records a risk for the caller's unit. Magnitude and rating
// are derived server-side; clients never supply them.
func CreateRisk(c *gin.Context) {
	var req CreateRiskRequest
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

	cycle, err := models.ParseCycle(req.CycleID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scale, err := services.LoadRatingScale()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	score, err := services.CalculateRiskScore(req.Likelihood, req.Consequence, scale)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	risk := models.Risk{
		UnitID:      *scope.UnitID,
		CampusID:    req.CampusID,
		Year:        req.Year,
		CycleID:     cycle,
		Title:       utils.SanitizeInput(req.Title),
		Description: req.Description,
		Likelihood:  req.Likelihood,
		Consequence: req.Consequence,
		Magnitude:   score.Magnitude,
		Rating:      score.Rating,
		CreatedBy:   &userID,
		CreateAt:    now,
		UpdateAt:    now,
	}

	if err := config.DB.Create(&risk).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create risk"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"risk":    risk,
	})
}

type UpdateRiskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Likelihood  *int    `json:"likelihood"`
	Consequence *int    `json:"consequence"`
}

// UpdateRisk edits a risk owned by the caller's unit, re-deriving the
// score when likelihood or consequence change.
func UpdateRisk(c *gin.Context) {
	var req UpdateRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scope := scopeFromContext(c)
	if scope.UnitID == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your account is not assigned to a unit"})
		return
	}

	var risk models.Risk
	if err := config.DB.
		Where("risk_id = ? AND unit_id = ? AND delete_at IS NULL", c.Param("id"), *scope.UnitID).
		First(&risk).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Risk not found"})
		return
	}

	if req.Title != nil {
		risk.Title = utils.SanitizeInput(*req.Title)
	}
	if req.Description != nil {
		risk.Description = req.Description
	}
	if req.Likelihood != nil {
		risk.Likelihood = *req.Likelihood
	}
	if req.Consequence != nil {
		risk.Consequence = *req.Consequence
	}

	scale, err := services.LoadRatingScale()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	score, err := services.CalculateRiskScore(risk.Likelihood, risk.Consequence, scale)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	risk.Magnitude = score.Magnitude
	risk.Rating = score.Rating
	risk.UpdateAt = time.Now()

	if err := config.DB.Save(&risk).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update risk"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"risk":    risk,
	})
}

// DeleteRisk soft-deletes a risk owned by the caller's unit
func DeleteRisk(c *gin.Context) {
	scope := scopeFromContext(c)
	if scope.UnitID == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your account is not assigned to a unit"})
		return
	}

	var risk models.Risk
	if err := config.DB.
		Where("risk_id = ? AND unit_id = ? AND delete_at IS NULL", c.Param("id"), *scope.UnitID).
		First(&risk).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Risk not found"})
		return
	}

	now := time.Now()
	risk.DeleteAt = &now
	if err := config.DB.Save(&risk).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete risk"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Risk deleted",
	})
}
