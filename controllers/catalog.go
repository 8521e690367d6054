package controllers

import (
	"net/http"

	"quality-portal-api/config"
	"quality-portal-api/models"
	"quality-portal-api/services"

	"github.com/gin-gonic/gin"
)

// GetReportTypes returns the canonical report type catalog in display order
func GetReportTypes(c *gin.Context) {
	types, err := services.GetReportTypes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load report types"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"report_types": types,
	})
}

// GetCampuses returns active campuses
func GetCampuses(c *gin.Context) {
	var campuses []models.Campus
	if err := config.DB.
		Where("delete_at IS NULL AND is_active = ?", true).
		Order("campus_name ASC").
		Find(&campuses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch campuses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"campuses": campuses,
	})
}

// GetUnits returns active units with their campuses
func GetUnits(c *gin.Context) {
	query := config.DB.Where("delete_at IS NULL AND is_active = ?", true)

	campusID, ok := intQuery(c, "campus_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid campus_id"})
		return
	}
	if campusID != nil {
		query = query.
			Joins("JOIN unit_campuses uc ON uc.unit_id = units.unit_id").
			Where("uc.campus_id = ?", *campusID)
	}

	var units []models.Unit
	if err := query.Preload("Campuses").Order("unit_name ASC").Find(&units).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch units"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"units":   units,
	})
}
