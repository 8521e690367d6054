package controllers

import (
	"net/http"

	"quality-portal-api/config"
	"quality-portal-api/services"

	"github.com/gin-gonic/gin"
)

// GetComplianceMatrix returns the institution-wide submission presence
// grid keyed by "{campus}-{unit}-{report type}-{cycle}". It backs both the
// public transparency page and the internal admin report, and counts any
// current record as submitted regardless of approval — intentionally looser
// than the approved-only leaderboard.
func GetComplianceMatrix(c *gin.Context) {
	year, ok := yearQuery(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return
	}

	catalog, err := services.GetReportTypes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load report types"})
		return
	}

	// The matrix is institution-wide by definition, so it always reads
	// with the unrestricted scope even on the public route.
	scopeService := services.NewScopeService(config.DB)
	rows, err := scopeService.ListUnitCycleSubmissions(services.AdminScope(), year, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"year":    year,
		"matrix":  services.BuildComplianceMatrix(catalog, rows),
	})
}
