package controllers

import (
	"net/http"
	"strconv"
	"time"

	"quality-portal-api/config"
	"quality-portal-api/models"
	"quality-portal-api/services"

	"github.com/gin-gonic/gin"
)

// yearQuery reads the mandatory year parameter, defaulting to the current
// academic year when omitted.
func yearQuery(c *gin.Context) (int, bool) {
	raw := c.Query("year")
	if raw == "" {
		return time.Now().Year(), true
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return year, true
}

// GetLeaderboard returns the star-rated completion leaderboard for a
// campus, or institution-wide when no campus filter is given.
func GetLeaderboard(c *gin.Context) {
	year, ok := yearQuery(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return
	}
	campusID, ok := intQuery(c, "campus_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid campus_id"})
		return
	}

	catalog, err := services.GetReportTypes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load report types"})
		return
	}

	scopeService := services.NewScopeService(config.DB)
	rows, err := scopeService.ListUnitCycleSubmissions(scopeFromContext(c), year, campusID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"year":        year,
		"leaderboard": services.BuildLeaderboard(catalog, rows),
	})
}

// GetMissingList returns units that still owe documents for the year,
// worst offenders first.
func GetMissingList(c *gin.Context) {
	year, ok := yearQuery(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return
	}
	campusID, ok := intQuery(c, "campus_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid campus_id"})
		return
	}

	catalog, err := services.GetReportTypes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load report types"})
		return
	}

	scopeService := services.NewScopeService(config.DB)
	rows, err := scopeService.ListUnitCycleSubmissions(scopeFromContext(c), year, campusID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"year":    year,
		"missing": services.BuildMissingList(catalog, rows),
	})
}

// GetUnitScorecard returns one unit's two-cycle completion detail for a
// year: per-cycle counts, percentages, the missing-type action items and
// the combined annual figure.
func GetUnitScorecard(c *gin.Context) {
	unitID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid unit id"})
		return
	}
	year, ok := yearQuery(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return
	}
	campusID, ok := intQuery(c, "campus_id")
	if !ok || campusID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "campus_id is required"})
		return
	}

	catalog, err := services.GetReportTypes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load report types"})
		return
	}

	scope := scopeFromContext(c)
	scopeService := services.NewScopeService(config.DB)

	cycles := make(map[string]services.Completion, 2)
	for _, cycleID := range []string{models.CycleFirst, models.CycleFinal} {
		cycle := cycleID
		submissions, err := scopeService.ListSubmissions(scope, services.SubmissionFilter{
			UnitID:   &unitID,
			CampusID: campusID,
			Year:     &year,
			CycleID:  &cycle,
		})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cycles[cycleID] = services.EvaluateCycle(catalog, submissions)
	}

	first := cycles[models.CycleFirst]
	final := cycles[models.CycleFinal]
	combined := services.CombinedPercentage(first, final)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"unit_id": unitID,
		"year":    year,
		"first":   first,
		"final":   final,
		"combined": gin.H{
			"approved_count": first.ApprovedCount + final.ApprovedCount,
			"required_count": first.RequiredCount + final.RequiredCount,
			"percentage":     combined,
			"stars":          services.StarsForPercentage(combined),
		},
	})
}

// SendMissingAlerts emails incomplete units their outstanding document
// lists. Admin only.
func SendMissingAlerts(c *gin.Context) {
	year, ok := yearQuery(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return
	}
	campusID, ok := intQuery(c, "campus_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid campus_id"})
		return
	}

	alerts := services.NewAlertService(config.DB)
	sent, err := alerts.SendMissingDocumentAlerts(year, campusID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"sent":    sent,
	})
}
