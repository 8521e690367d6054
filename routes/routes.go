package routes

import (
	"quality-portal-api/controllers"
	"quality-portal-api/middleware"
	"quality-portal-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Public transparency view
			public.GET("/compliance-matrix", controllers.GetComplianceMatrix)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Quality Portal API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.POST("/refresh", controllers.RefreshToken)
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Common endpoints (all authenticated users)
			protected.GET("/report-types", controllers.GetReportTypes)
			protected.GET("/campuses", controllers.GetCampuses)
			protected.GET("/units", controllers.GetUnits)

			// Submissions
			submissions := protected.Group("/submissions")
			{
				submissions.GET("", controllers.GetSubmissions)
				submissions.GET("/:id", controllers.GetSubmission)
				submissions.POST("/:id/comments", controllers.AddSubmissionComment)

				// Only unit contributors submit or carry over documents
				submissions.POST("", middleware.RequireRole(models.RoleContributor), controllers.CreateSubmission)
				submissions.POST("/carry-over", middleware.RequireRole(models.RoleContributor), controllers.CarryOverSubmission)

				// Supervisors and admins decide
				submissions.PUT("/:id/status",
					middleware.RequireRole(models.RoleCampusSupervisor, models.RoleAdmin),
					controllers.UpdateSubmissionStatus)
			}

			// Risks
			risks := protected.Group("/risks")
			{
				risks.GET("", controllers.GetRisks)
				risks.POST("/score", controllers.PreviewRiskScore)
				risks.POST("", middleware.RequireRole(models.RoleContributor), controllers.CreateRisk)
				risks.PUT("/:id", middleware.RequireRole(models.RoleContributor), controllers.UpdateRisk)
				risks.DELETE("/:id", middleware.RequireRole(models.RoleContributor), controllers.DeleteRisk)
			}

			// Dashboards
			dashboard := protected.Group("/dashboard")
			{
				dashboard.GET("/leaderboard", controllers.GetLeaderboard)
				dashboard.GET("/missing", controllers.GetMissingList)
				dashboard.GET("/unit/:id", controllers.GetUnitScorecard)
			}

			// Admin-only operations
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/compliance-matrix", controllers.GetComplianceMatrix)
				admin.POST("/alerts/missing", controllers.SendMissingAlerts)
			}
		}

	}

	// 404 catch-all for unknown API paths
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "Endpoint not found"})
	})
}
