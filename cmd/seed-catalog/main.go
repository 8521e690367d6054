// Seeds the report type catalog. Safe to re-run: existing type codes are
// left untouched so local edits to names or ordering survive.
// cmd/seed-catalog/main.go
package main

import (
	"log"

	"quality-portal-api/config"
	"quality-portal-api/models"

	"github.com/joho/godotenv"
)

var catalog = []models.ReportType{
	{TypeName: "Quality Objectives Plan", TypeCode: models.TypeCodeQualityObjectives, DisplayOrder: 1},
	{TypeName: "Needs and Expectations of Interested Parties", TypeCode: models.TypeCodeInterestedParties, DisplayOrder: 2, CarryOverEligible: true},
	{TypeName: "Context of the Organization Analysis", TypeCode: models.TypeCodeOrgContext, DisplayOrder: 3, CarryOverEligible: true},
	{TypeName: "Risk and Opportunity Registry", TypeCode: models.TypeCodeRiskRegistry, DisplayOrder: 4},
	{TypeName: "Risk/Opportunity Action Plan", TypeCode: models.TypeCodeActionPlan, DisplayOrder: 5},
	{TypeName: "Management Review Minutes", TypeCode: models.TypeCodeManagementReview, DisplayOrder: 6},
}

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	config.InitDB()

	for _, entry := range catalog {
		var count int64
		if err := config.DB.Model(&models.ReportType{}).
			Where("type_code = ?", entry.TypeCode).
			Count(&count).Error; err != nil {
			log.Fatal("Failed to check report type:", err)
		}
		if count > 0 {
			log.Printf("Report type %s already present, skipping\n", entry.TypeCode)
			continue
		}

		entry.IsActive = true
		if err := config.DB.Create(&entry).Error; err != nil {
			log.Fatal("Failed to seed report type:", err)
		}
		log.Printf("Seeded report type %s\n", entry.TypeCode)
	}

	log.Println("Report type catalog seeding completed!")
}
