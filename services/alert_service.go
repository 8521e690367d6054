package services

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"quality-portal-api/config"
	"quality-portal-api/models"
	"quality-portal-api/utils"
)

// AlertService emails units that still owe compliance documents. It is a
// consumer of the missing-list aggregation, not part of the engine itself:
// a failed email never blocks or alters any compliance computation.
type AlertService struct {
	db    *gorm.DB
	scope *ScopeService
}

func NewAlertService(db *gorm.DB) *AlertService {
	return &AlertService{db: db, scope: NewScopeService(db)}
}

// SendMissingDocumentAlerts mails every incomplete unit's contributors
// their outstanding document list for the year. Returns the number of
// alert emails sent; per-unit mail failures are logged and skipped so one
// bad address does not starve the rest of the run.
func (s *AlertService) SendMissingDocumentAlerts(year int, campusID *int) (int, error) {
	catalog, err := GetReportTypes()
	if err != nil {
		return 0, err
	}

	rows, err := s.scope.ListUnitCycleSubmissions(AdminScope(), year, campusID)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, entry := range BuildMissingList(catalog, rows) {
		var recipients []models.User
		if err := s.db.
			Where("unit_id = ? AND role_id = ? AND delete_at IS NULL", entry.UnitID, models.RoleContributor).
			Find(&recipients).Error; err != nil {
			return sent, fmt.Errorf("failed to load recipients for unit %d: %w", entry.UnitID, err)
		}

		// Imported legacy accounts sometimes carry placeholder addresses;
		// sending to those would bounce the whole batch on strict relays.
		emails := make([]string, 0, len(recipients))
		for _, user := range recipients {
			if utils.ValidateEmail(user.Email) {
				emails = append(emails, user.Email)
			}
		}
		if len(emails) == 0 {
			continue
		}

		subject := fmt.Sprintf("Outstanding quality documents for %d", year)
		if err := config.SendMail(emails, subject, missingAlertBody(entry, year)); err != nil {
			log.Printf("Warning: missing-document alert for unit %d failed: %v", entry.UnitID, err)
			continue
		}
		sent++
	}
	return sent, nil
}

func missingAlertBody(entry MissingEntry, year int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>%s (%s) has %d outstanding document(s) for %d.</p>",
		entry.UnitName, entry.CampusName, entry.MissingCount, year)

	writeCycle := func(label string, missing []models.ReportType) {
		if len(missing) == 0 {
			return
		}
		fmt.Fprintf(&b, "<p><strong>%s cycle</strong></p><ul>", label)
		for _, rt := range missing {
			fmt.Fprintf(&b, "<li>%s</li>", rt.TypeName)
		}
		b.WriteString("</ul>")
	}
	writeCycle("First", entry.MissingFirst)
	writeCycle("Final", entry.MissingFinal)

	b.WriteString("<p>Please submit the documents above in the quality portal.</p>")
	return b.String()
}
