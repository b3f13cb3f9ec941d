package leads

import (
	"database/sql"
	"fmt"

	"github.com/lotesmx/leadbot/internal/models"
)

// nilIfEmpty returns nil if s is empty, otherwise returns s.
// Used for nullable database columns.
func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// scanLeads reads lead rows shared by both backends.
func scanLeads(rows *sql.Rows) ([]models.Lead, error) {
	var leads []models.Lead
	for rows.Next() {
		var l models.Lead
		var intent, preference string
		var scheduleText sql.NullString
		if err := rows.Scan(&l.ID, &intent, &l.Name, &l.Phone, &preference, &scheduleText, &l.UserID, &l.Timestamp); err != nil {
			return nil, fmt.Errorf("scan lead failed: %w", err)
		}
		l.Intent = models.Intent(intent)
		l.Preference = models.Preference(preference)
		l.ScheduleText = scheduleText.String
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}
