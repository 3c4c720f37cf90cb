package scheduling

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/medibook/internal/models"
)

// UpcomingAppointments returns the appointments dated today or later that
// belong to the user. For doctors identityKey is the decimal doctor id, for
// patients it is the email, compared case-insensitively. The result is a new
// slice sorted by date, then time. Appointments with malformed dates are
// skipped.
func UpcomingAppointments(appointments []models.Appointment, role models.Role, identityKey string, today time.Time) []models.Appointment {
	todayStr := models.FormatDay(today)

	doctorID := -1
	if role == models.RoleDoctor {
		id, err := strconv.Atoi(strings.TrimSpace(identityKey))
		if err != nil {
			return []models.Appointment{}
		}
		doctorID = id
	}

	result := make([]models.Appointment, 0)
	for _, a := range appointments {
		if _, err := models.ParseDate(a.Date, today.Location()); err != nil {
			continue
		}
		if a.Date < todayStr {
			continue
		}
		switch role {
		case models.RoleDoctor:
			if a.DoctorID != doctorID {
				continue
			}
		default:
			if !strings.EqualFold(strings.TrimSpace(a.PatientEmail), strings.TrimSpace(identityKey)) {
				continue
			}
		}
		result = append(result, a)
	}

	sortByDateTime(result)
	return result
}

func sortByDateTime(appts []models.Appointment) {
	sort.SliceStable(appts, func(i, j int) bool {
		if appts[i].Date != appts[j].Date {
			return appts[i].Date < appts[j].Date
		}
		return appts[i].Time < appts[j].Time
	})
}
