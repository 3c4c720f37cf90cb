package scheduling

import (
	"strconv"
	"time"

	"github.com/dmitrijs2005/medibook/internal/models"
)

// Stats are the counters on the doctor dashboard.
type Stats struct {
	Today     int
	Pending   int
	Confirmed int
	Total     int
}

// DoctorStats counts today's non-cancelled appointments and the
// pending/confirmed/total split of the doctor's upcoming appointments.
func DoctorStats(appointments []models.Appointment, doctorID int, today time.Time) Stats {
	todayStr := models.FormatDay(today)

	var s Stats
	for i := range appointments {
		a := &appointments[i]
		if a.DoctorID == doctorID && a.Date == todayStr && a.Occupies() {
			s.Today++
		}
	}

	upcoming := UpcomingAppointments(appointments, models.RoleDoctor, strconv.Itoa(doctorID), today)
	for _, a := range upcoming {
		switch a.Status {
		case models.StatusPending:
			s.Pending++
		case models.StatusConfirmed:
			s.Confirmed++
		}
	}
	s.Total = len(upcoming)
	return s
}

// DateGroup is one day of the doctor schedule.
type DateGroup struct {
	Date         string
	Appointments []models.Appointment
}

// GroupByDate groups appointments per date, dates ascending and each day
// ordered by time.
func GroupByDate(appointments []models.Appointment) []DateGroup {
	sorted := make([]models.Appointment, len(appointments))
	copy(sorted, appointments)
	sortByDateTime(sorted)

	var groups []DateGroup
	for _, a := range sorted {
		if n := len(groups); n > 0 && groups[n-1].Date == a.Date {
			groups[n-1].Appointments = append(groups[n-1].Appointments, a)
			continue
		}
		groups = append(groups, DateGroup{Date: a.Date, Appointments: []models.Appointment{a}})
	}
	return groups
}
