package scheduling

import (
	"time"

	"github.com/dmitrijs2005/medibook/internal/models"
)

// IsSlotAvailable reports whether no non-cancelled appointment holds the
// doctor's slot at date and time.
func IsSlotAvailable(appointments []models.Appointment, doctorID int, date, time string) bool {
	for i := range appointments {
		a := &appointments[i]
		if a.DoctorID == doctorID && a.Date == date && a.Time == time && a.Occupies() {
			return false
		}
	}
	return true
}

// IsValidTimeSlot reports whether t is a bookable slot.
func IsValidTimeSlot(t string) bool {
	return models.IsValidTimeSlot(t)
}

// ParseDate parses an ISO date in today's location.
func ParseDate(s string, today time.Time) (time.Time, error) {
	return models.ParseDate(s, today.Location())
}

// BookingDates returns n consecutive calendar dates starting with today's date.
func BookingDates(today time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

// DaySlot is one cell of the booking calendar.
type DaySlot struct {
	Time      string
	Available bool
}

// Day is one calendar date with its slots.
type Day struct {
	Date  string
	Slots []DaySlot
}

// Calendar builds the booking grid for a doctor: n dates from today, each
// with every time slot and its availability.
func Calendar(appointments []models.Appointment, doctorID int, today time.Time, n int) []Day {
	dates := BookingDates(today, n)
	slots := models.TimeSlots()
	days := make([]Day, 0, len(dates))
	for _, d := range dates {
		date := models.FormatDay(d)
		day := Day{Date: date, Slots: make([]DaySlot, 0, len(slots))}
		for _, t := range slots {
			day.Slots = append(day.Slots, DaySlot{
				Time:      t,
				Available: IsSlotAvailable(appointments, doctorID, date, t),
			})
		}
		days = append(days, day)
	}
	return days
}
