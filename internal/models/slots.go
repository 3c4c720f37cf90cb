package models

// timeSlots are the bookable half-hour starts, morning and afternoon blocks.
var timeSlots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"14:00", "14:30", "15:00", "15:30", "16:00", "16:30", "17:00",
}

// TimeSlots returns a copy of the bookable slot list in chronological order.
func TimeSlots() []string {
	out := make([]string, len(timeSlots))
	copy(out, timeSlots)
	return out
}

// IsValidTimeSlot reports whether t is one of the bookable slots.
func IsValidTimeSlot(t string) bool {
	for _, s := range timeSlots {
		if s == t {
			return true
		}
	}
	return false
}
