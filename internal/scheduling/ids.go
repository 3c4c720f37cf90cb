package scheduling

import "github.com/google/uuid"

// GenerateAppointmentID returns a time-ordered unique id (UUIDv7).
func GenerateAppointmentID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
