package scheduling

import (
	"regexp"
	"strings"
)

// AppointmentForm is the patient-entered part of a booking.
type AppointmentForm struct {
	PatientName  string
	PatientEmail string
	PatientPhone string
	Reason       string
	Notes        string
}

var formEmailRe = regexp.MustCompile(`\S+@\S+\.\S+`)

// ValidateAppointmentForm returns field -> message for every invalid field.
// The map is empty when the form is valid.
func ValidateAppointmentForm(f AppointmentForm) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(f.PatientName) == "" {
		errs["patientName"] = "Patient name is required"
	}

	switch {
	case strings.TrimSpace(f.PatientEmail) == "":
		errs["patientEmail"] = "Email is required"
	case !formEmailRe.MatchString(f.PatientEmail):
		errs["patientEmail"] = "Email is invalid"
	}

	if strings.TrimSpace(f.PatientPhone) == "" {
		errs["patientPhone"] = "Phone number is required"
	}

	if strings.TrimSpace(f.Reason) == "" {
		errs["reason"] = "Reason for visit is required"
	}

	return errs
}
