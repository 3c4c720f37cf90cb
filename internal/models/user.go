package models

import (
	"strings"
	"time"
)

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

// Valid reports whether r is patient or doctor.
func (r Role) Valid() bool {
	return r == RolePatient || r == RoleDoctor
}

// User is a registered account. Password holds an encoded hash produced by
// cryptox, never the cleartext.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"`
	UserType  Role      `json:"userType"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	// Patient profile.
	Phone            string `json:"phone,omitempty"`
	DateOfBirth      string `json:"dateOfBirth,omitempty"`
	EmergencyContact string `json:"emergencyContact,omitempty"`

	// Doctor profile. DoctorID links the account to the doctor directory.
	Specialty     string `json:"specialty,omitempty"`
	LicenseNumber string `json:"licenseNumber,omitempty"`
	Experience    string `json:"experience,omitempty"`
	DoctorID      int    `json:"doctorId,omitempty"`
}

// Public returns a copy without the password hash.
func (u User) Public() User {
	u.Password = ""
	return u
}

// NormalizeEmail is the canonical form used for lookups and uniqueness.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
