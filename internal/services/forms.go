package services

import (
	"regexp"
	"strings"

	"github.com/dmitrijs2005/medibook/internal/models"
)

// Messages shown for flows that fail as a whole rather than per field.
const (
	MsgInvalidCredentials = "Invalid email or password. Please try again."
	MsgEmailTaken         = "An account with this email address already exists."
)

const minPasswordLength = 6

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether email looks like an address.
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

type LoginForm struct {
	Email    string
	Password string
}

type SignupForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	UserType        models.Role

	Phone            string
	DateOfBirth      string
	EmergencyContact string

	Specialty     string
	LicenseNumber string
	Experience    string
}

func validateEmailField(errs map[string]string, email string) {
	switch {
	case strings.TrimSpace(email) == "":
		errs["email"] = "Email is required"
	case !ValidEmail(email):
		errs["email"] = "Please enter a valid email address"
	}
}

func ValidateLoginForm(f LoginForm) map[string]string {
	errs := make(map[string]string)
	validateEmailField(errs, f.Email)
	if f.Password == "" {
		errs["password"] = "Password is required"
	}
	return errs
}

func ValidateSignupForm(f SignupForm) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "Full name is required"
	}
	validateEmailField(errs, f.Email)

	switch {
	case f.Password == "":
		errs["password"] = "Password is required"
	case len(f.Password) < minPasswordLength:
		errs["password"] = "Password must be at least 6 characters long"
	}
	if f.Password != f.ConfirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}

	switch f.UserType {
	case models.RolePatient:
		if strings.TrimSpace(f.Phone) == "" {
			errs["phone"] = "Phone number is required"
		}
		if f.DateOfBirth == "" {
			errs["dateOfBirth"] = "Date of birth is required"
		}
		if strings.TrimSpace(f.EmergencyContact) == "" {
			errs["emergencyContact"] = "Emergency contact is required"
		}
	case models.RoleDoctor:
		if strings.TrimSpace(f.Specialty) == "" {
			errs["specialty"] = "Specialty is required"
		}
		if strings.TrimSpace(f.LicenseNumber) == "" {
			errs["licenseNumber"] = "Medical license number is required"
		}
		if strings.TrimSpace(f.Experience) == "" {
			errs["experience"] = "Years of experience is required"
		}
	default:
		errs["userType"] = "Please choose patient or doctor"
	}

	return errs
}
