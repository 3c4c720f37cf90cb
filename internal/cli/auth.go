package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/medibook/internal/common"
	"github.com/dmitrijs2005/medibook/internal/format"
	"github.com/dmitrijs2005/medibook/internal/models"
	"github.com/dmitrijs2005/medibook/internal/services"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

func (a *App) requireUser(ctx context.Context) (*models.User, error) {
	u := a.currentUser(ctx)
	if u == nil {
		return nil, errLoginRequired
	}
	return u, nil
}

// Login prompts for email and password and starts a session.
func (a *App) Login(ctx context.Context, _ []string) error {
	if u := a.currentUser(ctx); u != nil {
		fmt.Fprintf(a.out, "Already logged in as %s. Type 'logout' first.\n", u.Email)
		return nil
	}

	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	fmt.Fprintln(a.out, "Signing in...")
	u, errs, err := a.authService.Login(ctx, services.LoginForm{Email: email, Password: string(password)})
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		fmt.Fprintln(a.out, formatFieldErrors(errs))
		return nil
	}

	fmt.Fprintf(a.out, "Welcome back, %s!\n", u.Name)
	return nil
}

// Signup prompts for the account fields of the chosen role, creates the
// account and signs it in.
func (a *App) Signup(ctx context.Context, _ []string) error {
	if u := a.currentUser(ctx); u != nil {
		fmt.Fprintf(a.out, "Already logged in as %s. Type 'logout' first.\n", u.Email)
		return nil
	}

	var f services.SignupForm
	role, err := getSimpleText(a.reader, "Account type (patient/doctor)", a.out)
	if err != nil {
		return err
	}
	f.UserType = models.Role(strings.ToLower(role))

	prompts := []struct {
		label string
		dst   *string
	}{
		{"Full name", &f.Name},
		{"Email", &f.Email},
	}
	for _, p := range prompts {
		if *p.dst, err = getSimpleText(a.reader, p.label, a.out); err != nil {
			return err
		}
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)
	f.Password, f.ConfirmPassword = string(password), string(confirm)

	switch f.UserType {
	case models.RolePatient:
		prompts = []struct {
			label string
			dst   *string
		}{
			{"Phone", &f.Phone},
			{"Date of birth (YYYY-MM-DD)", &f.DateOfBirth},
			{"Emergency contact", &f.EmergencyContact},
		}
	case models.RoleDoctor:
		prompts = []struct {
			label string
			dst   *string
		}{
			{"Specialty", &f.Specialty},
			{"License number", &f.LicenseNumber},
			{"Years of experience", &f.Experience},
		}
	default:
		prompts = nil
	}
	for _, p := range prompts {
		if *p.dst, err = getSimpleText(a.reader, p.label, a.out); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.out, "Creating account...")
	u, errs, err := a.authService.Signup(ctx, f)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		fmt.Fprintln(a.out, formatFieldErrors(errs))
		return nil
	}

	fmt.Fprintf(a.out, "Account created. Welcome, %s!\n", u.Name)
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.authService.ClearCurrentUser(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context, _ []string) error {
	u, err := a.requireUser(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%s) <%s>\n", u.Name, format.FormatUserRole(u.UserType), u.Email)
	switch u.UserType {
	case models.RolePatient:
		if u.Phone != "" {
			fmt.Fprintf(a.out, "Phone: %s\n", u.Phone)
		}
	case models.RoleDoctor:
		if d, ok := models.FindDoctor(u.DoctorID); ok {
			fmt.Fprintf(a.out, "Directory profile: %s, %s\n", d.Name, d.Specialty)
		}
	}
	return nil
}
