package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/medibook/internal/format"
	"github.com/dmitrijs2005/medibook/internal/models"
	"github.com/dmitrijs2005/medibook/internal/scheduling"
	"github.com/dmitrijs2005/medibook/internal/services"
)

func (a *App) Doctors(_ context.Context, _ []string) error {
	for _, d := range models.Doctors() {
		fmt.Fprintf(a.out, "%d. %s, %s, %s experience, rated %.1f\n", d.ID, d.Name, d.Specialty, d.Experience, d.Rating)
	}
	return nil
}

func parseDoctorID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, usageError("doctor id must be a number, see 'doctors'")
	}
	return id, nil
}

// optionalDoctorID parses an optional first argument. Zero means "default".
func optionalDoctorID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	return parseDoctorID(args[0])
}

func displayDate(date string) string {
	t, err := models.ParseDate(date, time.Local)
	if err != nil {
		return date
	}
	return format.FormatDate(t)
}

func doctorName(id int) string {
	if d, ok := models.FindDoctor(id); ok {
		return d.Name
	}
	return "Doctor #" + strconv.Itoa(id)
}

// Calendar prints the doctor's booking grid. Taken slots show as dashes.
func (a *App) Calendar(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("calendar <doctorID>")
	}
	id, err := parseDoctorID(args[0])
	if err != nil {
		return err
	}
	days, err := a.apptService.Calendar(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Available times for %s (----- = taken):\n", doctorName(id))
	for _, day := range days {
		cells := make([]string, 0, len(day.Slots))
		for _, s := range day.Slots {
			if s.Available {
				cells = append(cells, s.Time)
			} else {
				cells = append(cells, "-----")
			}
		}
		label := day.Date
		if t, err := models.ParseDate(day.Date, time.Local); err == nil {
			label = format.FormatShortWeekday(t)
		}
		fmt.Fprintf(a.out, "%-7s %s\n", label, strings.Join(cells, " "))
	}
	return nil
}

// Book requests an appointment. Missing doctor, date and time arguments are
// prompted for, followed by the visit details.
func (a *App) Book(ctx context.Context, args []string) error {
	u, err := a.requireUser(ctx)
	if err != nil {
		return err
	}
	if u.UserType != models.RolePatient {
		fmt.Fprintln(a.out, "Only patients can book appointments.")
		return nil
	}
	if len(args) > 3 {
		return usageError("book [doctorID date time]")
	}

	values := make([]string, 3)
	copy(values, args)
	labels := []string{"Doctor ID", "Date (YYYY-MM-DD)", "Time (HH:MM)"}
	for i := len(args); i < len(values); i++ {
		if values[i], err = getSimpleText(a.reader, labels[i], a.out); err != nil {
			return err
		}
	}
	id, err := parseDoctorID(values[0])
	if err != nil {
		return err
	}

	var form scheduling.AppointmentForm
	if strings.TrimSpace(u.Phone) == "" {
		if form.PatientPhone, err = getSimpleText(a.reader, "Phone", a.out); err != nil {
			return err
		}
	}
	if form.Reason, err = getSimpleText(a.reader, "Reason for visit", a.out); err != nil {
		return err
	}
	if form.Notes, err = getMultiline(a.reader, "Additional notes (optional)", a.out); err != nil {
		return err
	}

	appt, errs, err := a.apptService.Book(ctx, u, services.BookingRequest{
		DoctorID: id,
		Date:     values[1],
		Time:     values[2],
		Form:     form,
	})
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		fmt.Fprintln(a.out, formatFieldErrors(errs))
		return nil
	}

	fmt.Fprintf(a.out, "Appointment requested with %s on %s at %s (status: %s, id: %s)\n",
		doctorName(appt.DoctorID), displayDate(appt.Date), format.FormatTime(appt.Time),
		format.FormatStatus(appt.Status), appt.ID)
	return nil
}

func (a *App) printAppointment(appt models.Appointment, role models.Role) {
	who := doctorName(appt.DoctorID)
	if role == models.RoleDoctor {
		who = appt.PatientName
	}
	fmt.Fprintf(a.out, "  %s  %s at %s  %s  [%s]  %s\n",
		appt.ID, displayDate(appt.Date), format.FormatTime(appt.Time), who,
		format.FormatStatus(appt.Status), appt.Reason)
}

// Appointments lists the user's upcoming appointments.
func (a *App) Appointments(ctx context.Context, _ []string) error {
	u, err := a.requireUser(ctx)
	if err != nil {
		return err
	}
	list, err := a.apptService.Upcoming(ctx, u)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No upcoming appointments.")
		return nil
	}
	fmt.Fprintln(a.out, "Upcoming appointments:")
	for _, appt := range list {
		a.printAppointment(appt, u.UserType)
	}
	return nil
}

// Schedule prints a doctor's upcoming appointments grouped by date.
func (a *App) Schedule(ctx context.Context, args []string) error {
	u, err := a.requireUser(ctx)
	if err != nil {
		return err
	}
	id, err := optionalDoctorID(args)
	if err != nil {
		return err
	}
	groups, err := a.apptService.Schedule(ctx, u, id)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		fmt.Fprintln(a.out, "No upcoming appointments.")
		return nil
	}
	for _, g := range groups {
		fmt.Fprintln(a.out, displayDate(g.Date))
		for _, appt := range g.Appointments {
			a.printAppointment(appt, models.RoleDoctor)
		}
	}
	return nil
}

func (a *App) Stats(ctx context.Context, args []string) error {
	u, err := a.requireUser(ctx)
	if err != nil {
		return err
	}
	id, err := optionalDoctorID(args)
	if err != nil {
		return err
	}
	s, err := a.apptService.Stats(ctx, u, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Today: %d  Pending: %d  Confirmed: %d  Total upcoming: %d\n",
		s.Today, s.Pending, s.Confirmed, s.Total)
	return nil
}

type statusAction func(ctx context.Context, user *models.User, id string) (*models.Appointment, error)

func (a *App) changeStatus(ctx context.Context, args []string, name string, act statusAction) error {
	if len(args) != 1 {
		return usageError(name + " <appointmentID>")
	}
	u, err := a.requireUser(ctx)
	if err != nil {
		return err
	}
	appt, err := act(ctx, u, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Appointment %s is now %s.\n", appt.ID, format.FormatStatus(appt.Status))
	return nil
}

func (a *App) Confirm(ctx context.Context, args []string) error {
	return a.changeStatus(ctx, args, "confirm", a.apptService.Confirm)
}

func (a *App) Decline(ctx context.Context, args []string) error {
	return a.changeStatus(ctx, args, "decline", a.apptService.Decline)
}

func (a *App) Cancel(ctx context.Context, args []string) error {
	return a.changeStatus(ctx, args, "cancel", a.apptService.Cancel)
}
