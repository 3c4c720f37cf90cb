package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/medibook/internal/common"
	"github.com/dmitrijs2005/medibook/internal/logging"
	"github.com/dmitrijs2005/medibook/internal/models"
	"github.com/dmitrijs2005/medibook/internal/repositories/appointments"
	"github.com/dmitrijs2005/medibook/internal/scheduling"
)

// CalendarDays is how many days ahead the booking calendar reaches.
const CalendarDays = 14

// BookingRequest is a patient's choice of slot plus the booking form.
type BookingRequest struct {
	DoctorID int
	Date     string
	Time     string
	Form     scheduling.AppointmentForm
}

// AppointmentService defines booking and status operations. Doctor views take
// the doctor to show; doctor accounts may manage any doctor's list.
type AppointmentService interface {
	Book(ctx context.Context, user *models.User, req BookingRequest) (*models.Appointment, map[string]string, error)
	Upcoming(ctx context.Context, user *models.User) ([]models.Appointment, error)
	Calendar(ctx context.Context, doctorID int) ([]scheduling.Day, error)
	Schedule(ctx context.Context, user *models.User, doctorID int) ([]scheduling.DateGroup, error)
	Stats(ctx context.Context, user *models.User, doctorID int) (scheduling.Stats, error)

	Confirm(ctx context.Context, user *models.User, id string) (*models.Appointment, error)
	Decline(ctx context.Context, user *models.User, id string) (*models.Appointment, error)
	Cancel(ctx context.Context, user *models.User, id string) (*models.Appointment, error)

	// CompletePast marks confirmed appointments dated before today completed.
	CompletePast(ctx context.Context) (int, error)
	// RepairSlots drops slot claims no live appointment backs.
	RepairSlots(ctx context.Context) (int, error)
}

type appointmentService struct {
	repo appointments.Repository
	log  logging.Logger
	now  func() time.Time
}

// NewAppointmentService constructs an AppointmentService. A nil now uses the
// wall clock.
func NewAppointmentService(repo appointments.Repository, log logging.Logger, now func() time.Time) AppointmentService {
	if log == nil {
		log = logging.Discard()
	}
	if now == nil {
		now = time.Now
	}
	return &appointmentService{repo: repo, log: log.With("component", "appointments"), now: now}
}

func (s *appointmentService) today() time.Time {
	return s.now()
}

func requireRole(user *models.User, role models.Role) error {
	if user == nil || user.UserType != role {
		return common.ErrUnauthorized
	}
	return nil
}

func (s *appointmentService) Book(ctx context.Context, user *models.User, req BookingRequest) (*models.Appointment, map[string]string, error) {
	if err := requireRole(user, models.RolePatient); err != nil {
		return nil, nil, err
	}
	if _, ok := models.FindDoctor(req.DoctorID); !ok {
		return nil, nil, fmt.Errorf("%w: %d", common.ErrUnknownDoctor, req.DoctorID)
	}

	// name and email come from the account, phone from the profile when set
	form := req.Form
	form.PatientName = user.Name
	form.PatientEmail = user.Email
	if strings.TrimSpace(user.Phone) != "" {
		form.PatientPhone = user.Phone
	}

	errs := scheduling.ValidateAppointmentForm(form)
	today := s.today()
	day, err := scheduling.ParseDate(req.Date, today)
	switch {
	case err != nil:
		errs["date"] = "Please select a valid date"
	case models.FormatDay(day) < models.FormatDay(today):
		errs["date"] = "Date must be today or later"
	}
	if !scheduling.IsValidTimeSlot(req.Time) {
		errs["time"] = "Please select an available time slot"
	}
	if len(errs) > 0 {
		return nil, errs, nil
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !scheduling.IsSlotAvailable(all, req.DoctorID, req.Date, req.Time) {
		return nil, nil, common.ErrSlotTaken
	}

	a := &models.Appointment{
		ID:           scheduling.GenerateAppointmentID(),
		DoctorID:     req.DoctorID,
		Date:         req.Date,
		Time:         req.Time,
		Status:       models.StatusPending,
		PatientName:  strings.TrimSpace(form.PatientName),
		PatientEmail: strings.TrimSpace(form.PatientEmail),
		PatientPhone: strings.TrimSpace(form.PatientPhone),
		Reason:       strings.TrimSpace(form.Reason),
		Notes:        strings.TrimSpace(form.Notes),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, nil, err
	}
	s.log.Info(ctx, "appointment booked",
		"appointment_id", a.ID, "doctor_id", a.DoctorID, "date", a.Date, "time", a.Time)
	return a, nil, nil
}

func (s *appointmentService) Upcoming(ctx context.Context, user *models.User) ([]models.Appointment, error) {
	if user == nil {
		return nil, common.ErrUnauthorized
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	key := user.Email
	if user.UserType == models.RoleDoctor {
		key = fmt.Sprint(s.doctorFor(user, 0))
	}
	return scheduling.UpcomingAppointments(all, user.UserType, key, s.today()), nil
}

func (s *appointmentService) Calendar(ctx context.Context, doctorID int) ([]scheduling.Day, error) {
	if _, ok := models.FindDoctor(doctorID); !ok {
		return nil, fmt.Errorf("%w: %d", common.ErrUnknownDoctor, doctorID)
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return scheduling.Calendar(all, doctorID, s.today(), CalendarDays), nil
}

// doctorFor picks the doctor a view is about: the explicit id, else the one
// linked to the account, else the first in the directory.
func (s *appointmentService) doctorFor(user *models.User, doctorID int) int {
	if doctorID != 0 {
		return doctorID
	}
	if user != nil && user.DoctorID != 0 {
		return user.DoctorID
	}
	return models.Doctors()[0].ID
}

func (s *appointmentService) doctorView(ctx context.Context, user *models.User, doctorID int) ([]models.Appointment, int, error) {
	if err := requireRole(user, models.RoleDoctor); err != nil {
		return nil, 0, err
	}
	id := s.doctorFor(user, doctorID)
	if _, ok := models.FindDoctor(id); !ok {
		return nil, 0, fmt.Errorf("%w: %d", common.ErrUnknownDoctor, id)
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	return all, id, nil
}

func (s *appointmentService) Schedule(ctx context.Context, user *models.User, doctorID int) ([]scheduling.DateGroup, error) {
	all, id, err := s.doctorView(ctx, user, doctorID)
	if err != nil {
		return nil, err
	}
	upcoming := scheduling.UpcomingAppointments(all, models.RoleDoctor, fmt.Sprint(id), s.today())
	return scheduling.GroupByDate(upcoming), nil
}

func (s *appointmentService) Stats(ctx context.Context, user *models.User, doctorID int) (scheduling.Stats, error) {
	all, id, err := s.doctorView(ctx, user, doctorID)
	if err != nil {
		return scheduling.Stats{}, err
	}
	return scheduling.DoctorStats(all, id, s.today()), nil
}

// transition loads id, lets check veto the move and persists next.
func (s *appointmentService) transition(ctx context.Context, id string, next models.AppointmentStatus, check func(a *models.Appointment) error) (*models.Appointment, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := check(a); err != nil {
		return nil, err
	}
	prev := a.Status
	if err := a.Transition(next, s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "status changed", "appointment_id", a.ID, "from", string(prev), "to", string(next))
	return a, nil
}

func (s *appointmentService) Confirm(ctx context.Context, user *models.User, id string) (*models.Appointment, error) {
	if err := requireRole(user, models.RoleDoctor); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, models.StatusConfirmed, func(*models.Appointment) error { return nil })
}

// Decline rejects a pending request.
func (s *appointmentService) Decline(ctx context.Context, user *models.User, id string) (*models.Appointment, error) {
	if err := requireRole(user, models.RoleDoctor); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, models.StatusCancelled, func(a *models.Appointment) error {
		if a.Status != models.StatusPending {
			return fmt.Errorf("%w: only pending appointments can be declined", common.ErrInvalidTransition)
		}
		return nil
	})
}

// Cancel lets patients cancel their own pending or confirmed appointments and
// doctors cancel confirmed ones.
func (s *appointmentService) Cancel(ctx context.Context, user *models.User, id string) (*models.Appointment, error) {
	if user == nil {
		return nil, common.ErrUnauthorized
	}
	return s.transition(ctx, id, models.StatusCancelled, func(a *models.Appointment) error {
		switch user.UserType {
		case models.RolePatient:
			if !strings.EqualFold(a.PatientEmail, user.Email) {
				return common.ErrUnauthorized
			}
		case models.RoleDoctor:
			if a.Status != models.StatusConfirmed {
				return fmt.Errorf("%w: doctors cancel confirmed appointments, decline pending ones", common.ErrInvalidTransition)
			}
		default:
			return common.ErrUnauthorized
		}
		return nil
	})
}

func (s *appointmentService) CompletePast(ctx context.Context) (int, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	today := models.FormatDay(s.today())
	at := s.now().UTC()

	done := 0
	var errs []error
	for i := range all {
		a := &all[i]
		if a.Status != models.StatusConfirmed || a.Date >= today {
			continue
		}
		if err := a.Transition(models.StatusCompleted, at); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := s.repo.Update(ctx, a); err != nil {
			errs = append(errs, err)
			continue
		}
		done++
	}
	if done > 0 {
		s.log.Info(ctx, "appointments completed", "count", done)
	}
	return done, errors.Join(errs...)
}

func (s *appointmentService) RepairSlots(ctx context.Context) (int, error) {
	n, err := s.repo.RepairSlots(ctx)
	if n > 0 {
		s.log.Warn(ctx, "stale slot claims released", "count", n)
	}
	return n, err
}
