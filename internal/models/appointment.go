// Package models defines the MediBook domain types: appointments, users,
// the static doctor directory and the bookable time slots.
package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/medibook/internal/common"
)

// DateLayout is the ISO calendar date used for Appointment.Date.
const DateLayout = "2006-01-02"

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// transitions lists the statuses reachable from each status.
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s AppointmentStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// CanTransition reports whether an appointment in status s may move to next.
func (s AppointmentStatus) CanTransition(next AppointmentStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment is a booking of one doctor slot by a patient.
type Appointment struct {
	ID           string            `json:"id"`
	DoctorID     int               `json:"doctorId"`
	Date         string            `json:"date"`
	Time         string            `json:"time"`
	Status       AppointmentStatus `json:"status"`
	PatientName  string            `json:"patientName"`
	PatientEmail string            `json:"patientEmail"`
	PatientPhone string            `json:"patientPhone"`
	Reason       string            `json:"reason"`
	Notes        string            `json:"notes,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt,omitzero"`
}

// Occupies reports whether the appointment holds its slot; cancelled
// appointments release it.
func (a *Appointment) Occupies() bool {
	return a.Status != StatusCancelled
}

// Transition moves the appointment to next, stamping UpdatedAt.
func (a *Appointment) Transition(next AppointmentStatus, at time.Time) error {
	if !a.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", common.ErrInvalidTransition, a.Status, next)
	}
	a.Status = next
	a.UpdatedAt = at
	return nil
}

// Day parses Date in loc. Malformed dates return an error.
func (a *Appointment) Day(loc *time.Location) (time.Time, error) {
	return ParseDate(a.Date, loc)
}

// ParseDate parses an ISO "YYYY-MM-DD" date at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, s, loc)
}

// FormatDay renders t as an ISO calendar date.
func FormatDay(t time.Time) string {
	return t.Format(DateLayout)
}
