package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/medibook/internal/common"
	"github.com/dmitrijs2005/medibook/internal/models"
	"github.com/dmitrijs2005/medibook/internal/repositories/appointments"
	"github.com/dmitrijs2005/medibook/internal/repositories/kv"
	"github.com/dmitrijs2005/medibook/internal/scheduling"
)

var (
	patientUser = &models.User{
		ID: "demo_patient_1", Email: "patient@example.com", UserType: models.RolePatient,
		Name: "John Doe", Phone: "+1 (555) 123-4567",
	}
	otherPatient = &models.User{
		ID: "p2", Email: "other@example.com", UserType: models.RolePatient, Name: "Ann Other",
	}
	doctorUser = &models.User{
		ID: "demo_doctor_1", Email: "dr.johnson@medibook.com", UserType: models.RoleDoctor,
		Name: "Dr. Sarah Johnson", DoctorID: 1,
	}
)

type apptFixture struct {
	svc   AppointmentService
	repo  *appointments.KVRepository
	clock *clock
}

func newApptFixture(t *testing.T) *apptFixture {
	t.Helper()
	repo := appointments.NewKVRepository(kv.NewMemory(), nil)
	c := &clock{t: time.Date(2030, 6, 10, 9, 0, 0, 0, time.UTC)}
	return &apptFixture{svc: NewAppointmentService(repo, nil, c.Now), repo: repo, clock: c}
}

func booking(doctorID int, date, tm string) BookingRequest {
	return BookingRequest{
		DoctorID: doctorID,
		Date:     date,
		Time:     tm,
		Form:     scheduling.AppointmentForm{PatientPhone: "+1 (555) 000-0000", Reason: "Checkup"},
	}
}

func (f *apptFixture) book(t *testing.T, user *models.User, req BookingRequest) *models.Appointment {
	t.Helper()
	a, errs, err := f.svc.Book(context.Background(), user, req)
	require.NoError(t, err)
	require.Empty(t, errs)
	return a
}

func TestBook_FillsFromAccount(t *testing.T) {
	f := newApptFixture(t)

	a := f.book(t, patientUser, booking(1, "2030-06-11", "09:30"))
	assert.Equal(t, models.StatusPending, a.Status)
	assert.Equal(t, "John Doe", a.PatientName)
	assert.Equal(t, "patient@example.com", a.PatientEmail)
	assert.Equal(t, "+1 (555) 123-4567", a.PatientPhone, "profile phone wins")
	assert.Equal(t, f.clock.t, a.CreatedAt)

	b := f.book(t, otherPatient, booking(1, "2030-06-11", "10:00"))
	assert.Equal(t, "+1 (555) 000-0000", b.PatientPhone, "form phone when profile has none")
}

func TestBook_Validation(t *testing.T) {
	f := newApptFixture(t)
	ctx := context.Background()

	req := booking(1, "2030-06-09", "12:00")
	req.Form.Reason = " "
	_, errs, err := f.svc.Book(ctx, otherPatient, req)
	require.NoError(t, err)
	assert.Equal(t, "Reason for visit is required", errs["reason"])
	assert.Contains(t, errs, "date")
	assert.Contains(t, errs, "time")

	_, errs, err = f.svc.Book(ctx, otherPatient, booking(1, "next week", "09:00"))
	require.NoError(t, err)
	assert.Contains(t, errs, "date")
}

func TestBook_Rejections(t *testing.T) {
	f := newApptFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.Book(ctx, doctorUser, booking(1, "2030-06-11", "09:00"))
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, _, err = f.svc.Book(ctx, nil, booking(1, "2030-06-11", "09:00"))
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, _, err = f.svc.Book(ctx, patientUser, booking(9, "2030-06-11", "09:00"))
	assert.ErrorIs(t, err, common.ErrUnknownDoctor)
}

func TestBook_SlotTakenUntilCancelled(t *testing.T) {
	f := newApptFixture(t)
	ctx := context.Background()

	a := f.book(t, patientUser, booking(2, "2030-06-12", "14:00"))

	_, _, err := f.svc.Book(ctx, otherPatient, booking(2, "2030-06-12", "14:00"))
	assert.ErrorIs(t, err, common.ErrSlotTaken)

	_, err = f.svc.Cancel(ctx, patientUser, a.ID)
	require.NoError(t, err)

	b := f.book(t, otherPatient, booking(2, "2030-06-12", "14:00"))
	assert.NotEqual(t, a.ID, b.ID)
}

func TestBook_ConcurrentSameSlot(t *testing.T) {
	f := newApptFixture(t)
	ctx := context.Background()

	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs, err := f.svc.Book(ctx, otherPatient, booking(3, "2030-06-15", "11:00"))
			if err == nil && len(errs) == 0 {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestUpcoming(t *testing.T) {
	f := newApptFixture(t)
	ctx := context.Background()

	f.book(t, patientUser, booking(1, "2030-06-20", "09:00"))
	f.book(t, patientUser, booking(2, "2030-06-11", "09:00"))
	f.book(t, otherPatient, booking(1, "2030-06-12", "09:00"))

	mine, err := f.svc.Upcoming(ctx, patientUser)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "2030-06-11", mine[0].Date)

	docs, err := f.svc.Upcoming(ctx, doctorUser)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	f.clock.t = time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC)
	mine, err = f.svc.Upcoming(ctx, patientUser)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = f.svc.Upcoming(ctx, nil)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestCalendar(t *testing.T) {
	f := newApptFixture(t)
	ctx := context.Background()
	f.book(t, patientUser, booking(1, "2030-06-10", "09:00"))

	days, err := f.svc.Calendar(ctx, 1)
	require.NoError(t, err)
	require.Len(t, days, CalendarDays)
	assert.Equal(t, "2030-06-10", days[0].Date)
	assert.False(t, days[0].Slots[0].Available)
	assert.True(t, days[0].Slots[1].Available)

	_, err = f.svc.Calendar(ctx, 42)
	assert.ErrorIs(t, err, common.ErrUnknownDoctor)
}

func TestConfirmDecline(t *testing.T) {
	f := newApptFixture(t)
	ctx := context.Background()

	a := f.book(t, patientUser, booking(1, "2030-06-11", "09:00"))
	b := f.book(t, patientUser, booking(1, "2030-06-11", "09:30"))

	_, err := f.svc.Confirm(ctx, patientUser, a.ID)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	f.clock.t = f.clock.t.Add(time.Minute)
	got, err := f.svc.Confirm(ctx, doctorUser, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)
	assert.Equal(t, f.clock.t, got.UpdatedAt)

	_, err = f.svc.Decline(ctx, doctorUser, a.ID)
	assert.ErrorIs(t, err, common.ErrInvalidTransition)

	got, err = f.svc.Decline(ctx, doctorUser, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)

	_, err = f.svc.Confirm(ctx, doctorUser, b.ID)
	assert.ErrorIs(t, err, common.ErrInvalidTransition)

	_, err = f.svc.Confirm(ctx, doctorUser, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCancel_Rules(t *testing.T) {
	f := newApptFixture(t)
	ctx := context.Background()

	pending := f.book(t, patientUser, booking(1, "2030-06-11", "09:00"))
	confirmed := f.book(t, patientUser, booking(1, "2030-06-11", "09:30"))
	_, err := f.svc.Confirm(ctx, doctorUser, confirmed.ID)
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, otherPatient, pending.ID)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = f.svc.Cancel(ctx, doctorUser, pending.ID)
	assert.ErrorIs(t, err, common.ErrInvalidTransition)

	got, err := f.svc.Cancel(ctx, doctorUser, confirmed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)

	got, err = f.svc.Cancel(ctx, patientUser, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)

	_, err = f.svc.Cancel(ctx, patientUser, pending.ID)
	assert.ErrorIs(t, err, common.ErrInvalidTransition)

	_, err = f.svc.Cancel(ctx, nil, pending.ID)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestScheduleAndStats(t *testing.T) {
	f := newApptFixture(t)
	ctx := context.Background()

	a := f.book(t, patientUser, booking(1, "2030-06-10", "14:00"))
	f.book(t, patientUser, booking(1, "2030-06-10", "09:00"))
	f.book(t, otherPatient, booking(1, "2030-06-12", "10:00"))
	f.book(t, otherPatient, booking(2, "2030-06-12", "10:00"))
	_, err := f.svc.Confirm(ctx, doctorUser, a.ID)
	require.NoError(t, err)

	groups, err := f.svc.Schedule(ctx, doctorUser, 0)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "09:00", groups[0].Appointments[0].Time)
	assert.Equal(t, "14:00", groups[0].Appointments[1].Time)

	stats, err := f.svc.Stats(ctx, doctorUser, 0)
	require.NoError(t, err)
	assert.Equal(t, scheduling.Stats{Today: 2, Pending: 2, Confirmed: 1, Total: 3}, stats)

	other, err := f.svc.Stats(ctx, doctorUser, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, other.Total)

	_, err = f.svc.Stats(ctx, patientUser, 0)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = f.svc.Schedule(ctx, doctorUser, 77)
	assert.ErrorIs(t, err, common.ErrUnknownDoctor)
}

func TestCompletePast(t *testing.T) {
	f := newApptFixture(t)
	ctx := context.Background()

	past := f.book(t, patientUser, booking(1, "2030-06-11", "09:00"))
	pendingPast := f.book(t, patientUser, booking(1, "2030-06-11", "09:30"))
	future := f.book(t, patientUser, booking(1, "2030-06-20", "09:00"))
	for _, id := range []string{past.ID, future.ID} {
		_, err := f.svc.Confirm(ctx, doctorUser, id)
		require.NoError(t, err)
	}

	f.clock.t = time.Date(2030, 6, 12, 0, 0, 0, 0, time.UTC)
	n, err := f.svc.CompletePast(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.repo.Get(ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)

	got, err = f.repo.Get(ctx, pendingPast.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)

	got, err = f.repo.Get(ctx, future.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)

	// completed appointments keep their slot
	owner, err := f.repo.SlotOwner(ctx, 1, "2030-06-11", "09:00")
	require.NoError(t, err)
	assert.Equal(t, past.ID, owner)

	n, err = f.svc.CompletePast(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRepairSlots(t *testing.T) {
	store := kv.NewMemory()
	repo := appointments.NewKVRepository(store, nil)
	svc := NewAppointmentService(repo, nil, nil)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, appointments.SlotKey(1, "2030-01-01", "09:00"), []byte("ghost")))
	n, err := svc.RepairSlots(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
