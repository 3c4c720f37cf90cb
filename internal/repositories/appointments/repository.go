package appointments

import (
	"context"

	"github.com/dmitrijs2005/medibook/internal/models"
)

// Repository describes persistence operations for appointments.
type Repository interface {
	// Create stores a new appointment and claims its slot. It fails with
	// common.ErrSlotTaken when another live appointment holds the slot.
	Create(ctx context.Context, a *models.Appointment) error

	// Get returns the appointment or common.ErrNotFound.
	Get(ctx context.Context, id string) (*models.Appointment, error)

	// List returns all appointments ordered by date, time and id.
	List(ctx context.Context) ([]models.Appointment, error)

	// Update overwrites a stored appointment, releasing its slot when it no
	// longer occupies it.
	Update(ctx context.Context, a *models.Appointment) error

	// SlotOwner returns the id of the appointment holding the slot, or "".
	SlotOwner(ctx context.Context, doctorID int, date, time string) (string, error)

	// RepairSlots drops slot claims that no live appointment backs.
	RepairSlots(ctx context.Context) (int, error)
}
