package appointments

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/dmitrijs2005/medibook/internal/common"
	"github.com/dmitrijs2005/medibook/internal/logging"
	"github.com/dmitrijs2005/medibook/internal/models"
	"github.com/dmitrijs2005/medibook/internal/repositories/kv"
)

const (
	prefix     = "appointments/"
	slotPrefix = "slots/"
)

// Key is the store key of an appointment record.
func Key(id string) string { return prefix + id }

// SlotKey is the store key of the slot index entry.
func SlotKey(doctorID int, date, time string) string {
	return slotPrefix + strconv.Itoa(doctorID) + "/" + date + "/" + time
}

type KVRepository struct {
	store kv.Store
	log   logging.Logger
}

func NewKVRepository(store kv.Store, log logging.Logger) *KVRepository {
	if log == nil {
		log = logging.Discard()
	}
	return &KVRepository{store: store, log: log}
}

func (r *KVRepository) claimSlot(ctx context.Context, a *models.Appointment) error {
	ok, err := r.store.SetIfAbsent(ctx, SlotKey(a.DoctorID, a.Date, a.Time), []byte(a.ID))
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrSlotTaken
	}
	return nil
}

func (r *KVRepository) Create(ctx context.Context, a *models.Appointment) error {
	if err := r.claimSlot(ctx, a); err != nil {
		return fmt.Errorf("claim slot: %w", err)
	}
	if err := kv.PutJSON(ctx, r.store, Key(a.ID), a); err != nil {
		_ = r.store.Delete(ctx, SlotKey(a.DoctorID, a.Date, a.Time))
		return fmt.Errorf("failed to save appointment %s: %w", a.ID, err)
	}
	return nil
}

func (r *KVRepository) Get(ctx context.Context, id string) (*models.Appointment, error) {
	a, ok, err := kv.GetJSON[models.Appointment](ctx, r.store, Key(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load appointment %s: %w", id, err)
	}
	if !ok {
		return nil, common.ErrNotFound
	}
	return &a, nil
}

func (r *KVRepository) List(ctx context.Context) ([]models.Appointment, error) {
	all, err := kv.ListJSON[models.Appointment](ctx, r.store, prefix, func(key string, err error) {
		r.log.Warn(ctx, "skipping unreadable appointment", "key", key, "error", err)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	result := make([]models.Appointment, 0, len(all))
	for _, a := range all {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		if result[i].Time != result[j].Time {
			return result[i].Time < result[j].Time
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *KVRepository) Update(ctx context.Context, a *models.Appointment) error {
	if err := kv.PutJSON(ctx, r.store, Key(a.ID), a); err != nil {
		return fmt.Errorf("failed to save appointment %s: %w", a.ID, err)
	}
	if a.Occupies() {
		return nil
	}

	key := SlotKey(a.DoctorID, a.Date, a.Time)
	owner, err := r.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to release slot %s: %w", key, err)
	}
	if string(owner) == a.ID {
		if err := r.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to release slot %s: %w", key, err)
		}
	}
	return nil
}

func (r *KVRepository) SlotOwner(ctx context.Context, doctorID int, date, time string) (string, error) {
	owner, err := r.store.Get(ctx, SlotKey(doctorID, date, time))
	if err != nil {
		return "", err
	}
	return string(owner), nil
}

// RepairSlots drops slot claims whose appointment is missing or no longer
// occupies the slot and returns how many were dropped. It must not run
// concurrently with Create.
func (r *KVRepository) RepairSlots(ctx context.Context) (int, error) {
	claims, err := r.store.List(ctx, slotPrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list slots: %w", err)
	}

	dropped := 0
	for key, owner := range claims {
		a, err := r.Get(ctx, string(owner))
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return dropped, err
		}
		if err == nil && a.Occupies() && SlotKey(a.DoctorID, a.Date, a.Time) == key {
			continue
		}
		if err := r.store.Delete(ctx, key); err != nil {
			return dropped, fmt.Errorf("failed to release slot %s: %w", key, err)
		}
		r.log.Warn(ctx, "released stale slot claim", "slot", key, "owner", string(owner))
		dropped++
	}
	return dropped, nil
}
