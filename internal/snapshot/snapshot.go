// Package snapshot exports the MediBook store to a JSON document and imports
// it back. Documents go to a local file, an S3 object or an HTTP URL and may
// be sealed with a passphrase.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/medibook/internal/cryptox"
	"github.com/dmitrijs2005/medibook/internal/logging"
	"github.com/dmitrijs2005/medibook/internal/models"
	"github.com/dmitrijs2005/medibook/internal/repositories/appointments"
	"github.com/dmitrijs2005/medibook/internal/repositories/kv"
	"github.com/dmitrijs2005/medibook/internal/repositories/users"
)

const Version = 1

var (
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
	ErrPassphraseRequired = errors.New("snapshot is encrypted, a passphrase is required")
)

// Document is the exported form of the store. When Sealed is set, Users and
// Appointments are inside it instead.
type Document struct {
	Version      int                  `json:"version"`
	ExportedAt   time.Time            `json:"exportedAt"`
	Users        []models.User        `json:"users,omitempty"`
	Appointments []models.Appointment `json:"appointments,omitempty"`
	Sealed       *cryptox.Sealed      `json:"sealed,omitempty"`
}

type payload struct {
	Users        []models.User        `json:"users"`
	Appointments []models.Appointment `json:"appointments"`
}

// Summary reports what an export or import touched.
type Summary struct {
	Users        int
	Appointments int
	Skipped      int
}

// Target is where a document is written to and read from.
type Target interface {
	Write(ctx context.Context, data []byte) error
	Read(ctx context.Context) ([]byte, error)
	String() string
}

type Service struct {
	store        kv.Store
	users        users.Repository
	appointments appointments.Repository
	log          logging.Logger
	now          func() time.Time
}

func NewService(store kv.Store, u users.Repository, a appointments.Repository, log logging.Logger) *Service {
	if log == nil {
		log = logging.Discard()
	}
	return &Service{store: store, users: u, appointments: a, log: log.With("component", "snapshot"), now: time.Now}
}

// Export writes every user and appointment to t. A non-empty passphrase
// seals the content.
func (s *Service) Export(ctx context.Context, t Target, passphrase string) (Summary, error) {
	us, err := s.users.List(ctx)
	if err != nil {
		return Summary{}, err
	}
	as, err := s.appointments.List(ctx)
	if err != nil {
		return Summary{}, err
	}

	doc := Document{Version: Version, ExportedAt: s.now().UTC()}
	if passphrase == "" {
		doc.Users, doc.Appointments = us, as
	} else {
		inner, err := json.Marshal(payload{Users: us, Appointments: as})
		if err != nil {
			return Summary{}, err
		}
		if doc.Sealed, err = cryptox.Seal(inner, passphrase); err != nil {
			return Summary{}, fmt.Errorf("seal snapshot: %w", err)
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Summary{}, err
	}
	if err := t.Write(ctx, data); err != nil {
		return Summary{}, fmt.Errorf("write snapshot to %s: %w", t, err)
	}

	sum := Summary{Users: len(us), Appointments: len(as)}
	s.log.Info(ctx, "snapshot exported", "target", t.String(), "users", sum.Users, "appointments", sum.Appointments)
	return sum, nil
}

func decode(data []byte, passphrase string) (*payload, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	if doc.Sealed == nil {
		return &payload{Users: doc.Users, Appointments: doc.Appointments}, nil
	}
	if passphrase == "" {
		return nil, ErrPassphraseRequired
	}
	inner, err := cryptox.Open(doc.Sealed, passphrase)
	if err != nil {
		return nil, err
	}
	var p payload
	if err := json.Unmarshal(inner, &p); err != nil {
		return nil, fmt.Errorf("decode sealed snapshot: %w", err)
	}
	return &p, nil
}

// Import loads a document from t into the store in one batch write. With
// replace the store is cleared first. Otherwise records whose email or slot
// is held by a different record already in the store are skipped, and index
// entries that an overwritten record no longer claims are released.
func (s *Service) Import(ctx context.Context, t Target, passphrase string, replace bool) (Summary, error) {
	data, err := t.Read(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("read snapshot from %s: %w", t, err)
	}
	p, err := decode(data, passphrase)
	if err != nil {
		return Summary{}, err
	}

	if replace {
		if err := s.store.Clear(ctx); err != nil {
			return Summary{}, err
		}
	}

	entries := make(map[string][]byte)
	released := make(map[string]bool)
	var sum Summary

	// holder returns the id an index key points at, looking at this import
	// before the store.
	holder := func(key string) (string, error) {
		if v, ok := entries[key]; ok {
			return string(v), nil
		}
		if released[key] {
			return "", nil
		}
		v, err := s.store.Get(ctx, key)
		if err != nil {
			return "", err
		}
		return string(v), nil
	}
	claimed := func(key, id string) (bool, error) {
		h, err := holder(key)
		return h != "" && h != id, err
	}
	release := func(key, id string) error {
		h, err := holder(key)
		if err != nil {
			return err
		}
		if h == id {
			delete(entries, key)
			released[key] = true
		}
		return nil
	}

	for _, u := range p.Users {
		if u.ID == "" || u.Email == "" {
			sum.Skipped++
			continue
		}
		emailKey := users.EmailKey(u.Email)
		taken, err := claimed(emailKey, u.ID)
		if err != nil {
			return Summary{}, err
		}
		if taken {
			s.log.Warn(ctx, "skipping user with taken email", "user_id", u.ID)
			sum.Skipped++
			continue
		}
		old, err := previous[models.User](ctx, s.store, entries, users.Key(u.ID))
		if err != nil {
			return Summary{}, err
		}
		if old != nil && users.EmailKey(old.Email) != emailKey {
			if err := release(users.EmailKey(old.Email), u.ID); err != nil {
				return Summary{}, err
			}
		}
		raw, err := json.Marshal(u)
		if err != nil {
			return Summary{}, err
		}
		entries[users.Key(u.ID)] = raw
		entries[emailKey] = []byte(u.ID)
		sum.Users++
	}

	for _, a := range p.Appointments {
		if a.ID == "" || !a.Status.Valid() {
			sum.Skipped++
			continue
		}
		slot := appointments.SlotKey(a.DoctorID, a.Date, a.Time)
		if a.Occupies() {
			taken, err := claimed(slot, a.ID)
			if err != nil {
				return Summary{}, err
			}
			if taken {
				s.log.Warn(ctx, "skipping appointment with taken slot", "appointment_id", a.ID)
				sum.Skipped++
				continue
			}
		}
		old, err := previous[models.Appointment](ctx, s.store, entries, appointments.Key(a.ID))
		if err != nil {
			return Summary{}, err
		}
		if old != nil && old.Occupies() {
			oldSlot := appointments.SlotKey(old.DoctorID, old.Date, old.Time)
			if !a.Occupies() || oldSlot != slot {
				if err := release(oldSlot, a.ID); err != nil {
					return Summary{}, err
				}
			}
		}
		if a.Occupies() {
			entries[slot] = []byte(a.ID)
		}
		raw, err := json.Marshal(a)
		if err != nil {
			return Summary{}, err
		}
		entries[appointments.Key(a.ID)] = raw
		sum.Appointments++
	}

	if err := s.store.SetMany(ctx, entries); err != nil {
		return Summary{}, fmt.Errorf("store snapshot: %w", err)
	}
	for key := range released {
		if _, ok := entries[key]; ok {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			return Summary{}, fmt.Errorf("release %s: %w", key, err)
		}
	}
	s.log.Info(ctx, "snapshot imported", "source", t.String(),
		"users", sum.Users, "appointments", sum.Appointments, "skipped", sum.Skipped)
	return sum, nil
}

// previous returns the record stored under key, preferring a version queued
// earlier in the same import. Unreadable records count as absent.
func previous[T any](ctx context.Context, store kv.Store, entries map[string][]byte, key string) (*T, error) {
	raw, ok := entries[key]
	if !ok {
		var err error
		if raw, err = store.Get(ctx, key); err != nil {
			return nil, err
		}
	}
	if raw == nil {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, nil
	}
	return &v, nil
}
