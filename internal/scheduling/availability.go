package scheduling

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type dayKey struct {
	practitionerID uuid.UUID
	day            string
}

// AvailabilityIndex is a derived cache of occupied slots keyed by
// (practitioner, clinic-local day). It is rebuilt from the store on startup
// and only ever updated after a transaction commits; the store remains the
// source of truth.
type AvailabilityIndex struct {
	mu       sync.RWMutex
	loc      *time.Location
	occupied map[dayKey][]Slot
}

func NewAvailabilityIndex(loc *time.Location) *AvailabilityIndex {
	return &AvailabilityIndex{
		loc:      loc,
		occupied: make(map[dayKey][]Slot),
	}
}

func (ix *AvailabilityIndex) key(practitionerID uuid.UUID, slot Slot) dayKey {
	return dayKey{
		practitionerID: practitionerID,
		day:            slot.Start.In(ix.loc).Format("2006-01-02"),
	}
}

func (ix *AvailabilityIndex) IsFree(practitionerID uuid.UUID, slot Slot) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	for _, s := range ix.occupied[ix.key(practitionerID, slot)] {
		if s.Overlaps(slot) {
			return false
		}
	}
	return true
}

// Reserve marks the slot occupied. It fails with ErrSlotConflict when an
// overlapping slot is already held.
func (ix *AvailabilityIndex) Reserve(practitionerID uuid.UUID, slot Slot) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	key := ix.key(practitionerID, slot)
	slots := ix.occupied[key]
	for _, s := range slots {
		if s.Overlaps(slot) {
			return ErrSlotConflict
		}
	}

	slots = append(slots, slot)
	sort.Slice(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })
	ix.occupied[key] = slots
	return nil
}

// Release frees the slot. Releasing a slot that is not held is a no-op, so a
// double cancellation cannot free someone else's reservation.
func (ix *AvailabilityIndex) Release(practitionerID uuid.UUID, slot Slot) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	key := ix.key(practitionerID, slot)
	slots := ix.occupied[key]
	for i, s := range slots {
		if s.Start.Equal(slot.Start) && s.Duration == slot.Duration {
			ix.occupied[key] = append(slots[:i], slots[i+1:]...)
			if len(ix.occupied[key]) == 0 {
				delete(ix.occupied, key)
			}
			return
		}
	}
}

// OccupiedOn returns the held slots for a practitioner on a clinic-local
// day (formatted 2006-01-02), ascending by start.
func (ix *AvailabilityIndex) OccupiedOn(practitionerID uuid.UUID, day string) []Slot {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	slots := ix.occupied[dayKey{practitionerID: practitionerID, day: day}]
	out := make([]Slot, len(slots))
	copy(out, slots)
	return out
}

// Rebuild replaces the index contents with the given scheduled appointments.
func (ix *AvailabilityIndex) Rebuild(appointments []Appointment) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.occupied = make(map[dayKey][]Slot)
	for _, a := range appointments {
		if a.Status != StatusScheduled {
			continue
		}
		key := ix.key(a.PractitionerID, a.Slot())
		ix.occupied[key] = append(ix.occupied[key], a.Slot())
	}
	for key, slots := range ix.occupied {
		sort.Slice(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })
		ix.occupied[key] = slots
	}
}
