package scheduling

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidDate = errors.New("date is outside the booking horizon")
	ErrInvalidSlot = errors.New("slot is not bookable for this practitioner")
)

// SlotPolicy derives the bookable slot grid for a practitioner's day:
// fixed-duration slots aligned to the start of the working window, none in
// the past, none beyond the booking horizon.
type SlotPolicy struct {
	slotDuration time.Duration
	horizonDays  int
	loc          *time.Location
}

func NewSlotPolicy(slotDuration time.Duration, horizonDays int, loc *time.Location) *SlotPolicy {
	return &SlotPolicy{
		slotDuration: slotDuration,
		horizonDays:  horizonDays,
		loc:          loc,
	}
}

func (p *SlotPolicy) SlotDuration() time.Duration {
	return p.slotDuration
}

// SlotsFor returns the candidate slots for a practitioner on a date,
// ascending by start time. Slots that have already begun relative to now are
// omitted. Dates before today or beyond the horizon fail with ErrInvalidDate.
func (p *SlotPolicy) SlotsFor(pr *Practitioner, date time.Time, now time.Time) ([]Slot, error) {
	day := p.dayStart(date)
	today := p.dayStart(now)

	if day.Before(today) {
		return nil, fmt.Errorf("%w: %s is in the past", ErrInvalidDate, day.Format("2006-01-02"))
	}
	if day.After(today.AddDate(0, 0, p.horizonDays)) {
		return nil, fmt.Errorf("%w: %s is more than %d days ahead", ErrInvalidDate, day.Format("2006-01-02"), p.horizonDays)
	}

	window, ok := pr.WorkHours.WindowFor(day.Weekday())
	if !ok {
		return nil, nil
	}

	windowStart, err := atClock(day, window.Start)
	if err != nil {
		return nil, fmt.Errorf("work hours for %s: %w", day.Weekday(), err)
	}
	windowEnd, err := atClock(day, window.End)
	if err != nil {
		return nil, fmt.Errorf("work hours for %s: %w", day.Weekday(), err)
	}

	var slots []Slot
	for start := windowStart; !start.Add(p.slotDuration).After(windowEnd); start = start.Add(p.slotDuration) {
		if start.Before(now) {
			continue
		}
		slots = append(slots, Slot{Start: start, Duration: p.slotDuration})
	}

	return slots, nil
}

// Conforms reports whether the slot is a member of the practitioner's
// candidate grid for its date. A non-member fails with ErrInvalidSlot; an
// out-of-horizon date fails with ErrInvalidDate.
func (p *SlotPolicy) Conforms(pr *Practitioner, slot Slot, now time.Time) error {
	if slot.Duration != p.slotDuration {
		return fmt.Errorf("%w: duration %s, expected %s", ErrInvalidSlot, slot.Duration, p.slotDuration)
	}

	candidates, err := p.SlotsFor(pr, slot.Start, now)
	if err != nil {
		return err
	}

	for _, c := range candidates {
		if c.Start.Equal(slot.Start) {
			return nil
		}
	}

	return fmt.Errorf("%w: %s is outside the practitioner's schedule", ErrInvalidSlot, slot.Start.In(p.loc).Format(time.RFC3339))
}

func (p *SlotPolicy) dayStart(t time.Time) time.Time {
	local := t.In(p.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, p.loc)
}

// DayKey is the lock/index key for the clinic-local day a slot falls on.
func (p *SlotPolicy) DayKey(t time.Time) string {
	return t.In(p.loc).Format("2006-01-02")
}

func atClock(day time.Time, clock string) (time.Time, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock time %q: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), parsed.Hour(), parsed.Minute(), 0, 0, day.Location()), nil
}
