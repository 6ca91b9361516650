package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPractitioner() *Practitioner {
	return &Practitioner{
		Name: "Dr. Khumalo",
		WorkHours: WorkHours{
			"monday":  {Start: "08:00", End: "16:00"},
			"tuesday": {Start: "08:00", End: "12:00"},
		},
		Active: true,
	}
}

// 2026-08-24 is a Monday.
var (
	testMonday = time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	testNow    = time.Date(2026, 8, 24, 7, 0, 0, 0, time.UTC)
)

func TestSlotsForFullDay(t *testing.T) {
	policy := NewSlotPolicy(30*time.Minute, 60, time.UTC)

	slots, err := policy.SlotsFor(testPractitioner(), testMonday, testNow)
	require.NoError(t, err)
	require.Len(t, slots, 16)

	assert.Equal(t, testMonday.Add(8*time.Hour), slots[0].Start)
	assert.Equal(t, testMonday.Add(15*time.Hour+30*time.Minute), slots[len(slots)-1].Start)

	windowStart := testMonday.Add(8 * time.Hour)
	windowEnd := testMonday.Add(16 * time.Hour)
	for _, s := range slots {
		assert.False(t, s.Start.Before(windowStart), "slot %s starts before window", s.Start)
		assert.False(t, s.End().After(windowEnd), "slot %s ends after window", s.Start)
	}
}

func TestSlotsForSkipsElapsed(t *testing.T) {
	policy := NewSlotPolicy(30*time.Minute, 60, time.UTC)
	midMorning := testMonday.Add(10*time.Hour + 10*time.Minute)

	slots, err := policy.SlotsFor(testPractitioner(), testMonday, midMorning)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	assert.Equal(t, testMonday.Add(10*time.Hour+30*time.Minute), slots[0].Start)
}

func TestSlotsForNonWorkingDay(t *testing.T) {
	policy := NewSlotPolicy(30*time.Minute, 60, time.UTC)
	sunday := testMonday.AddDate(0, 0, 6)

	slots, err := policy.SlotsFor(testPractitioner(), sunday, testNow)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestSlotsForOutsideHorizon(t *testing.T) {
	policy := NewSlotPolicy(30*time.Minute, 60, time.UTC)

	_, err := policy.SlotsFor(testPractitioner(), testMonday.AddDate(0, 0, 90), testNow)
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = policy.SlotsFor(testPractitioner(), testMonday.AddDate(0, 0, -1), testNow)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestConforms(t *testing.T) {
	policy := NewSlotPolicy(30*time.Minute, 60, time.UTC)
	pr := testPractitioner()

	onGrid := Slot{Start: testMonday.Add(9 * time.Hour), Duration: 30 * time.Minute}
	assert.NoError(t, policy.Conforms(pr, onGrid, testNow))

	lateNight := Slot{Start: testMonday.Add(23*time.Hour + 45*time.Minute), Duration: 30 * time.Minute}
	assert.ErrorIs(t, policy.Conforms(pr, lateNight, testNow), ErrInvalidSlot)

	offGrid := Slot{Start: testMonday.Add(9*time.Hour + 10*time.Minute), Duration: 30 * time.Minute}
	assert.ErrorIs(t, policy.Conforms(pr, offGrid, testNow), ErrInvalidSlot)

	wrongDuration := Slot{Start: testMonday.Add(9 * time.Hour), Duration: time.Hour}
	assert.ErrorIs(t, policy.Conforms(pr, wrongDuration, testNow), ErrInvalidSlot)

	farFuture := Slot{Start: testMonday.AddDate(0, 0, 90).Add(9 * time.Hour), Duration: 30 * time.Minute}
	assert.ErrorIs(t, policy.Conforms(pr, farFuture, testNow), ErrInvalidDate)
}

func TestConformsShortTuesdayWindow(t *testing.T) {
	policy := NewSlotPolicy(30*time.Minute, 60, time.UTC)
	pr := testPractitioner()
	tuesday := testMonday.AddDate(0, 0, 1)

	lastFit := Slot{Start: tuesday.Add(11*time.Hour + 30*time.Minute), Duration: 30 * time.Minute}
	assert.NoError(t, policy.Conforms(pr, lastFit, testNow))

	pastNoon := Slot{Start: tuesday.Add(12 * time.Hour), Duration: 30 * time.Minute}
	assert.ErrorIs(t, policy.Conforms(pr, pastNoon, testNow), ErrInvalidSlot)
}
