package scheduling

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Slot is one fixed-duration bookable interval for a practitioner.
type Slot struct {
	Start    time.Time
	Duration time.Duration
}

func (s Slot) End() time.Time {
	return s.Start.Add(s.Duration)
}

func (s Slot) Overlaps(o Slot) bool {
	return s.Start.Before(o.End()) && o.Start.Before(s.End())
}

// DayWindow is a working-hours window within one weekday, clock times in
// "15:04" form.
type DayWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WorkHours maps a lowercase weekday name ("monday") to the window the
// practitioner consults in. Days without an entry are non-working days.
type WorkHours map[string]DayWindow

func (w WorkHours) WindowFor(day time.Weekday) (DayWindow, bool) {
	win, ok := w[weekdayKey(day)]
	return win, ok
}

func weekdayKey(day time.Weekday) string {
	switch day {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}

type Patient struct {
	ID        uuid.UUID
	Name      string
	Language  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Practitioner struct {
	ID        uuid.UUID
	Name      string
	Specialty *string
	WorkHours WorkHours
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Appointment struct {
	ID             uuid.UUID
	PatientID      uuid.UUID
	PractitionerID uuid.UUID
	SlotStart      time.Time
	Duration       time.Duration
	Status         AppointmentStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (a *Appointment) Slot() Slot {
	return Slot{Start: a.SlotStart, Duration: a.Duration}
}

type AppointmentDetail struct {
	Appointment
	PatientName      string
	PractitionerName string
}
