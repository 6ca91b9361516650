package scheduling

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrPractitionerNotFound = errors.New("practitioner not found")
	ErrAppointmentNotFound  = errors.New("appointment not found")

	// ErrSlotConflict means another scheduled appointment holds an
	// overlapping slot. Retryable with a different slot.
	ErrSlotConflict = errors.New("slot already has a scheduled appointment")

	// ErrStorage marks a transient store failure. Retryable as-is.
	ErrStorage = errors.New("storage failure")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetPractitionerByID(ctx context.Context, id uuid.UUID) (*Practitioner, error)

	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// BookSlot re-checks for overlap and inserts the appointment inside one
	// transaction. The first transaction to commit wins; later racers get
	// ErrSlotConflict.
	BookSlot(ctx context.Context, patientID, practitionerID uuid.UUID, slot Slot) (*Appointment, error)

	// TransitionStatus moves an appointment from one status to another,
	// conditionally. ErrAppointmentNotFound when no row is in the from state.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to AppointmentStatus) (*Appointment, error)

	// Query facade
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]AppointmentDetail, error)
	ListByPractitioner(ctx context.Context, practitionerID uuid.UUID) ([]AppointmentDetail, error)

	// Index rebuild on startup
	ListScheduled(ctx context.Context) ([]Appointment, error)
}
