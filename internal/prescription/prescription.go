package prescription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNoAppointment means the practitioner has no non-cancelled
	// appointment on record with the patient, so issuing is not allowed.
	ErrNoAppointment = errors.New("no appointment on record between practitioner and patient")

	ErrEmptyMedication = errors.New("medication text is required")
)

// Prescription is immutable once issued.
type Prescription struct {
	ID             uuid.UUID
	PatientID      uuid.UUID
	PractitionerID uuid.UUID
	Medication     string
	IssuedOn       time.Time
	RefillDue      time.Time
	CreatedAt      time.Time
}

type Repository interface {
	CreatePrescription(ctx context.Context, p *Prescription) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Prescription, error)

	// HasAppointment reports whether a non-cancelled appointment exists
	// between the practitioner and the patient.
	HasAppointment(ctx context.Context, practitionerID, patientID uuid.UUID) (bool, error)
}
