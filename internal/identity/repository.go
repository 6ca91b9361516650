package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrPractitionerNotFound = errors.New("practitioner not found")

	// ErrCredentialTaken means the ID number or practice number is already
	// registered.
	ErrCredentialTaken = errors.New("credential is already registered")
)

// Repository contains the DB interactions for registration and login.
type Repository interface {
	CreatePatient(ctx context.Context, p *Patient) error
	GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetPatientByIDNumber(ctx context.Context, idNumber string) (*Patient, error)

	CreatePractitioner(ctx context.Context, pr *Practitioner) error
	GetPractitionerByID(ctx context.Context, id uuid.UUID) (*Practitioner, error)
	GetPractitionerByPracticeNumber(ctx context.Context, practiceNumber string) (*Practitioner, error)

	// DeactivatePractitioner soft-deletes: appointment history keeps
	// referencing the row, new bookings stop resolving it.
	DeactivatePractitioner(ctx context.Context, id uuid.UUID) error
}
