package complaint

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusResolved Status = "resolved"
)

var (
	ErrNotFound     = errors.New("complaint not found")
	ErrEmptyContent = errors.New("complaint content is required")
)

type Complaint struct {
	ID          uuid.UUID
	PatientID   uuid.UUID
	Content     string
	Status      Status
	SubmittedOn time.Time
	UpdatedAt   time.Time
}

type Repository interface {
	CreateComplaint(ctx context.Context, c *Complaint) error
	GetByID(ctx context.Context, id uuid.UUID) (*Complaint, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Complaint, error)

	// UpdateStatus moves a complaint between statuses conditionally;
	// ErrNotFound when no row is in the from state.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (*Complaint, error)
}
