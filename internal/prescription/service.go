package prescription

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo           Repository
	refillInterval time.Duration
}

func NewService(repo Repository, refillInterval time.Duration) *Service {
	return &Service{
		repo:           repo,
		refillInterval: refillInterval,
	}
}

// Issue records a prescription from the practitioner to the patient. The
// practitioner must hold a non-cancelled appointment with the patient. The
// refill-due date is the issue date plus the configured interval.
func (s *Service) Issue(ctx context.Context, practitionerID, patientID uuid.UUID, medication string) (*Prescription, error) {
	medication = strings.TrimSpace(medication)
	if medication == "" {
		return nil, ErrEmptyMedication
	}

	treated, err := s.repo.HasAppointment(ctx, practitionerID, patientID)
	if err != nil {
		return nil, fmt.Errorf("issue prescription: %w", err)
	}
	if !treated {
		return nil, ErrNoAppointment
	}

	issuedOn := time.Now()
	p := &Prescription{
		ID:             uuid.New(),
		PatientID:      patientID,
		PractitionerID: practitionerID,
		Medication:     medication,
		IssuedOn:       issuedOn,
		RefillDue:      issuedOn.Add(s.refillInterval),
	}

	if err := s.repo.CreatePrescription(ctx, p); err != nil {
		return nil, fmt.Errorf("issue prescription: %w", err)
	}

	return p, nil
}

// ForPatient lists the patient's prescriptions, most recent first.
func (s *Service) ForPatient(ctx context.Context, patientID uuid.UUID) ([]Prescription, error) {
	list, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list prescriptions: %w", err)
	}
	return list, nil
}
