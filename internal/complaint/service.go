package complaint

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Submit files a new complaint for the patient, starting in the pending
// state.
func (s *Service) Submit(ctx context.Context, patientID uuid.UUID, content string) (*Complaint, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	c := &Complaint{
		ID:          uuid.New(),
		PatientID:   patientID,
		Content:     content,
		Status:      StatusPending,
		SubmittedOn: time.Now(),
	}

	if err := s.repo.CreateComplaint(ctx, c); err != nil {
		return nil, fmt.Errorf("submit complaint: %w", err)
	}

	return c, nil
}

// ForPatient lists the patient's complaints, most recent first.
func (s *Service) ForPatient(ctx context.Context, patientID uuid.UUID) ([]Complaint, error) {
	list, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	return list, nil
}

// Resolve moves a complaint to resolved. Resolving an already resolved
// complaint is a no-op, matching the cancellation convention elsewhere.
func (s *Service) Resolve(ctx context.Context, id uuid.UUID) (*Complaint, error) {
	resolved, err := s.repo.UpdateStatus(ctx, id, StatusPending, StatusResolved)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("resolve complaint: %w", err)
	}

	current, loadErr := s.repo.GetByID(ctx, id)
	if loadErr != nil {
		if errors.Is(loadErr, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load complaint: %w", loadErr)
	}
	if current.Status == StatusResolved {
		return current, nil
	}
	return nil, fmt.Errorf("resolve complaint: %w", err)
}
