package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kznhealth/queue-booking/internal/scheduling"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownLanguage    = errors.New("language is not offered")
	ErrInvalidWorkHours   = errors.New("work hours are invalid")
	ErrMissingField       = errors.New("required field is missing")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type RegisterPatientInput struct {
	IDNumber    string
	Name        string
	DateOfBirth time.Time
	Language    string
	Password    string
}

type RegisterPractitionerInput struct {
	PracticeNumber string
	Name           string
	Specialty      *string
	WorkHours      scheduling.WorkHours
	Password       string
}

// RegisterPatient validates the intake form and stores the patient with a
// salted credential hash.
func (s *Service) RegisterPatient(ctx context.Context, in RegisterPatientInput) (*Patient, error) {
	if strings.TrimSpace(in.IDNumber) == "" || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: id number and name", ErrMissingField)
	}
	if !SupportedLanguage(in.Language) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, in.Language)
	}
	if err := CheckPasswordPolicy(in.Password); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	p := &Patient{
		ID:           uuid.New(),
		IDNumber:     strings.TrimSpace(in.IDNumber),
		Name:         strings.TrimSpace(in.Name),
		DateOfBirth:  in.DateOfBirth,
		Language:     in.Language,
		PasswordHash: hash,
	}

	if err := s.repo.CreatePatient(ctx, p); err != nil {
		if errors.Is(err, ErrCredentialTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("register patient: %w", err)
	}

	return p, nil
}

// RegisterPractitioner validates the practice credential and the weekly
// working-hours windows before storing the practitioner.
func (s *Service) RegisterPractitioner(ctx context.Context, in RegisterPractitionerInput) (*Practitioner, error) {
	if strings.TrimSpace(in.PracticeNumber) == "" || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: practice number and name", ErrMissingField)
	}
	if err := validateWorkHours(in.WorkHours); err != nil {
		return nil, err
	}
	if err := CheckPasswordPolicy(in.Password); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	pr := &Practitioner{
		ID:             uuid.New(),
		PracticeNumber: strings.TrimSpace(in.PracticeNumber),
		Name:           strings.TrimSpace(in.Name),
		Specialty:      in.Specialty,
		WorkHours:      in.WorkHours,
		PasswordHash:   hash,
		Active:         true,
	}

	if err := s.repo.CreatePractitioner(ctx, pr); err != nil {
		if errors.Is(err, ErrCredentialTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("register practitioner: %w", err)
	}

	return pr, nil
}

// LoginPatient verifies the ID number and password. The same error comes
// back for a missing patient and a wrong password.
func (s *Service) LoginPatient(ctx context.Context, idNumber, password string) (*Patient, error) {
	p, err := s.repo.GetPatientByIDNumber(ctx, idNumber)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load patient: %w", err)
	}

	if !VerifyPassword(password, p.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return p, nil
}

// LoginPractitioner verifies the practice number and password. Deactivated
// practitioners cannot sign in.
func (s *Service) LoginPractitioner(ctx context.Context, practiceNumber, password string) (*Practitioner, error) {
	pr, err := s.repo.GetPractitionerByPracticeNumber(ctx, practiceNumber)
	if err != nil {
		if errors.Is(err, ErrPractitionerNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load practitioner: %w", err)
	}

	if !pr.Active || !VerifyPassword(password, pr.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return pr, nil
}

// Deactivate soft-deletes a practitioner. Existing appointments keep their
// reference; the scheduler stops resolving the practitioner for new bookings.
func (s *Service) Deactivate(ctx context.Context, practitionerID uuid.UUID) error {
	if err := s.repo.DeactivatePractitioner(ctx, practitionerID); err != nil {
		if errors.Is(err, ErrPractitionerNotFound) {
			return err
		}
		return fmt.Errorf("deactivate practitioner: %w", err)
	}
	return nil
}

func validateWorkHours(hours scheduling.WorkHours) error {
	if len(hours) == 0 {
		return fmt.Errorf("%w: at least one working day is required", ErrInvalidWorkHours)
	}

	validDays := map[string]bool{
		"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
		"friday": true, "saturday": true, "sunday": true,
	}

	for day, window := range hours {
		if !validDays[day] {
			return fmt.Errorf("%w: unknown day %q", ErrInvalidWorkHours, day)
		}
		start, err := time.Parse("15:04", window.Start)
		if err != nil {
			return fmt.Errorf("%w: %s start %q", ErrInvalidWorkHours, day, window.Start)
		}
		end, err := time.Parse("15:04", window.End)
		if err != nil {
			return fmt.Errorf("%w: %s end %q", ErrInvalidWorkHours, day, window.End)
		}
		if !start.Before(end) {
			return fmt.Errorf("%w: %s window %s-%s is empty", ErrInvalidWorkHours, day, window.Start, window.End)
		}
	}

	return nil
}
