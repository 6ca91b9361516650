package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/kznhealth/queue-booking/internal/config"
	redisclient "github.com/kznhealth/queue-booking/internal/redis"
)

var (
	// ErrScheduleBusy means the practitioner's diary lock could not be taken
	// in time. Retryable as-is.
	ErrScheduleBusy = errors.New("practitioner's diary is busy, please retry")

	// ErrNotAllowed means the requester is neither the patient nor the
	// practitioner on the appointment.
	ErrNotAllowed = errors.New("requester does not own this appointment")

	ErrInvalidTransition = errors.New("appointment is not in a state that allows this change")
)

type Service struct {
	repo   Repository
	locker redisclient.Locker
	policy *SlotPolicy
	index  *AvailabilityIndex
	cfg    config.Config
}

func NewService(repo Repository, locker redisclient.Locker, policy *SlotPolicy, index *AvailabilityIndex, cfg config.Config) *Service {
	return &Service{
		repo:   repo,
		locker: locker,
		policy: policy,
		index:  index,
		cfg:    cfg,
	}
}

// MakeSlot builds a slot at the given start with the policy's fixed
// duration. Callers outside this package never choose durations.
func (s *Service) MakeSlot(start time.Time) Slot {
	return Slot{Start: start, Duration: s.policy.SlotDuration()}
}

// Book assigns the patient to the slot, or reports why it cannot. The slot
// must conform to the practitioner's grid; the decisive occupancy check runs
// inside the store transaction under the diary lock, so two racers for the
// same slot end with exactly one appointment.
func (s *Service) Book(ctx context.Context, patientID, practitionerID uuid.UUID, slot Slot) (*Appointment, error) {
	if _, err := s.repo.GetPatientByID(ctx, patientID); err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load patient: %w", err)
	}

	pr, err := s.repo.GetPractitionerByID(ctx, practitionerID)
	if err != nil {
		if errors.Is(err, ErrPractitionerNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load practitioner: %w", err)
	}
	if !pr.Active {
		return nil, ErrPractitionerNotFound
	}

	if err := s.policy.Conforms(pr, slot, time.Now()); err != nil {
		return nil, err
	}

	// Fast path: the index already knows the slot is taken. The store check
	// below remains decisive either way.
	if !s.index.IsFree(practitionerID, slot) {
		return nil, ErrSlotConflict
	}

	var created *Appointment

	day := s.policy.DayKey(slot.Start)
	err = s.locker.WithScheduleLock(ctx, practitionerID, day, func(lockCtx context.Context) error {
		txCtx, cancel := context.WithTimeout(lockCtx, s.cfg.TxTimeout)
		defer cancel()

		appt, err := s.repo.BookSlot(txCtx, patientID, practitionerID, slot)
		if err != nil {
			return err
		}

		created = appt

		if err := s.index.Reserve(practitionerID, slot); err != nil {
			// The row committed; a reserve conflict here means the cache
			// went stale. It will be corrected on the next rebuild.
			log.Printf("availability index stale for practitioner=%s slot=%s: %v", practitionerID, slot.Start, err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrScheduleBusy
		}
		return nil, err
	}

	return created, nil
}

// Cancel transitions the appointment to cancelled and frees its slot.
// Allowed only for the owning patient or practitioner. Cancelling an already
// cancelled appointment is an idempotent no-op, not an error.
func (s *Service) Cancel(ctx context.Context, appointmentID, requesterID uuid.UUID) error {
	appt, err := s.repo.GetAppointmentByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return err
		}
		return fmt.Errorf("load appointment: %w", err)
	}

	if requesterID != appt.PatientID && requesterID != appt.PractitionerID {
		return ErrNotAllowed
	}

	switch appt.Status {
	case StatusCancelled:
		return nil
	case StatusCompleted:
		return ErrInvalidTransition
	}

	_, err = s.repo.TransitionStatus(ctx, appt.ID, StatusScheduled, StatusCancelled)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			// Lost a race with another status change; re-read to decide.
			current, loadErr := s.repo.GetAppointmentByID(ctx, appt.ID)
			if loadErr != nil {
				return fmt.Errorf("reload appointment: %w", loadErr)
			}
			if current.Status == StatusCancelled {
				return nil
			}
			return ErrInvalidTransition
		}
		return fmt.Errorf("cancel appointment: %w", err)
	}

	s.index.Release(appt.PractitionerID, appt.Slot())
	return nil
}

// Complete marks the appointment completed. Only the owning practitioner may
// do so; completing twice is a no-op.
func (s *Service) Complete(ctx context.Context, appointmentID, practitionerID uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	if appt.PractitionerID != practitionerID {
		return nil, ErrNotAllowed
	}

	switch appt.Status {
	case StatusCompleted:
		return appt, nil
	case StatusCancelled:
		return nil, ErrInvalidTransition
	}

	updated, err := s.repo.TransitionStatus(ctx, appt.ID, StatusScheduled, StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("complete appointment: %w", err)
	}

	s.index.Release(appt.PractitionerID, appt.Slot())
	return updated, nil
}

// FreeSlots returns the practitioner's still-open slots for a date: the
// policy grid minus everything the availability index holds.
func (s *Service) FreeSlots(ctx context.Context, practitionerID uuid.UUID, date time.Time) ([]Slot, error) {
	pr, err := s.repo.GetPractitionerByID(ctx, practitionerID)
	if err != nil {
		if errors.Is(err, ErrPractitionerNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load practitioner: %w", err)
	}
	if !pr.Active {
		return nil, ErrPractitionerNotFound
	}

	candidates, err := s.policy.SlotsFor(pr, date, time.Now())
	if err != nil {
		return nil, err
	}

	var free []Slot
	for _, slot := range candidates {
		if s.index.IsFree(practitionerID, slot) {
			free = append(free, slot)
		}
	}

	return free, nil
}

// AppointmentsForPatient returns the patient's appointment history,
// ascending by slot start. Cancelled records are retained.
func (s *Service) AppointmentsForPatient(ctx context.Context, patientID uuid.UUID) ([]AppointmentDetail, error) {
	details, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list appointments by patient: %w", err)
	}
	return details, nil
}

// AppointmentsForPractitioner returns the practitioner's diary, ascending by
// slot start.
func (s *Service) AppointmentsForPractitioner(ctx context.Context, practitionerID uuid.UUID) ([]AppointmentDetail, error) {
	details, err := s.repo.ListByPractitioner(ctx, practitionerID)
	if err != nil {
		return nil, fmt.Errorf("list appointments by practitioner: %w", err)
	}
	return details, nil
}

// RebuildIndex reloads the availability index from committed scheduled
// appointments. Called at startup before the service takes traffic.
func (s *Service) RebuildIndex(ctx context.Context) error {
	scheduled, err := s.repo.ListScheduled(ctx)
	if err != nil {
		return fmt.Errorf("rebuild availability index: %w", err)
	}

	s.index.Rebuild(scheduled)
	log.Printf("availability index rebuilt with %d scheduled appointments", len(scheduled))
	return nil
}
