package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kznhealth/queue-booking/internal/db"
)

// Postgres error codes that mean another scheduled appointment already holds
// the range: the exclusion constraint on appointments fires when two
// transactions insert overlapping slots despite the FOR UPDATE re-check.
const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

type PgRepository struct {
	pool db.Querier
}

func NewPgRepository(pool db.Querier) *PgRepository {
	return &PgRepository{pool: pool}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrStorage, err))
}

func isConflictViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation || pgErr.Code == pgExclusionViolation
	}
	return false
}

// Helpers

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Language,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	return &p, nil
}

func scanPractitioner(row pgx.Row) (*Practitioner, error) {
	var pr Practitioner
	var specialty *string

	err := row.Scan(
		&pr.ID,
		&pr.Name,
		&specialty,
		&pr.WorkHours,
		&pr.Active,
		&pr.CreatedAt,
		&pr.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPractitionerNotFound
		}
		return nil, err
	}

	pr.Specialty = specialty
	return &pr, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var durationMinutes int

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.PractitionerID,
		&a.SlotStart,
		&durationMinutes,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.Duration = time.Duration(durationMinutes) * time.Minute
	return &a, nil
}

// Interface methods

func (r *PgRepository) GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, full_name, language, created_at, updated_at
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (r *PgRepository) GetPractitionerByID(ctx context.Context, id uuid.UUID) (*Practitioner, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, full_name, specialty, work_hours, active, created_at, updated_at
		FROM practitioners
		WHERE id = $1
	`, id)
	return scanPractitioner(row)
}

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, patient_id, practitioner_id, slot_start, duration_minutes, status, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) BookSlot(ctx context.Context, patientID, practitionerID uuid.UUID, slot Slot) (*Appointment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, storageErr("begin booking tx", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// Lock any scheduled appointment overlapping the requested range. When a
	// row exists the slot is taken; when none does, the insert below is
	// still backstopped by the exclusion constraint.
	var existing uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT id
		FROM appointments
		WHERE practitioner_id = $1
		  AND status = 'scheduled'
		  AND slot_start < $2
		  AND slot_start + make_interval(mins => duration_minutes) > $3
		LIMIT 1
		FOR UPDATE
	`, practitionerID, slot.End(), slot.Start).Scan(&existing)
	if err == nil {
		return nil, ErrSlotConflict
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, storageErr("check slot occupancy", err)
	}

	id := uuid.New()
	row := tx.QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, practitioner_id, slot_start, duration_minutes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 'scheduled', now(), now())
		RETURNING id, patient_id, practitioner_id, slot_start, duration_minutes, status, created_at, updated_at
	`, id, patientID, practitionerID, slot.Start, int(slot.Duration.Minutes()))

	appt, err := scanAppointment(row)
	if err != nil {
		if isConflictViolation(err) {
			return nil, ErrSlotConflict
		}
		return nil, storageErr("insert appointment", err)
	}

	if err := tx.Commit(ctx); err != nil {
		if isConflictViolation(err) {
			return nil, ErrSlotConflict
		}
		return nil, storageErr("commit booking tx", err)
	}

	return appt, nil
}

func (r *PgRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to AppointmentStatus) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		  AND status = $3
		RETURNING id, patient_id, practitioner_id, slot_start, duration_minutes, status, created_at, updated_at
	`, id, to, from)

	return scanAppointment(row)
}

func (r *PgRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]AppointmentDetail, error) {
	return r.listDetails(ctx, `
		SELECT a.id, a.patient_id, a.practitioner_id, a.slot_start, a.duration_minutes, a.status,
		       a.created_at, a.updated_at, p.full_name, pr.full_name
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		JOIN practitioners pr ON pr.id = a.practitioner_id
		WHERE a.patient_id = $1
		ORDER BY a.slot_start ASC
	`, patientID)
}

func (r *PgRepository) ListByPractitioner(ctx context.Context, practitionerID uuid.UUID) ([]AppointmentDetail, error) {
	return r.listDetails(ctx, `
		SELECT a.id, a.patient_id, a.practitioner_id, a.slot_start, a.duration_minutes, a.status,
		       a.created_at, a.updated_at, p.full_name, pr.full_name
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		JOIN practitioners pr ON pr.id = a.practitioner_id
		WHERE a.practitioner_id = $1
		ORDER BY a.slot_start ASC
	`, practitionerID)
}

func (r *PgRepository) listDetails(ctx context.Context, query string, arg any) ([]AppointmentDetail, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, storageErr("list appointments", err)
	}
	defer rows.Close()

	var result []AppointmentDetail
	for rows.Next() {
		var d AppointmentDetail
		var durationMinutes int

		err := rows.Scan(
			&d.ID,
			&d.PatientID,
			&d.PractitionerID,
			&d.SlotStart,
			&durationMinutes,
			&d.Status,
			&d.CreatedAt,
			&d.UpdatedAt,
			&d.PatientName,
			&d.PractitionerName,
		)
		if err != nil {
			return nil, storageErr("scan appointment detail", err)
		}

		d.Duration = time.Duration(durationMinutes) * time.Minute
		result = append(result, d)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("list appointments", err)
	}

	return result, nil
}

func (r *PgRepository) ListScheduled(ctx context.Context) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, practitioner_id, slot_start, duration_minutes, status, created_at, updated_at
		FROM appointments
		WHERE status = 'scheduled'
	`)
	if err != nil {
		return nil, storageErr("list scheduled appointments", err)
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, storageErr("scan scheduled appointment", err)
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("list scheduled appointments", err)
	}

	return result, nil
}
