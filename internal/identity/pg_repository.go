package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kznhealth/queue-booking/internal/db"
)

const pgUniqueViolation = "23505"

type PgRepository struct {
	pool db.Querier
}

func NewPgRepository(pool db.Querier) *PgRepository {
	return &PgRepository{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient

	err := row.Scan(
		&p.ID,
		&p.IDNumber,
		&p.Name,
		&p.DateOfBirth,
		&p.Language,
		&p.PasswordHash,
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
		&pr.PracticeNumber,
		&pr.Name,
		&specialty,
		&pr.WorkHours,
		&pr.PasswordHash,
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

func (r *PgRepository) CreatePatient(ctx context.Context, p *Patient) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patients (id, id_number, full_name, date_of_birth, language, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
	`, p.ID, p.IDNumber, p.Name, p.DateOfBirth, p.Language, p.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrCredentialTaken
		}
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

func (r *PgRepository) GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, id_number, full_name, date_of_birth, language, password_hash, created_at, updated_at
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (r *PgRepository) GetPatientByIDNumber(ctx context.Context, idNumber string) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, id_number, full_name, date_of_birth, language, password_hash, created_at, updated_at
		FROM patients
		WHERE id_number = $1
	`, idNumber)
	return scanPatient(row)
}

func (r *PgRepository) CreatePractitioner(ctx context.Context, pr *Practitioner) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO practitioners (id, practice_number, full_name, specialty, work_hours, password_hash, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, true, now(), now())
	`, pr.ID, pr.PracticeNumber, pr.Name, pr.Specialty, pr.WorkHours, pr.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrCredentialTaken
		}
		return fmt.Errorf("insert practitioner: %w", err)
	}
	return nil
}

func (r *PgRepository) GetPractitionerByID(ctx context.Context, id uuid.UUID) (*Practitioner, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, practice_number, full_name, specialty, work_hours, password_hash, active, created_at, updated_at
		FROM practitioners
		WHERE id = $1
	`, id)
	return scanPractitioner(row)
}

func (r *PgRepository) GetPractitionerByPracticeNumber(ctx context.Context, practiceNumber string) (*Practitioner, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, practice_number, full_name, specialty, work_hours, password_hash, active, created_at, updated_at
		FROM practitioners
		WHERE practice_number = $1
	`, practiceNumber)
	return scanPractitioner(row)
}

func (r *PgRepository) DeactivatePractitioner(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE practitioners
		SET active = false,
		    updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("deactivate practitioner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPractitionerNotFound
	}
	return nil
}
