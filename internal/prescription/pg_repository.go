package prescription

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kznhealth/queue-booking/internal/db"
)

type PgRepository struct {
	pool db.Querier
}

func NewPgRepository(pool db.Querier) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) CreatePrescription(ctx context.Context, p *Prescription) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO prescriptions (id, patient_id, practitioner_id, medication, issued_on, refill_due, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
	`, p.ID, p.PatientID, p.PractitionerID, p.Medication, p.IssuedOn, p.RefillDue)
	if err != nil {
		return fmt.Errorf("insert prescription: %w", err)
	}
	return nil
}

func (r *PgRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Prescription, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, practitioner_id, medication, issued_on, refill_due, created_at
		FROM prescriptions
		WHERE patient_id = $1
		ORDER BY issued_on DESC, created_at DESC
	`, patientID)
	if err != nil {
		return nil, fmt.Errorf("list prescriptions: %w", err)
	}
	defer rows.Close()

	var result []Prescription
	for rows.Next() {
		var p Prescription
		err := rows.Scan(
			&p.ID,
			&p.PatientID,
			&p.PractitionerID,
			&p.Medication,
			&p.IssuedOn,
			&p.RefillDue,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan prescription: %w", err)
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list prescriptions: %w", err)
	}

	return result, nil
}

func (r *PgRepository) HasAppointment(ctx context.Context, practitionerID, patientID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE practitioner_id = $1
			  AND patient_id = $2
			  AND status <> 'cancelled'
		)
	`, practitionerID, patientID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check appointment history: %w", err)
	}
	return exists, nil
}
