package complaint

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kznhealth/queue-booking/internal/db"
)

type PgRepository struct {
	pool db.Querier
}

func NewPgRepository(pool db.Querier) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanComplaint(row pgx.Row) (*Complaint, error) {
	var c Complaint

	err := row.Scan(
		&c.ID,
		&c.PatientID,
		&c.Content,
		&c.Status,
		&c.SubmittedOn,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &c, nil
}

func (r *PgRepository) CreateComplaint(ctx context.Context, c *Complaint) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO complaints (id, patient_id, content, status, submitted_on, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
	`, c.ID, c.PatientID, c.Content, c.Status, c.SubmittedOn)
	if err != nil {
		return fmt.Errorf("insert complaint: %w", err)
	}
	return nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Complaint, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, patient_id, content, status, submitted_on, updated_at
		FROM complaints
		WHERE id = $1
	`, id)
	return scanComplaint(row)
}

func (r *PgRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Complaint, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, content, status, submitted_on, updated_at
		FROM complaints
		WHERE patient_id = $1
		ORDER BY submitted_on DESC
	`, patientID)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	defer rows.Close()

	var result []Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan complaint: %w", err)
		}
		result = append(result, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}

	return result, nil
}

func (r *PgRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (*Complaint, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE complaints
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		  AND status = $3
		RETURNING id, patient_id, content, status, submitted_on, updated_at
	`, id, to, from)

	return scanComplaint(row)
}
