package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var apptColumns = []string{
	"id", "patient_id", "practitioner_id", "slot_start", "duration_minutes", "status", "created_at", "updated_at",
}

func TestBookSlotCommitsWhenFree(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPgRepository(mock)

	patientID := uuid.New()
	practitionerID := uuid.New()
	slot := Slot{Start: testMonday.Add(9 * time.Hour), Duration: 30 * time.Minute}
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id").
		WithArgs(practitionerID, slot.End(), slot.Start).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs(pgxmock.AnyArg(), patientID, practitionerID, slot.Start, 30).
		WillReturnRows(pgxmock.NewRows(apptColumns).
			AddRow(uuid.New(), patientID, practitionerID, slot.Start, 30, StatusScheduled, now, now))
	mock.ExpectCommit()

	appt, err := repo.BookSlot(context.Background(), patientID, practitionerID, slot)
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, appt.Status)
	assert.Equal(t, 30*time.Minute, appt.Duration)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookSlotRejectsOccupiedRange(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPgRepository(mock)

	practitionerID := uuid.New()
	slot := Slot{Start: testMonday.Add(9 * time.Hour), Duration: 30 * time.Minute}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id").
		WithArgs(practitionerID, slot.End(), slot.Start).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectRollback()

	_, err = repo.BookSlot(context.Background(), uuid.New(), practitionerID, slot)
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookSlotWrapsStorageFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPgRepository(mock)

	practitionerID := uuid.New()
	slot := Slot{Start: testMonday.Add(9 * time.Hour), Duration: 30 * time.Minute}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id").
		WithArgs(practitionerID, slot.End(), slot.Start).
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	_, err = repo.BookSlot(context.Background(), uuid.New(), practitionerID, slot)
	assert.ErrorIs(t, err, ErrStorage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionStatusConditional(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPgRepository(mock)

	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery("UPDATE appointments").
		WithArgs(id, StatusCancelled, StatusScheduled).
		WillReturnRows(pgxmock.NewRows(apptColumns).
			AddRow(id, uuid.New(), uuid.New(), testMonday.Add(9*time.Hour), 30, StatusCancelled, now, now))

	appt, err := repo.TransitionStatus(context.Background(), id, StatusScheduled, StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, appt.Status)

	// No row in the from state: the conditional update matches nothing.
	mock.ExpectQuery("UPDATE appointments").
		WithArgs(id, StatusCancelled, StatusScheduled).
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.TransitionStatus(context.Background(), id, StatusScheduled, StatusCancelled)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByPatientOrdersAndHydrates(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPgRepository(mock)

	patientID := uuid.New()
	practitionerID := uuid.New()
	now := time.Now()

	columns := append(append([]string{}, apptColumns...), "patient_name", "practitioner_name")
	mock.ExpectQuery("SELECT (.+) FROM appointments a").
		WithArgs(patientID).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow(uuid.New(), patientID, practitionerID, testMonday.Add(9*time.Hour), 30, StatusScheduled, now, now, "Thandi Mokoena", "Dr. Naidoo").
			AddRow(uuid.New(), patientID, practitionerID, testMonday.Add(10*time.Hour), 30, StatusCancelled, now, now, "Thandi Mokoena", "Dr. Naidoo"))

	details, err := repo.ListByPatient(context.Background(), patientID)
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, "Dr. Naidoo", details[0].PractitionerName)
	assert.True(t, details[0].SlotStart.Before(details[1].SlotStart))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPractitionerScansWorkHours(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPgRepository(mock)

	id := uuid.New()
	now := time.Now()
	hours := WorkHours{"monday": {Start: "08:00", End: "16:00"}}

	mock.ExpectQuery("SELECT (.+) FROM practitioners").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "full_name", "specialty", "work_hours", "active", "created_at", "updated_at",
		}).AddRow(id, "Dr. Naidoo", nil, hours, true, now, now))

	pr, err := repo.GetPractitionerByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, pr.Active)

	window, ok := pr.WorkHours.WindowFor(time.Monday)
	require.True(t, ok)
	assert.Equal(t, "08:00", window.Start)
	assert.NoError(t, mock.ExpectationsWereMet())
}
