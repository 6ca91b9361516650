package prescription

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	prescriptions []Prescription
	treatedPairs  map[[2]uuid.UUID]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{treatedPairs: make(map[[2]uuid.UUID]bool)}
}

func (f *fakeRepo) allowPair(practitionerID, patientID uuid.UUID) {
	f.treatedPairs[[2]uuid.UUID{practitionerID, patientID}] = true
}

func (f *fakeRepo) CreatePrescription(_ context.Context, p *Prescription) error {
	f.prescriptions = append(f.prescriptions, *p)
	return nil
}

func (f *fakeRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]Prescription, error) {
	var out []Prescription
	for _, p := range f.prescriptions {
		if p.PatientID == patientID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) HasAppointment(_ context.Context, practitionerID, patientID uuid.UUID) (bool, error) {
	return f.treatedPairs[[2]uuid.UUID{practitionerID, patientID}], nil
}

func TestIssueSetsRefillDue(t *testing.T) {
	repo := newFakeRepo()
	practitionerID := uuid.New()
	patientID := uuid.New()
	repo.allowPair(practitionerID, patientID)

	interval := 30 * 24 * time.Hour
	svc := NewService(repo, interval)

	before := time.Now()
	p, err := svc.Issue(context.Background(), practitionerID, patientID, "  Amoxicillin 500mg  ")
	require.NoError(t, err)

	assert.Equal(t, "Amoxicillin 500mg", p.Medication)
	assert.Equal(t, p.IssuedOn.Add(interval), p.RefillDue)
	assert.False(t, p.IssuedOn.Before(before))

	listed, err := svc.ForPatient(context.Background(), patientID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, p.ID, listed[0].ID)
}

func TestIssueRequiresAppointment(t *testing.T) {
	svc := NewService(newFakeRepo(), 30*24*time.Hour)

	_, err := svc.Issue(context.Background(), uuid.New(), uuid.New(), "Amoxicillin 500mg")
	assert.ErrorIs(t, err, ErrNoAppointment)
}

func TestIssueRejectsEmptyMedication(t *testing.T) {
	repo := newFakeRepo()
	practitionerID := uuid.New()
	patientID := uuid.New()
	repo.allowPair(practitionerID, patientID)

	svc := NewService(repo, 30*24*time.Hour)

	_, err := svc.Issue(context.Background(), practitionerID, patientID, "   ")
	assert.ErrorIs(t, err, ErrEmptyMedication)
	assert.Empty(t, repo.prescriptions)
}
