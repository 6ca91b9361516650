package complaint

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	complaints map[uuid.UUID]*Complaint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{complaints: make(map[uuid.UUID]*Complaint)}
}

func (f *fakeRepo) CreateComplaint(_ context.Context, c *Complaint) error {
	clone := *c
	f.complaints[c.ID] = &clone
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Complaint, error) {
	c, ok := f.complaints[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (f *fakeRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]Complaint, error) {
	var out []Complaint
	for _, c := range f.complaints {
		if c.PatientID == patientID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to Status) (*Complaint, error) {
	c, ok := f.complaints[id]
	if !ok || c.Status != from {
		return nil, ErrNotFound
	}
	c.Status = to
	clone := *c
	return &clone, nil
}

func TestSubmitStartsPending(t *testing.T) {
	svc := NewService(newFakeRepo())
	patientID := uuid.New()

	c, err := svc.Submit(context.Background(), patientID, "  Waited three hours at the clinic.  ")
	require.NoError(t, err)

	assert.Equal(t, StatusPending, c.Status)
	assert.Equal(t, "Waited three hours at the clinic.", c.Content)

	listed, err := svc.ForPatient(context.Background(), patientID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, c.ID, listed[0].ID)
}

func TestSubmitRejectsEmptyContent(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Submit(context.Background(), uuid.New(), "   ")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestResolveIsIdempotent(t *testing.T) {
	svc := NewService(newFakeRepo())

	c, err := svc.Submit(context.Background(), uuid.New(), "No wheelchair access at reception.")
	require.NoError(t, err)

	resolved, err := svc.Resolve(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, resolved.Status)

	// Resolving again is a no-op that still reports the resolved state.
	again, err := svc.Resolve(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, again.Status)
}

func TestResolveUnknownComplaint(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Resolve(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
