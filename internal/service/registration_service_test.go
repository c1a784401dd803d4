package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslink/alumni-hub-api/internal/models"
	appErrors "github.com/campuslink/alumni-hub-api/pkg/errors"
)

type mockRegistrationRepo struct {
	registrations map[string]models.Registration
	updated       *models.Registration
	bulkStatused  []string
	bulkStatus    models.RegistrationStatus
	bulkDeleted   []string
	deleted       []string
	byEvent       []models.RegistrationDetail
}

func (m *mockRegistrationRepo) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	if r, ok := m.registrations[id]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockRegistrationRepo) Update(ctx context.Context, reg *models.Registration) error {
	m.updated = reg
	return nil
}

func (m *mockRegistrationRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.registrations[id]; !ok {
		return sql.ErrNoRows
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockRegistrationRepo) BulkUpdateStatus(ctx context.Context, ids []string, status models.RegistrationStatus) (int64, error) {
	m.bulkStatused = append(m.bulkStatused, ids...)
	m.bulkStatus = status
	return int64(len(ids)), nil
}

func (m *mockRegistrationRepo) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	m.bulkDeleted = append(m.bulkDeleted, ids...)
	return int64(len(ids)), nil
}

func (m *mockRegistrationRepo) ListByEvent(ctx context.Context, eventID string) ([]models.RegistrationDetail, error) {
	return m.byEvent, nil
}

func (m *mockRegistrationRepo) CountByEvent(ctx context.Context, eventID string) (int, error) {
	return len(m.byEvent), nil
}

func TestRegistrationServiceEdit(t *testing.T) {
	repo := &mockRegistrationRepo{registrations: map[string]models.Registration{
		"reg-1": {ID: "reg-1", EventID: "evt-1", UserID: "usr-1", Status: models.RegistrationStatusPending},
	}}
	svc := NewRegistrationService(repo, nil, nil)

	notes := "arrived late"
	reg, err := svc.Edit(context.Background(), "reg-1", EditRegistrationRequest{
		Status:     "approved",
		AdminNotes: &notes,
		Attended:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusApproved, reg.Status)
	assert.True(t, reg.Attended)
	require.NotNil(t, repo.updated)
	assert.Equal(t, &notes, repo.updated.AdminNotes)
}

func TestRegistrationServiceEditRejectsUnknownStatus(t *testing.T) {
	repo := &mockRegistrationRepo{registrations: map[string]models.Registration{
		"reg-1": {ID: "reg-1", Status: models.RegistrationStatusPending},
	}}
	svc := NewRegistrationService(repo, nil, nil)

	_, err := svc.Edit(context.Background(), "reg-1", EditRegistrationRequest{Status: "maybe"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.updated)
}

func TestRegistrationServiceBulkApprove(t *testing.T) {
	repo := &mockRegistrationRepo{}
	svc := NewRegistrationService(repo, nil, nil)

	updated, err := svc.BulkApprove(context.Background(), []string{"reg-1", "reg-2"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated)
	assert.Equal(t, models.RegistrationStatusApproved, repo.bulkStatus)
}

func TestRegistrationServiceBulkApproveRejectsEmptySelection(t *testing.T) {
	repo := &mockRegistrationRepo{}
	svc := NewRegistrationService(repo, nil, nil)

	_, err := svc.BulkApprove(context.Background(), []string{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.bulkStatused)
}

func TestRegistrationServiceBulkRemoveRejectsEmptySelection(t *testing.T) {
	repo := &mockRegistrationRepo{}
	svc := NewRegistrationService(repo, nil, nil)

	_, err := svc.BulkRemove(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.bulkDeleted)
}

func TestRegistrationServiceRemoveMissing(t *testing.T) {
	svc := NewRegistrationService(&mockRegistrationRepo{}, nil, nil)

	err := svc.Remove(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
