package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ops-shift-api/internal/dto"
	"github.com/noah-isme/ops-shift-api/internal/models"
	appErrors "github.com/noah-isme/ops-shift-api/pkg/errors"
)

type fakeStaffStore struct {
	byID     map[string]models.StaffProfile
	upserted *models.StaffProfile
	listed   models.StaffProfileFilter
}

func (f *fakeStaffStore) FindByID(_ context.Context, id string) (*models.StaffProfile, error) {
	if p, ok := f.byID[id]; ok {
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStaffStore) List(_ context.Context, filter models.StaffProfileFilter) ([]models.StaffProfile, int, error) {
	f.listed = filter
	return nil, 0, nil
}

func (f *fakeStaffStore) Upsert(_ context.Context, profile *models.StaffProfile) error {
	f.upserted = profile
	return nil
}

func TestStaffProfileGetNotFound(t *testing.T) {
	store := &fakeStaffStore{byID: map[string]models.StaffProfile{}}
	svc := NewStaffProfileService(store, nil, nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestStaffProfileUpsertDefaultsActive(t *testing.T) {
	store := &fakeStaffStore{byID: map[string]models.StaffProfile{}}
	auditor := &fakeAuditor{}
	invalidator := &fakeInvalidator{}
	svc := NewStaffProfileService(store, auditor, invalidator, nil)

	profile, err := svc.Upsert(context.Background(), dto.UpsertStaffProfileRequest{
		StaffName:         "Budi",
		CanWorkNightShift: true,
	})
	require.NoError(t, err)
	assert.True(t, profile.Active)
	require.NotNil(t, store.upserted)
	assert.Equal(t, "Budi", store.upserted.StaffName)
	assert.Equal(t, []string{models.AuditActionProfileUpsert}, auditor.actions)
	assert.Equal(t, 1, invalidator.calls)
}

func TestStaffProfileUpsertPreservesCreatedAt(t *testing.T) {
	created := time.Date(2025, time.November, 3, 8, 0, 0, 0, time.UTC)
	store := &fakeStaffStore{byID: map[string]models.StaffProfile{
		"staff-1": {ID: "staff-1", StaffName: "Budi", Active: true, CreatedAt: created},
	}}
	svc := NewStaffProfileService(store, nil, nil, nil)

	inactive := false
	profile, err := svc.Upsert(context.Background(), dto.UpsertStaffProfileRequest{
		ID:        "staff-1",
		StaffName: "Budi Santoso",
		Active:    &inactive,
	})
	require.NoError(t, err)
	assert.False(t, profile.Active)
	assert.True(t, profile.CreatedAt.Equal(created))
}
