package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ops-shift-api/internal/models"
)

func newDutyChecklistMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestDutyChecklistRepositoryListClaims(t *testing.T) {
	db, mock, cleanup := newDutyChecklistMock(t)
	defer cleanup()
	repo := NewDutyChecklistRepository(db)

	claimDate := time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "staff_profile_id", "duty_type", "claim_date", "item_key", "completed", "created_at", "updated_at"}).
		AddRow("claim-1", "staff-1", "MONITORING_MALAM", claimDate, "check-backup", true, now, now).
		AddRow("claim-2", "staff-1", "MONITORING_MALAM", claimDate, "check-disk", false, now, now)
	mock.ExpectQuery("FROM duty_checklist_claims").
		WithArgs(models.DutyMonitoringMalam, claimDate).
		WillReturnRows(rows)

	claims, err := repo.ListClaims(context.Background(), models.DutyMonitoringMalam, claimDate)
	require.NoError(t, err)
	require.Len(t, claims, 2)
	assert.True(t, claims[0].Completed)
	assert.Equal(t, "check-disk", claims[1].ItemKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDutyChecklistRepositoryCountClaims(t *testing.T) {
	db, mock, cleanup := newDutyChecklistMock(t)
	defer cleanup()
	repo := NewDutyChecklistRepository(db)

	claimDate := time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM duty_checklist_claims").
		WithArgs(models.DutyOpsSiang, claimDate).
		WillReturnRows(sqlmock.NewRows([]string{"completed", "total"}).AddRow(3, 5))

	counts, err := repo.CountClaims(context.Background(), models.DutyOpsSiang, claimDate)
	require.NoError(t, err)
	assert.Equal(t, 3, counts.Completed)
	assert.Equal(t, 5, counts.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
