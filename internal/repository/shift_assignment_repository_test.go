package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ops-shift-api/internal/models"
)

func newShiftAssignmentMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func shiftAssignmentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "staff_profile_id", "period_id", "shift_date", "shift_type", "created_at", "updated_at",
	})
}

func TestShiftAssignmentRepositoryListByPeriod(t *testing.T) {
	db, mock, cleanup := newShiftAssignmentMock(t)
	defer cleanup()
	repo := NewShiftAssignmentRepository(db)

	now := time.Now()
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM shift_assignments WHERE period_id =").
		WithArgs("2026-03").
		WillReturnRows(shiftAssignmentRows().
			AddRow("assign-1", "staff-1", "2026-03", date, "SATURDAY_DAY", now, now).
			AddRow("assign-2", "staff-2", "2026-03", date, "NIGHT_WEEKEND", now, now))

	assignments, err := repo.ListByPeriod(context.Background(), "2026-03")
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, models.ShiftNightWeekend, assignments[1].ShiftType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftAssignmentRepositoryListByDate(t *testing.T) {
	db, mock, cleanup := newShiftAssignmentMock(t)
	defer cleanup()
	repo := NewShiftAssignmentRepository(db)

	date := time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)
	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM shift_assignments WHERE shift_date =").
		WithArgs(date).
		WillReturnRows(shiftAssignmentRows().
			AddRow("assign-1", "staff-1", "2026-03", date, "STANDBY_BRANCH", now, now))

	assignments, err := repo.ListByDate(context.Background(), date)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, models.ShiftStandbyBranch, assignments[0].ShiftType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftAssignmentRepositoryFindByDateAndTypeForUpdate(t *testing.T) {
	db, mock, cleanup := newShiftAssignmentMock(t)
	defer cleanup()
	repo := NewShiftAssignmentRepository(db)

	date := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(date, models.ShiftNightWeekday).
		WillReturnRows(shiftAssignmentRows().
			AddRow("assign-9", "staff-2", "2026-03", date, "NIGHT_WEEKDAY", now, now))
	mock.ExpectCommit()

	tx, err := repo.BeginTx(context.Background())
	require.NoError(t, err)

	assignment, err := repo.FindByDateAndTypeForUpdate(context.Background(), tx, date, models.ShiftNightWeekday)
	require.NoError(t, err)
	assert.Equal(t, "assign-9", assignment.ID)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftAssignmentRepositoryFindByDateAndTypeForUpdateEmpty(t *testing.T) {
	db, mock, cleanup := newShiftAssignmentMock(t)
	defer cleanup()
	repo := NewShiftAssignmentRepository(db)

	date := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(date, models.ShiftSundayDay).
		WillReturnRows(shiftAssignmentRows())
	mock.ExpectRollback()

	tx, err := repo.BeginTx(context.Background())
	require.NoError(t, err)

	_, err = repo.FindByDateAndTypeForUpdate(context.Background(), tx, date, models.ShiftSundayDay)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftAssignmentRepositoryUpdateAssignmentStaff(t *testing.T) {
	db, mock, cleanup := newShiftAssignmentMock(t)
	defer cleanup()
	repo := NewShiftAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE shift_assignments SET staff_profile_id = $1, updated_at = $2 WHERE id = $3 AND staff_profile_id = $4")).
		WithArgs("staff-1", sqlmock.AnyArg(), "assign-9", "staff-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := repo.BeginTx(context.Background())
	require.NoError(t, err)
	require.NoError(t, repo.UpdateAssignmentStaff(context.Background(), tx, "assign-9", "staff-2", "staff-1"))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftAssignmentRepositoryUpdateAssignmentStaffConcurrentChange(t *testing.T) {
	db, mock, cleanup := newShiftAssignmentMock(t)
	defer cleanup()
	repo := NewShiftAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE shift_assignments SET staff_profile_id").
		WithArgs("staff-1", sqlmock.AnyArg(), "assign-9", "staff-2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := repo.BeginTx(context.Background())
	require.NoError(t, err)
	err = repo.UpdateAssignmentStaff(context.Background(), tx, "assign-9", "staff-2", "staff-1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftAssignmentRepositoryBulkCreate(t *testing.T) {
	db, mock, cleanup := newShiftAssignmentMock(t)
	defer cleanup()
	repo := NewShiftAssignmentRepository(db)

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO shift_assignments").
		WithArgs(sqlmock.AnyArg(), "staff-1", "2026-03", date, "NIGHT_WEEKDAY", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO shift_assignments").
		WithArgs(sqlmock.AnyArg(), "staff-2", "2026-03", date, "STANDBY_ONCALL", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	assignments := []models.ShiftAssignment{
		{StaffProfileID: "staff-1", PeriodID: "2026-03", Date: date, ShiftType: models.ShiftNightWeekday},
		{StaffProfileID: "staff-2", PeriodID: "2026-03", Date: date, ShiftType: models.ShiftStandbyOncall},
	}
	require.NoError(t, repo.BulkCreateWithTx(context.Background(), assignments))
	assert.NotEmpty(t, assignments[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
