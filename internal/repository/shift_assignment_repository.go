package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ops-shift-api/internal/models"
)

// ShiftAssignmentRepository persists shift assignments. Swap mutations run
// inside a caller-scoped transaction so the target row stays locked between
// the lookup and the update.
type ShiftAssignmentRepository struct {
	db *sqlx.DB
}

// NewShiftAssignmentRepository constructs the repository.
func NewShiftAssignmentRepository(db *sqlx.DB) *ShiftAssignmentRepository {
	return &ShiftAssignmentRepository{db: db}
}

const shiftAssignmentColumns = `id, staff_profile_id, period_id, shift_date, shift_type, created_at, updated_at`

// BeginTx opens a transaction for a multi-statement mutation.
func (r *ShiftAssignmentRepository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin assignment tx: %w", err)
	}
	return tx, nil
}

// FindByID returns one assignment or sql.ErrNoRows.
func (r *ShiftAssignmentRepository) FindByID(ctx context.Context, id string) (*models.ShiftAssignment, error) {
	query := `SELECT ` + shiftAssignmentColumns + ` FROM shift_assignments WHERE id = $1`
	var assignment models.ShiftAssignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find shift assignment: %w", err)
	}
	return &assignment, nil
}

// ListByPeriod returns every assignment in the period ordered by date.
func (r *ShiftAssignmentRepository) ListByPeriod(ctx context.Context, periodID string) ([]models.ShiftAssignment, error) {
	query := `SELECT ` + shiftAssignmentColumns + ` FROM shift_assignments WHERE period_id = $1 ORDER BY shift_date ASC, staff_profile_id ASC`
	var assignments []models.ShiftAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, periodID); err != nil {
		return nil, fmt.Errorf("list assignments by period: %w", err)
	}
	return assignments, nil
}

// ListByDate returns every assignment stored against refDate.
func (r *ShiftAssignmentRepository) ListByDate(ctx context.Context, refDate time.Time) ([]models.ShiftAssignment, error) {
	query := `SELECT ` + shiftAssignmentColumns + ` FROM shift_assignments WHERE shift_date = $1 ORDER BY staff_profile_id ASC`
	var assignments []models.ShiftAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, refDate); err != nil {
		return nil, fmt.Errorf("list assignments by date: %w", err)
	}
	return assignments, nil
}

// ListByStaffAndPeriod returns one staff member's assignments in a period.
func (r *ShiftAssignmentRepository) ListByStaffAndPeriod(ctx context.Context, staffProfileID, periodID string) ([]models.ShiftAssignment, error) {
	query := `SELECT ` + shiftAssignmentColumns + ` FROM shift_assignments WHERE staff_profile_id = $1 AND period_id = $2 ORDER BY shift_date ASC`
	var assignments []models.ShiftAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, staffProfileID, periodID); err != nil {
		return nil, fmt.Errorf("list assignments by staff and period: %w", err)
	}
	return assignments, nil
}

// FindByDateAndTypeForUpdate locks and returns the assignment at the
// (date, shift type) slot within tx, or sql.ErrNoRows when the slot is
// empty.
func (r *ShiftAssignmentRepository) FindByDateAndTypeForUpdate(ctx context.Context, tx *sqlx.Tx, refDate time.Time, shiftType models.ShiftType) (*models.ShiftAssignment, error) {
	query := `SELECT ` + shiftAssignmentColumns + ` FROM shift_assignments WHERE shift_date = $1 AND shift_type = $2 LIMIT 1 FOR UPDATE`
	var assignment models.ShiftAssignment
	if err := tx.GetContext(ctx, &assignment, query, refDate, shiftType); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("lock assignment slot: %w", err)
	}
	return &assignment, nil
}

// UpdateAssignmentStaff rewrites the holder of the assignment within tx.
// expectedStaffID guards against a concurrent holder change between the
// caller's read and this write.
func (r *ShiftAssignmentRepository) UpdateAssignmentStaff(ctx context.Context, tx *sqlx.Tx, id, expectedStaffID, newStaffID string) error {
	const query = `UPDATE shift_assignments SET staff_profile_id = $1, updated_at = $2 WHERE id = $3 AND staff_profile_id = $4`
	result, err := tx.ExecContext(ctx, query, newStaffID, time.Now().UTC(), id, expectedStaffID)
	if err != nil {
		return fmt.Errorf("update assignment staff: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated assignment rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// BulkCreateWithTx inserts all assignments atomically.
func (r *ShiftAssignmentRepository) BulkCreateWithTx(ctx context.Context, assignments []models.ShiftAssignment) error {
	if len(assignments) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk create tx: %w", err)
	}
	defer tx.Rollback()

	const query = `INSERT INTO shift_assignments (id, staff_profile_id, period_id, shift_date, shift_type, created_at, updated_at)
		VALUES (:id, :staff_profile_id, :period_id, :shift_date, :shift_type, :created_at, :updated_at)`
	now := time.Now().UTC()
	for i := range assignments {
		if assignments[i].ID == "" {
			assignments[i].ID = uuid.NewString()
		}
		if assignments[i].CreatedAt.IsZero() {
			assignments[i].CreatedAt = now
		}
		assignments[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, query, assignments[i]); err != nil {
			return fmt.Errorf("bulk create assignment: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk create: %w", err)
	}
	return nil
}
