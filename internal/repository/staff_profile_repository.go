package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ops-shift-api/internal/models"
)

// StaffProfileRepository persists staff scheduling profiles.
type StaffProfileRepository struct {
	db *sqlx.DB
}

// NewStaffProfileRepository constructs the repository.
func NewStaffProfileRepository(db *sqlx.DB) *StaffProfileRepository {
	return &StaffProfileRepository{db: db}
}

const staffProfileColumns = `id, staff_name, can_work_night_shift, can_work_weekend_day, has_server_access,
       has_sabbath_restriction, max_night_shifts_per_month, min_days_between_night_shifts, active, created_at, updated_at`

// FindByID returns one profile or sql.ErrNoRows.
func (r *StaffProfileRepository) FindByID(ctx context.Context, id string) (*models.StaffProfile, error) {
	query := `SELECT ` + staffProfileColumns + ` FROM staff_profiles WHERE id = $1`
	var profile models.StaffProfile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find staff profile: %w", err)
	}
	return &profile, nil
}

// ListActive returns every active profile ordered by name.
func (r *StaffProfileRepository) ListActive(ctx context.Context) ([]models.StaffProfile, error) {
	query := `SELECT ` + staffProfileColumns + ` FROM staff_profiles WHERE active = TRUE ORDER BY staff_name ASC`
	var profiles []models.StaffProfile
	if err := r.db.SelectContext(ctx, &profiles, query); err != nil {
		return nil, fmt.Errorf("list active staff profiles: %w", err)
	}
	return profiles, nil
}

// List returns profiles matching filter plus the total count.
func (r *StaffProfileRepository) List(ctx context.Context, filter models.StaffProfileFilter) ([]models.StaffProfile, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	idx := 1

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("staff_name ILIKE $%d", idx))
		args = append(args, "%"+filter.Search+"%")
		idx++
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", idx))
		args = append(args, *filter.Active)
		idx++
	}
	if filter.HasServerAccess != nil {
		conditions = append(conditions, fmt.Sprintf("has_server_access = $%d", idx))
		args = append(args, *filter.HasServerAccess)
		idx++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := `SELECT COUNT(*) FROM staff_profiles WHERE ` + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count staff profiles: %w", err)
	}

	sortBy := "staff_name"
	if filter.SortBy == "created_at" || filter.SortBy == "updated_at" {
		sortBy = filter.SortBy
	}
	sortOrder := "ASC"
	if strings.EqualFold(filter.SortOrder, "desc") {
		sortOrder = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := fmt.Sprintf(`SELECT %s FROM staff_profiles WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		staffProfileColumns, where, sortBy, sortOrder, idx, idx+1)
	args = append(args, pageSize, (page-1)*pageSize)

	var profiles []models.StaffProfile
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list staff profiles: %w", err)
	}
	return profiles, total, nil
}

// Upsert inserts the profile or updates every mutable column when the ID
// already exists.
func (r *StaffProfileRepository) Upsert(ctx context.Context, profile *models.StaffProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	const query = `INSERT INTO staff_profiles (id, staff_name, can_work_night_shift, can_work_weekend_day,
		has_server_access, has_sabbath_restriction, max_night_shifts_per_month, min_days_between_night_shifts,
		active, created_at, updated_at)
	VALUES (:id, :staff_name, :can_work_night_shift, :can_work_weekend_day, :has_server_access,
		:has_sabbath_restriction, :max_night_shifts_per_month, :min_days_between_night_shifts,
		:active, :created_at, :updated_at)
	ON CONFLICT (id) DO UPDATE SET
		staff_name = EXCLUDED.staff_name,
		can_work_night_shift = EXCLUDED.can_work_night_shift,
		can_work_weekend_day = EXCLUDED.can_work_weekend_day,
		has_server_access = EXCLUDED.has_server_access,
		has_sabbath_restriction = EXCLUDED.has_sabbath_restriction,
		max_night_shifts_per_month = EXCLUDED.max_night_shifts_per_month,
		min_days_between_night_shifts = EXCLUDED.min_days_between_night_shifts,
		active = EXCLUDED.active,
		updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("upsert staff profile: %w", err)
	}
	return nil
}

// ListEligibleServerAccess returns active profiles with server access that
// do not hold a night shift on refDate. These are the candidates for the
// manual-claim monitoring duty during the day window.
func (r *StaffProfileRepository) ListEligibleServerAccess(ctx context.Context, refDate time.Time) ([]models.StaffProfile, error) {
	query := `SELECT ` + staffProfileColumns + `
FROM staff_profiles sp
WHERE sp.active = TRUE
  AND sp.has_server_access = TRUE
  AND NOT EXISTS (
	SELECT 1 FROM shift_assignments sa
	WHERE sa.staff_profile_id = sp.id
	  AND sa.shift_date = $1
	  AND sa.shift_type IN ('NIGHT_WEEKDAY', 'NIGHT_WEEKEND')
  )
ORDER BY sp.staff_name ASC`
	var profiles []models.StaffProfile
	if err := r.db.SelectContext(ctx, &profiles, query, refDate); err != nil {
		return nil, fmt.Errorf("list eligible server access profiles: %w", err)
	}
	return profiles, nil
}
