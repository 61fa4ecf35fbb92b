package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ops-shift-api/internal/models"
)

// DutyChecklistRepository reads checklist claims recorded against local
// calendar days.
type DutyChecklistRepository struct {
	db *sqlx.DB
}

// NewDutyChecklistRepository constructs the repository.
func NewDutyChecklistRepository(db *sqlx.DB) *DutyChecklistRepository {
	return &DutyChecklistRepository{db: db}
}

// ListClaims returns the claims for one duty type on one local day.
func (r *DutyChecklistRepository) ListClaims(ctx context.Context, dutyType models.DutyType, claimDate time.Time) ([]models.ChecklistClaim, error) {
	const query = `SELECT id, staff_profile_id, duty_type, claim_date, item_key, completed, created_at, updated_at
FROM duty_checklist_claims
WHERE duty_type = $1 AND claim_date = $2
ORDER BY item_key ASC`
	var claims []models.ChecklistClaim
	if err := r.db.SelectContext(ctx, &claims, query, dutyType, claimDate); err != nil {
		return nil, fmt.Errorf("list checklist claims: %w", err)
	}
	return claims, nil
}

// CountClaims returns completed and total claim counts for one duty type on
// one local day.
func (r *DutyChecklistRepository) CountClaims(ctx context.Context, dutyType models.DutyType, claimDate time.Time) (models.ChecklistCounts, error) {
	const query = `SELECT COUNT(*) FILTER (WHERE completed) AS completed, COUNT(*) AS total
FROM duty_checklist_claims
WHERE duty_type = $1 AND claim_date = $2`
	var counts models.ChecklistCounts
	if err := r.db.GetContext(ctx, &counts, query, dutyType, claimDate); err != nil {
		return models.ChecklistCounts{}, fmt.Errorf("count checklist claims: %w", err)
	}
	return counts, nil
}
