package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/ops-shift-api/internal/dto"
	"github.com/noah-isme/ops-shift-api/internal/models"
	appErrors "github.com/noah-isme/ops-shift-api/pkg/errors"
)

type swapAssignmentStore interface {
	BeginTx(ctx context.Context) (*sqlx.Tx, error)
	FindByID(ctx context.Context, id string) (*models.ShiftAssignment, error)
	FindByDateAndTypeForUpdate(ctx context.Context, tx *sqlx.Tx, refDate time.Time, shiftType models.ShiftType) (*models.ShiftAssignment, error)
	UpdateAssignmentStaff(ctx context.Context, tx *sqlx.Tx, id, expectedStaffID, newStaffID string) error
	ListByPeriod(ctx context.Context, periodID string) ([]models.ShiftAssignment, error)
}

type swapValidator interface {
	ValidateAssignment(assignment models.ShiftAssignment, staff []models.StaffProfile, assignments []models.ShiftAssignment) *models.ValidationResult
}

type swapRosterLister interface {
	ListActive(ctx context.Context) ([]models.StaffProfile, error)
}

type swapAuditor interface {
	Record(action, resource string, resourceID *string, oldValues, newValues interface{})
}

type swapCacheInvalidator interface {
	InvalidateDuties(ctx context.Context)
}

// SwapServiceConfig tunes the swap coordinator.
type SwapServiceConfig struct {
	// LockTimeout bounds how long a swap may hold its row lock open, from
	// transaction start through the guarded update.
	LockTimeout time.Duration
}

// SwapService moves the holder of one assignment onto a compatible slot on
// another date. The move is one way: the target slot's holder is replaced
// and the source slot keeps its original holder.
type SwapService struct {
	store       swapAssignmentStore
	roster      swapRosterLister
	validator   swapValidator
	audit       swapAuditor
	cache       swapCacheInvalidator
	logger      *zap.Logger
	lockTimeout time.Duration
}

// NewSwapService constructs a SwapService.
func NewSwapService(store swapAssignmentStore, roster swapRosterLister, validator swapValidator, audit swapAuditor, cache swapCacheInvalidator, logger *zap.Logger, cfg SwapServiceConfig) *SwapService {
	if logger == nil {
		logger = zap.NewNop()
	}
	lockTimeout := cfg.LockTimeout
	if lockTimeout <= 0 {
		lockTimeout = 5 * time.Second
	}
	return &SwapService{store: store, roster: roster, validator: validator, audit: audit, cache: cache, logger: logger, lockTimeout: lockTimeout}
}

// Swap reassigns the slot at (targetDate, shiftType) to the holder of the
// source assignment. The target row stays locked from lookup to update so
// two concurrent swaps cannot both observe the pre-swap holder. Validation
// findings on the updated slot are advisory and never roll the move back.
func (s *SwapService) Swap(ctx context.Context, sourceAssignmentID string, targetDate time.Time, targetShiftType models.ShiftType) (*dto.SwapResponse, error) {
	source, err := s.store.FindByID(ctx, sourceAssignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("assignment %s not found", sourceAssignmentID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load source assignment")
	}

	if !source.ShiftType.IsOperational() {
		return nil, appErrors.Clone(appErrors.ErrNonOperationalSource, fmt.Sprintf("assignment %s holds non-operational shift %s", source.ID, source.ShiftType))
	}
	if targetShiftType == "" {
		targetShiftType = source.ShiftType
	}
	if source.Date.Equal(targetDate) && source.ShiftType == targetShiftType {
		return nil, appErrors.Clone(appErrors.ErrValidation, "target slot is the source slot")
	}

	// The target row lock is held from transaction start through the guarded
	// update, all bounded by the configured lock timeout.
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	tx, err := s.store.BeginTx(lockCtx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open swap transaction")
	}
	defer tx.Rollback()

	target, err := s.store.FindByDateAndTypeForUpdate(lockCtx, tx, targetDate, targetShiftType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNoMatchingSlot, fmt.Sprintf("no %s assignment on %s", targetShiftType, targetDate.Format("2006-01-02")))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to locate target slot")
	}

	previousHolder := target.StaffProfileID
	if err := s.store.UpdateAssignmentStaff(lockCtx, tx, target.ID, previousHolder, source.StaffProfileID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConcurrentModification, fmt.Sprintf("assignment %s changed holder during swap", target.ID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update target assignment")
	}

	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit swap")
	}

	updated := *target
	updated.StaffProfileID = source.StaffProfileID

	validation := s.revalidate(ctx, updated)

	if s.audit != nil {
		s.audit.Record(models.AuditActionAssignmentSwap, "shift_assignment", &target.ID,
			map[string]string{"staff_profile_id": previousHolder},
			map[string]string{"staff_profile_id": source.StaffProfileID, "source_assignment_id": source.ID})
	}
	if s.cache != nil {
		s.cache.InvalidateDuties(ctx)
	}

	s.logger.Info("assignment swapped",
		zap.String("source_id", source.ID),
		zap.String("target_id", target.ID),
		zap.String("previous_holder", previousHolder),
		zap.String("new_holder", source.StaffProfileID))

	return &dto.SwapResponse{
		Source:          *source,
		Target:          updated,
		SourceUnchanged: true,
		Validation:      *validation,
	}, nil
}

// revalidate runs advisory validation on the updated slot. Blocking errors
// are downgraded to warnings since the move is already committed.
func (s *SwapService) revalidate(ctx context.Context, updated models.ShiftAssignment) *models.ValidationResult {
	advisory := models.NewValidationResult()

	roster, err := s.roster.ListActive(ctx)
	if err != nil {
		s.logger.Warn("post-swap validation skipped", zap.String("assignment_id", updated.ID), zap.Error(err))
		return advisory
	}
	assignments, err := s.store.ListByPeriod(ctx, updated.PeriodID)
	if err != nil {
		s.logger.Warn("post-swap validation skipped", zap.String("assignment_id", updated.ID), zap.Error(err))
		return advisory
	}
	for i := range assignments {
		if assignments[i].ID == updated.ID {
			assignments[i].StaffProfileID = updated.StaffProfileID
		}
	}

	result := s.validator.ValidateAssignment(updated, roster, assignments)
	for _, f := range result.Errors {
		advisory.AddWarning(f)
	}
	for _, f := range result.Warnings {
		advisory.AddWarning(f)
	}
	return advisory
}
