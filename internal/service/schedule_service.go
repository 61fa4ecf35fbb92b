package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/ops-shift-api/internal/dto"
	"github.com/noah-isme/ops-shift-api/internal/models"
	appErrors "github.com/noah-isme/ops-shift-api/pkg/errors"
)

type scheduleAssignmentStore interface {
	ListByPeriod(ctx context.Context, periodID string) ([]models.ShiftAssignment, error)
	ListByDate(ctx context.Context, refDate time.Time) ([]models.ShiftAssignment, error)
	ListByStaffAndPeriod(ctx context.Context, staffProfileID, periodID string) ([]models.ShiftAssignment, error)
	BulkCreateWithTx(ctx context.Context, assignments []models.ShiftAssignment) error
}

type scheduleValidator interface {
	ValidateSchedule(staff []models.StaffProfile, assignments []models.ShiftAssignment) *models.ValidationResult
}

// ScheduleService handles manual schedule entry and validation orchestration.
type ScheduleService struct {
	store     scheduleAssignmentStore
	roster    swapRosterLister
	validator scheduleValidator
	validate  *validator.Validate
	audit     swapAuditor
	cache     swapCacheInvalidator
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewScheduleService constructs the service.
func NewScheduleService(store scheduleAssignmentStore, roster swapRosterLister, scheduleVal scheduleValidator, validate *validator.Validate, audit swapAuditor, cache swapCacheInvalidator, metrics *MetricsService, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &ScheduleService{store: store, roster: roster, validator: scheduleVal, validate: validate, audit: audit, cache: cache, metrics: metrics, logger: logger}
	svc.validate.RegisterValidation("shift_type", func(fl validator.FieldLevel) bool {
		return models.ShiftType(fl.Field().String()).Valid()
	})
	return svc
}

// ValidateProposal validates a submitted candidate schedule without storing
// anything.
func (s *ScheduleService) ValidateProposal(ctx context.Context, req dto.ValidateScheduleRequest) (*models.ValidationResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	assignments, err := parseEntries(req.PeriodID, req.Assignments)
	if err != nil {
		return nil, err
	}
	roster, err := s.roster.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff roster")
	}
	result := s.validator.ValidateSchedule(roster, assignments)
	if s.metrics != nil {
		s.metrics.RecordValidation(result.IsValid())
	}
	return result, nil
}

// ListAssignments reads stored assignments. A date filter wins over the
// period filter; a staff filter narrows the period listing.
func (s *ScheduleService) ListAssignments(ctx context.Context, req dto.AssignmentListRequest) ([]models.ShiftAssignment, error) {
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "date must use the YYYY-MM-DD format")
		}
		assignments, err := s.store.ListByDate(ctx, date)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments by date")
		}
		return assignments, nil
	}
	if req.PeriodID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "either periodId or date is required")
	}
	if req.StaffProfileID != "" {
		assignments, err := s.store.ListByStaffAndPeriod(ctx, req.StaffProfileID, req.PeriodID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list staff assignments")
		}
		return assignments, nil
	}
	assignments, err := s.store.ListByPeriod(ctx, req.PeriodID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list period assignments")
	}
	return assignments, nil
}

// BulkCreate validates and stores a batch of manually entered assignments.
// Blocking validation errors reject the whole batch; the store is never
// partially written.
func (s *ScheduleService) BulkCreate(ctx context.Context, req dto.BulkCreateAssignmentsRequest) (*models.ValidationResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	candidates, err := parseEntries(req.PeriodID, req.Assignments)
	if err != nil {
		return nil, err
	}

	roster, err := s.roster.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff roster")
	}
	existing, err := s.store.ListByPeriod(ctx, req.PeriodID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period assignments")
	}

	result := s.validator.ValidateSchedule(roster, append(existing, candidates...))
	rosterByID := make(map[string]models.StaffProfile, len(roster))
	for _, p := range roster {
		rosterByID[p.ID] = p
	}
	matrix := models.NewValidationResult()
	for _, c := range candidates {
		checkAccessMatrix(matrix, c, rosterByID)
	}
	result.Merge(matrix)
	if !result.IsValid() {
		return result, appErrors.Clone(appErrors.ErrValidation, "schedule contains blocking errors")
	}

	if err := s.store.BulkCreateWithTx(ctx, candidates); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store assignments")
	}

	if s.audit != nil {
		s.audit.Record(models.AuditActionAssignmentCreate, "shift_assignment", nil, nil,
			map[string]interface{}{"period_id": req.PeriodID, "count": len(candidates)})
	}
	if s.cache != nil {
		s.cache.InvalidateDuties(ctx)
	}
	return result, nil
}

// checkAccessMatrix enforces the slot split between server and branch
// staff: server-access staff rotate only through night and oncall slots
// while branch staff never take the oncall slot.
func checkAccessMatrix(result *models.ValidationResult, assignment models.ShiftAssignment, rosterByID map[string]models.StaffProfile) {
	profile, ok := rosterByID[assignment.StaffProfileID]
	if !ok || !assignment.ShiftType.IsOperational() {
		return
	}
	if profile.HasServerAccess {
		switch assignment.ShiftType {
		case models.ShiftNightWeekday, models.ShiftNightWeekend, models.ShiftStandbyOncall:
		default:
			result.AddError(models.Finding{
				Rule:           models.RuleNightCapability,
				Message:        fmt.Sprintf("%s has server access and rotates only through night and oncall slots, not %s", profile.StaffName, assignment.ShiftType),
				StaffProfileID: profile.ID,
				Date:           dateKey(assignment.Date),
				ShiftType:      assignment.ShiftType,
			})
		}
		return
	}
	if assignment.ShiftType == models.ShiftStandbyOncall {
		result.AddError(models.Finding{
			Rule:           models.RuleNightCapability,
			Message:        fmt.Sprintf("%s has no server access and cannot take the oncall slot", profile.StaffName),
			StaffProfileID: profile.ID,
			Date:           dateKey(assignment.Date),
			ShiftType:      assignment.ShiftType,
		})
	}
}

// parseEntries converts request entries into assignments with dates
// normalized to midnight UTC, rejecting unknown shift types and dates
// outside the period's month.
func parseEntries(periodID string, entries []dto.AssignmentEntry) ([]models.ShiftAssignment, error) {
	periodStart, err := time.Parse("2006-01", periodID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("malformed period id %q, want YYYY-MM", periodID))
	}
	periodEnd := periodStart.AddDate(0, 1, 0)

	assignments := make([]models.ShiftAssignment, 0, len(entries))
	for _, entry := range entries {
		shiftType := models.ShiftType(entry.ShiftType)
		if !shiftType.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown shift type %q", entry.ShiftType))
		}
		date, err := time.ParseInLocation("2006-01-02", entry.Date, time.UTC)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("malformed date %q", entry.Date))
		}
		if date.Before(periodStart) || !date.Before(periodEnd) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("date %s falls outside period %s", entry.Date, periodID))
		}
		assignments = append(assignments, models.ShiftAssignment{
			StaffProfileID: entry.StaffProfileID,
			PeriodID:       periodID,
			Date:           date,
			ShiftType:      shiftType,
		})
	}
	return assignments, nil
}
