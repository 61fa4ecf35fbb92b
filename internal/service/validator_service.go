package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ops-shift-api/internal/models"
	appErrors "github.com/noah-isme/ops-shift-api/pkg/errors"
)

type staffProfileLister interface {
	ListActive(ctx context.Context) ([]models.StaffProfile, error)
	FindByID(ctx context.Context, id string) (*models.StaffProfile, error)
}

type assignmentPeriodLister interface {
	ListByPeriod(ctx context.Context, periodID string) ([]models.ShiftAssignment, error)
}

// ValidatorServiceConfig tunes rule evaluation.
type ValidatorServiceConfig struct {
	// SabbathWeekdays are the weekdays on which sabbath-restricted staff
	// must not hold a night shift.
	SabbathWeekdays []time.Weekday
}

// ValidatorService checks shift schedules against per-assignment eligibility
// rules and schedule-wide coverage rules. Evaluation over a snapshot is pure
// so concurrent callers need no coordination.
type ValidatorService struct {
	staff       staffProfileLister
	assignments assignmentPeriodLister
	logger      *zap.Logger
	sabbath     map[time.Weekday]bool
}

// NewValidatorService constructs a ValidatorService.
func NewValidatorService(staff staffProfileLister, assignments assignmentPeriodLister, logger *zap.Logger, cfg ValidatorServiceConfig) *ValidatorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	sabbath := map[time.Weekday]bool{}
	days := cfg.SabbathWeekdays
	if len(days) == 0 {
		days = []time.Weekday{time.Friday, time.Saturday}
	}
	for _, d := range days {
		sabbath[d] = true
	}
	return &ValidatorService{staff: staff, assignments: assignments, logger: logger, sabbath: sabbath}
}

// ValidateSchedule evaluates every rule over the given roster and assignment
// snapshot.
func (s *ValidatorService) ValidateSchedule(staff []models.StaffProfile, assignments []models.ShiftAssignment) *models.ValidationResult {
	result := models.NewValidationResult()

	staffByID := make(map[string]models.StaffProfile, len(staff))
	for _, p := range staff {
		staffByID[p.ID] = p
	}
	byStaff := groupByStaff(assignments)

	for _, assignment := range assignments {
		s.checkAssignment(result, assignment, staffByID, byStaff[assignment.StaffProfileID])
	}
	s.checkCoverage(result, assignments, staffByID)

	return result
}

// ValidateAssignment evaluates the per-assignment rules for a single slot
// against the full assignment set of the same staff member.
func (s *ValidatorService) ValidateAssignment(assignment models.ShiftAssignment, staff []models.StaffProfile, assignments []models.ShiftAssignment) *models.ValidationResult {
	result := models.NewValidationResult()

	staffByID := make(map[string]models.StaffProfile, len(staff))
	for _, p := range staff {
		staffByID[p.ID] = p
	}
	var own []models.ShiftAssignment
	for _, a := range assignments {
		if a.StaffProfileID == assignment.StaffProfileID {
			own = append(own, a)
		}
	}
	s.checkAssignment(result, assignment, staffByID, own)
	return result
}

// ValidatePeriod loads the active roster and the period's assignments and
// validates the whole schedule.
func (s *ValidatorService) ValidatePeriod(ctx context.Context, periodID string) (*models.ValidationResult, error) {
	staff, err := s.staff.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load staff roster: %w", err)
	}
	assignments, err := s.assignments.ListByPeriod(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("load period assignments: %w", err)
	}
	return s.ValidateSchedule(staff, assignments), nil
}

// CanAssign answers whether adding the candidate slot to the period would
// introduce blocking errors, without mutating anything.
func (s *ValidatorService) CanAssign(ctx context.Context, periodID, staffProfileID string, date time.Time, shiftType models.ShiftType) (*models.ValidationResult, error) {
	profile, err := s.staff.FindByID(ctx, staffProfileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			result := models.NewValidationResult()
			result.AddError(models.Finding{
				Rule:           models.RuleUnknownStaff,
				Message:        fmt.Sprintf("staff profile %s not found", staffProfileID),
				StaffProfileID: staffProfileID,
			})
			return result, nil
		}
		return nil, err
	}
	assignments, err := s.assignments.ListByPeriod(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("load period assignments: %w", err)
	}

	candidate := models.ShiftAssignment{
		StaffProfileID: staffProfileID,
		PeriodID:       periodID,
		Date:           date,
		ShiftType:      shiftType,
	}
	return s.ValidateAssignment(candidate, []models.StaffProfile{*profile}, append(assignments, candidate)), nil
}

// ValidateAndReport runs ValidatePeriod and wraps unexpected failures into
// the application error taxonomy.
func (s *ValidatorService) ValidateAndReport(ctx context.Context, periodID string) (*models.ValidationResult, error) {
	result, err := s.ValidatePeriod(ctx, periodID)
	if err != nil {
		s.logger.Error("schedule validation failed", zap.String("period_id", periodID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate schedule")
	}
	return result, nil
}

func (s *ValidatorService) checkAssignment(result *models.ValidationResult, assignment models.ShiftAssignment, staffByID map[string]models.StaffProfile, own []models.ShiftAssignment) {
	if !assignment.ShiftType.IsOperational() {
		return
	}

	profile, known := staffByID[assignment.StaffProfileID]
	if !known {
		result.AddError(models.Finding{
			Rule:           models.RuleUnknownStaff,
			Message:        fmt.Sprintf("assignment on %s references unknown staff profile %s", dateKey(assignment.Date), assignment.StaffProfileID),
			StaffProfileID: assignment.StaffProfileID,
			Date:           dateKey(assignment.Date),
			ShiftType:      assignment.ShiftType,
		})
		return
	}

	overlapping := 0
	for _, a := range own {
		if a.ShiftType.IsOperational() && a.Date.Equal(assignment.Date) {
			overlapping++
		}
	}
	if overlapping > 1 {
		// One error per staff and date regardless of how many slots collide.
		result.AddError(models.Finding{
			Rule:           models.RuleDoubleBooked,
			Message:        fmt.Sprintf("%s holds %d operational assignments on %s, expected at most one", profile.StaffName, overlapping, dateKey(assignment.Date)),
			StaffProfileID: profile.ID,
			Date:           dateKey(assignment.Date),
		})
	}

	if assignment.ShiftType.IsNight() && !profile.CanWorkNightShift {
		result.AddError(models.Finding{
			Rule:           models.RuleNightCapability,
			Message:        fmt.Sprintf("%s cannot work night shifts but is assigned %s on %s", profile.StaffName, assignment.ShiftType, dateKey(assignment.Date)),
			StaffProfileID: profile.ID,
			Date:           dateKey(assignment.Date),
			ShiftType:      assignment.ShiftType,
		})
	}
	if assignment.ShiftType.IsWeekendDay() && !profile.CanWorkWeekendDay {
		result.AddError(models.Finding{
			Rule:           models.RuleWeekendCapability,
			Message:        fmt.Sprintf("%s cannot work weekend days but is assigned %s on %s", profile.StaffName, assignment.ShiftType, dateKey(assignment.Date)),
			StaffProfileID: profile.ID,
			Date:           dateKey(assignment.Date),
			ShiftType:      assignment.ShiftType,
		})
	}
	if profile.HasSabbathRestriction && assignment.ShiftType.IsNight() && s.sabbath[assignment.Date.Weekday()] {
		result.AddError(models.Finding{
			Rule:           models.RuleSabbathRestricted,
			Message:        fmt.Sprintf("%s has a sabbath restriction and cannot hold %s on %s", profile.StaffName, assignment.ShiftType, assignment.Date.Weekday()),
			StaffProfileID: profile.ID,
			Date:           dateKey(assignment.Date),
			ShiftType:      assignment.ShiftType,
		})
	}

	if assignment.ShiftType.IsNight() {
		s.checkNightCap(result, assignment, profile, own)
		s.checkRestGap(result, assignment, profile, own)
		s.checkRestDay(result, assignment, profile, own)
	}
}

func (s *ValidatorService) checkNightCap(result *models.ValidationResult, assignment models.ShiftAssignment, profile models.StaffProfile, own []models.ShiftAssignment) {
	// A cap of zero is a real cap, so any night assignment trips the warning.
	if profile.MaxNightShiftsPerMonth < 0 {
		return
	}
	count := 0
	for _, a := range own {
		if a.PeriodID == assignment.PeriodID && a.ShiftType.IsNight() {
			count++
		}
	}
	if count >= profile.MaxNightShiftsPerMonth {
		// One warning per staff and period regardless of how many night
		// slots tripped the cap.
		result.AddWarning(models.Finding{
			Rule:           models.RuleNightCapReached,
			Message:        fmt.Sprintf("%s holds %d night shifts in period %s, at or above the cap of %d", profile.StaffName, count, assignment.PeriodID, profile.MaxNightShiftsPerMonth),
			StaffProfileID: profile.ID,
		})
	}
}

func (s *ValidatorService) checkRestGap(result *models.ValidationResult, assignment models.ShiftAssignment, profile models.StaffProfile, own []models.ShiftAssignment) {
	if profile.MinDaysBetweenNightShift <= 0 {
		return
	}
	var prior *models.ShiftAssignment
	for i := range own {
		a := own[i]
		if !a.ShiftType.IsNight() || !a.Date.Before(assignment.Date) {
			continue
		}
		if prior == nil || a.Date.After(prior.Date) {
			prior = &own[i]
		}
	}
	if prior == nil {
		return
	}
	gap := int(assignment.Date.Sub(prior.Date) / (24 * time.Hour))
	if gap < profile.MinDaysBetweenNightShift {
		result.AddError(models.Finding{
			Rule:           models.RuleRestGapTooShort,
			Message:        fmt.Sprintf("%s has night shifts %d day(s) apart (%s and %s), below the minimum of %d", profile.StaffName, gap, dateKey(prior.Date), dateKey(assignment.Date), profile.MinDaysBetweenNightShift),
			StaffProfileID: profile.ID,
			Date:           dateKey(assignment.Date),
		})
	}
}

func (s *ValidatorService) checkRestDay(result *models.ValidationResult, assignment models.ShiftAssignment, profile models.StaffProfile, own []models.ShiftAssignment) {
	nextDay := assignment.Date.AddDate(0, 0, 1)
	for _, a := range own {
		if !a.Date.Equal(nextDay) || a.ShiftType == models.ShiftOff {
			continue
		}
		result.AddWarning(models.Finding{
			Rule:           models.RuleMissingRestDay,
			Message:        fmt.Sprintf("%s works %s on %s directly after a night shift instead of a rest day", profile.StaffName, a.ShiftType, dateKey(a.Date)),
			StaffProfileID: profile.ID,
			Date:           dateKey(a.Date),
		})
	}
}

func (s *ValidatorService) checkCoverage(result *models.ValidationResult, assignments []models.ShiftAssignment, staffByID map[string]models.StaffProfile) {
	byDate := map[string][]models.ShiftAssignment{}
	for _, a := range assignments {
		key := dateKey(a.Date)
		byDate[key] = append(byDate[key], a)
	}

	dates := make([]string, 0, len(byDate))
	for key := range byDate {
		dates = append(dates, key)
	}
	sort.Strings(dates)

	for _, key := range dates {
		dayAssignments := byDate[key]
		weekday := dayAssignments[0].Date.Weekday()

		switch weekday {
		case time.Saturday:
			s.checkWeekendCoverage(result, key, dayAssignments, models.ShiftSaturdayDay, staffByID)
		case time.Sunday:
			s.checkWeekendCoverage(result, key, dayAssignments, models.ShiftSundayDay, staffByID)
		default:
			nightCount := 0
			for _, a := range dayAssignments {
				if a.ShiftType == models.ShiftNightWeekday {
					nightCount++
				}
			}
			if nightCount > 1 {
				result.AddWarning(models.Finding{
					Rule:    models.RuleNightOverstaffed,
					Message: fmt.Sprintf("%d staff hold NIGHT_WEEKDAY on %s, expected exactly one", nightCount, key),
					Date:    key,
				})
			}
		}
	}
}

func (s *ValidatorService) checkWeekendCoverage(result *models.ValidationResult, key string, dayAssignments []models.ShiftAssignment, dayShift models.ShiftType, staffByID map[string]models.StaffProfile) {
	count := 0
	hasServerAccess := false
	for _, a := range dayAssignments {
		if a.ShiftType != dayShift {
			continue
		}
		count++
		if p, ok := staffByID[a.StaffProfileID]; ok && p.HasServerAccess {
			hasServerAccess = true
		}
	}
	if count < 2 {
		result.AddWarning(models.Finding{
			Rule:      models.RuleWeekendUnderstaffed,
			Message:   fmt.Sprintf("only %d staff hold %s on %s, expected at least two", count, dayShift, key),
			Date:      key,
			ShiftType: dayShift,
		})
	}
	if count > 0 && !hasServerAccess {
		result.AddWarning(models.Finding{
			Rule:      models.RuleWeekendNoServerAccess,
			Message:   fmt.Sprintf("no %s assignee on %s has server access", dayShift, key),
			Date:      key,
			ShiftType: dayShift,
		})
	}
}

func groupByStaff(assignments []models.ShiftAssignment) map[string][]models.ShiftAssignment {
	grouped := map[string][]models.ShiftAssignment{}
	for _, a := range assignments {
		grouped[a.StaffProfileID] = append(grouped[a.StaffProfileID], a)
	}
	return grouped
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
