package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ops-shift-api/internal/models"
)

// March 2026: the 14th is a Saturday, the 20th a Friday.
func marchDay(day int) time.Time {
	return time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC)
}

func nightCapableStaff(id, name string) models.StaffProfile {
	return models.StaffProfile{
		ID:                       id,
		StaffName:                name,
		CanWorkNightShift:        true,
		CanWorkWeekendDay:        true,
		MaxNightShiftsPerMonth:   10,
		MinDaysBetweenNightShift: 0,
		Active:                   true,
	}
}

func hasRule(findings []models.Finding, rule models.RuleCode) bool {
	for _, f := range findings {
		if f.Rule == rule {
			return true
		}
	}
	return false
}

func newTestValidator() *ValidatorService {
	return NewValidatorService(nil, nil, nil, ValidatorServiceConfig{})
}

func TestValidateScheduleDeterministic(t *testing.T) {
	svc := newTestValidator()
	staff := []models.StaffProfile{nightCapableStaff("staff-1", "Andi")}
	assignments := []models.ShiftAssignment{
		{ID: "a1", StaffProfileID: "staff-1", PeriodID: "2026-03", Date: marchDay(16), ShiftType: models.ShiftNightWeekday},
		{ID: "a2", StaffProfileID: "staff-1", PeriodID: "2026-03", Date: marchDay(14), ShiftType: models.ShiftSaturdayDay},
	}

	first := svc.ValidateSchedule(staff, assignments)
	second := svc.ValidateSchedule(staff, assignments)
	assert.Equal(t, first.Errors, second.Errors)
	assert.Equal(t, first.Warnings, second.Warnings)
	assert.Equal(t, first.IsValid(), second.IsValid())
}

func TestValidateScheduleNightCapability(t *testing.T) {
	svc := newTestValidator()
	staff := []models.StaffProfile{{ID: "staff-1", StaffName: "Budi", CanWorkNightShift: false, Active: true}}
	assignments := []models.ShiftAssignment{
		{ID: "a1", StaffProfileID: "staff-1", PeriodID: "2026-03", Date: marchDay(17), ShiftType: models.ShiftNightWeekday},
	}

	result := svc.ValidateSchedule(staff, assignments)
	assert.False(t, result.IsValid())
	require.True(t, hasRule(result.Errors, models.RuleNightCapability))
	assert.Contains(t, result.Errors[0].Message, "Budi")
}

func TestValidateScheduleWeekendCapability(t *testing.T) {
	svc := newTestValidator()
	staff := []models.StaffProfile{{ID: "staff-1", StaffName: "Citra", CanWorkNightShift: true, CanWorkWeekendDay: false, Active: true}}
	assignments := []models.ShiftAssignment{
		{ID: "a1", StaffProfileID: "staff-1", PeriodID: "2026-03", Date: marchDay(14), ShiftType: models.ShiftSaturdayDay},
	}

	result := svc.ValidateSchedule(staff, assignments)
	assert.True(t, hasRule(result.Errors, models.RuleWeekendCapability))
}

func TestValidateScheduleSabbathRestriction(t *testing.T) {
	svc := newTestValidator()
	restricted := nightCapableStaff("staff-1", "Dewi")
	restricted.HasSabbathRestriction = true
	staff := []models.StaffProfile{restricted}

	// March 20 2026 is a Friday.
	assignments := []models.ShiftAssignment{
		{ID: "a1", StaffProfileID: "staff-1", PeriodID: "2026-03", Date: marchDay(20), ShiftType: models.ShiftNightWeekday},
	}
	result := svc.ValidateSchedule(staff, assignments)
	assert.True(t, hasRule(result.Errors, models.RuleSabbathRestricted))

	// A Tuesday night does not trip the restriction.
	assignments[0].Date = marchDay(17)
	result = svc.ValidateSchedule(staff, assignments)
	assert.False(t, hasRule(result.Errors, models.RuleSabbathRestricted))
}

func TestValidateScheduleRestGap(t *testing.T) {
	svc := newTestValidator()
	profile := nightCapableStaff("staff-1", "Eka")
	profile.MinDaysBetweenNightShift = 3
	staff := []models.StaffProfile{profile}

	tooClose := []models.ShiftAssignment{
		{ID: "a1", StaffProfileID: "staff-1", PeriodID: "2026-03", Date: marchDay(16), ShiftType: models.ShiftNightWeekday},
		{ID: "a2", StaffProfileID: "staff-1", PeriodID: "2026-03", Date: marchDay(18), ShiftType: models.ShiftNightWeekday},
	}
	result := svc.ValidateSchedule(staff, tooClose)
	assert.True(t, hasRule(result.Errors, models.RuleRestGapTooShort))

	exactGap := []models.ShiftAssignment{
		{ID: "a1", StaffProfileID: "staff-1", PeriodID: "2026-03", Date: marchDay(16), ShiftType: models.ShiftNightWeekday},
		{ID: "a2", StaffProfileID: "staff-1", PeriodID: "2026-03", Date: marchDay(19), ShiftType: models.ShiftNightWeekday},
	}
	result = svc.ValidateSchedule(staff, exactGap)
	assert.False(t, hasRule(result.Errors, models.RuleRestGapTooShort))
}

func TestValidateScheduleNightCap(t *testing.T) {
	svc := newTestValidator()
	profile := nightCapableStaff("staff-1", "Fajar")
	profile.MaxNightShiftsPerMonth = 2
	staff := []models.StaffProfile{profile}

	assignments := []models.ShiftAssignment{
		{ID: "a1", StaffProfileID: "staff-1", PeriodID: "2026-03", Date: marchDay(10), ShiftType: models.ShiftNightWeekday},
		{ID: "a2", StaffProfileID: "staff-1", PeriodID: "2026-03", Date: marchDay(17), ShiftType: models.ShiftNightWeekday},
	}
	result := svc.ValidateSchedule(staff, assignments)
	assert.True(t, result.IsValid())
	require.True(t, hasRule(result.Warnings, models.RuleNightCapReached))

	capWarnings := 0
	for _, w := range result.Warnings {
		if w.Rule == models.RuleNightCapReached {
			capWarnings++
		}
	}
	assert.Equal(t, 1, capWarnings)
}

func TestValidateScheduleZeroNightCap(t *testing.T) {
	svc := newTestValidator()
	profile := nightCapableStaff("staff-1", "Gani")
	profile.MaxNightShiftsPerMonth = 0
	staff := []models.StaffProfile{profile}

	assignments := []models.ShiftAssignment{
		{ID: "a1", StaffProfileID: "staff-1", PeriodID: "2026-03", Date: marchDay(17), ShiftType: models.ShiftNightWeekday},
	}
	result := svc.ValidateSchedule(staff, assignments)
	assert.True(t, result.IsValid())
	assert.True(t, hasRule(result.Warnings, models.RuleNightCapReached))
}

func TestValidateScheduleDoubleBooking(t *testing.T) {
	svc := newTestValidator()
	staff := []models.StaffProfile{nightCapableStaff("staff-1", "Nadia")}

	assignments := []models.ShiftAssignment{
		{ID: "a1", StaffProfileID: "staff-1", PeriodID: "2026-03", Date: marchDay(14), ShiftType: models.ShiftSaturdayDay},
		{ID: "a2", StaffProfileID: "staff-1", PeriodID: "2026-03", Date: marchDay(14), ShiftType: models.ShiftStandbyBranch},
	}
	result := svc.ValidateSchedule(staff, assignments)
	assert.False(t, result.IsValid())
	require.True(t, hasRule(result.Errors, models.RuleDoubleBooked))

	doubleBooked := 0
	for _, e := range result.Errors {
		if e.Rule == models.RuleDoubleBooked {
			doubleBooked++
		}
	}
	assert.Equal(t, 1, doubleBooked)

	// An OFF marker alongside an operational slot is not a collision.
	offDay := []models.ShiftAssignment{
		{ID: "a1", StaffProfileID: "staff-1", PeriodID: "2026-03", Date: marchDay(14), ShiftType: models.ShiftSaturdayDay},
		{ID: "a2", StaffProfileID: "staff-1", PeriodID: "2026-03", Date: marchDay(14), ShiftType: models.ShiftOff},
	}
	result = svc.ValidateSchedule(staff, offDay)
	assert.False(t, hasRule(result.Errors, models.RuleDoubleBooked))
}

func TestValidateScheduleMissingRestDay(t *testing.T) {
	svc := newTestValidator()
	staff := []models.StaffProfile{nightCapableStaff("staff-1", "Gita")}

	assignments := []models.ShiftAssignment{
		{ID: "a1", StaffProfileID: "staff-1", PeriodID: "2026-03", Date: marchDay(16), ShiftType: models.ShiftNightWeekday},
		{ID: "a2", StaffProfileID: "staff-1", PeriodID: "2026-03", Date: marchDay(17), ShiftType: models.ShiftStandbyBranch},
	}
	result := svc.ValidateSchedule(staff, assignments)
	assert.True(t, hasRule(result.Warnings, models.RuleMissingRestDay))

	assignments[1].ShiftType = models.ShiftOff
	result = svc.ValidateSchedule(staff, assignments)
	assert.False(t, hasRule(result.Warnings, models.RuleMissingRestDay))
}

func TestValidateScheduleSaturdayCoverage(t *testing.T) {
	svc := newTestValidator()
	one := nightCapableStaff("staff-1", "Hasan")
	two := nightCapableStaff("staff-2", "Indra")
	two.HasServerAccess = true
	staff := []models.StaffProfile{one, two}

	single := []models.ShiftAssignment{
		{ID: "a1", StaffProfileID: "staff-1", PeriodID: "2026-03", Date: marchDay(14), ShiftType: models.ShiftSaturdayDay},
	}
	result := svc.ValidateSchedule(staff, single)
	assert.True(t, hasRule(result.Warnings, models.RuleWeekendUnderstaffed))
	assert.True(t, hasRule(result.Warnings, models.RuleWeekendNoServerAccess))

	pair := append(single, models.ShiftAssignment{
		ID: "a2", StaffProfileID: "staff-2", PeriodID: "2026-03", Date: marchDay(14), ShiftType: models.ShiftSaturdayDay,
	})
	result = svc.ValidateSchedule(staff, pair)
	assert.False(t, hasRule(result.Warnings, models.RuleWeekendUnderstaffed))
	assert.False(t, hasRule(result.Warnings, models.RuleWeekendNoServerAccess))
}

func TestValidateScheduleWeekdayNightOverstaffed(t *testing.T) {
	svc := newTestValidator()
	staff := []models.StaffProfile{nightCapableStaff("staff-1", "Joko"), nightCapableStaff("staff-2", "Kiki")}

	assignments := []models.ShiftAssignment{
		{ID: "a1", StaffProfileID: "staff-1", PeriodID: "2026-03", Date: marchDay(17), ShiftType: models.ShiftNightWeekday},
		{ID: "a2", StaffProfileID: "staff-2", PeriodID: "2026-03", Date: marchDay(17), ShiftType: models.ShiftNightWeekday},
	}
	result := svc.ValidateSchedule(staff, assignments)
	assert.True(t, hasRule(result.Warnings, models.RuleNightOverstaffed))
}

func TestValidateScheduleUnknownStaff(t *testing.T) {
	svc := newTestValidator()
	assignments := []models.ShiftAssignment{
		{ID: "a1", StaffProfileID: "ghost", PeriodID: "2026-03", Date: marchDay(17), ShiftType: models.ShiftNightWeekday},
	}
	result := svc.ValidateSchedule(nil, assignments)
	assert.True(t, hasRule(result.Errors, models.RuleUnknownStaff))
}

func TestValidateScheduleNonOperationalExempt(t *testing.T) {
	svc := newTestValidator()
	staff := []models.StaffProfile{{ID: "staff-1", StaffName: "Lina", Active: true}}

	assignments := []models.ShiftAssignment{
		{ID: "a1", StaffProfileID: "staff-1", PeriodID: "2026-03", Date: marchDay(14), ShiftType: models.ShiftLeave},
		{ID: "a2", StaffProfileID: "staff-1", PeriodID: "2026-03", Date: marchDay(15), ShiftType: models.ShiftHoliday},
	}
	result := svc.ValidateSchedule(staff, assignments)
	assert.Empty(t, result.Errors)
}

type fakeStaffLister struct {
	profiles []models.StaffProfile
	byID     map[string]*models.StaffProfile
}

func (f *fakeStaffLister) ListActive(context.Context) ([]models.StaffProfile, error) {
	return f.profiles, nil
}

func (f *fakeStaffLister) FindByID(_ context.Context, id string) (*models.StaffProfile, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

type fakeAssignmentLister struct {
	assignments []models.ShiftAssignment
}

func (f *fakeAssignmentLister) ListByPeriod(context.Context, string) ([]models.ShiftAssignment, error) {
	return f.assignments, nil
}

func TestCanAssignUnknownStaff(t *testing.T) {
	staff := &fakeStaffLister{byID: map[string]*models.StaffProfile{}}
	svc := NewValidatorService(staff, &fakeAssignmentLister{}, nil, ValidatorServiceConfig{})

	result, err := svc.CanAssign(context.Background(), "2026-03", "ghost", marchDay(17), models.ShiftNightWeekday)
	require.NoError(t, err)
	assert.False(t, result.IsValid())
	assert.True(t, hasRule(result.Errors, models.RuleUnknownStaff))
}

func TestCanAssignAgainstExistingNights(t *testing.T) {
	profile := nightCapableStaff("staff-1", "Mira")
	profile.MinDaysBetweenNightShift = 3
	staff := &fakeStaffLister{byID: map[string]*models.StaffProfile{"staff-1": &profile}}
	assignments := &fakeAssignmentLister{assignments: []models.ShiftAssignment{
		{ID: "a1", StaffProfileID: "staff-1", PeriodID: "2026-03", Date: marchDay(16), ShiftType: models.ShiftNightWeekday},
	}}
	svc := NewValidatorService(staff, assignments, nil, ValidatorServiceConfig{})

	result, err := svc.CanAssign(context.Background(), "2026-03", "staff-1", marchDay(18), models.ShiftNightWeekday)
	require.NoError(t, err)
	assert.True(t, hasRule(result.Errors, models.RuleRestGapTooShort))

	result, err = svc.CanAssign(context.Background(), "2026-03", "staff-1", marchDay(19), models.ShiftNightWeekday)
	require.NoError(t, err)
	assert.True(t, result.IsValid())
}
