package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ops-shift-api/internal/models"
)

type fakeDutyStaff struct {
	roster       []models.StaffProfile
	eligible     []models.StaffProfile
	eligibleDate time.Time
}

func (f *fakeDutyStaff) ListActive(context.Context) ([]models.StaffProfile, error) {
	return f.roster, nil
}

func (f *fakeDutyStaff) ListEligibleServerAccess(_ context.Context, refDate time.Time) ([]models.StaffProfile, error) {
	f.eligibleDate = refDate
	return f.eligible, nil
}

type fakeDutyAssignments struct {
	byDate  map[string][]models.ShiftAssignment
	queried []time.Time
}

func (f *fakeDutyAssignments) ListByDate(_ context.Context, refDate time.Time) ([]models.ShiftAssignment, error) {
	f.queried = append(f.queried, refDate)
	return f.byDate[refDate.Format("2006-01-02")], nil
}

type fakeDutyChecklist struct {
	counts map[string]models.ChecklistCounts
}

func (f *fakeDutyChecklist) CountClaims(_ context.Context, dutyType models.DutyType, claimDate time.Time) (models.ChecklistCounts, error) {
	return f.counts[string(dutyType)+"|"+claimDate.Format("2006-01-02")], nil
}

func makassar(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Makassar")
	require.NoError(t, err)
	return loc
}

func newDutyFixture(t *testing.T, site *time.Location, now time.Time) (*DutyService, *fakeDutyStaff, *fakeDutyAssignments, *fakeDutyChecklist) {
	t.Helper()
	staff := &fakeDutyStaff{}
	assignments := &fakeDutyAssignments{byDate: map[string][]models.ShiftAssignment{}}
	checklist := &fakeDutyChecklist{counts: map[string]models.ChecklistCounts{}}

	svc := NewDutyService(DutyServiceParams{
		Staff:      staff,
		Assignment: assignments,
		Checklist:  checklist,
		Site:       site,
	})
	svc.now = func() time.Time { return now }
	return svc, staff, assignments, checklist
}

func slotByType(t *testing.T, resolution *models.DutyResolution, dutyType models.DutyType) models.DutySlot {
	t.Helper()
	for _, slot := range resolution.Duties {
		if slot.Type == dutyType {
			return slot
		}
	}
	t.Fatalf("duty %s not present in resolution", dutyType)
	return models.DutySlot{}
}

func TestResolveDutiesDayWindow(t *testing.T) {
	site := makassar(t)
	now := time.Date(2026, 3, 17, 10, 0, 0, 0, site)
	svc, staff, assignments, _ := newDutyFixture(t, site, now)

	branch := nightCapableStaff("staff-1", "Andi")
	server := nightCapableStaff("staff-2", "Budi")
	server.HasServerAccess = true
	staff.roster = []models.StaffProfile{branch, server}
	staff.eligible = []models.StaffProfile{server}

	assignments.byDate["2026-03-17"] = []models.ShiftAssignment{
		{ID: "a1", StaffProfileID: "staff-1", PeriodID: "2026-03", Date: marchDay(17), ShiftType: models.ShiftStandbyBranch},
	}

	resolution, cached, err := svc.ResolveDuties(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.True(t, resolution.IsDayWindow)
	assert.Equal(t, "2026-03-17", resolution.AssignmentDate)

	opsSiang := slotByType(t, resolution, models.DutyOpsSiang)
	assert.Equal(t, models.DutyModeAuto, opsSiang.Mode)
	require.Len(t, opsSiang.Assignees, 1)
	assert.Equal(t, "staff-1", opsSiang.Assignees[0].StaffProfileID)

	monitoring := slotByType(t, resolution, models.DutyMonitoringSiang)
	assert.Equal(t, models.DutyModeManualClaim, monitoring.Mode)
	assert.Empty(t, monitoring.Assignees)
	require.Len(t, monitoring.Eligible, 1)
	assert.Equal(t, "staff-2", monitoring.Eligible[0].StaffProfileID)
	assert.Equal(t, "2026-03-17", staff.eligibleDate.Format("2006-01-02"))
}

func TestResolveDutiesEarlyMorningUsesYesterday(t *testing.T) {
	site := makassar(t)
	now := time.Date(2026, 3, 17, 2, 0, 0, 0, site)
	svc, staff, assignments, _ := newDutyFixture(t, site, now)

	server := nightCapableStaff("staff-2", "Budi")
	server.HasServerAccess = true
	plain := nightCapableStaff("staff-3", "Citra")
	staff.roster = []models.StaffProfile{server, plain}

	assignments.byDate["2026-03-16"] = []models.ShiftAssignment{
		{ID: "a1", StaffProfileID: "staff-2", PeriodID: "2026-03", Date: marchDay(16), ShiftType: models.ShiftNightWeekday},
		{ID: "a2", StaffProfileID: "staff-3", PeriodID: "2026-03", Date: marchDay(16), ShiftType: models.ShiftNightWeekday},
	}

	resolution, _, err := svc.ResolveDuties(context.Background())
	require.NoError(t, err)
	assert.True(t, resolution.IsNightWindow)
	assert.Equal(t, "2026-03-16", resolution.AssignmentDate)
	require.Len(t, assignments.queried, 1)
	assert.Equal(t, "2026-03-16", assignments.queried[0].Format("2006-01-02"))

	monitoring := slotByType(t, resolution, models.DutyMonitoringMalam)
	require.Len(t, monitoring.Assignees, 1)
	assert.Equal(t, "staff-2", monitoring.Assignees[0].StaffProfileID)

	ops := slotByType(t, resolution, models.DutyOpsMalam)
	require.Len(t, ops.Assignees, 1)
	assert.Equal(t, "staff-3", ops.Assignees[0].StaffProfileID)
}

func TestResolveDutiesNightWindowBeforeMidnight(t *testing.T) {
	site := makassar(t)
	now := time.Date(2026, 3, 17, 21, 0, 0, 0, site)
	svc, staff, assignments, _ := newDutyFixture(t, site, now)

	plain := nightCapableStaff("staff-3", "Citra")
	staff.roster = []models.StaffProfile{plain}
	assignments.byDate["2026-03-17"] = []models.ShiftAssignment{
		{ID: "a1", StaffProfileID: "staff-3", PeriodID: "2026-03", Date: marchDay(17), ShiftType: models.ShiftNightWeekday},
	}

	resolution, _, err := svc.ResolveDuties(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-03-17", resolution.AssignmentDate)
	assert.Equal(t, "2026-03-17", resolution.ChecklistDate)

	ops := slotByType(t, resolution, models.DutyOpsMalam)
	require.Len(t, ops.Assignees, 1)
}

func TestResolveDutiesChecklistProgress(t *testing.T) {
	site := makassar(t)
	now := time.Date(2026, 3, 17, 10, 0, 0, 0, site)
	svc, _, _, checklist := newDutyFixture(t, site, now)

	checklist.counts["OPS_SIANG|2026-03-17"] = models.ChecklistCounts{Completed: 3, Total: 5}

	resolution, _, err := svc.ResolveDuties(context.Background())
	require.NoError(t, err)

	opsSiang := slotByType(t, resolution, models.DutyOpsSiang)
	assert.Equal(t, 60, opsSiang.Progress.Percent)
	assert.Equal(t, 3, opsSiang.Progress.Completed)
	assert.True(t, opsSiang.Claimed)

	monitoring := slotByType(t, resolution, models.DutyMonitoringSiang)
	assert.Equal(t, 0, monitoring.Progress.Percent)
	assert.Equal(t, 0, monitoring.Progress.Total)
	assert.False(t, monitoring.Claimed)

	assert.Equal(t, 5, resolution.Stats.TotalItems)
	assert.Equal(t, 3, resolution.Stats.Completed)
	assert.Equal(t, 2, resolution.Stats.Pending)
}
