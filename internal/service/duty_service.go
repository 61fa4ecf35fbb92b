package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ops-shift-api/internal/models"
	"github.com/noah-isme/ops-shift-api/internal/timewindow"
	appErrors "github.com/noah-isme/ops-shift-api/pkg/errors"
)

type dutyStaffReader interface {
	ListActive(ctx context.Context) ([]models.StaffProfile, error)
	ListEligibleServerAccess(ctx context.Context, refDate time.Time) ([]models.StaffProfile, error)
}

type dutyAssignmentReader interface {
	ListByDate(ctx context.Context, refDate time.Time) ([]models.ShiftAssignment, error)
}

type dutyChecklistReader interface {
	CountClaims(ctx context.Context, dutyType models.DutyType, claimDate time.Time) (models.ChecklistCounts, error)
}

// DutyServiceConfig tunes duty resolution.
type DutyServiceConfig struct {
	CacheTTL time.Duration
}

// DutyService answers "who is on duty right now". It is read-only with
// respect to assignments and claims.
type DutyService struct {
	staff      dutyStaffReader
	assignment dutyAssignmentReader
	checklist  dutyChecklistReader
	cache      *CacheService
	metrics    *MetricsService
	site       *time.Location
	logger     *zap.Logger
	now        func() time.Time
	cfg        DutyServiceConfig
}

// DutyServiceParams groups constructor dependencies.
type DutyServiceParams struct {
	Staff      dutyStaffReader
	Assignment dutyAssignmentReader
	Checklist  dutyChecklistReader
	Cache      *CacheService
	Metrics    *MetricsService
	Site       *time.Location
	Logger     *zap.Logger
	Config     DutyServiceConfig
}

// NewDutyService constructs a DutyService.
func NewDutyService(params DutyServiceParams) *DutyService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	site := params.Site
	if site == nil {
		site = time.UTC
	}
	return &DutyService{
		staff:      params.Staff,
		assignment: params.Assignment,
		checklist:  params.Checklist,
		cache:      params.Cache,
		metrics:    params.Metrics,
		site:       site,
		logger:     logger,
		now:        time.Now,
		cfg:        cfg,
	}
}

// ResolveDuties classifies the current instant and returns every duty slot
// with its auto-assigned holders, eligible claimants and checklist progress.
// The clock is read exactly once so the whole resolution sits on one side of
// every window boundary. Returns true when served from cache.
func (s *DutyService) ResolveDuties(ctx context.Context) (*models.DutyResolution, bool, error) {
	started := time.Now()
	window := timewindow.Resolve(s.now(), s.site)

	cacheKey := dutyCacheKey(window)
	if s.cache.Enabled() {
		var cached models.DutyResolution
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	resolution, err := s.resolve(ctx, window)
	if err != nil {
		s.logger.Error("duty resolution failed", zap.Error(err))
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve duties")
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, cacheKey, resolution, s.cfg.CacheTTL)
	}
	if s.metrics != nil {
		s.metrics.ObserveDutyResolution(time.Since(started))
	}
	return resolution, false, nil
}

func (s *DutyService) resolve(ctx context.Context, window timewindow.Window) (*models.DutyResolution, error) {
	assignmentDate := window.AssignmentDate()

	roster, err := s.staff.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load staff roster: %w", err)
	}
	staffByID := make(map[string]models.StaffProfile, len(roster))
	for _, p := range roster {
		staffByID[p.ID] = p
	}

	assignments, err := s.assignment.ListByDate(ctx, assignmentDate.Time())
	if err != nil {
		return nil, fmt.Errorf("load active assignments: %w", err)
	}

	resolution := &models.DutyResolution{
		ServerTime:     window.Now,
		LocalHour:      window.LocalHour,
		IsDayWindow:    window.IsDayTime,
		IsNightWindow:  window.IsNightTime,
		AssignmentDate: assignmentDate.String(),
	}
	if window.IsDayTime {
		resolution.ChecklistDate = window.DayChecklistDate().String()
	} else {
		resolution.ChecklistDate = window.NightChecklistDate().String()
	}

	opsSiang := models.DutySlot{Type: models.DutyOpsSiang, Mode: models.DutyModeAuto, Active: window.IsDayTime, Assignees: []models.DutyAssignee{}}
	monitoringSiang := models.DutySlot{Type: models.DutyMonitoringSiang, Mode: models.DutyModeManualClaim, Active: window.IsDayTime, Assignees: []models.DutyAssignee{}}
	opsMalam := models.DutySlot{Type: models.DutyOpsMalam, Mode: models.DutyModeAuto, Active: window.IsNightTime, Assignees: []models.DutyAssignee{}}
	monitoringMalam := models.DutySlot{Type: models.DutyMonitoringMalam, Mode: models.DutyModeAuto, Active: window.IsNightTime, Assignees: []models.DutyAssignee{}}

	if window.IsDayTime {
		for _, a := range assignments {
			if a.ShiftType != models.ShiftStandbyBranch {
				continue
			}
			if assignee, ok := toAssignee(a.StaffProfileID, staffByID); ok {
				opsSiang.Assignees = append(opsSiang.Assignees, assignee)
			}
		}

		eligible, err := s.staff.ListEligibleServerAccess(ctx, window.TodayReference.Time())
		if err != nil {
			return nil, fmt.Errorf("load eligible claimants: %w", err)
		}
		monitoringSiang.Eligible = make([]models.DutyAssignee, 0, len(eligible))
		for _, p := range eligible {
			monitoringSiang.Eligible = append(monitoringSiang.Eligible, models.DutyAssignee{
				StaffProfileID:  p.ID,
				StaffName:       p.StaffName,
				HasServerAccess: p.HasServerAccess,
			})
		}
	} else {
		for _, a := range assignments {
			if !a.ShiftType.IsNight() {
				continue
			}
			assignee, ok := toAssignee(a.StaffProfileID, staffByID)
			if !ok {
				continue
			}
			if assignee.HasServerAccess {
				monitoringMalam.Assignees = append(monitoringMalam.Assignees, assignee)
			} else {
				opsMalam.Assignees = append(opsMalam.Assignees, assignee)
			}
		}
	}

	dayDate := window.DayChecklistDate().Time()
	nightDate := window.NightChecklistDate().Time()
	slots := []struct {
		slot *models.DutySlot
		date time.Time
	}{
		{&opsSiang, dayDate},
		{&monitoringSiang, dayDate},
		{&opsMalam, nightDate},
		{&monitoringMalam, nightDate},
	}
	for _, entry := range slots {
		counts, err := s.checklist.CountClaims(ctx, entry.slot.Type, entry.date)
		if err != nil {
			return nil, fmt.Errorf("count claims for %s: %w", entry.slot.Type, err)
		}
		entry.slot.Progress = toProgress(counts)
		entry.slot.Claimed = counts.Total > 0
		if entry.slot.Active {
			resolution.Stats.TotalItems += counts.Total
			resolution.Stats.Completed += counts.Completed
		}
	}
	resolution.Stats.Pending = resolution.Stats.TotalItems - resolution.Stats.Completed

	resolution.Duties = []models.DutySlot{opsSiang, monitoringSiang, opsMalam, monitoringMalam}
	return resolution, nil
}

func toAssignee(staffProfileID string, staffByID map[string]models.StaffProfile) (models.DutyAssignee, bool) {
	p, ok := staffByID[staffProfileID]
	if !ok {
		return models.DutyAssignee{}, false
	}
	return models.DutyAssignee{
		StaffProfileID:  p.ID,
		StaffName:       p.StaffName,
		HasServerAccess: p.HasServerAccess,
	}, true
}

func toProgress(counts models.ChecklistCounts) models.ChecklistProgress {
	progress := models.ChecklistProgress{Completed: counts.Completed, Total: counts.Total}
	if counts.Total > 0 {
		progress.Percent = int(math.Round(float64(counts.Completed) / float64(counts.Total) * 100))
	}
	return progress
}

func dutyCacheKey(window timewindow.Window) string {
	segment := "day"
	if window.IsEarlyMorning {
		segment = "early"
	} else if window.IsNightTime {
		segment = "night"
	}
	return fmt.Sprintf("duty:current:%s:%s", window.AssignmentDate(), segment)
}
