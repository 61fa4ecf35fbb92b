package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/ops-shift-api/internal/dto"
	"github.com/noah-isme/ops-shift-api/internal/models"
	appErrors "github.com/noah-isme/ops-shift-api/pkg/errors"
)

type staffProfileStore interface {
	FindByID(ctx context.Context, id string) (*models.StaffProfile, error)
	List(ctx context.Context, filter models.StaffProfileFilter) ([]models.StaffProfile, int, error)
	Upsert(ctx context.Context, profile *models.StaffProfile) error
}

// StaffProfileService manages staff scheduling profiles.
type StaffProfileService struct {
	store  staffProfileStore
	audit  swapAuditor
	cache  swapCacheInvalidator
	logger *zap.Logger
}

// NewStaffProfileService constructs the service.
func NewStaffProfileService(store staffProfileStore, audit swapAuditor, cache swapCacheInvalidator, logger *zap.Logger) *StaffProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffProfileService{store: store, audit: audit, cache: cache, logger: logger}
}

// Get returns one profile.
func (s *StaffProfileService) Get(ctx context.Context, id string) (*models.StaffProfile, error) {
	profile, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("staff profile %s not found", id))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff profile")
	}
	return profile, nil
}

// List returns profiles matching the filter with pagination metadata.
func (s *StaffProfileService) List(ctx context.Context, req dto.StaffProfileListRequest) ([]models.StaffProfile, *models.Pagination, error) {
	filter := models.StaffProfileFilter{
		Search:          req.Search,
		Active:          req.Active,
		HasServerAccess: req.HasServerAccess,
		Page:            req.Page,
		PageSize:        req.PageSize,
		SortBy:          req.SortBy,
		SortOrder:       req.SortOrder,
	}
	profiles, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list staff profiles")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return profiles, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Upsert creates or updates a profile and invalidates the duty board cache
// since eligibility may have changed.
func (s *StaffProfileService) Upsert(ctx context.Context, req dto.UpsertStaffProfileRequest) (*models.StaffProfile, error) {
	var previous *models.StaffProfile
	if req.ID != "" {
		existing, err := s.store.FindByID(ctx, req.ID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing profile")
		}
		previous = existing
	}

	profile := &models.StaffProfile{
		ID:                       req.ID,
		StaffName:                req.StaffName,
		CanWorkNightShift:        req.CanWorkNightShift,
		CanWorkWeekendDay:        req.CanWorkWeekendDay,
		HasServerAccess:          req.HasServerAccess,
		HasSabbathRestriction:    req.HasSabbathRestriction,
		MaxNightShiftsPerMonth:   req.MaxNightShiftsPerMonth,
		MinDaysBetweenNightShift: req.MinDaysBetweenNightShift,
		Active:                   true,
	}
	if req.Active != nil {
		profile.Active = *req.Active
	}
	if previous != nil {
		profile.CreatedAt = previous.CreatedAt
	}

	if err := s.store.Upsert(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store staff profile")
	}

	if s.audit != nil {
		s.audit.Record(models.AuditActionProfileUpsert, "staff_profile", &profile.ID, previous, profile)
	}
	if s.cache != nil {
		s.cache.InvalidateDuties(ctx)
	}
	return profile, nil
}
