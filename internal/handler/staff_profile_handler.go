package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ops-shift-api/internal/dto"
	"github.com/noah-isme/ops-shift-api/internal/models"
	"github.com/noah-isme/ops-shift-api/internal/service"
	appErrors "github.com/noah-isme/ops-shift-api/pkg/errors"
	"github.com/noah-isme/ops-shift-api/pkg/response"
)

type staffProfileManager interface {
	Get(ctx context.Context, id string) (*models.StaffProfile, error)
	List(ctx context.Context, req dto.StaffProfileListRequest) ([]models.StaffProfile, *models.Pagination, error)
	Upsert(ctx context.Context, req dto.UpsertStaffProfileRequest) (*models.StaffProfile, error)
}

// StaffProfileHandler wires staff profile services to HTTP routes.
type StaffProfileHandler struct {
	profiles staffProfileManager
}

// NewStaffProfileHandler constructs the handler.
func NewStaffProfileHandler(profiles *service.StaffProfileService) *StaffProfileHandler {
	return &StaffProfileHandler{profiles: profiles}
}

// List godoc
// @Summary List staff scheduling profiles
// @Tags Staff
// @Produce json
// @Param search query string false "Search by name"
// @Param active query bool false "Filter by active status"
// @Param hasServerAccess query bool false "Filter by server access"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field (staff_name,created_at)"
// @Param order query string false "Sort order (asc/desc)"
// @Success 200 {object} response.Envelope
// @Router /staff-profiles [get]
func (h *StaffProfileHandler) List(c *gin.Context) {
	req := dto.StaffProfileListRequest{
		Search:          strings.TrimSpace(c.Query("search")),
		Active:          parseBoolQuery(c.Query("active")),
		HasServerAccess: parseBoolQuery(c.Query("hasServerAccess")),
		SortBy:          c.Query("sort"),
		SortOrder:       c.Query("order"),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		req.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		req.PageSize = size
	}

	profiles, pagination, err := h.profiles.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profiles, pagination)
}

// Get godoc
// @Summary Get staff profile detail
// @Tags Staff
// @Produce json
// @Param id path string true "Staff profile ID"
// @Success 200 {object} response.Envelope
// @Router /staff-profiles/{id} [get]
func (h *StaffProfileHandler) Get(c *gin.Context) {
	profile, err := h.profiles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// Upsert godoc
// @Summary Create or update a staff scheduling profile
// @Tags Staff
// @Accept json
// @Produce json
// @Param payload body dto.UpsertStaffProfileRequest true "Staff profile payload"
// @Success 200 {object} response.Envelope
// @Router /staff-profiles [put]
func (h *StaffProfileHandler) Upsert(c *gin.Context) {
	var req dto.UpsertStaffProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid staff profile payload"))
		return
	}
	profile, err := h.profiles.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

func parseBoolQuery(raw string) *bool {
	switch strings.ToLower(raw) {
	case "true":
		val := true
		return &val
	case "false":
		val := false
		return &val
	}
	return nil
}
