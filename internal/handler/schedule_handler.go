package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ops-shift-api/internal/dto"
	"github.com/noah-isme/ops-shift-api/internal/models"
	"github.com/noah-isme/ops-shift-api/internal/service"
	appErrors "github.com/noah-isme/ops-shift-api/pkg/errors"
	"github.com/noah-isme/ops-shift-api/pkg/response"
)

type scheduleManager interface {
	ValidateProposal(ctx context.Context, req dto.ValidateScheduleRequest) (*models.ValidationResult, error)
	BulkCreate(ctx context.Context, req dto.BulkCreateAssignmentsRequest) (*models.ValidationResult, error)
	ListAssignments(ctx context.Context, req dto.AssignmentListRequest) ([]models.ShiftAssignment, error)
}

type scheduleChecker interface {
	ValidateAndReport(ctx context.Context, periodID string) (*models.ValidationResult, error)
	CanAssign(ctx context.Context, periodID, staffProfileID string, date time.Time, shiftType models.ShiftType) (*models.ValidationResult, error)
}

// ScheduleHandler exposes schedule validation and bulk assignment endpoints.
type ScheduleHandler struct {
	schedules scheduleManager
	checker   scheduleChecker
	metrics   *service.MetricsService
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(schedules *service.ScheduleService, checker *service.ValidatorService, metrics *service.MetricsService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, checker: checker, metrics: metrics}
}

// Validate godoc
// @Summary Validate a candidate schedule without persisting it
// @Description Runs the full rule set over the submitted assignments merged with the period's stored rows. Nothing is written.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body dto.ValidateScheduleRequest true "Candidate schedule"
// @Success 200 {object} response.Envelope
// @Router /schedule/validate [post]
func (h *ScheduleHandler) Validate(c *gin.Context) {
	var req dto.ValidateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid validation payload"))
		return
	}
	result, err := h.schedules.ValidateProposal(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordValidation(result.IsValid())
	}
	response.JSON(c, http.StatusOK, dto.ValidationReportResponse{
		PeriodID: req.PeriodID,
		IsValid:  result.IsValid(),
		Result:   *result,
	}, nil)
}

// PeriodReport godoc
// @Summary Validate the stored schedule of a period
// @Tags Schedule
// @Produce json
// @Param id path string true "Period ID (YYYY-MM)"
// @Success 200 {object} response.Envelope
// @Router /schedule/periods/{id}/validation [get]
func (h *ScheduleHandler) PeriodReport(c *gin.Context) {
	periodID := c.Param("id")
	result, err := h.checker.ValidateAndReport(c.Request.Context(), periodID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordValidation(result.IsValid())
	}
	response.JSON(c, http.StatusOK, dto.ValidationReportResponse{
		PeriodID: periodID,
		IsValid:  result.IsValid(),
		Result:   *result,
	}, nil)
}

// CanAssign godoc
// @Summary Check whether one slot could be added to a period
// @Description Answers the what-if question for a single assignment against the period's stored schedule. Warnings do not block.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body dto.CanAssignRequest true "Proposed slot"
// @Success 200 {object} response.Envelope
// @Router /schedule/can-assign [post]
func (h *ScheduleHandler) CanAssign(c *gin.Context) {
	var req dto.CanAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid can-assign payload"))
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must use the YYYY-MM-DD format"))
		return
	}
	shiftType := models.ShiftType(req.ShiftType)
	if !shiftType.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown shift type "+req.ShiftType))
		return
	}
	result, err := h.checker.CanAssign(c.Request.Context(), req.PeriodID, req.StaffProfileID, date, shiftType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.CanAssignResponse{
		CanAssign: result.IsValid(),
		Result:    *result,
	}, nil)
}

// ListAssignments godoc
// @Summary List stored assignments
// @Tags Schedule
// @Produce json
// @Param periodId query string false "Period ID (YYYY-MM)"
// @Param staffProfileId query string false "Staff profile ID"
// @Param date query string false "Reference date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *ScheduleHandler) ListAssignments(c *gin.Context) {
	req := dto.AssignmentListRequest{
		PeriodID:       c.Query("periodId"),
		StaffProfileID: c.Query("staffProfileId"),
		Date:           c.Query("date"),
	}
	assignments, err := h.schedules.ListAssignments(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// BulkCreate godoc
// @Summary Create a batch of assignments for a period
// @Description Rejects the whole batch when the merged schedule carries blocking errors. Warnings are returned but do not block.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body dto.BulkCreateAssignmentsRequest true "Assignments to store"
// @Success 201 {object} response.Envelope
// @Router /assignments/bulk [post]
func (h *ScheduleHandler) BulkCreate(c *gin.Context) {
	var req dto.BulkCreateAssignmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid bulk create payload"))
		return
	}
	result, err := h.schedules.BulkCreate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ValidationReportResponse{
		PeriodID: req.PeriodID,
		IsValid:  result.IsValid(),
		Result:   *result,
	})
}
