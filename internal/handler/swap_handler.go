package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ops-shift-api/internal/dto"
	"github.com/noah-isme/ops-shift-api/internal/models"
	"github.com/noah-isme/ops-shift-api/internal/service"
	appErrors "github.com/noah-isme/ops-shift-api/pkg/errors"
	"github.com/noah-isme/ops-shift-api/pkg/response"
)

type swapCoordinator interface {
	Swap(ctx context.Context, sourceAssignmentID string, targetDate time.Time, targetShiftType models.ShiftType) (*dto.SwapResponse, error)
}

// SwapHandler exposes the one-way assignment move endpoint.
type SwapHandler struct {
	swaps   swapCoordinator
	metrics *service.MetricsService
}

// NewSwapHandler constructs the handler.
func NewSwapHandler(swaps *service.SwapService, metrics *service.MetricsService) *SwapHandler {
	return &SwapHandler{swaps: swaps, metrics: metrics}
}

// Swap godoc
// @Summary Move the source assignment's holder onto a target slot
// @Description The slot at (targetDate, targetShiftType) takes over the source holder. The source row is left untouched. Rule findings on the updated slot are advisory.
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Source assignment ID"
// @Param payload body dto.SwapRequest true "Target slot"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id}/swap [post]
func (h *SwapHandler) Swap(c *gin.Context) {
	var req dto.SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid swap payload"))
		return
	}
	targetDate, err := time.Parse("2006-01-02", req.TargetDate)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "targetDate must use the YYYY-MM-DD format"))
		return
	}
	targetShiftType := models.ShiftType(req.TargetShiftType)
	if req.TargetShiftType != "" && !targetShiftType.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown shift type "+req.TargetShiftType))
		return
	}

	result, err := h.swaps.Swap(c.Request.Context(), c.Param("id"), targetDate, targetShiftType)
	if err != nil {
		h.recordOutcome(err)
		response.Error(c, err)
		return
	}
	h.recordOutcome(nil)
	response.JSON(c, http.StatusOK, result, nil)
}

func (h *SwapHandler) recordOutcome(err error) {
	if h.metrics == nil {
		return
	}
	switch {
	case err == nil:
		h.metrics.RecordSwap("applied")
	case isSwapConflict(err):
		h.metrics.RecordSwap("conflict")
	default:
		h.metrics.RecordSwap("rejected")
	}
}

func isSwapConflict(err error) bool {
	var appErr *appErrors.Error
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == appErrors.ErrConcurrentModification.Code || appErr.Code == appErrors.ErrNoMatchingSlot.Code
}
