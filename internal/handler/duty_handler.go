package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ops-shift-api/internal/dto"
	"github.com/noah-isme/ops-shift-api/internal/models"
	"github.com/noah-isme/ops-shift-api/internal/service"
	"github.com/noah-isme/ops-shift-api/pkg/response"
)

type dutyResolver interface {
	ResolveDuties(ctx context.Context) (*models.DutyResolution, bool, error)
}

// DutyHandler exposes the current duty board.
type DutyHandler struct {
	duties  dutyResolver
	metrics *service.MetricsService
}

// NewDutyHandler constructs the handler.
func NewDutyHandler(duties *service.DutyService, metrics *service.MetricsService) *DutyHandler {
	return &DutyHandler{duties: duties, metrics: metrics}
}

// Current godoc
// @Summary Resolve who is on duty right now
// @Description Resolves the four duty slots from the server clock. Early morning hours read the previous day's night roster. Responses are cached briefly.
// @Tags Duties
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /duties/current [get]
func (h *DutyHandler) Current(c *gin.Context) {
	start := time.Now()
	resolution, cached, err := h.duties.ResolveDuties(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil && !cached {
		h.metrics.ObserveDutyResolution(time.Since(start))
	}
	response.JSON(c, http.StatusOK, dto.CurrentDutiesResponse{
		Resolution: *resolution,
		Cached:     cached,
	}, nil)
}
