package dto

import "github.com/noah-isme/ops-shift-api/internal/models"

// CurrentDutiesResponse wraps the resolved duty board.
type CurrentDutiesResponse struct {
	Resolution models.DutyResolution `json:"resolution"`
	Cached     bool                  `json:"cached"`
}
