package dto

import "github.com/noah-isme/ops-shift-api/internal/models"

// SwapRequest moves the holder of the source assignment onto the slot found
// at the target date and shift type. The source slot keeps its holder.
type SwapRequest struct {
	TargetDate      string `json:"targetDate" validate:"required,datetime=2006-01-02"`
	TargetShiftType string `json:"targetShiftType" validate:"omitempty"`
	Reason          string `json:"reason" validate:"omitempty,max=500"`
}

// SwapResponse reports the updated target slot and any advisory findings
// the move introduced.
type SwapResponse struct {
	Source          models.ShiftAssignment  `json:"source"`
	Target          models.ShiftAssignment  `json:"target"`
	SourceUnchanged bool                    `json:"sourceUnchanged"`
	Validation      models.ValidationResult `json:"validation"`
}
