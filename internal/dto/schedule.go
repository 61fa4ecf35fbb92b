package dto

import "github.com/noah-isme/ops-shift-api/internal/models"

// AssignmentEntry is one proposed or stored slot inside a validation request.
type AssignmentEntry struct {
	StaffProfileID string `json:"staffProfileId" validate:"required"`
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	ShiftType      string `json:"shiftType" validate:"required,shift_type"`
}

// ValidateScheduleRequest submits a full candidate schedule for a period.
type ValidateScheduleRequest struct {
	PeriodID    string            `json:"periodId" validate:"required"`
	Assignments []AssignmentEntry `json:"assignments" validate:"required,min=1,dive"`
}

// CanAssignRequest asks whether one slot could be added to a period without
// blocking errors.
type CanAssignRequest struct {
	PeriodID       string `json:"periodId" validate:"required"`
	StaffProfileID string `json:"staffProfileId" validate:"required"`
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	ShiftType      string `json:"shiftType" validate:"required"`
}

// CanAssignResponse carries the yes/no verdict with the findings behind it.
type CanAssignResponse struct {
	CanAssign bool                    `json:"canAssign"`
	Result    models.ValidationResult `json:"result"`
}

// ValidationReportResponse returns the validation verdict for a schedule.
type ValidationReportResponse struct {
	PeriodID string                  `json:"periodId"`
	IsValid  bool                    `json:"isValid"`
	Result   models.ValidationResult `json:"result"`
}

// AssignmentListRequest captures query params for listing stored
// assignments.
type AssignmentListRequest struct {
	PeriodID       string
	StaffProfileID string
	Date           string
}

// BulkCreateAssignmentsRequest inserts a batch of assignments for a period.
type BulkCreateAssignmentsRequest struct {
	PeriodID    string            `json:"periodId" validate:"required"`
	Assignments []AssignmentEntry `json:"assignments" validate:"required,min=1,dive"`
}
