package models

import "time"

// DutyType identifies one of the recurring operational duties a shift
// holder is responsible for during their window.
type DutyType string

const (
	DutyOpsSiang        DutyType = "OPS_SIANG"
	DutyOpsMalam        DutyType = "OPS_MALAM"
	DutyMonitoringSiang DutyType = "MONITORING_SIANG"
	DutyMonitoringMalam DutyType = "MONITORING_MALAM"
)

// DutyAssignmentMode tells the client whether the duty is pre-assigned from
// the shift schedule or claimed by an eligible staff member at runtime.
type DutyAssignmentMode string

const (
	DutyModeAuto        DutyAssignmentMode = "AUTO"
	DutyModeManualClaim DutyAssignmentMode = "MANUAL_CLAIM"
)

// DutyAssignee is one staff member attached to a duty slot.
type DutyAssignee struct {
	StaffProfileID  string `json:"staff_profile_id"`
	StaffName       string `json:"staff_name"`
	HasServerAccess bool   `json:"has_server_access"`
}

// ChecklistProgress summarizes checklist claim completion for a duty.
type ChecklistProgress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

// DutySlot is the resolved state of one duty type at resolution time.
// Claimed reports whether at least one checklist claim exists for the duty
// on its checklist date.
type DutySlot struct {
	Type      DutyType           `json:"type"`
	Mode      DutyAssignmentMode `json:"mode"`
	Active    bool               `json:"active"`
	Claimed   bool               `json:"claimed"`
	Assignees []DutyAssignee     `json:"assignees"`
	Eligible  []DutyAssignee     `json:"eligible,omitempty"`
	Progress  ChecklistProgress  `json:"progress"`
}

// ChecklistStats aggregates claim progress across the active duty slots.
type ChecklistStats struct {
	TotalItems int `json:"total_items"`
	Completed  int `json:"completed"`
	Pending    int `json:"pending"`
}

// DutyResolution is the full answer to "who is on duty right now". All
// fields derive from a single reading of the clock.
type DutyResolution struct {
	ServerTime     time.Time      `json:"server_time"`
	LocalHour      int            `json:"local_hour"`
	IsDayWindow    bool           `json:"is_day_window"`
	IsNightWindow  bool           `json:"is_night_window"`
	AssignmentDate string         `json:"assignment_date"`
	ChecklistDate  string         `json:"checklist_date"`
	Duties         []DutySlot     `json:"duties"`
	Stats          ChecklistStats `json:"stats"`
}

// ChecklistClaim is one checklist item claim recorded by a staff member for
// a duty on a local calendar day.
type ChecklistClaim struct {
	ID             string    `db:"id" json:"id"`
	StaffProfileID string    `db:"staff_profile_id" json:"staff_profile_id"`
	DutyType       DutyType  `db:"duty_type" json:"duty_type"`
	ClaimDate      time.Time `db:"claim_date" json:"claim_date"`
	ItemKey        string    `db:"item_key" json:"item_key"`
	Completed      bool      `db:"completed" json:"completed"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// ChecklistCounts holds the completed and total item counts for one duty
// type on one local day.
type ChecklistCounts struct {
	Completed int `db:"completed" json:"completed"`
	Total     int `db:"total" json:"total"`
}
