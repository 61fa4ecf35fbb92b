package models

import "time"

// ShiftType is the closed set of shift slots a staff member can hold on a
// calendar day.
type ShiftType string

const (
	ShiftNightWeekday  ShiftType = "NIGHT_WEEKDAY"
	ShiftNightWeekend  ShiftType = "NIGHT_WEEKEND"
	ShiftSaturdayDay   ShiftType = "SATURDAY_DAY"
	ShiftSundayDay     ShiftType = "SUNDAY_DAY"
	ShiftStandbyOncall ShiftType = "STANDBY_ONCALL"
	ShiftStandbyBranch ShiftType = "STANDBY_BRANCH"
	ShiftOff           ShiftType = "OFF"
	ShiftLeave         ShiftType = "LEAVE"
	ShiftHoliday       ShiftType = "HOLIDAY"
)

// AllShiftTypes lists every recognized shift type.
var AllShiftTypes = []ShiftType{
	ShiftNightWeekday,
	ShiftNightWeekend,
	ShiftSaturdayDay,
	ShiftSundayDay,
	ShiftStandbyOncall,
	ShiftStandbyBranch,
	ShiftOff,
	ShiftLeave,
	ShiftHoliday,
}

// Valid reports whether t is one of the recognized shift types.
func (t ShiftType) Valid() bool {
	switch t {
	case ShiftNightWeekday, ShiftNightWeekend, ShiftSaturdayDay, ShiftSundayDay,
		ShiftStandbyOncall, ShiftStandbyBranch, ShiftOff, ShiftLeave, ShiftHoliday:
		return true
	}
	return false
}

// IsNight reports whether t is one of the overnight shifts.
func (t ShiftType) IsNight() bool {
	return t == ShiftNightWeekday || t == ShiftNightWeekend
}

// IsWeekendDay reports whether t is a daytime weekend shift.
func (t ShiftType) IsWeekendDay() bool {
	return t == ShiftSaturdayDay || t == ShiftSundayDay
}

// IsOperational reports whether holding t means the staff member is working.
// OFF, LEAVE and HOLIDAY mark absence and are exempt from capability and
// coverage checks.
func (t ShiftType) IsOperational() bool {
	switch t {
	case ShiftOff, ShiftLeave, ShiftHoliday:
		return false
	}
	return true
}

// ShiftAssignment binds a staff profile to a shift type on one calendar
// day. Date is normalized to midnight UTC of the site-local day and
// PeriodID identifies the schedule month the assignment belongs to.
type ShiftAssignment struct {
	ID             string    `db:"id" json:"id"`
	StaffProfileID string    `db:"staff_profile_id" json:"staff_profile_id"`
	PeriodID       string    `db:"period_id" json:"period_id"`
	Date           time.Time `db:"shift_date" json:"date"`
	ShiftType      ShiftType `db:"shift_type" json:"shift_type"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// AssignmentFilter describes query params for listing shift assignments.
type AssignmentFilter struct {
	PeriodID       string
	StaffProfileID string
	ShiftType      ShiftType
	DateFrom       *time.Time
	DateTo         *time.Time
	Page           int
	PageSize       int
	SortBy         string
	SortOrder      string
}
