package models

import "time"

// StaffProfile captures the scheduling capabilities and constraints of one
// operational staff member. Assignments reference profiles by ID; a profile
// with Active false is excluded from eligibility but its history remains
// validatable.
type StaffProfile struct {
	ID                       string    `db:"id" json:"id"`
	StaffName                string    `db:"staff_name" json:"staff_name"`
	CanWorkNightShift        bool      `db:"can_work_night_shift" json:"can_work_night_shift"`
	CanWorkWeekendDay        bool      `db:"can_work_weekend_day" json:"can_work_weekend_day"`
	HasServerAccess          bool      `db:"has_server_access" json:"has_server_access"`
	HasSabbathRestriction    bool      `db:"has_sabbath_restriction" json:"has_sabbath_restriction"`
	MaxNightShiftsPerMonth   int       `db:"max_night_shifts_per_month" json:"max_night_shifts_per_month"`
	MinDaysBetweenNightShift int       `db:"min_days_between_night_shifts" json:"min_days_between_night_shifts"`
	Active                   bool      `db:"active" json:"active"`
	CreatedAt                time.Time `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time `db:"updated_at" json:"updated_at"`
}

// StaffProfileFilter captures filtering options for listing staff profiles.
type StaffProfileFilter struct {
	Search          string
	Active          *bool
	HasServerAccess *bool
	Page            int
	PageSize        int
	SortBy          string
	SortOrder       string
}
