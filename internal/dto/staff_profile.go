package dto

// UpsertStaffProfileRequest creates or updates a staff scheduling profile.
type UpsertStaffProfileRequest struct {
	ID                       string `json:"id" validate:"omitempty,uuid"`
	StaffName                string `json:"staffName" validate:"required,max=120"`
	CanWorkNightShift        bool   `json:"canWorkNightShift"`
	CanWorkWeekendDay        bool   `json:"canWorkWeekendDay"`
	HasServerAccess          bool   `json:"hasServerAccess"`
	HasSabbathRestriction    bool   `json:"hasSabbathRestriction"`
	MaxNightShiftsPerMonth   int    `json:"maxNightShiftsPerMonth" validate:"min=0,max=31"`
	MinDaysBetweenNightShift int    `json:"minDaysBetweenNightShifts" validate:"min=0,max=31"`
	Active                   *bool  `json:"active"`
}

// StaffProfileListRequest captures query params for listing profiles.
type StaffProfileListRequest struct {
	Search          string
	Active          *bool
	HasServerAccess *bool
	Page            int
	PageSize        int
	SortBy          string
	SortOrder       string
}
