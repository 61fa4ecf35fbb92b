package models

// RuleCode identifies a schedule validation rule. Codes are stable and safe
// for clients to branch on.
type RuleCode string

const (
	RuleNightCapability       RuleCode = "NIGHT_CAPABILITY"
	RuleWeekendCapability     RuleCode = "WEEKEND_CAPABILITY"
	RuleSabbathRestricted     RuleCode = "SABBATH_RESTRICTED"
	RuleRestGapTooShort       RuleCode = "REST_GAP_TOO_SHORT"
	RuleUnknownStaff          RuleCode = "UNKNOWN_STAFF"
	RuleDoubleBooked          RuleCode = "DOUBLE_BOOKED"
	RuleNightCapReached       RuleCode = "NIGHT_CAP_REACHED"
	RuleMissingRestDay        RuleCode = "MISSING_REST_DAY"
	RuleWeekendUnderstaffed   RuleCode = "WEEKEND_UNDERSTAFFED"
	RuleWeekendNoServerAccess RuleCode = "WEEKEND_NO_SERVER_ACCESS"
	RuleNightOverstaffed      RuleCode = "NIGHT_OVERSTAFFED"
)

// FindingSeverity distinguishes blocking errors from advisory warnings.
type FindingSeverity string

const (
	SeverityError   FindingSeverity = "error"
	SeverityWarning FindingSeverity = "warning"
)

// Finding is one validation outcome tied to a rule, usually to a staff
// member and a date.
type Finding struct {
	Rule           RuleCode        `json:"rule"`
	Severity       FindingSeverity `json:"severity"`
	Message        string          `json:"message"`
	StaffProfileID string          `json:"staff_profile_id,omitempty"`
	Date           string          `json:"date,omitempty"`
	ShiftType      ShiftType       `json:"shift_type,omitempty"`
}

// ValidationResult aggregates findings for a schedule or a single
// assignment. Duplicate findings are collapsed so that overlapping rule
// passes do not inflate the report.
type ValidationResult struct {
	Errors   []Finding `json:"errors"`
	Warnings []Finding `json:"warnings"`

	seen map[string]struct{}
}

// NewValidationResult returns an empty result ready to collect findings.
func NewValidationResult() *ValidationResult {
	return &ValidationResult{
		Errors:   []Finding{},
		Warnings: []Finding{},
		seen:     map[string]struct{}{},
	}
}

func (r *ValidationResult) dedupeKey(f Finding) string {
	return string(f.Severity) + "|" + string(f.Rule) + "|" + f.StaffProfileID + "|" + f.Date + "|" + string(f.ShiftType) + "|" + f.Message
}

func (r *ValidationResult) add(f Finding) {
	if r.seen == nil {
		r.seen = map[string]struct{}{}
	}
	key := r.dedupeKey(f)
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if f.Severity == SeverityError {
		r.Errors = append(r.Errors, f)
		return
	}
	r.Warnings = append(r.Warnings, f)
}

// AddError records a blocking finding.
func (r *ValidationResult) AddError(f Finding) {
	f.Severity = SeverityError
	r.add(f)
}

// AddWarning records an advisory finding.
func (r *ValidationResult) AddWarning(f Finding) {
	f.Severity = SeverityWarning
	r.add(f)
}

// Merge folds other's findings into r, preserving deduplication.
func (r *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	for _, f := range other.Errors {
		r.add(f)
	}
	for _, f := range other.Warnings {
		r.add(f)
	}
}

// IsValid reports whether the result contains no blocking errors. Warnings
// alone never invalidate a schedule.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}
