// Package timewindow classifies a wall-clock instant into the operational
// duty windows of the site and derives the calendar dates the external
// stores key their records on.
//
// Two date conventions coexist: shift assignments are stored against UTC
// midnight of the site-local calendar day (ReferenceDate), while checklist
// claims are stored against site-local midnight (LocalDate). The legacy
// stores each picked one convention, so both are modelled explicitly to
// keep lookups on the right side of midnight.
package timewindow

import "time"

// Duty window boundaries in site-local hours. A night shift runs from
// NightStartHour through the early-morning residual of the next calendar
// day, which is why the early-morning window pulls yesterday's records.
const (
	EarlyMorningEndHour = 8
	DayStartHour        = 8
	NightStartHour      = 20
)

// ReferenceDate is a calendar day normalized to midnight UTC. Shift
// assignment lookups use this representation.
type ReferenceDate struct {
	t time.Time
}

// LocalDate is a calendar day normalized to site-local midnight. Checklist
// claim lookups use this representation.
type LocalDate struct {
	t time.Time
}

// NewReferenceDate builds the reference date for a year/month/day triple.
func NewReferenceDate(year int, month time.Month, day int) ReferenceDate {
	return ReferenceDate{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// NewLocalDate builds the local date for a year/month/day triple in loc.
func NewLocalDate(year int, month time.Month, day int, loc *time.Location) LocalDate {
	return LocalDate{t: time.Date(year, month, day, 0, 0, 0, 0, loc)}
}

// Time returns the normalized instant backing the date.
func (d ReferenceDate) Time() time.Time { return d.t }

// String formats the date as YYYY-MM-DD.
func (d ReferenceDate) String() string { return d.t.Format("2006-01-02") }

// Equal reports whether both values denote the same calendar day.
func (d ReferenceDate) Equal(other ReferenceDate) bool { return d.t.Equal(other.t) }

// AddDays returns the reference date n days later (negative n for earlier).
func (d ReferenceDate) AddDays(n int) ReferenceDate {
	return ReferenceDate{t: d.t.AddDate(0, 0, n)}
}

// Weekday returns the weekday of the calendar day.
func (d ReferenceDate) Weekday() time.Weekday { return d.t.Weekday() }

// Time returns the normalized instant backing the date.
func (d LocalDate) Time() time.Time { return d.t }

// String formats the date as YYYY-MM-DD.
func (d LocalDate) String() string { return d.t.Format("2006-01-02") }

// Equal reports whether both values denote the same calendar day.
func (d LocalDate) Equal(other LocalDate) bool { return d.t.Equal(other.t) }

// Window is the classification of a single instant. All fields are derived
// from the one instant passed to Resolve so that a resolution never
// straddles a window boundary.
type Window struct {
	Now       time.Time
	LocalHour int

	IsEarlyMorning bool
	IsDayTime      bool
	IsNightTime    bool

	TodayLocal         LocalDate
	TodayReference     ReferenceDate
	YesterdayLocal     LocalDate
	YesterdayReference ReferenceDate
}

// Resolve classifies now against the site timezone.
//
// Day is [08:00, 20:00) site-local; night is the complement. The early
// morning residual [00:00, 08:00) belongs to the night window of the
// previous calendar day.
func Resolve(now time.Time, site *time.Location) Window {
	local := now.In(site)
	hour := local.Hour()

	year, month, day := local.Date()
	todayLocal := NewLocalDate(year, month, day, site)
	todayRef := NewReferenceDate(year, month, day)

	yesterday := local.AddDate(0, 0, -1)
	yYear, yMonth, yDay := yesterday.Date()

	isDay := hour >= DayStartHour && hour < NightStartHour

	return Window{
		Now:                now,
		LocalHour:          hour,
		IsEarlyMorning:     hour < EarlyMorningEndHour,
		IsDayTime:          isDay,
		IsNightTime:        !isDay,
		TodayLocal:         todayLocal,
		TodayReference:     todayRef,
		YesterdayLocal:     NewLocalDate(yYear, yMonth, yDay, site),
		YesterdayReference: todayRef.AddDays(-1),
	}
}

// AssignmentDate returns the reference date whose shift assignments are
// operationally active at this window: yesterday's during the early-morning
// residual, today's otherwise.
func (w Window) AssignmentDate() ReferenceDate {
	if w.IsEarlyMorning {
		return w.YesterdayReference
	}
	return w.TodayReference
}

// NightChecklistDate returns the local date a night-duty checklist claim
// filed now should be recorded against: the date the night shift started.
func (w Window) NightChecklistDate() LocalDate {
	if w.IsEarlyMorning {
		return w.YesterdayLocal
	}
	return w.TodayLocal
}

// DayChecklistDate returns the local date for day-duty checklist lookups.
func (w Window) DayChecklistDate() LocalDate {
	return w.TodayLocal
}
