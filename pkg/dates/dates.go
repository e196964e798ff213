// Package dates implements calendar-day math in the application's fixed
// reference time zone. Due dates are calendar-day granularity: they are
// anchored at noon in the reference zone when stored and compared as whole
// days, so a date never shifts when written or read from another zone.
package dates

import "time"

// ReferenceZoneName is the fixed zone all calendar-day decisions use,
// independent of where the viewer is.
const ReferenceZoneName = "America/Chicago"

var referenceZone *time.Location

func init() {
	loc, err := time.LoadLocation(ReferenceZoneName)
	if err != nil {
		loc = time.FixedZone("CST", -6*60*60)
	}
	referenceZone = loc
}

// ReferenceZone returns the fixed reference location.
func ReferenceZone() *time.Location {
	return referenceZone
}

// CalendarDay truncates t to its calendar day in the reference zone.
func CalendarDay(t time.Time) time.Time {
	local := t.In(referenceZone)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, referenceZone)
}

// AnchorNoon pins t to 12:00 on its calendar day in the reference zone.
// Storing due dates at noon keeps them on the same day across zone shifts.
func AnchorNoon(t time.Time) time.Time {
	local := t.In(referenceZone)
	return time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, referenceZone)
}

// ParseDueDate parses a due date given as either a bare calendar day
// ("2006-01-02") or an RFC 3339 timestamp, and anchors it at noon in the
// reference zone. Bare days are read in the reference zone, not UTC, so the
// stored day matches the day the caller named.
func ParseDueDate(s string) (time.Time, error) {
	parsed, err := time.ParseInLocation("2006-01-02", s, referenceZone)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
	}
	if err != nil {
		return time.Time{}, err
	}
	return AnchorNoon(parsed), nil
}

// IsOverdue reports whether due falls on a calendar day strictly before now's
// calendar day. A date due "today" is never overdue. Terminal-status checks
// belong to the caller.
func IsOverdue(due time.Time, now time.Time) bool {
	return CalendarDay(due).Before(CalendarDay(now))
}

// DaysUntil returns the whole-day distance from now's calendar day to due's.
// Negative values mean overdue days.
func DaysUntil(due time.Time, now time.Time) int {
	diff := CalendarDay(due).Sub(CalendarDay(now))
	return int(diff.Round(24*time.Hour) / (24 * time.Hour))
}

// PeriodTag formats t's month in the reference zone as a recurrence period
// tag, e.g. "2025-06".
func PeriodTag(t time.Time) string {
	return t.In(referenceZone).Format("2006-01")
}

// CurrentPeriod returns the period tag for the present moment.
func CurrentPeriod() string {
	return PeriodTag(time.Now())
}
