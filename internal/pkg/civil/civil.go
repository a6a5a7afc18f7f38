// Package civil centralizes calendar-day math. Every place that buckets an
// absolute instant into a calendar day must go through this package so that
// DST and offset edge cases are handled in exactly one spot.
package civil

import (
	"fmt"
	"time"
)

// Date is a calendar date as experienced in a specific timezone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf projects an absolute instant into the civil calendar date of loc.
func DateOf(instant time.Time, loc *time.Location) Date {
	local := instant.In(loc)
	return Date{Year: local.Year(), Month: local.Month(), Day: local.Day()}
}

// Key returns the date in YYYY-MM-DD form, usable as a map key.
func (d Date) Key() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Compact returns the date in YYYYMMDD form.
func (d Date) Compact() string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, d.Month, d.Day)
}

// Weekday returns the weekday of the date.
func (d Date) Weekday(loc *time.Location) time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, loc).Weekday()
}

// DaysInMonth returns the number of calendar days in the given month,
// respecting leap years. time.Date normalizes day 0 of the next month to the
// last day of this one.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
}

// MonthBounds returns the UTC half-open interval [from, to) covering the
// civil month in loc. Using the first instant of the next month as the upper
// bound keeps the interval correct across DST transitions.
func MonthBounds(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	to := from.AddDate(0, 1, 0)
	return from.UTC(), to.UTC()
}

// DayBounds returns the UTC half-open interval [from, to) covering the civil
// day in loc. time.Date normalizes Day+1 past the end of the month.
func DayBounds(d Date, loc *time.Location) (time.Time, time.Time) {
	from := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
	to := time.Date(d.Year, d.Month, d.Day+1, 0, 0, 0, 0, loc)
	return from.UTC(), to.UTC()
}

// FormatClock renders an instant as HH:MM in loc.
func FormatClock(instant time.Time, loc *time.Location) string {
	return instant.In(loc).Format("15:04")
}

// FormatHoursLabel renders total minutes as H:MM, e.g. 480 -> "8:00".
func FormatHoursLabel(totalMinutes int) string {
	return fmt.Sprintf("%d:%02d", totalMinutes/60, totalMinutes%60)
}
