package timeutil

import (
	"fmt"
	"time"
)

// Zone is the planner's local zone. All instants are stored in UTC;
// local calendar dates map through this fixed offset (no DST).
var Zone = time.FixedZone("UTC+7", 7*60*60)

const dateLayout = "2006-01-02"

// DayBounds converts a local calendar date (YYYY-MM-DD) into the
// half-open UTC interval [start, end) covering that day in Zone.
func DayBounds(localDate string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, localDate, Zone)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", localDate)
	}
	start := t.UTC()
	return start, start.Add(24 * time.Hour), nil
}

// LocalDateTimeToUTC combines a local date and an HH:MM clock time in
// Zone into a UTC instant.
func LocalDateTimeToUTC(localDate, hhmm string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout+"T15:04", localDate+"T"+hhmm, Zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q", localDate, hhmm)
	}
	return t.UTC(), nil
}

// MinutesBetween reports the rounded minute length of [start, end),
// never less than 1 so downstream ratio math cannot divide by zero.
func MinutesBetween(start, end time.Time) int {
	min := int((end.Sub(start) + 30*time.Second) / time.Minute)
	if min < 1 {
		return 1
	}
	return min
}

// ClampToDay clips [start, end) to [dayStart, dayEnd). The third
// return is false when the intervals do not overlap.
func ClampToDay(start, end, dayStart, dayEnd time.Time) (time.Time, time.Time, bool) {
	s := start
	if s.Before(dayStart) {
		s = dayStart
	}
	e := end
	if e.After(dayEnd) {
		e = dayEnd
	}
	if !e.After(s) {
		return time.Time{}, time.Time{}, false
	}
	return s, e, true
}

// MondayOf returns the Monday of the week containing t, preserving
// t's clock time.
func MondayOf(t time.Time) time.Time {
	diff := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -diff)
}

// DateString formats the UTC calendar date of t as YYYY-MM-DD.
func DateString(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// ParseDate parses a YYYY-MM-DD string as a UTC midnight instant.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return t, nil
}
