package utils

import "time"

// Calendar-date helpers for streak bookkeeping. All comparisons operate on
// the UTC year-month-day component, never on elapsed duration: 23:59 followed
// by 00:01 the next day counts as consecutive days.

const dateLayout = "2006-01-02"

// TodayString returns the current UTC calendar date as YYYY-MM-DD.
func TodayString() string {
	return time.Now().UTC().Format(dateLayout)
}

// DateString returns the UTC calendar date of t as YYYY-MM-DD.
func DateString(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// IsToday reports whether t falls on the current UTC calendar date.
func IsToday(t time.Time) bool {
	return DateString(t) == TodayString()
}

// IsYesterday reports whether t falls on the UTC calendar date before today.
func IsYesterday(t time.Time) bool {
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	return DateString(t) == DateString(yesterday)
}

// SameDay reports whether a and b share a UTC calendar date.
func SameDay(a, b time.Time) bool {
	return DateString(a) == DateString(b)
}

// YesterdayOf reports whether prev falls on the UTC calendar date immediately
// before the date of ref.
func YesterdayOf(prev, ref time.Time) bool {
	return DateString(prev) == DateString(ref.UTC().AddDate(0, 0, -1))
}

// DaysBetween returns the absolute whole-day difference between a and b,
// ceiling-rounded so any partial day counts as a full one.
func DaysBetween(a, b time.Time) int {
	d := b.Sub(a)
	if d < 0 {
		d = -d
	}
	days := d / (24 * time.Hour)
	if d%(24*time.Hour) != 0 {
		days++
	}
	return int(days)
}
