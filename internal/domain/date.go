package domain

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of a calendar date.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid calendar date, expected YYYY-MM-DD")

// Date is a calendar date without time of day, stored as "YYYY-MM-DD".
// Lexical order of two valid dates equals their chronological order.
type Date string

// ParseDate validates s and returns it as a Date. This is the only place
// malformed dates are rejected; everything downstream assumes a valid value.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", ErrInvalidDate
	}
	return Date(t.Format(DateLayout)), nil
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Time returns midnight UTC of the date. Invalid dates map to the zero time.
func (d Date) Time() time.Time {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays shifts the date by n calendar days (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d Date) Before(other Date) bool { return d < other }

func (d Date) After(other Date) bool { return d > other }

func (d Date) String() string { return string(d) }

// WorkoutDay labels a slot of the user's schedule ("Monday", "Push Day", ...).
// It is never a calendar date: the date a workout was done lives in the
// completion record itself.
type WorkoutDay string

// Weekday reports the weekday named by the label, if it names one.
func (w WorkoutDay) Weekday() (time.Weekday, bool) {
	label := strings.ToLower(strings.TrimSpace(string(w)))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == label {
			return d, true
		}
	}
	return time.Sunday, false
}

// ScheduledOn reports whether the slot may be marked on the given date.
// Weekday slots only match their own weekday; custom labels match any day.
func (w WorkoutDay) ScheduledOn(date Date) bool {
	wd, ok := w.Weekday()
	if !ok {
		return true
	}
	return wd == date.Weekday()
}
