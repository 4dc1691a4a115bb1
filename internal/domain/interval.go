package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SLN-BookingService/pkg/types"
)

// Interval is a half-open time range [Start, End) in UTC.
// Core primitive for working windows, breaks, bookings and candidate slots.
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval creates an interval, normalizing both endpoints to UTC
func NewInterval(start, end time.Time) Interval {
	return Interval{Start: start.UTC(), End: end.UTC()}
}

// Overlaps reports whether two half-open intervals intersect.
// Touching endpoints (a.End == b.Start) do not count as an overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains reports whether other lies fully within i
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// Duration returns the interval length
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// IsZero returns true for the zero interval
func (i Interval) IsZero() bool {
	return i.Start.IsZero() && i.End.IsZero()
}

// IntervalFromLocal builds a UTC interval from a calendar date, an "HH:MM"
// start time in the location time zone and a duration in minutes
func IntervalFromLocal(date time.Time, start types.TimeString, durationMinutes int, loc *time.Location) (Interval, error) {
	hour, minute, err := start.HourMinute()
	if err != nil {
		return Interval{}, fmt.Errorf("interval: invalid start time: %w", err)
	}

	localStart := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, loc)
	return NewInterval(localStart, localStart.Add(time.Duration(durationMinutes)*time.Minute)), nil
}

// DayWindow returns the UTC interval covering the local calendar day of date
// in the given time zone. Used to fetch bookings intersecting a day, including
// those that started the previous local day but end after midnight.
func DayWindow(date time.Time, loc *time.Location) Interval {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	return NewInterval(dayStart, dayStart.AddDate(0, 0, 1))
}
