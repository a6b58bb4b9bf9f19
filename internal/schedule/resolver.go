// Package schedule classifies calendar days of routine assignments and projects them
// onto Monday-start weeks.
package schedule

import (
	"alcyxob/fitness-coach/internal/domain"
	"time"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// DayView is what the calendar shows for one date of one assignment.
type DayView struct {
	Date      time.Time        `json:"date"`
	Status    domain.DayStatus `json:"status"`
	IconClass string           `json:"iconClass"`
	Label     string           `json:"label"`
}

var presentation = map[domain.DayStatus]struct{ icon, label string }{
	domain.DayCompleted: {"icon-check-circle", "Completed"},
	domain.DayMissed:    {"icon-x-circle", "Missed"},
	domain.DaySkipped:   {"icon-skip-forward", "Skipped"},
	domain.DayRest:      {"icon-moon", "Rest"},
	domain.DayScheduled: {"icon-dumbbell", "Scheduled"},
}

// DayOf returns the UTC midnight of t's calendar date in t's own location.
// Two instants share a calendar day exactly when their DayOf values are equal.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey formats t's calendar date as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// Resolve derives the status of date from its schedule record (nil when there is none).
// The checks run in a fixed order and the first match wins, so a record flagged both
// skipped and completed shows as skipped.
func Resolve(date time.Time, day *domain.ScheduleDay, now time.Time) DayView {
	date = DayOf(date)
	return view(date, classify(date, day, DayOf(now)))
}

func classify(date time.Time, day *domain.ScheduleDay, today time.Time) domain.DayStatus {
	switch {
	case day == nil:
		return domain.DayRest
	case day.WasSkipped:
		return domain.DaySkipped
	case day.IsCompleted:
		return domain.DayCompleted
	case day.IsRestDay:
		return domain.DayRest
	case date.Before(today):
		return domain.DayMissed
	default:
		return domain.DayScheduled
	}
}

func view(date time.Time, status domain.DayStatus) DayView {
	p := presentation[status]
	return DayView{
		Date:      date,
		Status:    status,
		IconClass: p.icon,
		Label:     p.label,
	}
}
