package schedule

import (
	"alcyxob/fitness-coach/internal/domain"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const daysInWeek = 7

// AssignmentSchedule is one active assignment together with its schedule records
// for the projected week.
type AssignmentSchedule struct {
	Assignment  domain.RoutineAssignment
	RoutineName string
	Days        []domain.ScheduleDay
}

// Row is one assignment's 7 day views, Monday first.
type Row struct {
	AssignmentID primitive.ObjectID  `json:"assignmentId"`
	RoutineName  string              `json:"routineName"`
	PlanType     domain.PlanType     `json:"planType"`
	Days         [daysInWeek]DayView `json:"days"`
}

// Week is the calendar view of the Monday-Sunday week containing a pivot date.
type Week struct {
	Start     time.Time             `json:"start"`
	End       time.Time             `json:"end"`
	Dates     [daysInWeek]time.Time `json:"dates"`
	Rows      []Row                 `json:"rows"`
	PrevPivot time.Time             `json:"prevPivot"`
	NextPivot time.Time             `json:"nextPivot"`
}

// WeekOf returns the seven dates Monday through Sunday of the week containing pivot.
func WeekOf(pivot time.Time) [daysInWeek]time.Time {
	day := DayOf(pivot)
	// time.Weekday starts on Sunday; shift so Monday is 0 and Sunday is 6.
	offset := (int(day.Weekday()) + 6) % daysInWeek
	monday := day.AddDate(0, 0, -offset)

	var dates [daysInWeek]time.Time
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i)
	}
	return dates
}

// PrevWeek moves the pivot back exactly one week.
func PrevWeek(pivot time.Time) time.Time {
	return DayOf(pivot).AddDate(0, 0, -daysInWeek)
}

// NextWeek moves the pivot forward exactly one week.
func NextWeek(pivot time.Time) time.Time {
	return DayOf(pivot).AddDate(0, 0, daysInWeek)
}

// Project builds the week containing pivot with one row per assignment, resolving
// every cell against now. Records are matched to dates by calendar day only.
func Project(pivot, now time.Time, schedules []AssignmentSchedule) Week {
	dates := WeekOf(pivot)
	week := Week{
		Start:     dates[0],
		End:       dates[daysInWeek-1],
		Dates:     dates,
		Rows:      make([]Row, 0, len(schedules)),
		PrevPivot: PrevWeek(pivot),
		NextPivot: NextWeek(pivot),
	}

	for _, s := range schedules {
		byDate := make(map[string]*domain.ScheduleDay, len(s.Days))
		for i := range s.Days {
			byDate[DateKey(s.Days[i].Date)] = &s.Days[i]
		}

		row := Row{
			AssignmentID: s.Assignment.ID,
			RoutineName:  s.RoutineName,
			PlanType:     s.Assignment.PlanType,
		}
		for i, date := range dates {
			row.Days[i] = Resolve(date, byDate[DateKey(date)], now)
		}
		week.Rows = append(week.Rows, row)
	}
	return week
}
