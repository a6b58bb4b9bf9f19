package schedule

import (
	"alcyxob/fitness-coach/internal/domain"
	"time"
)

// DefaultTrainingWeekdays is used when an assignment names no training days.
var DefaultTrainingWeekdays = []time.Weekday{time.Monday, time.Wednesday, time.Friday}

// Generate lays out weeks*7 schedule records starting at the assignment's start date.
// Training weekdays are slots filled with the routine's days round-robin; every
// other date is a rest day. Strict plans pin a routine day to each slot; flexible
// plans leave the slot open because the pointer decides what is trained.
func Generate(assignment domain.RoutineAssignment, days []domain.RoutineDay, weeks int) []domain.ScheduleDay {
	if weeks <= 0 {
		return nil
	}
	start := DayOf(assignment.StartDate)
	return GenerateRange(assignment, days, start, start.AddDate(0, 0, weeks*daysInWeek-1))
}

// GenerateRange produces the records Generate would produce for the dates from..to,
// for any distance from the start date. Dates before the start date are skipped.
func GenerateRange(assignment domain.RoutineAssignment, days []domain.RoutineDay, from, to time.Time) []domain.ScheduleDay {
	start := DayOf(assignment.StartDate)
	from, to = DayOf(from), DayOf(to)
	if from.Before(start) {
		from = start
	}
	if to.Before(from) {
		return nil
	}

	training := trainingSet(assignment.TrainingWeekdays)
	slot := slotsBefore(start, from, training)

	out := make([]domain.ScheduleDay, 0, daysBetween(from, to)+1)
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		sd := domain.ScheduleDay{
			AssignmentID: assignment.ID,
			Date:         date,
			IsRestDay:    !training[date.Weekday()],
		}
		if !sd.IsRestDay {
			if assignment.PlanType == domain.PlanStrict && len(days) > 0 {
				id := days[slot%len(days)].ID
				sd.RoutineDayID = &id
			}
			slot++
		}
		out = append(out, sd)
	}
	return out
}

func trainingSet(weekdays []time.Weekday) map[time.Weekday]bool {
	if len(weekdays) == 0 {
		weekdays = DefaultTrainingWeekdays
	}
	training := make(map[time.Weekday]bool, len(weekdays))
	for _, wd := range weekdays {
		training[wd] = true
	}
	return training
}

// slotsBefore counts the training dates in [start, from).
func slotsBefore(start, from time.Time, training map[time.Weekday]bool) int {
	elapsed := daysBetween(start, from)
	weeks := elapsed / daysInWeek
	slots := weeks * len(training)
	for date := start.AddDate(0, 0, weeks*daysInWeek); date.Before(from); date = date.AddDate(0, 0, 1) {
		if training[date.Weekday()] {
			slots++
		}
	}
	return slots
}

// daysBetween expects both dates at UTC midnight.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
