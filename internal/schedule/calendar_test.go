package schedule_test

import (
	"testing"
	"time"

	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestWeekOf_AlwaysMondayToSunday(t *testing.T) {
	// 2024-03-11 is a Monday.
	monday := date(2024, 3, 11)
	for i := 0; i < 7; i++ {
		pivot := monday.AddDate(0, 0, i).Add(17 * time.Hour)
		dates := schedule.WeekOf(pivot)

		assert.Equal(t, monday, dates[0], "pivot %s", pivot.Weekday())
		assert.Equal(t, date(2024, 3, 17), dates[6])
		for j, d := range dates {
			assert.Equal(t, time.Weekday((j+1)%7), d.Weekday())
		}
	}
}

func TestWeekOf_SundayPivot(t *testing.T) {
	dates := schedule.WeekOf(date(2024, 3, 17))
	assert.Equal(t, date(2024, 3, 11), dates[0])
	assert.Equal(t, date(2024, 3, 17), dates[6])
}

func TestWeekOf_AcrossMonthAndYear(t *testing.T) {
	// Wednesday 2025-01-01
	dates := schedule.WeekOf(date(2025, 1, 1))
	assert.Equal(t, date(2024, 12, 30), dates[0])
	assert.Equal(t, date(2025, 1, 5), dates[6])
}

func TestWeekNavigation_NoDrift(t *testing.T) {
	start := time.Date(2024, 3, 13, 18, 45, 0, 0, time.UTC)
	pivot := start
	for i := 0; i < 60; i++ {
		pivot = schedule.NextWeek(pivot)
	}
	for i := 0; i < 60; i++ {
		pivot = schedule.PrevWeek(pivot)
	}
	assert.Equal(t, schedule.DayOf(start), pivot)
	assert.Equal(t, date(2024, 3, 20), schedule.NextWeek(start))
	assert.Equal(t, date(2024, 3, 6), schedule.PrevWeek(start))

	// Across a DST change in a local zone the pivot still moves by whole days.
	loc, err := time.LoadLocation("Europe/Berlin")
	if err == nil {
		p := time.Date(2024, 3, 28, 12, 0, 0, 0, loc)
		assert.Equal(t, date(2024, 4, 4), schedule.NextWeek(p))
	}
}

func TestProject_RowsPerAssignment(t *testing.T) {
	now := time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC) // Wednesday
	a1 := domain.RoutineAssignment{ID: primitive.NewObjectID(), PlanType: domain.PlanStrict}
	a2 := domain.RoutineAssignment{ID: primitive.NewObjectID(), PlanType: domain.PlanFlexible}

	schedules := []schedule.AssignmentSchedule{
		{
			Assignment:  a1,
			RoutineName: "Push Pull Legs",
			Days: []domain.ScheduleDay{
				// time-of-day must be ignored when matching
				{AssignmentID: a1.ID, Date: time.Date(2024, 3, 11, 6, 30, 0, 0, time.UTC), IsCompleted: true},
				{AssignmentID: a1.ID, Date: date(2024, 3, 12)},
				{AssignmentID: a1.ID, Date: date(2024, 3, 13)},
				{AssignmentID: a1.ID, Date: date(2024, 3, 14), IsRestDay: true},
				{AssignmentID: a1.ID, Date: date(2024, 3, 15), WasSkipped: true},
				{AssignmentID: a1.ID, Date: date(2024, 3, 16)},
			},
		},
		{Assignment: a2, RoutineName: "Full Body"},
	}

	week := schedule.Project(date(2024, 3, 13), now, schedules)
	assert.Equal(t, date(2024, 3, 11), week.Start)
	assert.Equal(t, date(2024, 3, 17), week.End)
	assert.Equal(t, date(2024, 3, 6), week.PrevPivot)
	assert.Equal(t, date(2024, 3, 20), week.NextPivot)
	require.Len(t, week.Rows, 2)

	row := week.Rows[0]
	assert.Equal(t, a1.ID, row.AssignmentID)
	assert.Equal(t, "Push Pull Legs", row.RoutineName)
	expected := []domain.DayStatus{
		domain.DayCompleted, domain.DayMissed, domain.DayScheduled, domain.DayRest,
		domain.DaySkipped, domain.DayScheduled, domain.DayRest,
	}
	for i, status := range expected {
		assert.Equal(t, status, row.Days[i].Status, "day %d", i)
		assert.Equal(t, week.Dates[i], row.Days[i].Date)
	}

	for _, cell := range week.Rows[1].Days {
		assert.Equal(t, domain.DayRest, cell.Status)
	}
}

func TestProject_NoAssignments(t *testing.T) {
	week := schedule.Project(date(2024, 3, 13), date(2024, 3, 13), nil)
	assert.Empty(t, week.Rows)
	assert.Equal(t, date(2024, 3, 11), week.Dates[0])
}
