package schedule_test

import (
	"testing"
	"time"

	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/schedule"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolve_NoRecordIsRest(t *testing.T) {
	now := time.Date(2024, time.March, 13, 15, 0, 0, 0, time.UTC)
	for _, d := range []time.Time{date(2024, 3, 1), date(2024, 3, 13), date(2024, 4, 2)} {
		v := schedule.Resolve(d, nil, now)
		assert.Equal(t, domain.DayRest, v.Status, d.String())
		assert.Equal(t, "Rest", v.Label)
		assert.Equal(t, "icon-moon", v.IconClass)
	}
}

func TestResolve_Precedence(t *testing.T) {
	now := time.Date(2024, time.March, 13, 9, 30, 0, 0, time.UTC)
	past := date(2024, 3, 11)
	future := date(2024, 3, 15)

	testCases := []struct {
		name     string
		date     time.Time
		day      domain.ScheduleDay
		expected domain.DayStatus
	}{
		{"skipped", past, domain.ScheduleDay{WasSkipped: true}, domain.DaySkipped},
		{"skipped wins over completed", past, domain.ScheduleDay{WasSkipped: true, IsCompleted: true}, domain.DaySkipped},
		{"skipped wins over rest", future, domain.ScheduleDay{WasSkipped: true, IsRestDay: true}, domain.DaySkipped},
		{"completed", past, domain.ScheduleDay{IsCompleted: true}, domain.DayCompleted},
		{"completed wins over rest", past, domain.ScheduleDay{IsCompleted: true, IsRestDay: true}, domain.DayCompleted},
		{"rest in the past is not missed", past, domain.ScheduleDay{IsRestDay: true}, domain.DayRest},
		{"unactioned past day is missed", past, domain.ScheduleDay{}, domain.DayMissed},
		{"unactioned future day is scheduled", future, domain.ScheduleDay{}, domain.DayScheduled},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			day := tc.day
			assert.Equal(t, tc.expected, schedule.Resolve(tc.date, &day, now).Status)
		})
	}
}

func TestResolve_TodayIsNeverMissed(t *testing.T) {
	today := date(2024, 3, 13)
	for _, hour := range []int{0, 8, 23} {
		now := today.Add(time.Duration(hour)*time.Hour + 59*time.Minute)
		v := schedule.Resolve(today, &domain.ScheduleDay{}, now)
		assert.Equal(t, domain.DayScheduled, v.Status)
	}

	// A record stamped later in the day still refers to today.
	now := time.Date(2024, 3, 13, 7, 0, 0, 0, time.UTC)
	v := schedule.Resolve(time.Date(2024, 3, 13, 22, 0, 0, 0, time.UTC), &domain.ScheduleDay{}, now)
	assert.Equal(t, domain.DayScheduled, v.Status)
	assert.Equal(t, today, v.Date)
}

func TestResolve_UsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 2024-03-13 23:00 UTC is already the 14th in UTC+10.
	now := time.Date(2024, 3, 13, 23, 0, 0, 0, time.UTC).In(loc)
	v := schedule.Resolve(date(2024, 3, 13), &domain.ScheduleDay{}, now)
	assert.Equal(t, domain.DayMissed, v.Status)
}
