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

func routineDays(n int) []domain.RoutineDay {
	days := make([]domain.RoutineDay, n)
	for i := range days {
		days[i] = domain.RoutineDay{ID: primitive.NewObjectID(), DayNumber: i + 1}
	}
	return days
}

func TestGenerate_StrictRoundRobin(t *testing.T) {
	days := routineDays(2)
	assignment := domain.RoutineAssignment{
		ID:               primitive.NewObjectID(),
		PlanType:         domain.PlanStrict,
		StartDate:        time.Date(2024, 3, 11, 14, 0, 0, 0, time.UTC), // Monday
		TrainingWeekdays: []time.Weekday{time.Monday, time.Thursday},
	}

	out := schedule.Generate(assignment, days, 2)
	require.Len(t, out, 14)
	assert.Equal(t, date(2024, 3, 11), out[0].Date)

	var training []domain.ScheduleDay
	for _, sd := range out {
		assert.Equal(t, assignment.ID, sd.AssignmentID)
		isTraining := sd.Date.Weekday() == time.Monday || sd.Date.Weekday() == time.Thursday
		assert.Equal(t, !isTraining, sd.IsRestDay, sd.Date.String())
		if isTraining {
			training = append(training, sd)
		} else {
			assert.Nil(t, sd.RoutineDayID)
		}
	}

	require.Len(t, training, 4)
	for i, sd := range training {
		require.NotNil(t, sd.RoutineDayID)
		assert.Equal(t, days[i%2].ID, *sd.RoutineDayID)
	}
}

func TestGenerate_FlexibleLeavesSlotsOpen(t *testing.T) {
	assignment := domain.RoutineAssignment{
		ID:        primitive.NewObjectID(),
		PlanType:  domain.PlanFlexible,
		StartDate: date(2024, 3, 13),
	}
	out := schedule.Generate(assignment, routineDays(3), 1)
	require.Len(t, out, 7)

	trainingDays := 0
	for _, sd := range out {
		assert.Nil(t, sd.RoutineDayID)
		if !sd.IsRestDay {
			trainingDays++
		}
	}
	// default Mon/Wed/Fri
	assert.Equal(t, 3, trainingDays)
}

func TestGenerate_NoWeeks(t *testing.T) {
	assert.Empty(t, schedule.Generate(domain.RoutineAssignment{}, nil, 0))
}

func TestGenerateRange_ContinuesRoundRobin(t *testing.T) {
	days := routineDays(4)
	assignment := domain.RoutineAssignment{
		ID:               primitive.NewObjectID(),
		PlanType:         domain.PlanStrict,
		StartDate:        date(2024, 3, 13), // Wednesday
		TrainingWeekdays: []time.Weekday{time.Monday, time.Wednesday, time.Friday},
	}
	full := schedule.Generate(assignment, days, 10)

	// weeks six and seven, starting mid-week
	from, to := date(2024, 4, 19), date(2024, 5, 2)
	out := schedule.GenerateRange(assignment, days, from, to)
	require.Len(t, out, 14)

	offset := int(from.Sub(date(2024, 3, 13)).Hours() / 24)
	assert.Equal(t, full[offset:offset+14], out)
}

func TestGenerateRange_ClampsToStartDate(t *testing.T) {
	assignment := domain.RoutineAssignment{
		ID:        primitive.NewObjectID(),
		PlanType:  domain.PlanStrict,
		StartDate: date(2024, 3, 13),
	}
	days := routineDays(2)

	out := schedule.GenerateRange(assignment, days, date(2024, 3, 4), date(2024, 3, 15))
	require.Len(t, out, 3)
	assert.Equal(t, date(2024, 3, 13), out[0].Date)
	require.NotNil(t, out[0].RoutineDayID)
	assert.Equal(t, days[0].ID, *out[0].RoutineDayID)
	assert.True(t, out[1].IsRestDay)
	require.NotNil(t, out[2].RoutineDayID)
	assert.Equal(t, days[1].ID, *out[2].RoutineDayID)

	assert.Empty(t, schedule.GenerateRange(assignment, days, date(2024, 3, 1), date(2024, 3, 12)))
}
