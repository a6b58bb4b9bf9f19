package service

import (
	"alcyxob/fitness-coach/internal/domain"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const threeDayRoutine = `Routine Name: Push Pull Legs

Day 1: Push
- Bench Press: 4 sets x 8 reps, rest 90s
- Overhead Press: 3 sets x 10 reps, rest 60s
- Dips: 3 sets x 12 reps, rest 60s
- Lateral Raise: 3 sets x 15 reps, rest 45s

Day 2: Pull
- Deadlift: 3 sets x 5 reps, rest 180s
- Pull Up: 4 sets x 8 reps, rest 90s
- Barbell Row: 3 sets x 10 reps, rest 90s
- Face Pull: 3 sets x 15 reps, rest 45s

Day 3: Legs
- Squat: 4 sets x 6 reps, rest 180s
- Romanian Deadlift: 3 sets x 10 reps, rest 120s
- Leg Press: 3 sets x 12 reps, rest 90s
- Calf Raise: 4 sets x 15 reps, rest 45s
`

type routineFixture struct {
	tx        *fakeTransactor
	routines  *fakeRoutineRepo
	days      *fakeDayRepo
	exercises *fakeExerciseRepo
	storage   *fakeStorage
	svc       RoutineService
}

func newRoutineFixture() *routineFixture {
	f := &routineFixture{
		tx:        &fakeTransactor{},
		routines:  newFakeRoutineRepo(),
		days:      &fakeDayRepo{},
		exercises: &fakeExerciseRepo{},
		storage:   newFakeStorage(),
	}
	f.svc = NewRoutineService(f.tx, f.routines, f.days, f.exercises, f.storage)
	return f
}

func TestImportFromText_PersistsInOrder(t *testing.T) {
	f := newRoutineFixture()
	trainerID := primitive.NewObjectID()

	details, err := f.svc.ImportFromText(context.Background(), trainerID, threeDayRoutine)
	require.NoError(t, err)

	assert.Equal(t, "Push Pull Legs", details.Routine.Name)
	assert.Equal(t, 3, details.Routine.DaysPerWeek)
	assert.Equal(t, domain.RoutineSourceAI, details.Routine.Source)
	assert.Equal(t, 1, f.tx.calls)

	require.Len(t, details.Days, 3)
	for i, day := range details.Days {
		assert.Equal(t, i+1, day.DayNumber)
		require.Len(t, day.Exercises, 4)
		for order, ex := range day.Exercises {
			assert.Equal(t, order, ex.OrderIndex)
		}
	}
	assert.Equal(t, "Day 2: Pull", details.Days[1].Name)
	assert.Equal(t, "Deadlift", details.Days[1].Exercises[0].Name)
	assert.Equal(t, 3, details.Days[1].Exercises[0].Sets)
	assert.Equal(t, "5", details.Days[1].Exercises[0].Reps)

	// Raw text is archived and linked.
	require.Len(t, f.storage.objects, 1)
	assert.True(t, strings.HasPrefix(details.Routine.SourceObjectKey, "routines/"+trainerID.Hex()+"/"))
	assert.Equal(t, threeDayRoutine, string(f.storage.objects[details.Routine.SourceObjectKey]))
	assert.Contains(t, details.SourceURL, details.Routine.SourceObjectKey)
}

func TestImportFromText_Unparseable(t *testing.T) {
	f := newRoutineFixture()

	_, err := f.svc.ImportFromText(context.Background(), primitive.NewObjectID(), "just rest and drink water")
	assert.ErrorIs(t, err, ErrRoutineNotParsed)

	assert.Zero(t, f.tx.calls)
	assert.Empty(t, f.routines.routines)
	assert.Empty(t, f.storage.objects)
}

func TestImportFromText_ArchiveFailureDoesNotBlockImport(t *testing.T) {
	f := newRoutineFixture()
	f.storage.putErr = errStoreDown

	details, err := f.svc.ImportFromText(context.Background(), primitive.NewObjectID(), threeDayRoutine)
	require.NoError(t, err)
	assert.Empty(t, details.Routine.SourceObjectKey)
	assert.Empty(t, details.SourceURL)
}

func TestImportFromText_CreationFailureCleansArchive(t *testing.T) {
	f := newRoutineFixture()
	f.exercises.failAfter = 5

	_, err := f.svc.ImportFromText(context.Background(), primitive.NewObjectID(), threeDayRoutine)
	require.ErrorIs(t, err, errStoreDown)
	assert.Contains(t, err.Error(), `create exercise "Pull Up" of day 2`)

	// Creation stopped at the failing exercise.
	assert.Len(t, f.exercises.exercises, 5)
	assert.Len(t, f.days.days, 2)
	require.Len(t, f.storage.deleted, 1)
	assert.Empty(t, f.storage.objects)
}

func TestCreateInDatabase_SortsAndRenumbersDays(t *testing.T) {
	f := newRoutineFixture()
	parsed := &domain.AIWorkoutRoutine{
		Name:        "Out of order",
		DaysPerWeek: 2,
		Days: []domain.AIWorkoutDay{
			{DayNumber: 5, Name: "Day 5: Legs", Exercises: []domain.AIExercise{{Name: "Squat", Sets: 3, Reps: "5", Rest: "2m"}}},
			{DayNumber: 2, Name: "Day 2: Arms", Exercises: []domain.AIExercise{{Name: "Curl", Sets: 3, Reps: "12", Rest: "60s"}}},
		},
	}

	routine, err := f.svc.CreateInDatabase(context.Background(), primitive.NewObjectID(), parsed)
	require.NoError(t, err)

	require.Len(t, f.days.days, 2)
	assert.Equal(t, routine.ID, f.days.days[0].RoutineID)
	assert.Equal(t, "Day 2: Arms", f.days.days[0].Name)
	assert.Equal(t, 1, f.days.days[0].DayNumber)
	assert.Equal(t, "Day 5: Legs", f.days.days[1].Name)
	assert.Equal(t, 2, f.days.days[1].DayNumber)

	require.Len(t, f.exercises.exercises, 2)
	assert.Equal(t, "Curl", f.exercises.exercises[0].Name)
	assert.Equal(t, f.days.days[0].ID, f.exercises.exercises[0].RoutineDayID)
}

func TestCreateInDatabase_RoutineInsertFails(t *testing.T) {
	f := newRoutineFixture()
	f.routines.createErr = errStoreDown
	parsed := &domain.AIWorkoutRoutine{
		Name: "x",
		Days: []domain.AIWorkoutDay{{DayNumber: 1, Name: "Day 1", Exercises: []domain.AIExercise{{Name: "Plank"}}}},
	}

	_, err := f.svc.CreateInDatabase(context.Background(), primitive.NewObjectID(), parsed)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Empty(t, f.days.days)
	assert.Empty(t, f.exercises.exercises)
}

func TestCreateInDatabase_Empty(t *testing.T) {
	f := newRoutineFixture()

	_, err := f.svc.CreateInDatabase(context.Background(), primitive.NewObjectID(), &domain.AIWorkoutRoutine{Name: "x"})
	assert.ErrorIs(t, err, ErrRoutineEmpty)
	_, err = f.svc.CreateInDatabase(context.Background(), primitive.NewObjectID(), nil)
	assert.ErrorIs(t, err, ErrRoutineEmpty)
}

func TestGetRoutine_Access(t *testing.T) {
	f := newRoutineFixture()
	trainerID := primitive.NewObjectID()
	details, err := f.svc.ImportFromText(context.Background(), trainerID, threeDayRoutine)
	require.NoError(t, err)

	_, err = f.svc.GetRoutine(context.Background(), primitive.NewObjectID(), details.Routine.ID)
	assert.ErrorIs(t, err, ErrRoutineAccessDenied)

	_, err = f.svc.GetRoutine(context.Background(), trainerID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrRoutineNotFound)
}
