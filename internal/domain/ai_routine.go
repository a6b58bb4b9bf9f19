package domain

// AIWorkoutRoutine is the transient result of parsing coach-generated routine text.
// It is converted 1:1 into Routine, RoutineDay and Exercise rows and then discarded.
type AIWorkoutRoutine struct {
	Name        string         `json:"name"`
	DaysPerWeek int            `json:"daysPerWeek"`
	Days        []AIWorkoutDay `json:"days"`
}

type AIWorkoutDay struct {
	DayNumber int          `json:"dayNumber"`
	Name      string       `json:"name"`
	Exercises []AIExercise `json:"exercises"`
}

type AIExercise struct {
	Name  string `json:"name"`
	Sets  int    `json:"sets"`
	Reps  string `json:"reps"`
	Rest  string `json:"rest"`
	Notes string `json:"notes,omitempty"`
}
