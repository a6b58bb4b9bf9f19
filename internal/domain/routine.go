// internal/domain/routine.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoutineSource records how a routine template came into existence.
type RoutineSource string

const (
	RoutineSourceManual RoutineSource = "manual"
	RoutineSourceAI     RoutineSource = "ai" // Imported from coach-generated text
)

// Routine is a multi-day workout program template owned by a trainer.
type Routine struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID       primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	Name            string             `bson:"name" json:"name"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	DaysPerWeek     int                `bson:"daysPerWeek" json:"daysPerWeek"`
	Source          RoutineSource      `bson:"source" json:"source"`
	SourceObjectKey string             `bson:"sourceObjectKey,omitempty" json:"-"` // Archived raw text in object storage
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

// RoutineDay is one day-in-sequence of a routine. DayNumber is 1-based and contiguous.
type RoutineDay struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RoutineID primitive.ObjectID `bson:"routineId" json:"routineId"`
	DayNumber int                `bson:"dayNumber" json:"dayNumber"`
	Name      string             `bson:"name" json:"name"` // e.g., "Day 1: Upper Body"
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Exercise is a single prescribed movement within a routine day.
type Exercise struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RoutineDayID primitive.ObjectID `bson:"routineDayId" json:"routineDayId"`
	Name         string             `bson:"name" json:"name"`
	Sets         int                `bson:"sets" json:"sets"`
	Reps         string             `bson:"reps" json:"reps"` // Free text: "8-10", "AMRAP"
	Rest         string             `bson:"rest" json:"rest"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	OrderIndex   int                `bson:"orderIndex" json:"orderIndex"`
}
