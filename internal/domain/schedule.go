package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleDay binds an assignment to one calendar date. Date is the UTC midnight of that day.
type ScheduleDay struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	AssignmentID     primitive.ObjectID  `bson:"assignmentId" json:"assignmentId"`
	RoutineDayID     *primitive.ObjectID `bson:"routineDayId,omitempty" json:"routineDayId,omitempty"`
	Date             time.Time           `bson:"date" json:"date"`
	IsRestDay        bool                `bson:"isRestDay" json:"isRestDay"`
	IsCompleted      bool                `bson:"isCompleted" json:"isCompleted"`
	WasSkipped       bool                `bson:"wasSkipped" json:"wasSkipped"`
	WorkoutSessionID *primitive.ObjectID `bson:"workoutSessionId,omitempty" json:"workoutSessionId,omitempty"`
}

// DayStatus is the display status of one calendar day for one assignment.
type DayStatus string

const (
	DayCompleted DayStatus = "completed"
	DayMissed    DayStatus = "missed"
	DaySkipped   DayStatus = "skipped"
	DayRest      DayStatus = "rest"
	DayScheduled DayStatus = "scheduled"
)
