package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanType selects how an assignment advances through its routine.
type PlanType string

const (
	// PlanStrict binds routine days to fixed calendar dates.
	PlanStrict PlanType = "strict"
	// PlanFlexible advances CurrentDayIndex on every completed workout.
	PlanFlexible PlanType = "flexible"
)

func (p PlanType) Valid() bool {
	return p == PlanStrict || p == PlanFlexible
}

// RoutineAssignment is one client's active attachment to one routine.
// CurrentDayIndex is only meaningful for flexible plans and is always < the routine's day count.
type RoutineAssignment struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RoutineID        primitive.ObjectID `bson:"routineId" json:"routineId"`
	ClientID         primitive.ObjectID `bson:"clientId" json:"clientId"`
	PlanType         PlanType           `bson:"planType" json:"planType"`
	CurrentDayIndex  int                `bson:"currentDayIndex" json:"currentDayIndex"`
	StartDate        time.Time          `bson:"startDate" json:"startDate"`
	TrainingWeekdays []time.Weekday     `bson:"trainingWeekdays,omitempty" json:"trainingWeekdays,omitempty"`
	IsActive         bool               `bson:"isActive" json:"isActive"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (a *RoutineAssignment) IsFlexible() bool {
	return a.PlanType == PlanFlexible
}
