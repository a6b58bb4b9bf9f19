package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutSession is a concrete logged workout. It is immutable once saved.
// A session without AssignmentID or RoutineID is a free workout and never advances a plan.
type WorkoutSession struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ClientID        primitive.ObjectID  `bson:"clientId" json:"clientId"`
	AssignmentID    *primitive.ObjectID `bson:"assignmentId,omitempty" json:"assignmentId,omitempty"`
	RoutineID       *primitive.ObjectID `bson:"routineId,omitempty" json:"routineId,omitempty"`
	RoutineDayID    *primitive.ObjectID `bson:"routineDayId,omitempty" json:"routineDayId,omitempty"`
	Name            string              `bson:"name" json:"name"`
	Notes           string              `bson:"notes,omitempty" json:"notes,omitempty"`
	DurationMinutes int                 `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty"`
	Completed       bool                `bson:"completed" json:"completed"`
	CompletedAt     time.Time           `bson:"completedAt" json:"completedAt"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
}

// IsRoutineLinked reports whether the session is tied to a routine assignment.
func (s *WorkoutSession) IsRoutineLinked() bool {
	return s.AssignmentID != nil && *s.AssignmentID != primitive.NilObjectID &&
		s.RoutineID != nil && *s.RoutineID != primitive.NilObjectID
}
