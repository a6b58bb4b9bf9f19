// Package progression advances flexible-plan assignments when workouts are completed.
package progression

import (
	"alcyxob/fitness-coach/internal/domain"
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultMaxAttempts bounds compare-and-swap retries under contention.
const DefaultMaxAttempts = 5

// ErrContention is returned when the day index kept changing underneath every attempt.
var ErrContention = errors.New("assignment day index changed concurrently on every attempt")

// Outcome tells what OnWorkoutCompleted did with a session.
type Outcome string

const (
	OutcomeAdvanced               Outcome = "advanced"
	OutcomeNoRoutine              Outcome = "no_routine"      // free workout, not linked to an assignment
	OutcomeStrictPlan             Outcome = "strict_plan"     // calendar-driven, never advanced by index
	OutcomeNoRoutineDays          Outcome = "no_routine_days" // empty routine, nothing to advance through
	OutcomeSessionLookupFailed    Outcome = "session_lookup_failed"
	OutcomeAssignmentLookupFailed Outcome = "assignment_lookup_failed"
	OutcomeDayCountLookupFailed   Outcome = "day_count_lookup_failed"
)

// SessionFinder loads logged workouts.
type SessionFinder interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error)
}

// AssignmentStore reads assignments and swaps their day index.
type AssignmentStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RoutineAssignment, error)
	CompareAndSwapDayIndex(ctx context.Context, id primitive.ObjectID, prev, next int) (bool, error)
}

// DayCounter reports how many days a routine has.
type DayCounter interface {
	CountByRoutineID(ctx context.Context, routineID primitive.ObjectID) (int, error)
}

// Engine owns the assignment day pointer. Nothing else writes currentDayIndex.
type Engine struct {
	sessions    SessionFinder
	assignments AssignmentStore
	dayCounter  DayCounter
	maxAttempts int
}

func NewEngine(sessions SessionFinder, assignments AssignmentStore, dayCounter DayCounter, maxAttempts int) *Engine {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Engine{
		sessions:    sessions,
		assignments: assignments,
		dayCounter:  dayCounter,
		maxAttempts: maxAttempts,
	}
}

// OnWorkoutCompleted advances the session's assignment by exactly one routine day,
// wrapping at the routine's day count. Sessions without a routine, strict plans and
// empty routines are left alone. Lookup failures are logged and swallowed; only a
// failure to persist the new index is returned.
func (e *Engine) OnWorkoutCompleted(ctx context.Context, sessionID primitive.ObjectID) (Outcome, error) {
	logger := log.WithField("sessionId", sessionID.Hex())

	session, err := e.sessions.GetByID(ctx, sessionID)
	if err != nil {
		logger.Warnf("progression: get session: %s", err)
		return OutcomeSessionLookupFailed, nil
	}
	if !session.IsRoutineLinked() {
		return OutcomeNoRoutine, nil
	}

	assignmentID := *session.AssignmentID
	logger = logger.WithField("assignmentId", assignmentID.Hex())

	assignment, err := e.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		logger.Warnf("progression: get assignment: %s", err)
		return OutcomeAssignmentLookupFailed, nil
	}
	if !assignment.IsFlexible() {
		return OutcomeStrictPlan, nil
	}

	dayCount, err := e.dayCounter.CountByRoutineID(ctx, *session.RoutineID)
	if err != nil {
		logger.Warnf("progression: count routine days: %s", err)
		return OutcomeDayCountLookupFailed, nil
	}
	if dayCount == 0 {
		return OutcomeNoRoutineDays, nil
	}

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		if attempt > 1 {
			// Someone else moved the pointer; build on their value.
			assignment, err = e.assignments.GetByID(ctx, assignmentID)
			if err != nil {
				return "", fmt.Errorf("reload assignment %s: %w", assignmentID.Hex(), err)
			}
		}

		current := assignment.CurrentDayIndex
		next := NextIndex(current, dayCount)

		swapped, err := e.assignments.CompareAndSwapDayIndex(ctx, assignmentID, current, next)
		if err != nil {
			return "", fmt.Errorf("update day index of assignment %s: %w", assignmentID.Hex(), err)
		}
		if swapped {
			logger.WithFields(log.Fields{"from": current, "to": next}).Debug("progression: advanced assignment")
			return OutcomeAdvanced, nil
		}
		logger.Debugf("progression: day index changed concurrently, attempt %d/%d", attempt, e.maxAttempts)
	}
	return "", ErrContention
}

// NextIndex returns (current + 1) mod dayCount, normalizing a negative or
// out-of-range current value first.
func NextIndex(current, dayCount int) int {
	if dayCount <= 0 {
		return 0
	}
	current %= dayCount
	if current < 0 {
		current += dayCount
	}
	return (current + 1) % dayCount
}
