package repository

import (
	"alcyxob/fitness-coach/internal/domain"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound = RepositoryError("not found")
	ErrConflict = RepositoryError("conflict") // Unique constraint violated
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Transactor runs fn so that every write made through ctx commits or rolls back together.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// RoutineRepository stores routine templates.
type RoutineRepository interface {
	Create(ctx context.Context, routine *domain.Routine) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Routine, error)
}

// RoutineDayRepository stores the ordered days of a routine.
type RoutineDayRepository interface {
	Create(ctx context.Context, day *domain.RoutineDay) (primitive.ObjectID, error)
	GetByRoutineID(ctx context.Context, routineID primitive.ObjectID) ([]domain.RoutineDay, error) // Sorted by dayNumber
	CountByRoutineID(ctx context.Context, routineID primitive.ObjectID) (int, error)
}

// ExerciseRepository stores the exercises of routine days.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByRoutineDayID(ctx context.Context, routineDayID primitive.ObjectID) ([]domain.Exercise, error) // Sorted by orderIndex
}

// AssignmentRepository stores client routine assignments. CompareAndSwapDayIndex is the
// only way CurrentDayIndex changes after creation.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.RoutineAssignment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RoutineAssignment, error)
	GetActiveByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.RoutineAssignment, error)
	// CompareAndSwapDayIndex sets currentDayIndex to next only if it still equals prev.
	// It reports false, nil when another writer got there first.
	CompareAndSwapDayIndex(ctx context.Context, id primitive.ObjectID, prev, next int) (bool, error)
	Deactivate(ctx context.Context, id primitive.ObjectID) error
}

// ScheduleDayRepository stores per-date schedule records of assignments.
type ScheduleDayRepository interface {
	CreateMany(ctx context.Context, days []domain.ScheduleDay) error
	// GetByAssignmentInRange returns records with from <= date <= to, sorted by date.
	GetByAssignmentInRange(ctx context.Context, assignmentID primitive.ObjectID, from, to time.Time) ([]domain.ScheduleDay, error)
	GetByAssignmentAndDate(ctx context.Context, assignmentID primitive.ObjectID, date time.Time) (*domain.ScheduleDay, error)
	// MarkCompleted flags the record for date completed, creating it when absent.
	MarkCompleted(ctx context.Context, assignmentID primitive.ObjectID, date time.Time, sessionID primitive.ObjectID) error
	// MarkSkipped flags the record for date skipped, creating it when absent.
	MarkSkipped(ctx context.Context, assignmentID primitive.ObjectID, date time.Time) error
}

// WorkoutSessionRepository stores logged workouts.
type WorkoutSessionRepository interface {
	Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error)
}
