package service

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"
	"alcyxob/fitness-coach/internal/schedule"
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrAssignmentNotOwned = errors.New("assignment belongs to another client")
	ErrAssignmentInactive = errors.New("assignment is no longer active")
	ErrInvalidPlanType    = errors.New("plan type must be strict or flexible")
	ErrInvalidWeekday     = errors.New("training weekdays must be between 0 (Sunday) and 6 (Saturday)")
)

// StartAssignmentInput describes a client starting a routine.
type StartAssignmentInput struct {
	RoutineID        primitive.ObjectID
	PlanType         domain.PlanType
	StartDate        time.Time // Zero means today
	TrainingWeekdays []time.Weekday
}

// NextWorkout is what the client should train next. Day is nil on a rest day.
type NextWorkout struct {
	AssignmentID primitive.ObjectID `json:"assignmentId"`
	PlanType     domain.PlanType    `json:"planType"`
	Day          *domain.RoutineDay `json:"day,omitempty"`
	Exercises    []domain.Exercise  `json:"exercises,omitempty"`
	IsRestDay    bool               `json:"isRestDay"`
}

type AssignmentService interface {
	Start(ctx context.Context, clientID primitive.ObjectID, input StartAssignmentInput) (*domain.RoutineAssignment, error)
	Stop(ctx context.Context, clientID, assignmentID primitive.ObjectID) error
	Skip(ctx context.Context, clientID, assignmentID primitive.ObjectID, date time.Time) error
	NextWorkout(ctx context.Context, clientID, assignmentID primitive.ObjectID) (*NextWorkout, error)
}

type assignmentService struct {
	transactor     repository.Transactor
	routineRepo    repository.RoutineRepository
	dayRepo        repository.RoutineDayRepository
	exerciseRepo   repository.ExerciseRepository
	assignmentRepo repository.AssignmentRepository
	scheduleRepo   repository.ScheduleDayRepository
	location       *time.Location
	horizonWeeks   int
	filler         scheduleFiller
	now            func() time.Time
}

func NewAssignmentService(
	transactor repository.Transactor,
	routineRepo repository.RoutineRepository,
	dayRepo repository.RoutineDayRepository,
	exerciseRepo repository.ExerciseRepository,
	assignmentRepo repository.AssignmentRepository,
	scheduleRepo repository.ScheduleDayRepository,
	location *time.Location,
	horizonWeeks int,
) AssignmentService {
	if location == nil {
		location = time.UTC
	}
	return &assignmentService{
		transactor:     transactor,
		routineRepo:    routineRepo,
		dayRepo:        dayRepo,
		exerciseRepo:   exerciseRepo,
		assignmentRepo: assignmentRepo,
		scheduleRepo:   scheduleRepo,
		location:       location,
		horizonWeeks:   horizonWeeks,
		filler:         scheduleFiller{dayRepo: dayRepo, scheduleRepo: scheduleRepo, horizonWeeks: horizonWeeks},
		now:            time.Now,
	}
}

func (s *assignmentService) today() time.Time {
	return schedule.DayOf(s.now().In(s.location))
}

// Start attaches the routine to the client and lays out its schedule records.
func (s *assignmentService) Start(ctx context.Context, clientID primitive.ObjectID, input StartAssignmentInput) (*domain.RoutineAssignment, error) {
	if !input.PlanType.Valid() {
		return nil, ErrInvalidPlanType
	}
	for _, wd := range input.TrainingWeekdays {
		if wd < time.Sunday || wd > time.Saturday {
			return nil, ErrInvalidWeekday
		}
	}

	if _, err := s.routineRepo.GetByID(ctx, input.RoutineID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, fmt.Errorf("get routine: %w", err)
	}
	days, err := s.dayRepo.GetByRoutineID(ctx, input.RoutineID)
	if err != nil {
		return nil, fmt.Errorf("get routine days: %w", err)
	}
	if len(days) == 0 {
		return nil, ErrRoutineEmpty
	}

	start := s.today()
	if !input.StartDate.IsZero() {
		start = schedule.DayOf(input.StartDate)
	}

	assignment := &domain.RoutineAssignment{
		RoutineID:        input.RoutineID,
		ClientID:         clientID,
		PlanType:         input.PlanType,
		StartDate:        start,
		TrainingWeekdays: input.TrainingWeekdays,
	}

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		id, err := s.assignmentRepo.Create(ctx, assignment)
		if err != nil {
			return fmt.Errorf("create assignment: %w", err)
		}
		assignment.ID = id

		if err := s.scheduleRepo.CreateMany(ctx, schedule.Generate(*assignment, days, s.horizonWeeks)); err != nil {
			return fmt.Errorf("create schedule: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"clientId":     clientID.Hex(),
		"assignmentId": assignment.ID.Hex(),
	}).Infof("started %s plan on %s", assignment.PlanType, schedule.DateKey(start))
	return assignment, nil
}

// Stop deactivates the assignment. Its history stays in place.
func (s *assignmentService) Stop(ctx context.Context, clientID, assignmentID primitive.ObjectID) error {
	if _, err := loadOwnedAssignment(ctx, s.assignmentRepo, clientID, assignmentID); err != nil {
		return err
	}
	if err := s.assignmentRepo.Deactivate(ctx, assignmentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAssignmentNotFound
		}
		return fmt.Errorf("deactivate assignment: %w", err)
	}
	return nil
}

// Skip marks the calendar day of date as skipped for the assignment.
func (s *assignmentService) Skip(ctx context.Context, clientID, assignmentID primitive.ObjectID, date time.Time) error {
	assignment, err := loadOwnedAssignment(ctx, s.assignmentRepo, clientID, assignmentID)
	if err != nil {
		return err
	}
	if !assignment.IsActive {
		return ErrAssignmentInactive
	}
	if date.IsZero() {
		date = s.today()
	}
	if err := s.scheduleRepo.MarkSkipped(ctx, assignmentID, schedule.DayOf(date)); err != nil {
		return fmt.Errorf("mark day skipped: %w", err)
	}
	return nil
}

// NextWorkout picks the routine day at the flexible pointer, or the day pinned to
// today's schedule record on a strict plan.
func (s *assignmentService) NextWorkout(ctx context.Context, clientID, assignmentID primitive.ObjectID) (*NextWorkout, error) {
	assignment, err := loadOwnedAssignment(ctx, s.assignmentRepo, clientID, assignmentID)
	if err != nil {
		return nil, err
	}
	if !assignment.IsActive {
		return nil, ErrAssignmentInactive
	}

	days, err := s.dayRepo.GetByRoutineID(ctx, assignment.RoutineID)
	if err != nil {
		return nil, fmt.Errorf("get routine days: %w", err)
	}
	if len(days) == 0 {
		return nil, ErrRoutineEmpty
	}

	next := &NextWorkout{AssignmentID: assignment.ID, PlanType: assignment.PlanType}

	var day *domain.RoutineDay
	if assignment.IsFlexible() {
		day = &days[assignment.CurrentDayIndex%len(days)]
	} else {
		today := s.today()
		record, err := s.scheduleRepo.GetByAssignmentAndDate(ctx, assignment.ID, today)
		if errors.Is(err, repository.ErrNotFound) {
			records, fillErr := s.filler.recordsInRange(ctx, *assignment, today, today, today)
			if fillErr != nil {
				return nil, fmt.Errorf("fill today's schedule: %w", fillErr)
			}
			if len(records) == 1 {
				record, err = &records[0], nil
			}
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("get today's schedule: %w", err)
		}
		if record != nil && !record.IsRestDay && record.RoutineDayID != nil {
			for i := range days {
				if days[i].ID == *record.RoutineDayID {
					day = &days[i]
					break
				}
			}
		}
	}

	if day == nil {
		next.IsRestDay = true
		return next, nil
	}

	exercises, err := s.exerciseRepo.GetByRoutineDayID(ctx, day.ID)
	if err != nil {
		return nil, fmt.Errorf("get exercises: %w", err)
	}
	next.Day = day
	next.Exercises = exercises
	return next, nil
}

func loadOwnedAssignment(ctx context.Context, repo repository.AssignmentRepository, clientID, assignmentID primitive.ObjectID) (*domain.RoutineAssignment, error) {
	assignment, err := repo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	if assignment.ClientID != clientID {
		return nil, ErrAssignmentNotOwned
	}
	return assignment, nil
}
