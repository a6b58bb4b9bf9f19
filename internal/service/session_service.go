package service

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/progression"
	"alcyxob/fitness-coach/internal/repository"
	"alcyxob/fitness-coach/internal/schedule"
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultSessionName = "Workout"

// CompletionHandler reacts to a saved workout session.
type CompletionHandler interface {
	OnWorkoutCompleted(ctx context.Context, sessionID primitive.ObjectID) (progression.Outcome, error)
}

// SaveSessionInput is a finished workout as reported by the client.
type SaveSessionInput struct {
	AssignmentID    *primitive.ObjectID // Nil for a free workout
	RoutineDayID    *primitive.ObjectID
	Name            string
	Notes           string
	DurationMinutes int
	CompletedAt     time.Time // Zero means now
}

type SessionService interface {
	// SaveSession stores a completed workout. Schedule bookkeeping and plan
	// progression run afterwards and never fail the save.
	SaveSession(ctx context.Context, clientID primitive.ObjectID, input SaveSessionInput) (*domain.WorkoutSession, error)
}

type sessionService struct {
	sessionRepo    repository.WorkoutSessionRepository
	assignmentRepo repository.AssignmentRepository
	scheduleRepo   repository.ScheduleDayRepository
	completion     CompletionHandler
	location       *time.Location
	now            func() time.Time
}

func NewSessionService(
	sessionRepo repository.WorkoutSessionRepository,
	assignmentRepo repository.AssignmentRepository,
	scheduleRepo repository.ScheduleDayRepository,
	completion CompletionHandler,
	location *time.Location,
) SessionService {
	if location == nil {
		location = time.UTC
	}
	return &sessionService{
		sessionRepo:    sessionRepo,
		assignmentRepo: assignmentRepo,
		scheduleRepo:   scheduleRepo,
		completion:     completion,
		location:       location,
		now:            time.Now,
	}
}

func (s *sessionService) SaveSession(ctx context.Context, clientID primitive.ObjectID, input SaveSessionInput) (*domain.WorkoutSession, error) {
	session := &domain.WorkoutSession{
		ClientID:        clientID,
		RoutineDayID:    input.RoutineDayID,
		Name:            input.Name,
		Notes:           input.Notes,
		DurationMinutes: input.DurationMinutes,
		Completed:       true,
		CompletedAt:     input.CompletedAt,
	}
	if session.Name == "" {
		session.Name = defaultSessionName
	}
	if session.CompletedAt.IsZero() {
		session.CompletedAt = s.now()
	}
	session.CompletedAt = session.CompletedAt.UTC()

	if input.AssignmentID != nil && *input.AssignmentID != primitive.NilObjectID {
		assignment, err := loadOwnedAssignment(ctx, s.assignmentRepo, clientID, *input.AssignmentID)
		if err != nil {
			return nil, err
		}
		if !assignment.IsActive {
			return nil, ErrAssignmentInactive
		}
		assignmentID, routineID := assignment.ID, assignment.RoutineID
		session.AssignmentID = &assignmentID
		session.RoutineID = &routineID
	}

	id, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("create workout session: %w", err)
	}
	session.ID = id

	if session.IsRoutineLinked() {
		s.markScheduleCompleted(ctx, session)
		s.advancePlan(ctx, session)
	}
	return session, nil
}

func (s *sessionService) markScheduleCompleted(ctx context.Context, session *domain.WorkoutSession) {
	date := schedule.DayOf(session.CompletedAt.In(s.location))
	if err := s.scheduleRepo.MarkCompleted(ctx, *session.AssignmentID, date, session.ID); err != nil {
		log.WithFields(log.Fields{
			"assignmentId": session.AssignmentID.Hex(),
			"sessionId":    session.ID.Hex(),
		}).Warnf("mark %s completed: %s", schedule.DateKey(date), err)
	}
}

// advancePlan is a log-only boundary around progression: the session is already saved.
func (s *sessionService) advancePlan(ctx context.Context, session *domain.WorkoutSession) {
	logger := log.WithFields(log.Fields{
		"assignmentId": session.AssignmentID.Hex(),
		"sessionId":    session.ID.Hex(),
	})
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("plan progression panicked: %v", r)
		}
	}()

	outcome, err := s.completion.OnWorkoutCompleted(ctx, session.ID)
	if err != nil {
		logger.Errorf("advance plan: %s", err)
		return
	}
	logger.Debugf("plan progression outcome: %s", outcome)
}
