package service

import (
	"alcyxob/fitness-coach/internal/repository"
	"alcyxob/fitness-coach/internal/schedule"
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CalendarService interface {
	// GetWeek projects the client's active assignments onto the Monday-Sunday
	// week containing pivot.
	GetWeek(ctx context.Context, clientID primitive.ObjectID, pivot time.Time) (*schedule.Week, error)
}

type calendarService struct {
	assignmentRepo repository.AssignmentRepository
	routineRepo    repository.RoutineRepository
	filler         scheduleFiller
	location       *time.Location
	now            func() time.Time
}

func NewCalendarService(
	assignmentRepo repository.AssignmentRepository,
	routineRepo repository.RoutineRepository,
	dayRepo repository.RoutineDayRepository,
	scheduleRepo repository.ScheduleDayRepository,
	location *time.Location,
	horizonWeeks int,
) CalendarService {
	if location == nil {
		location = time.UTC
	}
	return &calendarService{
		assignmentRepo: assignmentRepo,
		routineRepo:    routineRepo,
		filler:         scheduleFiller{dayRepo: dayRepo, scheduleRepo: scheduleRepo, horizonWeeks: horizonWeeks},
		location:       location,
		now:            time.Now,
	}
}

func (s *calendarService) GetWeek(ctx context.Context, clientID primitive.ObjectID, pivot time.Time) (*schedule.Week, error) {
	now := s.now().In(s.location)
	if pivot.IsZero() {
		pivot = now
	}
	dates := schedule.WeekOf(pivot)

	assignments, err := s.assignmentRepo.GetActiveByClientID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("get active assignments: %w", err)
	}

	schedules := make([]schedule.AssignmentSchedule, 0, len(assignments))
	for _, a := range assignments {
		days, err := s.filler.recordsInRange(ctx, a, dates[0], dates[len(dates)-1], schedule.DayOf(now))
		if err != nil {
			return nil, fmt.Errorf("get schedule of assignment %s: %w", a.ID.Hex(), err)
		}

		// The row still renders without its title.
		routineName := ""
		if routine, err := s.routineRepo.GetByID(ctx, a.RoutineID); err != nil {
			log.WithField("assignmentId", a.ID.Hex()).Warnf("get routine for calendar row: %s", err)
		} else {
			routineName = routine.Name
		}

		schedules = append(schedules, schedule.AssignmentSchedule{
			Assignment:  a,
			RoutineName: routineName,
			Days:        days,
		})
	}

	week := schedule.Project(pivot, now, schedules)
	return &week, nil
}
