package service

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"
	"alcyxob/fitness-coach/internal/schedule"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
)

// scheduleFiller extends an assignment's stored schedule as time moves past the
// weeks laid out when the assignment was started.
type scheduleFiller struct {
	dayRepo      repository.RoutineDayRepository
	scheduleRepo repository.ScheduleDayRepository
	horizonWeeks int
}

// recordsInRange returns the assignment's records for from..to. Dates without a
// stored record are generated; generated dates up to horizonWeeks past today are
// also stored, later ones are returned without being stored.
func (f scheduleFiller) recordsInRange(ctx context.Context, assignment domain.RoutineAssignment, from, to, today time.Time) ([]domain.ScheduleDay, error) {
	stored, err := f.scheduleRepo.GetByAssignmentInRange(ctx, assignment.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}

	have := make(map[string]bool, len(stored))
	for _, sd := range stored {
		have[schedule.DateKey(sd.Date)] = true
	}

	var days []domain.RoutineDay
	if assignment.PlanType == domain.PlanStrict {
		days, err = f.dayRepo.GetByRoutineID(ctx, assignment.RoutineID)
		if err != nil {
			return nil, fmt.Errorf("get routine days: %w", err)
		}
	}

	var missing, persist []domain.ScheduleDay
	limit := today.AddDate(0, 0, f.horizonWeeks*7)
	for _, sd := range schedule.GenerateRange(assignment, days, from, to) {
		if have[schedule.DateKey(sd.Date)] {
			continue
		}
		missing = append(missing, sd)
		if !sd.Date.After(limit) {
			persist = append(persist, sd)
		}
	}
	if len(missing) == 0 {
		return stored, nil
	}

	if len(persist) > 0 {
		// A concurrent fill may have stored some of the same dates first.
		if err := f.scheduleRepo.CreateMany(ctx, persist); err != nil && !errors.Is(err, repository.ErrConflict) {
			log.WithField("assignmentId", assignment.ID.Hex()).Warnf("extend schedule: %s", err)
		}
	}

	out := append(stored, missing...)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
