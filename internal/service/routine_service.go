package service

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"
	"alcyxob/fitness-coach/internal/routinetext"
	"alcyxob/fitness-coach/internal/storage"
	"context"
	"errors"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrRoutineNotParsed    = errors.New("no workout days could be parsed from the routine text")
	ErrRoutineNotFound     = errors.New("routine not found")
	ErrRoutineAccessDenied = errors.New("access denied to this routine")
	ErrRoutineEmpty        = errors.New("routine has no days")
)

// RoutineDayDetails is a routine day with its ordered exercises.
type RoutineDayDetails struct {
	domain.RoutineDay
	Exercises []domain.Exercise `json:"exercises"`
}

// RoutineDetails is a routine as shown to its trainer.
type RoutineDetails struct {
	Routine   *domain.Routine     `json:"routine"`
	Days      []RoutineDayDetails `json:"days"`
	SourceURL string              `json:"sourceUrl,omitempty"` // Presigned link to the imported text
}

type RoutineService interface {
	// ImportFromText parses coach-generated text and stores the resulting routine.
	ImportFromText(ctx context.Context, trainerID primitive.ObjectID, raw string) (*RoutineDetails, error)
	// CreateInDatabase persists a parsed routine: the routine, then its days in
	// ascending day order, then each day's exercises in order.
	CreateInDatabase(ctx context.Context, trainerID primitive.ObjectID, routine *domain.AIWorkoutRoutine) (*domain.Routine, error)
	GetRoutine(ctx context.Context, trainerID, routineID primitive.ObjectID) (*RoutineDetails, error)
}

type routineService struct {
	transactor   repository.Transactor
	routineRepo  repository.RoutineRepository
	dayRepo      repository.RoutineDayRepository
	exerciseRepo repository.ExerciseRepository
	fileStorage  storage.FileStorage // nil disables archiving of imported text
}

func NewRoutineService(
	transactor repository.Transactor,
	routineRepo repository.RoutineRepository,
	dayRepo repository.RoutineDayRepository,
	exerciseRepo repository.ExerciseRepository,
	fileStorage storage.FileStorage,
) RoutineService {
	return &routineService{
		transactor:   transactor,
		routineRepo:  routineRepo,
		dayRepo:      dayRepo,
		exerciseRepo: exerciseRepo,
		fileStorage:  fileStorage,
	}
}

func (s *routineService) ImportFromText(ctx context.Context, trainerID primitive.ObjectID, raw string) (*RoutineDetails, error) {
	parsed := routinetext.Parse(raw)
	if parsed == nil {
		return nil, ErrRoutineNotParsed
	}

	sourceKey := s.archiveText(ctx, trainerID, raw)

	routine, err := s.create(ctx, trainerID, parsed, sourceKey)
	if err != nil {
		if sourceKey != "" {
			if delErr := s.fileStorage.DeleteObject(ctx, sourceKey); delErr != nil {
				log.Warnf("remove archived routine text %s: %s", sourceKey, delErr)
			}
		}
		return nil, err
	}

	log.WithFields(log.Fields{
		"trainerId": trainerID.Hex(),
		"routineId": routine.ID.Hex(),
	}).Infof("imported routine %q with %d days", routine.Name, len(parsed.Days))

	return s.GetRoutine(ctx, trainerID, routine.ID)
}

// archiveText stores the raw import text and returns its key, or "" when archiving
// is disabled or fails. Import never fails because of the archive.
func (s *routineService) archiveText(ctx context.Context, trainerID primitive.ObjectID, raw string) string {
	if s.fileStorage == nil {
		return ""
	}
	key := storage.RoutineTextKey(trainerID.Hex())
	if err := s.fileStorage.PutObject(ctx, key, "text/plain; charset=utf-8", []byte(raw)); err != nil {
		log.WithField("trainerId", trainerID.Hex()).Warnf("archive routine text: %s", err)
		return ""
	}
	return key
}

func (s *routineService) CreateInDatabase(ctx context.Context, trainerID primitive.ObjectID, routine *domain.AIWorkoutRoutine) (*domain.Routine, error) {
	return s.create(ctx, trainerID, routine, "")
}

func (s *routineService) create(ctx context.Context, trainerID primitive.ObjectID, parsed *domain.AIWorkoutRoutine, sourceKey string) (*domain.Routine, error) {
	if parsed == nil || len(parsed.Days) == 0 {
		return nil, ErrRoutineEmpty
	}

	days := make([]domain.AIWorkoutDay, len(parsed.Days))
	copy(days, parsed.Days)
	sort.SliceStable(days, func(i, j int) bool { return days[i].DayNumber < days[j].DayNumber })

	routine := &domain.Routine{
		TrainerID:       trainerID,
		Name:            parsed.Name,
		DaysPerWeek:     parsed.DaysPerWeek,
		Source:          domain.RoutineSourceAI,
		SourceObjectKey: sourceKey,
	}
	if routine.Name == "" {
		routine.Name = routinetext.DefaultRoutineName
	}

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		routineID, err := s.routineRepo.Create(ctx, routine)
		if err != nil {
			return fmt.Errorf("create routine: %w", err)
		}
		routine.ID = routineID

		// Stored day numbers are contiguous even when the text skipped some.
		for i, d := range days {
			day := &domain.RoutineDay{
				RoutineID: routineID,
				DayNumber: i + 1,
				Name:      d.Name,
			}
			dayID, err := s.dayRepo.Create(ctx, day)
			if err != nil {
				return fmt.Errorf("create routine day %d: %w", day.DayNumber, err)
			}

			for order, ex := range d.Exercises {
				exercise := &domain.Exercise{
					RoutineDayID: dayID,
					Name:         ex.Name,
					Sets:         ex.Sets,
					Reps:         ex.Reps,
					Rest:         ex.Rest,
					Notes:        ex.Notes,
					OrderIndex:   order,
				}
				if _, err := s.exerciseRepo.Create(ctx, exercise); err != nil {
					return fmt.Errorf("create exercise %q of day %d: %w", ex.Name, day.DayNumber, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		log.WithField("trainerId", trainerID.Hex()).Errorf("routine creation aborted: %s", err)
		return nil, err
	}
	return routine, nil
}

func (s *routineService) GetRoutine(ctx context.Context, trainerID, routineID primitive.ObjectID) (*RoutineDetails, error) {
	routine, err := s.routineRepo.GetByID(ctx, routineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, fmt.Errorf("get routine: %w", err)
	}
	if routine.TrainerID != trainerID {
		return nil, ErrRoutineAccessDenied
	}

	days, err := s.dayRepo.GetByRoutineID(ctx, routineID)
	if err != nil {
		return nil, fmt.Errorf("get routine days: %w", err)
	}

	details := &RoutineDetails{
		Routine: routine,
		Days:    make([]RoutineDayDetails, 0, len(days)),
	}
	for _, day := range days {
		exercises, err := s.exerciseRepo.GetByRoutineDayID(ctx, day.ID)
		if err != nil {
			return nil, fmt.Errorf("get exercises of day %d: %w", day.DayNumber, err)
		}
		details.Days = append(details.Days, RoutineDayDetails{RoutineDay: day, Exercises: exercises})
	}

	if routine.SourceObjectKey != "" && s.fileStorage != nil {
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, routine.SourceObjectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			log.WithField("routineId", routineID.Hex()).Warnf("presign routine source: %s", err)
		} else {
			details.SourceURL = url
		}
	}
	return details, nil
}
