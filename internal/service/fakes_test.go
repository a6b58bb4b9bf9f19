package service

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/progression"
	"alcyxob/fitness-coach/internal/repository"
	"alcyxob/fitness-coach/internal/schedule"
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStoreDown = errors.New("store unavailable")

// fakeTransactor runs fn directly and counts calls. Rollback is simulated by
// the test fixtures that care about it.
type fakeTransactor struct {
	calls int
}

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type fakeUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[user.Email]; ok {
		return primitive.NilObjectID, repository.ErrConflict
	}
	user.ID = primitive.NewObjectID()
	stored := *user
	r.byEmail[user.Email] = &stored
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeRoutineRepo struct {
	routines  map[primitive.ObjectID]domain.Routine
	createErr error
}

func newFakeRoutineRepo() *fakeRoutineRepo {
	return &fakeRoutineRepo{routines: make(map[primitive.ObjectID]domain.Routine)}
}

func (r *fakeRoutineRepo) Create(_ context.Context, routine *domain.Routine) (primitive.ObjectID, error) {
	if r.createErr != nil {
		return primitive.NilObjectID, r.createErr
	}
	routine.ID = primitive.NewObjectID()
	r.routines[routine.ID] = *routine
	return routine.ID, nil
}

func (r *fakeRoutineRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Routine, error) {
	routine, ok := r.routines[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &routine, nil
}

type fakeDayRepo struct {
	days []domain.RoutineDay // Insertion order
}

func (r *fakeDayRepo) Create(_ context.Context, day *domain.RoutineDay) (primitive.ObjectID, error) {
	day.ID = primitive.NewObjectID()
	r.days = append(r.days, *day)
	return day.ID, nil
}

func (r *fakeDayRepo) GetByRoutineID(_ context.Context, routineID primitive.ObjectID) ([]domain.RoutineDay, error) {
	var out []domain.RoutineDay
	for _, d := range r.days {
		if d.RoutineID == routineID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayNumber < out[j].DayNumber })
	return out, nil
}

func (r *fakeDayRepo) CountByRoutineID(ctx context.Context, routineID primitive.ObjectID) (int, error) {
	days, err := r.GetByRoutineID(ctx, routineID)
	return len(days), err
}

type fakeExerciseRepo struct {
	exercises []domain.Exercise // Insertion order
	failAfter int               // Fail the create after this many successes; 0 never fails
}

func (r *fakeExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if r.failAfter > 0 && len(r.exercises) >= r.failAfter {
		return primitive.NilObjectID, errStoreDown
	}
	exercise.ID = primitive.NewObjectID()
	r.exercises = append(r.exercises, *exercise)
	return exercise.ID, nil
}

func (r *fakeExerciseRepo) GetByRoutineDayID(_ context.Context, routineDayID primitive.ObjectID) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, e := range r.exercises {
		if e.RoutineDayID == routineDayID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

type fakeAssignmentRepo struct {
	mu          sync.Mutex
	assignments map[primitive.ObjectID]domain.RoutineAssignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[primitive.ObjectID]domain.RoutineAssignment)}
}

func (r *fakeAssignmentRepo) Create(_ context.Context, a *domain.RoutineAssignment) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = primitive.NewObjectID()
	a.CurrentDayIndex = 0
	a.IsActive = true
	r.assignments[a.ID] = *a
	return a.ID, nil
}

func (r *fakeAssignmentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.RoutineAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *fakeAssignmentRepo) GetActiveByClientID(_ context.Context, clientID primitive.ObjectID) ([]domain.RoutineAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.RoutineAssignment
	for _, a := range r.assignments {
		if a.ClientID == clientID && a.IsActive {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (r *fakeAssignmentRepo) CompareAndSwapDayIndex(_ context.Context, id primitive.ObjectID, prev, next int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if a.CurrentDayIndex != prev {
		return false, nil
	}
	a.CurrentDayIndex = next
	r.assignments[id] = a
	return true, nil
}

func (r *fakeAssignmentRepo) Deactivate(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.IsActive = false
	r.assignments[id] = a
	return nil
}

type fakeScheduleRepo struct {
	mu        sync.Mutex
	days      map[string]domain.ScheduleDay // assignmentId/date
	markErr   error
	createErr error
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{days: make(map[string]domain.ScheduleDay)}
}

func scheduleKey(assignmentID primitive.ObjectID, date time.Time) string {
	return assignmentID.Hex() + "/" + schedule.DateKey(date)
}

func (r *fakeScheduleRepo) CreateMany(_ context.Context, days []domain.ScheduleDay) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, d := range days {
		d.ID = primitive.NewObjectID()
		r.days[scheduleKey(d.AssignmentID, d.Date)] = d
	}
	return nil
}

func (r *fakeScheduleRepo) GetByAssignmentInRange(_ context.Context, assignmentID primitive.ObjectID, from, to time.Time) ([]domain.ScheduleDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ScheduleDay
	for _, d := range r.days {
		if d.AssignmentID == assignmentID && !d.Date.Before(from) && !d.Date.After(to) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *fakeScheduleRepo) GetByAssignmentAndDate(_ context.Context, assignmentID primitive.ObjectID, date time.Time) (*domain.ScheduleDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.days[scheduleKey(assignmentID, date)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (r *fakeScheduleRepo) MarkCompleted(_ context.Context, assignmentID primitive.ObjectID, date time.Time, sessionID primitive.ObjectID) error {
	return r.mark(assignmentID, date, func(d *domain.ScheduleDay) {
		d.IsCompleted = true
		d.WorkoutSessionID = &sessionID
	})
}

func (r *fakeScheduleRepo) MarkSkipped(_ context.Context, assignmentID primitive.ObjectID, date time.Time) error {
	return r.mark(assignmentID, date, func(d *domain.ScheduleDay) { d.WasSkipped = true })
}

func (r *fakeScheduleRepo) mark(assignmentID primitive.ObjectID, date time.Time, apply func(*domain.ScheduleDay)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.markErr != nil {
		return r.markErr
	}
	key := scheduleKey(assignmentID, date)
	d, ok := r.days[key]
	if !ok {
		d = domain.ScheduleDay{ID: primitive.NewObjectID(), AssignmentID: assignmentID, Date: date}
	}
	apply(&d)
	r.days[key] = d
	return nil
}

func (r *fakeScheduleRepo) get(assignmentID primitive.ObjectID, date time.Time) (domain.ScheduleDay, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.days[scheduleKey(assignmentID, date)]
	return d, ok
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[primitive.ObjectID]domain.WorkoutSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[primitive.ObjectID]domain.WorkoutSession)}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *domain.WorkoutSession) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = primitive.NewObjectID()
	r.sessions[s.ID] = *s
	return s.ID, nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

type fakeCompletion struct {
	calls []primitive.ObjectID
	err   error
	panic bool
}

func (c *fakeCompletion) OnWorkoutCompleted(_ context.Context, sessionID primitive.ObjectID) (progression.Outcome, error) {
	c.calls = append(c.calls, sessionID)
	if c.panic {
		panic("boom")
	}
	if c.err != nil {
		return "", c.err
	}
	return progression.OutcomeAdvanced, nil
}

type fakeStorage struct {
	objects   map[string][]byte
	putErr    error
	deleted   []string
	presigned []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) PutObject(_ context.Context, objectKey string, _ string, body []byte) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.objects[objectKey] = body
	return nil
}

func (s *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	s.presigned = append(s.presigned, objectKey)
	return "https://storage.test/" + objectKey + "?sig=1", nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, objectKey string) error {
	s.deleted = append(s.deleted, objectKey)
	delete(s.objects, objectKey)
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
