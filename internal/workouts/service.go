package workouts

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/2beens/repit/internal/telemetry/metrics"
	"github.com/2beens/repit/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PlanGenerator produces exercises for a (non-sports) workout request.
type PlanGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) (Plan, error)
}

// GenerationFailure is implemented by errors a PlanGenerator returns.
type GenerationFailure interface {
	error
	FailureReason() string
	UserMessage() string
}

// Service is the only writer of workout data. Writes are serialized, and
// the in-memory mirror is refreshed only after a successful durable write.
type Service struct {
	writeMu sync.Mutex

	store          *Store
	generator      PlanGenerator
	metricsManager *metrics.Manager

	now   func() time.Time
	newID func() string

	mirrorMu sync.RWMutex
	history  []Workout
	goals    Strength
	progress Strength
}

type ServiceOption func(*Service)

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) ServiceOption {
	return func(s *Service) {
		s.newID = newID
	}
}

func NewService(
	store *Store,
	generator PlanGenerator,
	metricsManager *metrics.Manager,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		store:          store,
		generator:      generator,
		metricsManager: metricsManager,
		now: func() time.Time {
			return time.Now().UTC()
		},
		newID:    uuid.NewString,
		history:  []Workout{},
		goals:    DefaultGoals(),
		progress: DefaultProgress(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reload rebuilds the mirror from the store.
func (s *Service) Reload(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	history, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	goals, err := s.store.Goals(ctx)
	if err != nil {
		return err
	}
	progress, err := s.store.Progress(ctx)
	if err != nil {
		return err
	}

	s.mirrorMu.Lock()
	s.history = history
	s.goals = goals
	s.progress = progress
	s.mirrorMu.Unlock()

	log.Debugf("workouts mirror reloaded, %d workouts", len(history))
	return nil
}

// History returns a snapshot of all workouts, newest first.
func (s *Service) History() []Workout {
	s.mirrorMu.RLock()
	defer s.mirrorMu.RUnlock()

	out := make([]Workout, 0, len(s.history))
	for i := len(s.history) - 1; i >= 0; i-- {
		out = append(out, s.history[i].Clone())
	}
	// insertion order is almost always date order, but imported data may not be
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

func (s *Service) Workout(id string) (Workout, error) {
	s.mirrorMu.RLock()
	defer s.mirrorMu.RUnlock()

	for _, w := range s.history {
		if w.ID == id {
			return w.Clone(), nil
		}
	}
	return Workout{}, ErrWorkoutNotFound
}

func (s *Service) Goals() Strength {
	s.mirrorMu.RLock()
	defer s.mirrorMu.RUnlock()
	return s.goals
}

func (s *Service) Progress() Strength {
	s.mirrorMu.RLock()
	defer s.mirrorMu.RUnlock()
	return s.progress
}

func (s *Service) Stats() Stats {
	return ComputeStats(s.History(), s.now())
}

func (s *Service) StrengthReport() []LiftProgress {
	return StrengthReport(s.Goals(), s.Progress())
}

// GenerateWorkout creates a new workout. Sports requests are logged without
// calling the generator.
func (s *Service) GenerateWorkout(ctx context.Context, req GenerateRequest) (_ Workout, err error) {
	if err := req.Validate(); err != nil {
		return Workout{}, err
	}
	if req.WorkoutType == CategorySports {
		return s.LogSportsActivity(ctx, req)
	}

	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.generate")
	span.SetAttributes(attribute.String("workout.type", string(req.WorkoutType)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	// the generator call can take minutes, so it runs outside the write lock
	plan, err := s.generator.Generate(ctx, req)
	if err != nil {
		return Workout{}, err
	}

	equipment := req.Equipment
	if equipment == nil {
		equipment = []Equipment{}
	}
	exercises := plan.Exercises
	if exercises == nil {
		exercises = []Exercise{}
	}

	w := Workout{
		ID:          s.newID(),
		Date:        s.now(),
		WorkoutType: req.WorkoutType,
		Equipment:   equipment,
		Context:     req.Context,
		Exercises:   exercises,
		Quote:       plan.Quote,
	}
	if err := s.append(ctx, w); err != nil {
		return Workout{}, err
	}
	return w.Clone(), nil
}

func (s *Service) LogSportsActivity(ctx context.Context, req GenerateRequest) (Workout, error) {
	req.WorkoutType = CategorySports
	if err := req.Validate(); err != nil {
		return Workout{}, err
	}

	w := Workout{
		ID:                s.newID(),
		Date:              s.now(),
		WorkoutType:       CategorySports,
		Equipment:         []Equipment{},
		Context:           req.Context,
		Exercises:         []Exercise{},
		SportsDescription: req.SportsDescription,
	}
	if err := s.append(ctx, w); err != nil {
		return Workout{}, err
	}
	return w.Clone(), nil
}

func (s *Service) append(ctx context.Context, w Workout) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.Append(ctx, w); err != nil {
		return err
	}

	s.mirrorMu.Lock()
	s.history = append(s.history, w.Clone())
	s.mirrorMu.Unlock()

	if s.metricsManager != nil {
		s.metricsManager.CounterWorkoutsCreated.WithLabelValues(string(w.WorkoutType)).Inc()
	}
	log.Debugf("new %s workout [%s] with %d exercises", w.WorkoutType, w.ID, len(w.Exercises))
	return nil
}

func (s *Service) modify(ctx context.Context, id string, fn func(Workout) (Workout, error)) (Workout, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	updated, err := s.store.Modify(ctx, id, fn)
	if err != nil {
		return Workout{}, err
	}

	s.mirrorMu.Lock()
	defer s.mirrorMu.Unlock()
	replaced := false
	for i := range s.history {
		if s.history[i].ID == id {
			s.history[i] = updated.Clone()
			replaced = true
			break
		}
	}
	if !replaced {
		// written by another process since the last reload
		s.history = append(s.history, updated.Clone())
	}
	return updated, nil
}

func (s *Service) StartWorkout(ctx context.Context, id string) (Workout, error) {
	now := s.now()
	return s.modify(ctx, id, func(w Workout) (Workout, error) {
		return Start(w, now)
	})
}

func (s *Service) FinishWorkout(ctx context.Context, id string) (Workout, error) {
	now := s.now()
	w, err := s.modify(ctx, id, func(w Workout) (Workout, error) {
		return Finish(w, now)
	})
	if err != nil {
		return Workout{}, err
	}
	if s.metricsManager != nil {
		s.metricsManager.CounterWorkoutsFinished.Inc()
	}
	return w, nil
}

func (s *Service) ToggleExercise(ctx context.Context, id, exerciseID string) (Workout, error) {
	return s.modify(ctx, id, func(w Workout) (Workout, error) {
		if w.State() == StateFinished {
			return w, ErrWorkoutFinished
		}
		return ToggleExercise(w, exerciseID)
	})
}

// DeleteWorkout removes the workout and reports whether it existed.
func (s *Service) DeleteWorkout(ctx context.Context, id string) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	removed, err := s.store.Remove(ctx, id)
	if err != nil {
		return false, err
	}

	s.mirrorMu.Lock()
	kept := s.history[:0:0]
	for _, w := range s.history {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	s.history = kept
	s.mirrorMu.Unlock()

	return removed, nil
}

func (s *Service) SaveGoals(ctx context.Context, goals Strength) (Strength, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	saved, err := s.store.SaveGoals(ctx, goals)
	if err != nil {
		return Strength{}, err
	}

	s.mirrorMu.Lock()
	s.goals = saved
	s.mirrorMu.Unlock()
	return saved, nil
}

func (s *Service) SaveProgress(ctx context.Context, progress Strength) (Strength, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	saved, err := s.store.SaveProgress(ctx, progress)
	if err != nil {
		return Strength{}, err
	}

	s.mirrorMu.Lock()
	s.progress = saved
	s.mirrorMu.Unlock()
	return saved, nil
}

type Command interface {
	commandName() string
}

type (
	GenerateWorkout   struct{ Request GenerateRequest }
	LogSportsActivity struct{ Request GenerateRequest }
	StartWorkout      struct{ WorkoutID string }
	FinishWorkout     struct{ WorkoutID string }
	ToggleExerciseCmd struct{ WorkoutID, ExerciseID string }
	DeleteWorkout     struct{ WorkoutID string }
	SaveGoals         struct{ Goals Strength }
	SaveProgress      struct{ Progress Strength }
)

func (GenerateWorkout) commandName() string   { return "generate_workout" }
func (LogSportsActivity) commandName() string { return "log_sports_activity" }
func (StartWorkout) commandName() string      { return "start_workout" }
func (FinishWorkout) commandName() string     { return "finish_workout" }
func (ToggleExerciseCmd) commandName() string { return "toggle_exercise" }
func (DeleteWorkout) commandName() string     { return "delete_workout" }
func (SaveGoals) commandName() string         { return "save_goals" }
func (SaveProgress) commandName() string      { return "save_progress" }

// Outcome carries whatever the dispatched command produced.
type Outcome struct {
	Workout  *Workout
	Strength *Strength
	Deleted  bool
}

func (s *Service) Dispatch(ctx context.Context, cmd Command) (Outcome, error) {
	log.Tracef("dispatching command [%s]", cmd.commandName())

	switch c := cmd.(type) {
	case GenerateWorkout:
		w, err := s.GenerateWorkout(ctx, c.Request)
		return workoutOutcome(w, err)
	case LogSportsActivity:
		w, err := s.LogSportsActivity(ctx, c.Request)
		return workoutOutcome(w, err)
	case StartWorkout:
		w, err := s.StartWorkout(ctx, c.WorkoutID)
		return workoutOutcome(w, err)
	case FinishWorkout:
		w, err := s.FinishWorkout(ctx, c.WorkoutID)
		return workoutOutcome(w, err)
	case ToggleExerciseCmd:
		w, err := s.ToggleExercise(ctx, c.WorkoutID, c.ExerciseID)
		return workoutOutcome(w, err)
	case DeleteWorkout:
		deleted, err := s.DeleteWorkout(ctx, c.WorkoutID)
		return Outcome{Deleted: deleted}, err
	case SaveGoals:
		st, err := s.SaveGoals(ctx, c.Goals)
		return strengthOutcome(st, err)
	case SaveProgress:
		st, err := s.SaveProgress(ctx, c.Progress)
		return strengthOutcome(st, err)
	default:
		return Outcome{}, fmt.Errorf("unknown command %T", cmd)
	}
}

func workoutOutcome(w Workout, err error) (Outcome, error) {
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Workout: &w}, nil
}

func strengthOutcome(st Strength, err error) (Outcome, error) {
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Strength: &st}, nil
}
