package workouts

import (
	"errors"
	"math"
	"time"
)

var (
	ErrIncompleteExercises = errors.New("please complete all exercises before finishing the workout")
	ErrWorkoutFinished     = errors.New("workout already finished")
	ErrExerciseNotFound    = errors.New("exercise not found")
)

type State string

const (
	StateDrafted    State = "drafted"
	StateInProgress State = "in_progress"
	StateFinished   State = "finished"
)

func (w Workout) State() State {
	switch {
	case w.CompletedAt != nil:
		return StateFinished
	case w.StartedAt != nil:
		return StateInProgress
	default:
		return StateDrafted
	}
}

func (w Workout) AllExercisesCompleted() bool {
	for _, e := range w.Exercises {
		if !e.Completed {
			return false
		}
	}
	return true
}

// CompletionPercent is the share of completed exercises, rounded. Sports
// activities are always complete.
func (w Workout) CompletionPercent() int {
	if w.IsSports() {
		return 100
	}
	if len(w.Exercises) == 0 {
		return 0
	}
	done := 0
	for _, e := range w.Exercises {
		if e.Completed {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(w.Exercises)) * 100))
}

// Start stamps StartedAt. Starting twice keeps the first start time.
// Sports logs are never started, whatever their state.
func Start(w Workout, now time.Time) (Workout, error) {
	if w.IsSports() {
		return w, nil
	}
	if w.State() == StateFinished {
		return w, ErrWorkoutFinished
	}
	if w.StartedAt != nil {
		return w, nil
	}

	started := w.Clone()
	started.StartedAt = &now
	return started, nil
}

// Finish stamps CompletedAt, and Duration when the workout was started.
// A rejected finish returns w unchanged.
func Finish(w Workout, now time.Time) (Workout, error) {
	if w.State() == StateFinished {
		return w, ErrWorkoutFinished
	}
	if !w.IsSports() && !w.AllExercisesCompleted() {
		return w, ErrIncompleteExercises
	}

	finished := w.Clone()
	finished.CompletedAt = &now
	if !w.IsSports() && w.StartedAt != nil {
		d := int64(math.Floor(now.Sub(*w.StartedAt).Seconds()))
		finished.Duration = &d
	}
	return finished, nil
}

func ToggleExercise(w Workout, exerciseID string) (Workout, error) {
	for i := range w.Exercises {
		if w.Exercises[i].ID != exerciseID {
			continue
		}
		toggled := w.Clone()
		toggled.Exercises[i].Completed = !toggled.Exercises[i].Completed
		return toggled, nil
	}
	return w, ErrExerciseNotFound
}
