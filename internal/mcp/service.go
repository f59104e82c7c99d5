package mcp

import (
	"context"
	"fmt"

	"github.com/2beens/repit/internal/workouts"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

type workoutsSource interface {
	Reload(ctx context.Context) error
	History() []workouts.Workout
	Stats() workouts.Stats
	StrengthReport() []workouts.LiftProgress
}

// contextService provides the workout data the MCP tools expose. Used by Handler for testability.
type contextService interface {
	ListWorkouts(ctx context.Context, params ListParams) ([]workouts.WorkoutView, error)
	WorkoutStats(ctx context.Context) (workouts.Stats, error)
	StrengthReport(ctx context.Context) ([]workouts.LiftProgress, error)
}

type ListParams struct {
	Category workouts.Category
	Limit    int
}

// ContextService reads through the workouts service mirror. With reloadOnRead
// every call first reloads the mirror, which the stdio server needs because the
// main backend is the one writing.
type ContextService struct {
	source       workoutsSource
	reloadOnRead bool
}

func NewContextService(source workoutsSource, reloadOnRead bool) *ContextService {
	return &ContextService{
		source:       source,
		reloadOnRead: reloadOnRead,
	}
}

func (s *ContextService) refresh(ctx context.Context) error {
	if !s.reloadOnRead {
		return nil
	}
	if err := s.source.Reload(ctx); err != nil {
		return fmt.Errorf("reload workouts: %w", err)
	}
	return nil
}

// ListWorkouts returns up to params.Limit workouts, newest first, optionally of one category.
func (s *ContextService) ListWorkouts(ctx context.Context, params ListParams) ([]workouts.WorkoutView, error) {
	if params.Category != "" && !params.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", workouts.ErrInvalidRequest, params.Category)
	}
	if err := s.refresh(ctx); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	views := make([]workouts.WorkoutView, 0, limit)
	for _, w := range s.source.History() {
		if params.Category != "" && w.WorkoutType != params.Category {
			continue
		}
		views = append(views, workouts.NewWorkoutView(w))
		if len(views) == limit {
			break
		}
	}
	return views, nil
}

func (s *ContextService) WorkoutStats(ctx context.Context) (workouts.Stats, error) {
	if err := s.refresh(ctx); err != nil {
		return workouts.Stats{}, err
	}
	return s.source.Stats(), nil
}

func (s *ContextService) StrengthReport(ctx context.Context) ([]workouts.LiftProgress, error) {
	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	return s.source.StrengthReport(), nil
}
