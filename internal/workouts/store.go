package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/repit/internal/kv"
	"github.com/2beens/repit/internal/telemetry/metrics"
	"github.com/2beens/repit/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	HistoryKey  = "repit_workout_history"
	GoalsKey    = "repit_user_goals"
	ProgressKey = "repit_user_progress"
)

var ErrWorkoutNotFound = errors.New("workout not found")

// errUnchanged aborts an update without writing.
var errUnchanged = errors.New("unchanged")

type History struct {
	Workouts []Workout `json:"workouts"`
}

// Store persists the workout history and the strength singletons as JSON
// blobs. Every mutation rewrites the whole blob.
type Store struct {
	kv             kv.Store
	namespace      string
	metricsManager *metrics.Manager
}

func NewStore(kvStore kv.Store, namespace string, metricsManager *metrics.Manager) *Store {
	return &Store{
		kv:             kvStore,
		namespace:      namespace,
		metricsManager: metricsManager,
	}
}

func (s *Store) key(k string) string {
	return kv.Namespaced(s.namespace, k)
}

func (s *Store) corrupt(key string, err error) {
	log.Warnf("stored blob [%s] is corrupt, reading it as empty: %s", key, err)
	if s.metricsManager != nil {
		s.metricsManager.CounterCorruptBlobsReset.WithLabelValues(key).Inc()
	}
}

func (s *Store) decodeHistory(raw []byte, exists bool) History {
	if !exists || len(raw) == 0 {
		return History{Workouts: []Workout{}}
	}
	var h History
	if err := json.Unmarshal(raw, &h); err != nil {
		s.corrupt(s.key(HistoryKey), err)
		return History{Workouts: []Workout{}}
	}
	if h.Workouts == nil {
		h.Workouts = []Workout{}
	}
	return h
}

// RawHistory returns the stored history blob as is, nil when nothing is stored.
func (s *Store) RawHistory(ctx context.Context) ([]byte, error) {
	raw, err := s.kv.Get(ctx, s.key(HistoryKey))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history: %w", err)
	}
	return raw, nil
}

// List returns the workouts in insertion order.
func (s *Store) List(ctx context.Context) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.workouts.list")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	raw, err := s.RawHistory(ctx)
	if err != nil {
		return nil, err
	}
	h := s.decodeHistory(raw, raw != nil)
	span.SetAttributes(attribute.Int("workouts.count", len(h.Workouts)))
	return h.Workouts, nil
}

func (s *Store) Get(ctx context.Context, id string) (*Workout, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, ErrWorkoutNotFound
}

func (s *Store) updateHistory(ctx context.Context, spanName string, mutate func(h *History) error) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, spanName)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var mutateErr error
	err = s.kv.Update(ctx, s.key(HistoryKey), func(current []byte, exists bool) ([]byte, error) {
		h := s.decodeHistory(current, exists)
		if mutateErr = mutate(&h); mutateErr != nil {
			return nil, mutateErr
		}
		return json.Marshal(h)
	})
	if mutateErr != nil {
		return mutateErr
	}
	if err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, w Workout) error {
	return s.updateHistory(ctx, "store.workouts.append", func(h *History) error {
		h.Workouts = append(h.Workouts, w)
		return nil
	})
}

// Replace overwrites the workout with the given id in place. The collection
// is left untouched when the id is unknown.
func (s *Store) Replace(ctx context.Context, id string, w Workout) error {
	return s.updateHistory(ctx, "store.workouts.replace", func(h *History) error {
		for i := range h.Workouts {
			if h.Workouts[i].ID == id {
				h.Workouts[i] = w
				return nil
			}
		}
		return ErrWorkoutNotFound
	})
}

// Modify applies fn to the stored workout and writes the result within a
// single optimistic update. Nothing is written when fn fails.
func (s *Store) Modify(ctx context.Context, id string, fn func(Workout) (Workout, error)) (Workout, error) {
	var updated Workout
	err := s.updateHistory(ctx, "store.workouts.modify", func(h *History) error {
		for i := range h.Workouts {
			if h.Workouts[i].ID != id {
				continue
			}
			next, err := fn(h.Workouts[i])
			if err != nil {
				return err
			}
			h.Workouts[i] = next
			updated = next
			return nil
		}
		return ErrWorkoutNotFound
	})
	if err != nil {
		return Workout{}, err
	}
	return updated, nil
}

// Remove deletes the workout with the given id and reports whether it existed.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	err := s.updateHistory(ctx, "store.workouts.remove", func(h *History) error {
		kept := make([]Workout, 0, len(h.Workouts))
		for _, w := range h.Workouts {
			if w.ID != id {
				kept = append(kept, w)
			}
		}
		if len(kept) == len(h.Workouts) {
			return errUnchanged
		}
		h.Workouts = kept
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) readStrength(ctx context.Context, key string, defaults Strength) (Strength, error) {
	fullKey := s.key(key)
	raw, err := s.kv.Get(ctx, fullKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return defaults, nil
		}
		return Strength{}, fmt.Errorf("read %s: %w", key, err)
	}
	var st Strength
	if err := json.Unmarshal(raw, &st); err != nil {
		s.corrupt(fullKey, err)
		return defaults, nil
	}
	return st, nil
}

func (s *Store) writeStrength(ctx context.Context, key string, st Strength) (Strength, error) {
	st = st.Clamped()
	raw, err := json.Marshal(st)
	if err != nil {
		return Strength{}, fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, s.key(key), raw); err != nil {
		return Strength{}, fmt.Errorf("write %s: %w", key, err)
	}
	return st, nil
}

// Goals returns the stored goals, or the defaults when nothing was saved yet.
func (s *Store) Goals(ctx context.Context) (Strength, error) {
	return s.readStrength(ctx, GoalsKey, DefaultGoals())
}

// SaveGoals clamps and stores the goals, returning what was written.
func (s *Store) SaveGoals(ctx context.Context, goals Strength) (Strength, error) {
	return s.writeStrength(ctx, GoalsKey, goals)
}

func (s *Store) Progress(ctx context.Context) (Strength, error) {
	return s.readStrength(ctx, ProgressKey, DefaultProgress())
}

func (s *Store) SaveProgress(ctx context.Context, progress Strength) (Strength, error) {
	return s.writeStrength(ctx, ProgressKey, progress)
}
