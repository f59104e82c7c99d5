package workouts

import (
	"errors"
	"fmt"
	"time"
)

type Category string

const (
	CategoryPush       Category = "push"
	CategoryPull       Category = "pull"
	CategoryLegs       Category = "legs"
	CategoryCardio     Category = "cardio"
	CategoryHIIT       Category = "HIIT"
	CategoryArms       Category = "arms"
	CategoryFullBody   Category = "full body"
	CategoryStretching Category = "stretching"
	CategorySports     Category = "sports"
)

var Categories = []Category{
	CategoryPush,
	CategoryPull,
	CategoryLegs,
	CategoryCardio,
	CategoryHIIT,
	CategoryArms,
	CategoryFullBody,
	CategoryStretching,
	CategorySports,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Equipment string

const (
	EquipmentBodyweight      Equipment = "bodyweight"
	EquipmentBarbell         Equipment = "barbell"
	EquipmentDumbbells       Equipment = "dumbbells"
	EquipmentResistanceBands Equipment = "resistance bands"
	EquipmentPullupBar       Equipment = "pullup bar"
	EquipmentJumpRope        Equipment = "jump rope"
)

var EquipmentTags = []Equipment{
	EquipmentBodyweight,
	EquipmentBarbell,
	EquipmentDumbbells,
	EquipmentResistanceBands,
	EquipmentPullupBar,
	EquipmentJumpRope,
}

func (e Equipment) Valid() bool {
	for _, known := range EquipmentTags {
		if e == known {
			return true
		}
	}
	return false
}

type Exercise struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Sets      string `json:"sets,omitempty"`
	Reps      string `json:"reps,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Completed bool   `json:"completed"`
}

type Workout struct {
	ID          string      `json:"id"`
	Date        time.Time   `json:"date"`
	WorkoutType Category    `json:"workoutType"`
	Equipment   []Equipment `json:"equipment"`
	Context     string      `json:"context,omitempty"`
	Exercises   []Exercise  `json:"exercises"`
	StartedAt   *time.Time  `json:"startedAt,omitempty"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
	// Duration in whole seconds between StartedAt and CompletedAt.
	Duration          *int64 `json:"duration,omitempty"`
	Quote             string `json:"quote,omitempty"`
	SportsDescription string `json:"sportsDescription,omitempty"`
}

func (w Workout) IsSports() bool {
	return w.WorkoutType == CategorySports
}

// Clone returns a deep copy, so transitions never share slices or
// timestamps with the value they were derived from.
func (w Workout) Clone() Workout {
	c := w
	if w.Equipment != nil {
		c.Equipment = append([]Equipment{}, w.Equipment...)
	}
	if w.Exercises != nil {
		c.Exercises = append([]Exercise{}, w.Exercises...)
	}
	if w.StartedAt != nil {
		t := *w.StartedAt
		c.StartedAt = &t
	}
	if w.CompletedAt != nil {
		t := *w.CompletedAt
		c.CompletedAt = &t
	}
	if w.Duration != nil {
		d := *w.Duration
		c.Duration = &d
	}
	return c
}

var ErrInvalidRequest = errors.New("invalid workout request")

// GenerateRequest is what a user submits to create a new workout.
type GenerateRequest struct {
	WorkoutType       Category    `json:"workoutType"`
	Equipment         []Equipment `json:"equipment"`
	Context           string      `json:"context,omitempty"`
	SportsDescription string      `json:"sportsDescription,omitempty"`
}

func (r GenerateRequest) Validate() error {
	if !r.WorkoutType.Valid() {
		return fmt.Errorf("%w: unknown workout type [%s]", ErrInvalidRequest, r.WorkoutType)
	}
	for _, e := range r.Equipment {
		if !e.Valid() {
			return fmt.Errorf("%w: unknown equipment [%s]", ErrInvalidRequest, e)
		}
	}
	if r.WorkoutType == CategorySports && r.SportsDescription == "" {
		return fmt.Errorf("%w: sports activity needs a description", ErrInvalidRequest)
	}
	return nil
}

// Plan is the structured outcome of a generation call.
type Plan struct {
	Exercises []Exercise `json:"exercises"`
	Quote     string     `json:"quote"`
}
