package workouts

import (
	"errors"
	"fmt"
	"time"
)

var ErrSessionNotFound = errors.New("workout session not found")
var ErrSessionFinished = errors.New("workout session already finished")

// Set is one performed set. Weight 0 means a bodyweight set.
type Set struct {
	ID        int     `json:"id"`
	Position  int     `json:"position"`
	WeightKg  float64 `json:"weightKg"`
	Reps      int     `json:"reps"`
	Completed bool    `json:"completed"`
}

// WorkoutExercise is a catalog exercise performed within a session,
// with its logged sets.
type WorkoutExercise struct {
	ID         int    `json:"id"`
	ExerciseID string `json:"exerciseId"`
	Position   int    `json:"position"`
	Note       string `json:"note"`
	Sets       []Set  `json:"sets"`
}

type Session struct {
	ID         int               `json:"id"`
	ProfileID  int               `json:"profileId"`
	Title      string            `json:"title"`
	Note       string            `json:"note"`
	StartedAt  time.Time         `json:"startedAt"`
	FinishedAt *time.Time        `json:"finishedAt,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Exercises  []WorkoutExercise `json:"exercises"`
}

func (s *Session) Validate() error {
	if s.ProfileID <= 0 {
		return errors.New("profile id missing")
	}
	if s.StartedAt.IsZero() {
		return errors.New("started at missing")
	}
	for _, exercise := range s.Exercises {
		if exercise.ExerciseID == "" {
			return errors.New("exercise id empty")
		}
		for _, set := range exercise.Sets {
			if set.WeightKg < 0 {
				return fmt.Errorf("exercise %s: set weight negative", exercise.ExerciseID)
			}
			if set.Reps < 0 {
				return fmt.Errorf("exercise %s: set reps negative", exercise.ExerciseID)
			}
		}
	}
	return nil
}

type SessionParams struct {
	ProfileID          int
	From               *time.Time
	To                 *time.Time
	OnlyProd           bool
	ExcludeTestingData bool
}

type ListParams struct {
	SessionParams
	Page int
	Size int
}
