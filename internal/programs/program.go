package programs

import (
	"errors"
	"fmt"
	"time"
)

var ErrProgramNotFound = errors.New("program not found")

const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

var Levels = []string{
	LevelBeginner,
	LevelIntermediate,
	LevelAdvanced,
}

func IsValidLevel(level string) bool {
	for _, l := range Levels {
		if l == level {
			return true
		}
	}
	return false
}

// RoutineExercise is one prescribed slot of a routine day, stored as
// jsonb on the routine row.
type RoutineExercise struct {
	ExerciseID string `json:"exerciseId"`
	Sets       int    `json:"sets"`
	Reps       int    `json:"reps"`
}

// Routine is a single day of a training program.
type Routine struct {
	ID        int               `json:"id"`
	ProgramID int               `json:"programId"`
	DayIndex  int               `json:"dayIndex"`
	Title     string            `json:"title"`
	Exercises []RoutineExercise `json:"exercises"`
}

// Program is a multi-week training plan browsable in the explore tab.
type Program struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Level       string    `json:"level"`
	Goal        string    `json:"goal,omitempty"`
	WeeksCount  int       `json:"weeksCount"`
	CreatedAt   time.Time `json:"createdAt"`
	Routines    []Routine `json:"routines,omitempty"`
}

func (p Program) Validate() error {
	if p.Title == "" {
		return errors.New("title missing")
	}
	if !IsValidLevel(p.Level) {
		return errors.New("invalid level")
	}
	if p.WeeksCount < 1 {
		return errors.New("weeks count must be positive")
	}
	for _, routine := range p.Routines {
		if routine.DayIndex < 0 {
			return fmt.Errorf("routine [%s]: negative day index", routine.Title)
		}
		for _, re := range routine.Exercises {
			if re.ExerciseID == "" {
				return fmt.Errorf("routine [%s]: exercise id missing", routine.Title)
			}
			if re.Sets < 1 || re.Reps < 1 {
				return fmt.Errorf("routine [%s]: exercise [%s] needs positive sets and reps", routine.Title, re.ExerciseID)
			}
		}
	}
	return nil
}

type ListParams struct {
	Level string
	Goal  string
}
