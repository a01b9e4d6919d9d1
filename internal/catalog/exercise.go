package catalog

import (
	"errors"
	"fmt"
	"time"
)

var ErrExerciseNotFound = errors.New("exercise not found")

const (
	MuscleGroupChest      = "chest"
	MuscleGroupBack       = "back"
	MuscleGroupShoulders  = "shoulders"
	MuscleGroupBiceps     = "biceps"
	MuscleGroupTriceps    = "triceps"
	MuscleGroupQuads      = "quads"
	MuscleGroupHamstrings = "hamstrings"
	MuscleGroupGlutes     = "glutes"
	MuscleGroupCalves     = "calves"
	MuscleGroupCore       = "core"
)

const (
	EquipmentBarbell    = "barbell"
	EquipmentDumbbell   = "dumbbell"
	EquipmentKettlebell = "kettlebell"
	EquipmentMachine    = "machine"
	EquipmentCable      = "cable"
	EquipmentBodyweight = "bodyweight"
	EquipmentBand       = "band"
	EquipmentOther      = "other"
)

var MuscleGroups = []string{
	MuscleGroupChest, MuscleGroupBack, MuscleGroupShoulders,
	MuscleGroupBiceps, MuscleGroupTriceps, MuscleGroupQuads,
	MuscleGroupHamstrings, MuscleGroupGlutes, MuscleGroupCalves,
	MuscleGroupCore,
}

var EquipmentTypes = []string{
	EquipmentBarbell, EquipmentDumbbell, EquipmentKettlebell,
	EquipmentMachine, EquipmentCable, EquipmentBodyweight,
	EquipmentBand, EquipmentOther,
}

func IsValidMuscleGroup(group string) bool {
	for _, g := range MuscleGroups {
		if g == group {
			return true
		}
	}
	return false
}

func IsValidEquipment(equipment string) bool {
	for _, e := range EquipmentTypes {
		if e == equipment {
			return true
		}
	}
	return false
}

// Exercise is a catalog entry. The ID is a human-readable slug,
// e.g. "barbell-bench-press", chosen by the admin adding it.
type Exercise struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	MuscleGroup     string    `json:"muscleGroup"`
	SecondaryGroups []string  `json:"secondaryGroups"`
	Equipment       string    `json:"equipment"`
	Instructions    string    `json:"instructions"`
	CreatedAt       time.Time `json:"createdAt"`
	ImageIDs        []int64   `json:"imageIds,omitempty"`
}

func (e *Exercise) Validate() error {
	if e.ID == "" {
		return errors.New("exercise id empty")
	}
	if e.Name == "" {
		return errors.New("exercise name empty")
	}
	if !IsValidMuscleGroup(e.MuscleGroup) {
		return fmt.Errorf("invalid muscle group: %s", e.MuscleGroup)
	}
	for _, g := range e.SecondaryGroups {
		if !IsValidMuscleGroup(g) {
			return fmt.Errorf("invalid secondary muscle group: %s", g)
		}
	}
	if !IsValidEquipment(e.Equipment) {
		return fmt.Errorf("invalid equipment: %s", e.Equipment)
	}
	return nil
}

type ListParams struct {
	MuscleGroup string
	Equipment   string
	Search      string
}
