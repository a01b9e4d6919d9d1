package bodylog

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/repslog/server/internal/catalog"
)

// Event (DB level type) is how the app reports body state between
// workouts, such as:
//   - weight report (with timestamp and weight in kilos)
//   - soreness report (with timestamp, muscle group and soreness level)
type Event struct {
	ID        int               `json:"id"`
	ProfileID int               `json:"profileId"`
	Type      EventType         `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Data      map[string]string `json:"data"`
}

type WeightReport struct {
	ID        int       `json:"id"`
	ProfileID int       `json:"profileId"`
	Timestamp time.Time `json:"timestamp"`
	Kilos     float64   `json:"kilos"`
}

func (wr WeightReport) Validate() error {
	if wr.ProfileID <= 0 {
		return errors.New("profile id missing")
	}
	if wr.Kilos < 20 || wr.Kilos > 400 {
		return errors.New("weight must be between 20 and 400 kg")
	}
	return nil
}

type SorenessReport struct {
	ID          int       `json:"id"`
	ProfileID   int       `json:"profileId"`
	Timestamp   time.Time `json:"timestamp"`
	MuscleGroup string    `json:"muscleGroup"`
	Level       int       `json:"level"`
}

func (sr SorenessReport) Validate() error {
	if sr.ProfileID <= 0 {
		return errors.New("profile id missing")
	}
	if !catalog.IsValidMuscleGroup(sr.MuscleGroup) {
		return errors.New("invalid muscle group")
	}
	if sr.Level < 1 || sr.Level > 10 {
		return errors.New("soreness level must be between 1 and 10")
	}
	return nil
}

func NewWeightReportEvent(wr WeightReport) Event {
	return Event{
		ID:        wr.ID,
		ProfileID: wr.ProfileID,
		Type:      EventTypeWeightReport,
		Timestamp: wr.Timestamp,
		Data: map[string]string{
			"kilos": strconv.FormatFloat(wr.Kilos, 'f', -1, 64),
		},
	}
}

func NewSorenessReportEvent(sr SorenessReport) Event {
	return Event{
		ID:        sr.ID,
		ProfileID: sr.ProfileID,
		Type:      EventTypeSorenessReport,
		Timestamp: sr.Timestamp,
		Data: map[string]string{
			"muscleGroup": sr.MuscleGroup,
			"level":       fmt.Sprintf("%d", sr.Level),
		},
	}
}

// EventType can be one of:
//   - weight_report
//   - soreness_report
type EventType string

const (
	EventTypeWeightReport   EventType = "weight_report"
	EventTypeSorenessReport EventType = "soreness_report"
)

func (et EventType) String() string {
	return string(et)
}

func (et EventType) IsValid() bool {
	switch et {
	case EventTypeWeightReport, EventTypeSorenessReport:
		return true
	default:
		return false
	}
}
