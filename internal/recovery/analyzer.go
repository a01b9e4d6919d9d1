package recovery

import (
	"context"
	"sort"
	"time"

	"github.com/repslog/server/internal/catalog"
	"github.com/repslog/server/internal/telemetry/tracing"
	"github.com/repslog/server/internal/workouts"
)

//go:generate mockgen -source=$GOFILE -destination=recovery_mocks_test.go -package=recovery_test

type sessionsRepo interface {
	ListSince(ctx context.Context, profileID int, since time.Time) ([]workouts.Session, error)
}

type exercisesCatalog interface {
	List(ctx context.Context, params catalog.ListParams) ([]catalog.Exercise, error)
}

const (
	StatusNotRecovered = "not_recovered"
	StatusRecovering   = "recovering"
	StatusRecovered    = "recovered"
	StatusUntrained    = "untrained"
)

const (
	IntensityLight    = "light"
	IntensityModerate = "moderate"
	IntensityHeavy    = "heavy"
)

const (
	analysisWindow = 7 * 24 * time.Hour

	// heuristics: weighted work takes longer to recover from,
	// so each weighted set counts for one and a half
	weightedSetFactor  = 1.5
	secondarySetFactor = 0.5

	lightThreshold    = 4 // effective sets below this: light session
	moderateThreshold = 9 // below this: moderate, else heavy
)

// recoveryHours says how long a muscle group needs after a session of
// the given intensity.
var recoveryHours = map[string]int{
	IntensityLight:    24,
	IntensityModerate: 48,
	IntensityHeavy:    72,
}

type GroupRecovery struct {
	MuscleGroup      string     `json:"muscleGroup"`
	Status           string     `json:"status"`
	Intensity        string     `json:"intensity,omitempty"`
	EffectiveSets    float64    `json:"effectiveSets"`
	LastTrainedAt    *time.Time `json:"lastTrainedAt,omitempty"`
	RecoveryHours    int        `json:"recoveryHours,omitempty"`
	FreshnessPercent int        `json:"freshnessPercent"`
}

type Report struct {
	ProfileID   int             `json:"profileId"`
	EvaluatedAt time.Time       `json:"evaluatedAt"`
	Groups      []GroupRecovery `json:"groups"`
}

// Analyzer estimates per muscle group recovery from the recent
// workout history. It is a pure estimate, no stored state.
type Analyzer struct {
	sessions sessionsRepo
	catalog  exercisesCatalog
}

func NewAnalyzer(sessions sessionsRepo, exercises exercisesCatalog) *Analyzer {
	return &Analyzer{
		sessions: sessions,
		catalog:  exercises,
	}
}

func (a *Analyzer) Recovery(ctx context.Context, profileID int, at time.Time) (_ *Report, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "recoveryAnalyzer.recovery")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	sessions, err := a.sessions.ListSince(ctx, profileID, at.Add(-analysisWindow))
	if err != nil {
		return nil, err
	}

	catalogExercises, err := a.catalog.List(ctx, catalog.ListParams{})
	if err != nil {
		return nil, err
	}
	exerciseGroups := make(map[string]catalog.Exercise, len(catalogExercises))
	for _, exercise := range catalogExercises {
		exerciseGroups[exercise.ID] = exercise
	}

	report := &Report{
		ProfileID:   profileID,
		EvaluatedAt: at,
	}
	for _, group := range catalog.MuscleGroups {
		report.Groups = append(report.Groups, a.groupRecovery(group, at, sessions, exerciseGroups))
	}
	return report, nil
}

func (a *Analyzer) GroupRecovery(ctx context.Context, profileID int, group string, at time.Time) (_ *GroupRecovery, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "recoveryAnalyzer.groupRecovery")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	report, err := a.Recovery(ctx, profileID, at)
	if err != nil {
		return nil, err
	}
	for i := range report.Groups {
		if report.Groups[i].MuscleGroup == group {
			return &report.Groups[i], nil
		}
	}
	return nil, catalog.ErrExerciseNotFound
}

// groupRecovery looks at the most recent day on which the group got
// trained, sums the effective sets of that whole day and derives the
// recovery status from the time elapsed since.
func (a *Analyzer) groupRecovery(
	group string,
	at time.Time,
	sessions []workouts.Session,
	exerciseGroups map[string]catalog.Exercise,
) GroupRecovery {
	type trainedSession struct {
		trainedAt     time.Time
		effectiveSets float64
	}
	var trained []trainedSession
	for _, session := range sessions {
		if session.StartedAt.After(at) {
			continue
		}
		effectiveSets := sessionEffectiveSets(session, group, exerciseGroups)
		if effectiveSets == 0 {
			continue
		}
		trainedAt := session.StartedAt
		if session.FinishedAt != nil {
			trainedAt = *session.FinishedAt
		}
		trained = append(trained, trainedSession{
			trainedAt:     trainedAt,
			effectiveSets: effectiveSets,
		})
	}

	if len(trained) == 0 {
		return GroupRecovery{
			MuscleGroup:      group,
			Status:           StatusUntrained,
			FreshnessPercent: 100,
		}
	}

	sort.Slice(trained, func(i, j int) bool {
		return trained[i].trainedAt.After(trained[j].trainedAt)
	})

	// all sessions of that most recent training day count together
	lastDay := trained[0].trainedAt
	lastTrainedAt := trained[0].trainedAt
	var effectiveSets float64
	for _, ts := range trained {
		if sameDay(ts.trainedAt, lastDay) {
			effectiveSets += ts.effectiveSets
		}
	}

	intensity := IntensityHeavy
	switch {
	case effectiveSets < lightThreshold:
		intensity = IntensityLight
	case effectiveSets < moderateThreshold:
		intensity = IntensityModerate
	}
	requiredHours := recoveryHours[intensity]

	elapsed := at.Sub(lastTrainedAt)
	required := time.Duration(requiredHours) * time.Hour
	ratio := float64(elapsed) / float64(required)

	status := StatusRecovered
	switch {
	case ratio < 1.0/3.0:
		status = StatusNotRecovered
	case ratio < 1.0:
		status = StatusRecovering
	}

	freshness := int(ratio * 100)
	if freshness > 100 {
		freshness = 100
	}

	return GroupRecovery{
		MuscleGroup:      group,
		Status:           status,
		Intensity:        intensity,
		EffectiveSets:    effectiveSets,
		LastTrainedAt:    &lastTrainedAt,
		RecoveryHours:    requiredHours,
		FreshnessPercent: freshness,
	}
}

// sessionEffectiveSets sums the group's effective sets in one session.
// An exercise with any weighted set counts its sets with the weighted
// factor; secondary muscle groups get half credit.
func sessionEffectiveSets(session workouts.Session, group string, exerciseGroups map[string]catalog.Exercise) float64 {
	var effectiveSets float64
	for _, workoutExercise := range session.Exercises {
		if len(workoutExercise.Sets) == 0 {
			continue
		}
		catalogExercise, ok := exerciseGroups[workoutExercise.ExerciseID]
		if !ok {
			continue
		}

		groupFactor := 0.0
		if catalogExercise.MuscleGroup == group {
			groupFactor = 1.0
		} else {
			for _, secondary := range catalogExercise.SecondaryGroups {
				if secondary == group {
					groupFactor = secondarySetFactor
					break
				}
			}
		}
		if groupFactor == 0 {
			continue
		}

		setFactor := 1.0
		for _, set := range workoutExercise.Sets {
			if set.WeightKg > 0 {
				setFactor = weightedSetFactor
				break
			}
		}

		effectiveSets += float64(len(workoutExercise.Sets)) * setFactor * groupFactor
	}
	return effectiveSets
}

func sameDay(a, b time.Time) bool {
	aYear, aMonth, aDay := a.Date()
	bYear, bMonth, bDay := b.Date()
	return aYear == bYear && aMonth == bMonth && aDay == bDay
}
