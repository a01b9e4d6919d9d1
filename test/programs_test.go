//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/repslog/server/internal/programs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) addProgram(ctx context.Context, t *testing.T, program programs.Program) programs.Program {
	programJson, err := json.Marshal(program)
	require.NoError(t, err)

	req := newAppRequest(ctx, t, "POST", fmt.Sprintf("%s/programs", serverEndpoint), bytes.NewReader(programJson))
	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var added programs.Program
	require.NoError(t, json.Unmarshal(respBytes, &added))
	require.Greater(t, added.ID, 0)
	return added
}

func (s *IntegrationTestSuite) TestPrograms_addGetListDelete() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	strengthBase := s.addProgram(ctx, s.T(), programs.Program{
		Title:       "5x5 strength base",
		Description: "linear progression for the big lifts",
		Level:       programs.LevelBeginner,
		Goal:        "strength",
		WeeksCount:  12,
		Routines: []programs.Routine{
			{
				DayIndex: 0,
				Title:    "workout A",
				Exercises: []programs.RoutineExercise{
					{ExerciseID: "barbell-back-squat", Sets: 5, Reps: 5},
					{ExerciseID: "barbell-bench-press", Sets: 5, Reps: 5},
				},
			},
			{
				DayIndex: 1,
				Title:    "workout B",
				Exercises: []programs.RoutineExercise{
					{ExerciseID: "conventional-deadlift", Sets: 1, Reps: 5},
				},
			},
		},
	})
	assert.False(s.T(), strengthBase.CreatedAt.IsZero())

	s.addProgram(ctx, s.T(), programs.Program{
		Title:      "push pull legs",
		Level:      programs.LevelIntermediate,
		Goal:       "hypertrophy",
		WeeksCount: 8,
	})

	// invalid program
	invalidJson, err := json.Marshal(programs.Program{
		Title:      "mystery gains",
		Level:      "elite",
		WeeksCount: 4,
	})
	require.NoError(s.T(), err)
	req := newAppRequest(ctx, s.T(), "POST", fmt.Sprintf("%s/programs", serverEndpoint), bytes.NewReader(invalidJson))
	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	require.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)

	// list filtered by level and goal
	req = newAppRequest(ctx, s.T(), "GET",
		fmt.Sprintf("%s/programs?level=%s&goal=strength", serverEndpoint, programs.LevelBeginner), nil)
	resp, err = s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	var listed []programs.Program
	require.NoError(s.T(), json.Unmarshal(respBytes, &listed))
	require.Len(s.T(), listed, 1)
	assert.Equal(s.T(), strengthBase.ID, listed[0].ID)
	assert.Equal(s.T(), "5x5 strength base", listed[0].Title)

	// unknown level is rejected before hitting the repo
	req = newAppRequest(ctx, s.T(), "GET", fmt.Sprintf("%s/programs?level=godlike", serverEndpoint), nil)
	resp, err = s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	require.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)

	// get with routines
	req = newAppRequest(ctx, s.T(), "GET", fmt.Sprintf("%s/programs/%d", serverEndpoint, strengthBase.ID), nil)
	resp, err = s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	respBytes, err = io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	var gotten programs.Program
	require.NoError(s.T(), json.Unmarshal(respBytes, &gotten))
	require.Len(s.T(), gotten.Routines, 2)
	assert.Equal(s.T(), "workout A", gotten.Routines[0].Title)
	require.Len(s.T(), gotten.Routines[0].Exercises, 2)
	assert.Equal(s.T(), "barbell-back-squat", gotten.Routines[0].Exercises[0].ExerciseID)
	assert.Equal(s.T(), 5, gotten.Routines[0].Exercises[0].Sets)
	assert.Equal(s.T(), "workout B", gotten.Routines[1].Title)

	// delete and verify gone
	req = newAppRequest(ctx, s.T(), "DELETE", fmt.Sprintf("%s/programs/%d", serverEndpoint, strengthBase.ID), nil)
	resp, err = s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	req = newAppRequest(ctx, s.T(), "GET", fmt.Sprintf("%s/programs/%d", serverEndpoint, strengthBase.ID), nil)
	resp, err = s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	require.Equal(s.T(), http.StatusNotFound, resp.StatusCode)
}
