//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/repslog/server/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) addExercise(ctx context.Context, exercise catalog.Exercise) catalog.Exercise {
	exerciseJson, err := json.Marshal(exercise)
	require.NoError(s.T(), err)

	req := newAppRequest(ctx, s.T(), "POST", fmt.Sprintf("%s/exercises", serverEndpoint), bytes.NewReader(exerciseJson))
	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	var added catalog.Exercise
	require.NoError(s.T(), json.Unmarshal(respBytes, &added))
	require.NotEmpty(s.T(), added.ID)

	return added
}

func (s *IntegrationTestSuite) TestExercises_addGetListDelete() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	added := s.addExercise(ctx, catalog.Exercise{
		ID:              "barbell-bench-press",
		Name:            "Barbell Bench Press",
		MuscleGroup:     "chest",
		SecondaryGroups: []string{"triceps", "shoulders"},
		Equipment:       "barbell",
		Instructions:    "lie on the bench, unrack, lower to chest, press up",
	})
	assert.Equal(s.T(), "barbell-bench-press", added.ID)

	s.addExercise(ctx, catalog.Exercise{
		ID:          "romanian-deadlift",
		Name:        "Romanian Deadlift",
		MuscleGroup: "hamstrings",
		Equipment:   "barbell",
	})

	// get one
	req := newAppRequest(ctx, s.T(), "GET", fmt.Sprintf("%s/exercises/%s", serverEndpoint, added.ID), nil)
	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	var gotten catalog.Exercise
	require.NoError(s.T(), json.Unmarshal(respBytes, &gotten))
	assert.Equal(s.T(), "Barbell Bench Press", gotten.Name)
	assert.Equal(s.T(), []string{"triceps", "shoulders"}, gotten.SecondaryGroups)

	// filter by muscle group
	req = newAppRequest(ctx, s.T(), "GET", fmt.Sprintf("%s/exercises?group=hamstrings", serverEndpoint), nil)
	resp, err = s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	respBytes, err = io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	var listed []catalog.Exercise
	require.NoError(s.T(), json.Unmarshal(respBytes, &listed))
	require.Len(s.T(), listed, 1)
	assert.Equal(s.T(), "romanian-deadlift", listed[0].ID)

	// delete
	req = newAppRequest(ctx, s.T(), "DELETE", fmt.Sprintf("%s/exercises/%s", serverEndpoint, listed[0].ID), nil)
	resp, err = s.httpClient.Do(req)
	require.NoError(s.T(), err)
	resp.Body.Close()
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	req = newAppRequest(ctx, s.T(), "GET", fmt.Sprintf("%s/exercises/%s", serverEndpoint, listed[0].ID), nil)
	resp, err = s.httpClient.Do(req)
	require.NoError(s.T(), err)
	resp.Body.Close()
	assert.Equal(s.T(), http.StatusNotFound, resp.StatusCode)
}
