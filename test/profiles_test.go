//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/repslog/server/internal/profiles"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) addProfile(ctx context.Context, profile profiles.Profile) profiles.Profile {
	profileJson, err := json.Marshal(profile)
	require.NoError(s.T(), err)

	req := newAppRequest(ctx, s.T(), "POST", fmt.Sprintf("%s/profiles", serverEndpoint), bytes.NewReader(profileJson))
	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	var added profiles.Profile
	require.NoError(s.T(), json.Unmarshal(respBytes, &added))
	require.Greater(s.T(), added.ID, 0)

	return added
}

func (s *IntegrationTestSuite) TestProfiles_addGetUpdateDelete() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	added := s.addProfile(ctx, profiles.Profile{
		Email:       "milos@repslog.com",
		DisplayName: "Milos",
		HeightCm:    184,
		WeightKg:    88.5,
		Age:         33,
		Gender:      "male",
		Goal:        "strength",
		UnitSystem:  "metric",
	})
	assert.False(s.T(), added.Onboarded)

	// duplicate email gets rejected
	profileJson, err := json.Marshal(profiles.Profile{
		Email:       "milos@repslog.com",
		DisplayName: "Other Milos",
		HeightCm:    170,
		WeightKg:    70,
		Age:         28,
	})
	require.NoError(s.T(), err)
	req := newAppRequest(ctx, s.T(), "POST", fmt.Sprintf("%s/profiles", serverEndpoint), bytes.NewReader(profileJson))
	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	resp.Body.Close()
	assert.Equal(s.T(), http.StatusConflict, resp.StatusCode)

	// get it back
	req = newAppRequest(ctx, s.T(), "GET", fmt.Sprintf("%s/profiles/%d", serverEndpoint, added.ID), nil)
	resp, err = s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	var gotten profiles.Profile
	require.NoError(s.T(), json.Unmarshal(respBytes, &gotten))
	assert.Equal(s.T(), added.ID, gotten.ID)
	assert.Equal(s.T(), "milos@repslog.com", gotten.Email)
	assert.Equal(s.T(), 184, gotten.HeightCm)

	// update the weight
	gotten.WeightKg = 86.2
	updateJson, err := json.Marshal(gotten)
	require.NoError(s.T(), err)
	req = newAppRequest(ctx, s.T(), "PUT", fmt.Sprintf("%s/profiles/%d", serverEndpoint, gotten.ID), bytes.NewReader(updateJson))
	resp, err = s.httpClient.Do(req)
	require.NoError(s.T(), err)
	resp.Body.Close()
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	// mark onboarded
	req = newAppRequest(ctx, s.T(), "POST", fmt.Sprintf("%s/profiles/%d/onboarded", serverEndpoint, gotten.ID), nil)
	resp, err = s.httpClient.Do(req)
	require.NoError(s.T(), err)
	resp.Body.Close()
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	req = newAppRequest(ctx, s.T(), "GET", fmt.Sprintf("%s/profiles/%d", serverEndpoint, gotten.ID), nil)
	resp, err = s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	respBytes, err = io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	var updated profiles.Profile
	require.NoError(s.T(), json.Unmarshal(respBytes, &updated))
	assert.Equal(s.T(), 86.2, updated.WeightKg)
	assert.True(s.T(), updated.Onboarded)

	// delete
	req = newAppRequest(ctx, s.T(), "DELETE", fmt.Sprintf("%s/profiles/%d", serverEndpoint, gotten.ID), nil)
	resp, err = s.httpClient.Do(req)
	require.NoError(s.T(), err)
	resp.Body.Close()
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	req = newAppRequest(ctx, s.T(), "GET", fmt.Sprintf("%s/profiles/%d", serverEndpoint, gotten.ID), nil)
	resp, err = s.httpClient.Do(req)
	require.NoError(s.T(), err)
	resp.Body.Close()
	assert.Equal(s.T(), http.StatusNotFound, resp.StatusCode)
}
