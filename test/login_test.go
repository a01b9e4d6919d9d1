//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestLogin() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := doLogin(ctx, s.T())
	assert.NotEmpty(s.T(), token)

	// logged in requests can use the session token
	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/profiles/1", serverEndpoint), nil)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-REPSLOG-TOKEN", token)

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	// no such profile, but the request got past the auth check
	assert.Equal(s.T(), http.StatusNotFound, resp.StatusCode)

	// logout kills the session
	req, err = http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/a/logout", serverEndpoint), nil)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-REPSLOG-TOKEN", token)

	resp, err = s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "logged-out", string(respBytes))

	req, err = http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/profiles/1", serverEndpoint), nil)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-REPSLOG-TOKEN", token)

	resp, err = s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	assert.Equal(s.T(), http.StatusUnauthorized, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestLogin_wrongCredentials() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loginReqJson, err := json.Marshal(loginRequest{
		Username: testUsername,
		Password: "not-the-password",
	})
	require.NoError(s.T(), err)

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/a/login", serverEndpoint), bytes.NewBuffer(loginReqJson))
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	assert.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestAuth_appSecretRequired() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/workouts/list/page/1/size/10", serverEndpoint), nil)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "Repslog/1")
	req.Header.Set("Authorization", "wrong-secret")

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	assert.Equal(s.T(), http.StatusUnauthorized, resp.StatusCode)
}
