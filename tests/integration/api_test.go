// Package integration provides end-to-end tests for the ReelTube HTTP API.
// They run against a live server; point REELTUBE_ENDPOINT at it.
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestConfig holds the configuration for integration tests.
type TestConfig struct {
	Endpoint string
}

// getTestConfig reads the target endpoint, skipping the test when no
// server is configured.
func getTestConfig(t *testing.T) TestConfig {
	t.Helper()
	endpoint := os.Getenv("REELTUBE_ENDPOINT")
	if endpoint == "" {
		t.Skip("REELTUBE_ENDPOINT not set; skipping integration test")
	}
	return TestConfig{Endpoint: endpoint}
}

// apiClient is a thin JSON client for the API under test.
type apiClient struct {
	t        *testing.T
	endpoint string
	http     *http.Client
}

func newAPIClient(t *testing.T, cfg TestConfig) *apiClient {
	t.Helper()
	return &apiClient{
		t:        t,
		endpoint: cfg.Endpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

// do sends a JSON request and decodes the response body into out when
// out is non-nil. Returns the HTTP status code.
func (c *apiClient) do(method, path, token string, body, out interface{}) int {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, c.endpoint+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type account struct {
	Token string `json:"token"`
	User  struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

// registerAccount creates a unique throwaway account.
func (c *apiClient) registerAccount(prefix string) account {
	c.t.Helper()
	suffix := fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())

	var acct account
	status := c.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": suffix,
		"email":    suffix + "@example.com",
		"password": "integration-pass",
	}, &acct)
	require.Equal(c.t, http.StatusCreated, status)
	require.NotEmpty(c.t, acct.Token)
	return acct
}

func TestVideoPublishFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cfg := getTestConfig(t)
	client := newAPIClient(t, cfg)

	owner := client.registerAccount("owner")

	var channel struct {
		ID int64 `json:"id"`
	}
	status := client.do(http.MethodPost, "/api/channels", owner.Token, map[string]string{
		"channelName": "Integration Channel " + time.Now().Format("150405"),
	}, &channel)
	require.Equal(t, http.StatusCreated, status)

	var video struct {
		ID       int64   `json:"id"`
		Views    int64   `json:"views"`
		Likes    []int64 `json:"likes"`
		Dislikes []int64 `json:"dislikes"`
	}

	t.Run("Upload", func(t *testing.T) {
		status := client.do(http.MethodPost, "/api/videos", owner.Token, map[string]interface{}{
			"title":     "Integration Test Video",
			"videoUrl":  "https://cdn.example.com/integration.mp4",
			"channelId": channel.ID,
		}, &video)
		require.Equal(t, http.StatusCreated, status)
		require.Zero(t, video.Views)
		require.Empty(t, video.Likes)
		require.Empty(t, video.Dislikes)
	})

	t.Run("ViewCounting", func(t *testing.T) {
		var resp struct {
			Views int64 `json:"views"`
		}
		for i := int64(1); i <= 3; i++ {
			status := client.do(http.MethodPost, fmt.Sprintf("/api/videos/%d/view", video.ID), "", nil, &resp)
			require.Equal(t, http.StatusOK, status)
			require.Equal(t, i, resp.Views)
		}
	})

	t.Run("UnauthenticatedEditRejected", func(t *testing.T) {
		status := client.do(http.MethodPatch, fmt.Sprintf("/api/videos/%d", video.ID), "",
			map[string]string{"title": "hijack"}, nil)
		require.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("Delete", func(t *testing.T) {
		status := client.do(http.MethodDelete, fmt.Sprintf("/api/videos/%d", video.ID), owner.Token, nil, nil)
		require.Equal(t, http.StatusOK, status)

		status = client.do(http.MethodGet, fmt.Sprintf("/api/videos/%d", video.ID), "", nil, nil)
		require.Equal(t, http.StatusNotFound, status)
	})
}

func TestReactionRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cfg := getTestConfig(t)
	client := newAPIClient(t, cfg)

	owner := client.registerAccount("owner")
	viewer := client.registerAccount("viewer")

	var channel struct {
		ID int64 `json:"id"`
	}
	status := client.do(http.MethodPost, "/api/channels", owner.Token, map[string]string{
		"channelName": "Reactions " + time.Now().Format("150405"),
	}, &channel)
	require.Equal(t, http.StatusCreated, status)

	var video struct {
		ID int64 `json:"id"`
	}
	status = client.do(http.MethodPost, "/api/videos", owner.Token, map[string]interface{}{
		"title":     "Reaction Target",
		"videoUrl":  "https://cdn.example.com/reactions.mp4",
		"channelId": channel.ID,
	}, &video)
	require.Equal(t, http.StatusCreated, status)

	like := fmt.Sprintf("/api/videos/%d/like", video.ID)
	dislike := fmt.Sprintf("/api/videos/%d/dislike", video.ID)

	var sets struct {
		Likes    []int64 `json:"likes"`
		Dislikes []int64 `json:"dislikes"`
	}

	t.Run("Like", func(t *testing.T) {
		status := client.do(http.MethodPost, like, viewer.Token, nil, &sets)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, []int64{viewer.User.ID}, sets.Likes)
		require.Empty(t, sets.Dislikes)
	})

	t.Run("UnlikeOnRepeat", func(t *testing.T) {
		status := client.do(http.MethodPost, like, viewer.Token, nil, &sets)
		require.Equal(t, http.StatusOK, status)
		require.Empty(t, sets.Likes)
		require.Empty(t, sets.Dislikes)
	})

	t.Run("SwitchToDislike", func(t *testing.T) {
		status := client.do(http.MethodPost, like, viewer.Token, nil, &sets)
		require.Equal(t, http.StatusOK, status)

		status = client.do(http.MethodPost, dislike, viewer.Token, nil, &sets)
		require.Equal(t, http.StatusOK, status)
		require.Empty(t, sets.Likes)
		require.Equal(t, []int64{viewer.User.ID}, sets.Dislikes)
	})

	t.Run("AnonymousRejected", func(t *testing.T) {
		status := client.do(http.MethodPost, like, "", nil, nil)
		require.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestOwnershipEnforcement(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cfg := getTestConfig(t)
	client := newAPIClient(t, cfg)

	owner := client.registerAccount("owner")
	intruder := client.registerAccount("intruder")

	var channel struct {
		ID int64 `json:"id"`
	}
	status := client.do(http.MethodPost, "/api/channels", owner.Token, map[string]string{
		"channelName": "Gated " + time.Now().Format("150405"),
	}, &channel)
	require.Equal(t, http.StatusCreated, status)

	var video struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	}
	status = client.do(http.MethodPost, "/api/videos", owner.Token, map[string]interface{}{
		"title":     "Protected Video",
		"videoUrl":  "https://cdn.example.com/protected.mp4",
		"channelId": channel.ID,
	}, &video)
	require.Equal(t, http.StatusCreated, status)

	t.Run("ForeignEditForbidden", func(t *testing.T) {
		status := client.do(http.MethodPatch, fmt.Sprintf("/api/videos/%d", video.ID), intruder.Token,
			map[string]string{"title": "mine now"}, nil)
		require.Equal(t, http.StatusForbidden, status)
	})

	t.Run("ForeignDeleteForbidden", func(t *testing.T) {
		status := client.do(http.MethodDelete, fmt.Sprintf("/api/videos/%d", video.ID), intruder.Token, nil, nil)
		require.Equal(t, http.StatusForbidden, status)
	})

	t.Run("StateUnchanged", func(t *testing.T) {
		var got struct {
			Title string `json:"title"`
		}
		status := client.do(http.MethodGet, fmt.Sprintf("/api/videos/%d", video.ID), "", nil, &got)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "Protected Video", got.Title)
	})
}
