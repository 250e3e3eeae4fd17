package speedrun

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"speedrun_pbs/internal/app"
	"speedrun_pbs/internal/config"
	"speedrun_pbs/internal/metrics"

	"github.com/rs/zerolog/log"
)

// ErrNotFound is wrapped by APIError when the API answers 404
var ErrNotFound = errors.New("not found")

// APIError is a non-200 answer from the speedrun.com API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// Client talks to the speedrun.com REST API
type Client struct {
	baseURL      string
	pageSize     int
	client       *http.Client
	metrics      *metrics.Manager
	apiCallCount int64
	apiCallMutex sync.Mutex
}

// NewClient creates a client for the configured base URL
func NewClient(fetch config.FetchConfig) *Client {
	return &Client{
		baseURL:  strings.TrimRight(fetch.BaseURL, "/"),
		pageSize: fetch.HistoryPageSize,
		client: &http.Client{
			Timeout: fetch.Timeout,
		},
		metrics: metrics.Default(),
	}
}

// IncrementAPICall safely increments the API call counter
func (c *Client) IncrementAPICall() {
	c.apiCallMutex.Lock()
	c.apiCallCount++
	c.apiCallMutex.Unlock()
}

// GetAPICallCount returns the current API call count
func (c *Client) GetAPICallCount() int64 {
	c.apiCallMutex.Lock()
	defer c.apiCallMutex.Unlock()
	return c.apiCallCount
}

// ResetAPICallCount resets the API call counter to zero
func (c *Client) ResetAPICallCount() {
	c.apiCallMutex.Lock()
	c.apiCallCount = 0
	c.apiCallMutex.Unlock()
}

// getJSON issues a GET for path and decodes the body into out
func (c *Client) getJSON(ctx context.Context, endpoint, path string, out interface{}) error {
	requestURL := c.baseURL + path
	start := time.Now()

	resp, err := c.makeAPIRequest(ctx, requestURL)
	if err != nil {
		c.metrics.RecordUpstreamRequest(endpoint, 0, time.Since(start))
		return err
	}
	c.metrics.RecordUpstreamRequest(endpoint, resp.StatusCode, time.Since(start))

	body, err := c.handleAPIResponse(resp)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// makeAPIRequest creates and executes an HTTP GET request to the speedrun.com API
func (c *Client) makeAPIRequest(ctx context.Context, requestURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Debug().
			Err(err).
			Str("url", requestURL).
			Msg("API request failed")
		return nil, fmt.Errorf("failed to make request: %w", err)
	}

	c.IncrementAPICall()
	return resp, nil
}

// handleAPIResponse processes the HTTP response and returns the body bytes
func (c *Client) handleAPIResponse(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

// GetUser resolves a user name (or id) to the user record
func (c *Client) GetUser(ctx context.Context, name string) (*app.User, error) {
	path := "/users/" + url.PathEscape(name)

	log.Debug().Str("user", name).Msg("Fetching user")

	var response app.UserResponse
	if err := c.getJSON(ctx, "users", path, &response); err != nil {
		return nil, err
	}

	return &response.Data, nil
}

// GetPersonalBests fetches a runner's personal bests with game and category variables embedded
func (c *Client) GetPersonalBests(ctx context.Context, runnerID string) ([]app.PersonalBest, error) {
	path := fmt.Sprintf("/users/%s/personal-bests?embed=game,category.variables", url.PathEscape(runnerID))

	log.Debug().Str("runner_id", runnerID).Msg("Fetching personal bests")

	var response app.PersonalBestsResponse
	if err := c.getJSON(ctx, "personal-bests", path, &response); err != nil {
		return nil, err
	}

	log.Debug().
		Str("runner_id", runnerID).
		Int("records", len(response.Data)).
		Msg("Successfully fetched personal bests")

	return response.Data, nil
}

// GetRunHistory fetches one page of a runner's runs for a game category.
// The API cannot filter by subcategory, so callers match combinations themselves.
func (c *Client) GetRunHistory(ctx context.Context, runnerID, gameID, categoryID string) ([]app.HistoryRun, error) {
	query := url.Values{}
	query.Set("user", runnerID)
	query.Set("game", gameID)
	query.Set("category", categoryID)
	query.Set("embed", "category.variables")
	query.Set("max", strconv.Itoa(c.pageSize))
	path := "/runs?" + query.Encode()

	log.Debug().
		Str("runner_id", runnerID).
		Str("game_id", gameID).
		Str("category_id", categoryID).
		Msg("Fetching run history")

	var response app.RunsResponse
	if err := c.getJSON(ctx, "runs", path, &response); err != nil {
		return nil, err
	}

	log.Debug().
		Str("category_id", categoryID).
		Int("runs", len(response.Data)).
		Msg("Successfully fetched run history")

	return response.Data, nil
}
