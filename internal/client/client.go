// Package client is the Go SDK for the dashboard API: typed fetchers plus
// the polling and cancel-then-fetch discipline the dashboard UIs follow.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/merolabs/meroview-backend/internal/model"
	"github.com/merolabs/meroview-backend/internal/response"
	"github.com/merolabs/meroview-backend/internal/validator"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx response decoded from the API's error shape.
type APIError struct {
	StatusCode int
	Message    string
	Issues     map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// Client calls the dashboard API. All methods take a context and honor its
// cancellation; a cancelled call returns the context's error untouched so
// callers can distinguish abandonment from failure.
type Client struct {
	baseURL string
	httpc   *http.Client
	token   string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying *http.Client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithToken attaches a bearer token to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a Client for the API at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchLive advances the simulation one tick and returns the new state.
func (c *Client) FetchLive(ctx context.Context) (*model.LiveState, error) {
	var state model.LiveState
	if err := c.get(ctx, "/api/v1/live", nil, &state); err != nil {
		return nil, err
	}
	if issues := validator.Struct(state); issues != nil {
		return nil, fmt.Errorf("live state failed schema: %v", issues)
	}
	return &state, nil
}

// FetchExams lists exams matching the query.
func (c *Client) FetchExams(ctx context.Context, query model.ListQuery) (*model.ExamsResponse, error) {
	var resp model.ExamsResponse
	if err := c.get(ctx, "/api/v1/exams", listParams(query), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchStudents lists students matching the query.
func (c *Client) FetchStudents(ctx context.Context, query model.ListQuery) (*model.StudentsResponse, error) {
	var resp model.StudentsResponse
	if err := c.get(ctx, "/api/v1/students", listParams(query), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchProfile reads the teacher profile.
func (c *Client) FetchProfile(ctx context.Context) (*model.Profile, error) {
	var p model.Profile
	if err := c.get(ctx, "/api/v1/profile", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile applies a partial update and returns the merged profile.
func (c *Client) UpdateProfile(ctx context.Context, req model.ProfileUpdateRequest) (*model.Profile, error) {
	var p model.Profile
	if err := c.do(ctx, http.MethodPut, "/api/v1/profile", nil, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Login exchanges a name for a session user and token.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	var resp model.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func listParams(query model.ListQuery) url.Values {
	params := url.Values{}
	if query.Q != "" {
		params.Set("q", query.Q)
	}
	if query.Status != "" {
		params.Set("status", query.Status)
	}
	return params
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, params, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		// Surface the caller's own cancellation as such, not as a
		// wrapped transport failure.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: "unexpected response"}
		var eb response.ErrorBody
		if decodeErr := json.NewDecoder(resp.Body).Decode(&eb); decodeErr == nil && eb.Error != "" {
			apiErr.Message = eb.Error
			apiErr.Issues = eb.Issues
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
