// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

// Package directory is the HTTP client for the remote user-directory service.
// It owns the request and response shapes of the three supported operations
// and classifies every outcome into a user, a TransportError or an
// ApplicationError. Calls are never retried, queued or deduplicated.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/toeirei/userdesk/internal/model"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	// maxErrorBody caps how much of a failure response is read.
	maxErrorBody = 1 << 20

	usersPath       = "/users"
	headerRequestID = "X-Request-ID"
)

// Config contains configuration for Client.
type Config struct {
	// BaseURL is the address of the directory service, e.g. http://localhost:8080.
	BaseURL string

	// Timeout bounds each request. Ignored when HTTPClient is set.
	Timeout time.Duration

	// HTTPClient is an optional custom HTTP client.
	HTTPClient *http.Client

	// Logger receives one debug line per request. Defaults to log.Default().
	Logger *log.Logger
}

// Client talks to the directory service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a directory client.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// BaseURL returns the normalized service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListAll returns every user in the directory in the order the service
// encoded them. Any failure is reported as ErrListUnavailable.
func (c *Client) ListAll(ctx context.Context) ([]model.User, error) {
	resp, err := c.do(ctx, OpList, http.MethodGet, usersPath, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListUnavailable, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, fmt.Errorf("%w: status %d", ErrListUnavailable, resp.StatusCode)
	}

	users, err := decodeUserMap(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListUnavailable, err)
	}
	return users, nil
}

// Create submits draft and returns the stored user with its assigned id.
func (c *Client) Create(ctx context.Context, draft model.Draft) (model.User, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to encode user: %w", err)
	}

	resp, err := c.do(ctx, OpCreate, http.MethodPost, usersPath, bytes.NewReader(body))
	if err != nil {
		return model.User{}, err
	}
	defer resp.Body.Close()

	return decodeUserResponse(OpCreate, resp)
}

// GetByID looks up a single user.
func (c *Client) GetByID(ctx context.Context, id string) (model.User, error) {
	resp, err := c.do(ctx, OpGet, http.MethodGet, usersPath+"/"+url.PathEscape(id), nil)
	if err != nil {
		return model.User{}, err
	}
	defer resp.Body.Close()

	return decodeUserResponse(OpGet, resp)
}

// do sends one request. A nil error means a response was received,
// whatever its status.
func (c *Client) do(ctx context.Context, op Op, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("directory request failed", "op", op, "method", method, "path", path,
			"request_id", requestID, "duration", time.Since(start), "err", err)
		return nil, &TransportError{Op: op, Err: err}
	}
	c.logger.Debug("directory request", "op", op, "method", method, "path", path,
		"request_id", requestID, "status", resp.StatusCode, "duration", time.Since(start))
	return resp, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// errorBody is the failure payload. The service sends either a single
// message or a map of field validation messages.
type errorBody struct {
	Error  string            `json:"error"`
	Errors map[string]string `json:"errors"`
}

func decodeUserResponse(op Op, resp *http.Response) (model.User, error) {
	if !isSuccess(resp.StatusCode) {
		return model.User{}, decodeFailure(op, resp)
	}

	var user model.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return model.User{}, &ApplicationError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to decode user response: %w", err),
		}
	}
	return user, nil
}

func decodeFailure(op Op, resp *http.Response) *ApplicationError {
	appErr := &ApplicationError{Op: op, StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		appErr.Err = fmt.Errorf("failed to read error response: %w", err)
		return appErr
	}

	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		appErr.Err = fmt.Errorf("%s failed with status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(data)))
		return appErr
	}
	appErr.Message = body.Error
	appErr.FieldErrors = body.Errors
	appErr.Err = fmt.Errorf("%s failed with status %d", op, resp.StatusCode)
	if detail := describeFieldErrors(body.Errors); detail != "" {
		appErr.Err = fmt.Errorf("%w (%s)", appErr.Err, detail)
	}
	return appErr
}

// decodeUserMap reads a JSON object of id→user and keeps the encoded order,
// which a Go map would lose. A user without an id takes its key.
func decodeUserMap(r io.Reader) ([]model.User, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to decode users response: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("failed to decode users response: expected object, got %v", tok)
	}

	users := []model.User{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to decode users response: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, errors.New("failed to decode users response: non-string key")
		}
		var user model.User
		if err := dec.Decode(&user); err != nil {
			return nil, fmt.Errorf("failed to decode user %q: %w", key, err)
		}
		if user.ID == "" {
			user.ID = model.ID(key)
		}
		users = append(users, user)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to decode users response: %w", err)
	}
	return users, nil
}
