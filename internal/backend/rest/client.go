// Package rest implements service.Backend over the task server's JSON API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"taskboard/internal/service"
)

// RequestIDHeader carries a per-request id for correlating diagnostics.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Client implements service.Backend over HTTP.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client. Wrap it with the session credential so
// every request carries the current token.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout bounds each request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid server url: %q", baseURL)
	}
	c := &Client{
		base:   u,
		http:   http.DefaultClient,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the server root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// ListTasks returns every task owned by the session's user.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	return tasks, nil
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	var task service.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", in, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// UpdateTask sends the full record.
func (c *Client) UpdateTask(ctx context.Context, task service.Task) (service.Task, error) {
	var updated service.Task
	if err := c.do(ctx, http.MethodPut, taskPath(task.ID), task, &updated); err != nil {
		return service.Task{}, err
	}
	return updated, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, username, password string) (service.LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	var res service.LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/login", body, &res); err != nil {
		return service.LoginResult{}, err
	}
	if res.AccessToken == "" {
		return service.LoginResult{}, errors.New("login response has no access token")
	}
	return res, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	body := map[string]string{"username": username, "email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/api/register", body, nil)
}

// Health reports the server's status.
func (c *Client) Health(ctx context.Context) (service.Health, error) {
	var h service.Health
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &h); err != nil {
		return service.Health{}, err
	}
	return h, nil
}

func taskPath(id int64) string {
	return "/api/tasks/" + strconv.FormatInt(id, 10)
}

// do sends one JSON request and decodes a 2xx body into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return err
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "request_id", reqID, "err", err)
		return wrapError(method, path, err)
	}
	defer resp.Body.Close()
	c.logger.Debug("request", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", reqID, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp, reqID)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %s %s: %w", method, path, err)
	}
	return nil
}

// wrapError wraps transport errors with user-friendly messages.
func wrapError(method, path string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}
	return fmt.Errorf("request failed: %s %s: %w", method, path, err)
}
