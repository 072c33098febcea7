// Package rest implements the service.Service interface against the task REST API.
package rest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"taskr/internal/config"
	"taskr/internal/service"
)

const (
	tasksPath = "/api/tasks"

	// RequestIDHeader carries a per-request correlation ID.
	RequestIDHeader = "X-Request-Id"

	tracerName = "taskr/internal/backend/rest"
)

// Client implements service.Service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *log.Logger
	tracer  trace.Tracer
}

// New creates a REST client from config.
// If token.json exists its access token is sent as a bearer token.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Client, error) {
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", cfg.BaseURL, err)
	}

	httpClient := &http.Client{}
	if cfg.HasToken() {
		token, err := cfg.LoadToken()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", service.ErrUnauthorized, err)
		}
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	}

	c := NewWithHTTPClient(cfg.BaseURL, httpClient, logger)
	c.timeout = cfg.Timeout
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client, logger *log.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = log.New()
		logger.SetOutput(io.Discard)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
		tracer:  otel.Tracer(tracerName),
	}
}

// ListTasks returns the full task collection.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.do(ctx, "tasks.list", http.MethodGet, tasksPath, tasksPath, nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("%w: GET %s: %v", service.ErrInvalidResponse, tasksPath, err)
		}
	}
	return tasks, nil
}

// GetTask returns a single task.
func (c *Client) GetTask(ctx context.Context, id string) (service.Task, error) {
	var task service.Task
	if err := c.do(ctx, "tasks.get", http.MethodGet, taskPath(id), tasksPath+"/{id}", nil, &task); err != nil {
		return service.Task{}, err
	}
	if err := task.Validate(); err != nil {
		return service.Task{}, fmt.Errorf("%w: GET %s: %v", service.ErrInvalidResponse, taskPath(id), err)
	}
	return task, nil
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, task service.NewTask) error {
	return c.do(ctx, "tasks.create", http.MethodPost, tasksPath, tasksPath, task, nil)
}

// UpdateStatus sets a task's status.
func (c *Client) UpdateStatus(ctx context.Context, id string, status service.Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status: %q", status)
	}
	body := service.StatusUpdate{Status: status}
	return c.do(ctx, "tasks.update_status", http.MethodPatch, taskPath(id)+"/status", tasksPath+"/{id}/status", body, nil)
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, "tasks.delete", http.MethodDelete, taskPath(id), tasksPath+"/{id}", nil, nil)
}

func taskPath(id string) string {
	return tasksPath + "/" + url.PathEscape(id)
}

// do performs one request. in is encoded as the JSON body when non-nil; out
// receives the decoded response when non-nil.
func (c *Client) do(ctx context.Context, op, method, path, route string, in, out any) (err error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	ctx, span := c.tracer.Start(ctx, op, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", route),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()

	var body io.Reader
	if in != nil {
		data, err := sonic.ConfigStd.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	fields := log.Fields{
		"method":      method,
		"path":        path,
		"request_id":  requestID,
		"duration_ms": float64(time.Since(start)) / float64(time.Millisecond),
	}
	if err != nil {
		c.logger.WithFields(fields).WithError(err).Debug("tasks.request.failed")
		return fmt.Errorf("%w: %v", service.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	fields["status"] = resp.StatusCode
	c.logger.WithFields(fields).Debug("tasks.request")

	if err := googleapi.CheckResponse(resp); err != nil {
		return statusError(resp.StatusCode, err)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", service.ErrUnavailable, err)
	}
	if err := sonic.ConfigStd.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", service.ErrInvalidResponse, method, path, err)
	}
	return nil
}

// statusError converts a googleapi error into the service taxonomy.
func statusError(code int, err error) error {
	se := &service.StatusError{Code: code}
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return se
	}
	se.Message = gerr.Message
	if se.Message == "" {
		// Plain {"message": "..."} bodies are not in googleapi's envelope.
		var body struct {
			Message string `json:"message"`
		}
		if sonic.ConfigStd.UnmarshalFromString(gerr.Body, &body) == nil && body.Message != "" {
			se.Message = body.Message
		} else {
			se.Message = strings.TrimSpace(gerr.Body)
		}
	}
	return se
}
