// Package googletasks implements the service.Service interface using Google Tasks API.
//
// Tasks live in a single Google Tasks list (config "list", "@default" unless
// set). Google's vocabulary is mapped onto ours: needsAction is pending,
// notes is the description, and due is a timestamp of which only the date
// is meaningful.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"taskr/internal/config"
	"taskr/internal/service"
)

const (
	// PageSize is the number of tasks per page.
	PageSize = 100

	// APITimeout is the timeout for API calls when config.yaml sets none.
	APITimeout = 5 * time.Second

	statusNeedsAction = "needsAction"
	statusCompleted   = "completed"
)

// Client implements service.Service using Google Tasks API.
type Client struct {
	svc     *tasks.Service
	list    string
	timeout time.Duration
	logger  *log.Logger
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Client, error) {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrUnauthorized, err)
	}
	if !cfg.HasToken() {
		return nil, fmt.Errorf("%w: not logged in (run: taskr login)", service.ErrUnauthorized)
	}
	token, err := cfg.LoadToken()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrUnauthorized, err)
	}

	// Token source refreshes the access token as needed.
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))

	c, err := NewWithOptions(ctx, cfg.List, logger, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}
	if cfg.Timeout > 0 {
		c.timeout = cfg.Timeout
	}
	return c, nil
}

// NewWithOptions creates a client for list with explicit API options
// (for testing, e.g. option.WithEndpoint).
func NewWithOptions(ctx context.Context, list string, logger *log.Logger, opts ...option.ClientOption) (*Client, error) {
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	if list == "" {
		list = config.DefaultList
	}
	if logger == nil {
		logger = log.New()
		logger.SetOutput(io.Discard)
	}
	return &Client{
		svc:     svc,
		list:    list,
		timeout: APITimeout,
		logger:  logger,
	}, nil
}

// NewWithHTTPClient creates a client against endpoint using httpClient (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint string) (*Client, error) {
	return NewWithOptions(ctx, config.DefaultList, nil,
		option.WithHTTPClient(httpClient),
		option.WithEndpoint(endpoint),
	)
}

// ListTasks returns every task in the list, completed and hidden ones
// included, in the API's position order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	ctx, done := c.call(ctx, "tasks.list")
	defer done()

	result := []service.Task{}
	err := c.svc.Tasks.List(c.list).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				result = append(result, fromAPI(t))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// GetTask returns a single task.
func (c *Client) GetTask(ctx context.Context, id string) (service.Task, error) {
	ctx, done := c.call(ctx, "tasks.get")
	defer done()

	t, err := c.svc.Tasks.Get(c.list, id).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(err)
	}
	return fromAPI(t), nil
}

// CreateTask creates a new task in the list.
func (c *Client) CreateTask(ctx context.Context, task service.NewTask) error {
	ctx, done := c.call(ctx, "tasks.create")
	defer done()

	body := &tasks.Task{
		Title: task.Title,
		Notes: task.Description,
	}
	if task.DueDate != nil {
		body.Due = task.DueDate.Time().Format(time.RFC3339)
	}
	if _, err := c.svc.Tasks.Insert(c.list, body).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

// UpdateStatus sets a task's status. Reopening a task also clears its
// completion timestamp, which the API otherwise keeps.
func (c *Client) UpdateStatus(ctx context.Context, id string, status service.Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status: %q", status)
	}
	ctx, done := c.call(ctx, "tasks.update_status")
	defer done()

	patch := &tasks.Task{Status: toAPIStatus(status)}
	if status == service.StatusPending {
		patch.NullFields = []string{"Completed"}
	}
	if _, err := c.svc.Tasks.Patch(c.list, id, patch).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	ctx, done := c.call(ctx, "tasks.delete")
	defer done()

	if err := c.svc.Tasks.Delete(c.list, id).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

// call applies the per-call timeout and logs the call's duration when done.
func (c *Client) call(ctx context.Context, op string) (context.Context, func()) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	start := time.Now()
	return ctx, func() {
		cancel()
		c.logger.WithFields(log.Fields{
			"op":          op,
			"list":        c.list,
			"duration_ms": float64(time.Since(start)) / float64(time.Millisecond),
		}).Debug("googletasks.call")
	}
}

func fromAPI(t *tasks.Task) service.Task {
	task := service.Task{
		ID:          t.Id,
		Title:       t.Title,
		Description: t.Notes,
		Status:      service.StatusPending,
	}
	if t.Status == statusCompleted {
		task.Status = service.StatusCompleted
	}
	if t.Due != "" {
		if d, err := service.ParseDate(t.Due); err == nil {
			task.DueDate = &d
		}
	}
	return task
}

func toAPIStatus(s service.Status) string {
	if s == service.StatusCompleted {
		return statusCompleted
	}
	return statusNeedsAction
}

// wrapError maps API errors onto the service error taxonomy.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &service.StatusError{Code: gerr.Code, Message: gerr.Message}
	}

	var uerr *url.Error
	if errors.As(err, &uerr) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", service.ErrUnavailable, err)
	}
	return err
}
