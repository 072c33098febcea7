package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"taskr/internal/service"
)

// FakeAPI is an in-memory task REST server for tests.
// It serves the same routes as the real API under httptest.
type FakeAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	tasks    []service.Task
	requests []RecordedRequest
	failWith int
}

// RecordedRequest is a request seen by FakeAPI.
type RecordedRequest struct {
	Method    string
	Path      string
	Auth      string
	RequestID string
	Body      string
}

// NewFakeAPI starts a FakeAPI seeded with tasks. Callers must Close it.
func NewFakeAPI(tasks ...service.Task) *FakeAPI {
	f := &FakeAPI{tasks: append([]service.Task(nil), tasks...)}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(f.record)

	g := e.Group("/api/tasks")
	g.GET("", f.list)
	g.POST("", f.create)
	g.GET("/:id", f.get)
	g.PATCH("/:id/status", f.updateStatus)
	g.DELETE("/:id", f.delete)

	f.Server = httptest.NewServer(e)
	return f
}

// URL returns the server base URL.
func (f *FakeAPI) URL() string {
	return f.Server.URL
}

// Close shuts the server down.
func (f *FakeAPI) Close() {
	f.Server.Close()
}

// Fail forces every later response to the given status code. Zero restores
// normal behaviour.
func (f *FakeAPI) Fail(code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWith = code
}

// Tasks returns a copy of the server-side collection.
func (f *FakeAPI) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.Task(nil), f.tasks...)
}

// Requests returns every request received so far.
func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

func (f *FakeAPI) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		var body []byte
		if req.Body != nil {
			body, _ = io.ReadAll(req.Body)
			req.Body = io.NopCloser(bytes.NewReader(body))
		}
		f.mu.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Method:    req.Method,
			Path:      req.URL.EscapedPath(),
			Auth:      req.Header.Get("Authorization"),
			RequestID: req.Header.Get("X-Request-Id"),
			Body:      string(body),
		})
		fail := f.failWith
		f.mu.Unlock()

		if fail != 0 {
			return c.JSON(fail, map[string]any{"error": map[string]any{"code": fail, "message": "forced failure"}})
		}
		return next(c)
	}
}

func (f *FakeAPI) list(c echo.Context) error {
	return c.JSON(http.StatusOK, f.Tasks())
}

func (f *FakeAPI) get(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.indexLocked(taskID(c)); i >= 0 {
		return c.JSON(http.StatusOK, f.tasks[i])
	}
	return c.JSON(http.StatusNotFound, map[string]string{"message": "task not found"})
}

func (f *FakeAPI) create(c echo.Context) error {
	var req service.NewTask
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}
	if strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "title is required"})
	}
	task := service.Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Status:      service.StatusPending,
		DueDate:     req.DueDate,
	}
	f.mu.Lock()
	f.tasks = append(f.tasks, task)
	f.mu.Unlock()
	return c.JSON(http.StatusCreated, task)
}

func (f *FakeAPI) updateStatus(c echo.Context) error {
	var req service.StatusUpdate
	if err := c.Bind(&req); err != nil || !req.Status.Valid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid status"})
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(taskID(c))
	if i < 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "task not found"})
	}
	f.tasks[i].Status = req.Status
	return c.JSON(http.StatusOK, f.tasks[i])
}

func (f *FakeAPI) delete(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(taskID(c))
	if i < 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "task not found"})
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return c.NoContent(http.StatusNoContent)
}

func taskID(c echo.Context) string {
	id, err := url.PathUnescape(c.Param("id"))
	if err != nil {
		return c.Param("id")
	}
	return id
}

func (f *FakeAPI) indexLocked(id string) int {
	for i, t := range f.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
