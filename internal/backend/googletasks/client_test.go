package googletasks_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"taskr/internal/backend/googletasks"
	"taskr/internal/config"
	"taskr/internal/service"
)

// fakeGoogle serves the subset of the Tasks v1 API the client uses.
type fakeGoogle struct {
	mu     sync.Mutex
	bodies map[string]string // "METHOD list/task" -> request body
	srv    *httptest.Server
}

func newFakeGoogle(t *testing.T) *fakeGoogle {
	t.Helper()
	f := &fakeGoogle{bodies: make(map[string]string)}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /tasks/v1/lists/{list}/tasks", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("showCompleted") != "true" {
			http.Error(w, `{"error":{"code":400,"message":"expected showCompleted"}}`, http.StatusBadRequest)
			return
		}
		if r.URL.Query().Get("pageToken") == "p2" {
			io.WriteString(w, `{"items":[{"id":"3","title":"C","status":"needsAction"}]}`)
			return
		}
		io.WriteString(w, `{"nextPageToken":"p2","items":[
			{"id":"1","title":"A","status":"needsAction","notes":"first","due":"2026-10-20T00:00:00.000Z"},
			{"id":"2","title":"B","status":"completed","completed":"2026-10-01T10:00:00.000Z"}
		]}`)
	})
	mux.HandleFunc("GET /tasks/v1/lists/{list}/tasks/{task}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.PathValue("task") != "1" {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"error":{"code":404,"message":"Task not found."}}`)
			return
		}
		io.WriteString(w, `{"id":"1","title":"A","status":"needsAction","notes":"first"}`)
	})
	mux.HandleFunc("POST /tasks/v1/lists/{list}/tasks", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"9","title":"new","status":"needsAction"}`)
	})
	mux.HandleFunc("PATCH /tasks/v1/lists/{list}/tasks/{task}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"1","title":"A"}`)
	})
	mux.HandleFunc("DELETE /tasks/v1/lists/{list}/tasks/{task}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		w.WriteHeader(http.StatusNoContent)
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeGoogle) record(r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[r.Method+" "+r.PathValue("list")+"/"+r.PathValue("task")] = string(data)
}

func (f *fakeGoogle) body(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bodies[key]
	return b, ok
}

func newClient(t *testing.T, f *fakeGoogle) *googletasks.Client {
	t.Helper()
	c, err := googletasks.NewWithHTTPClient(context.Background(), f.srv.Client(), f.srv.URL+"/")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestListTasks_MapsFieldsAcrossPages(t *testing.T) {
	f := newFakeGoogle(t)
	c := newClient(t, f)

	tasks, err := c.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}

	first := tasks[0]
	if first.ID != "1" || first.Status != service.StatusPending || first.Description != "first" {
		t.Errorf("unexpected first task: %+v", first)
	}
	if first.DueDate == nil || first.DueDate.String() != "2026-10-20" {
		t.Errorf("expected due 2026-10-20, got %v", first.DueDate)
	}
	if tasks[1].Status != service.StatusCompleted || tasks[1].DueDate != nil {
		t.Errorf("unexpected second task: %+v", tasks[1])
	}
	if tasks[2].ID != "3" {
		t.Errorf("expected page two task last, got %+v", tasks[2])
	}
}

func TestGetTask_NotFound(t *testing.T) {
	c := newClient(t, newFakeGoogle(t))

	task, err := c.GetTask(context.Background(), "1")
	if err != nil || task.Title != "A" {
		t.Fatalf("get: %+v, %v", task, err)
	}

	_, err = c.GetTask(context.Background(), "missing")
	if !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var se *service.StatusError
	if !errors.As(err, &se) || se.Message != "Task not found." {
		t.Errorf("expected API message, got %#v", err)
	}
}

func TestCreateTask_SendsNotesAndDue(t *testing.T) {
	f := newFakeGoogle(t)
	c := newClient(t, f)

	due := service.Date{Year: 2026, Month: time.October, Day: 20}
	if err := c.CreateTask(context.Background(), service.NewTask{Title: "Ship", Description: "v1", DueDate: &due}); err != nil {
		t.Fatalf("create: %v", err)
	}
	body, ok := f.body("POST @default/")
	if !ok {
		t.Fatal("expected insert request on @default")
	}
	for _, want := range []string{`"title":"Ship"`, `"notes":"v1"`, `"due":"2026-10-20T00:00:00Z"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %s in body %s", want, body)
		}
	}
}

func TestUpdateStatus_ReopenClearsCompleted(t *testing.T) {
	f := newFakeGoogle(t)
	c := newClient(t, f)

	if err := c.UpdateStatus(context.Background(), "1", service.StatusPending); err != nil {
		t.Fatalf("update: %v", err)
	}
	body, _ := f.body("PATCH @default/1")
	if !strings.Contains(body, `"status":"needsAction"`) || !strings.Contains(body, `"completed":null`) {
		t.Errorf("unexpected patch body %s", body)
	}

	if err := c.UpdateStatus(context.Background(), "1", service.StatusCompleted); err != nil {
		t.Fatalf("update: %v", err)
	}
	body, _ = f.body("PATCH @default/1")
	if !strings.Contains(body, `"status":"completed"`) || strings.Contains(body, `"completed":null`) {
		t.Errorf("unexpected patch body %s", body)
	}
}

func TestDeleteTask(t *testing.T) {
	f := newFakeGoogle(t)
	c := newClient(t, f)

	if err := c.DeleteTask(context.Background(), "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := f.body("DELETE @default/1"); !ok {
		t.Error("expected delete request")
	}
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL + "/"
	srv.Close()

	c, err := googletasks.NewWithHTTPClient(context.Background(), http.DefaultClient, endpoint)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.ListTasks(context.Background()); !errors.Is(err, service.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestNew_RequiresCredentials(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir(), List: config.DefaultList}

	_, err := googletasks.New(context.Background(), cfg, nil)
	if !errors.Is(err, service.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
