// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"taskr/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int
	calls  map[string]int

	// Error injection for testing
	ListTasksErr    error
	GetTaskErr      error
	CreateTaskErr   error
	UpdateStatusErr error
	DeleteTaskErr   error

	// ListHook, when set, runs at the start of every ListTasks call.
	ListHook func(ctx context.Context)
}

// NewFakeService creates a FakeService seeded with tasks.
func NewFakeService(tasks ...service.Task) *FakeService {
	return &FakeService{
		tasks:  append([]service.Task(nil), tasks...),
		nextID: len(tasks) + 1,
		calls:  make(map[string]int),
	}
}

// AddTask appends a pending task.
func (f *FakeService) AddTask(id, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{
		ID:     id,
		Title:  title,
		Status: service.StatusPending,
	})
}

// Snapshot returns a copy of the backend state.
func (f *FakeService) Snapshot() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.Task(nil), f.tasks...)
}

// Calls returns how many times the named operation was invoked.
func (f *FakeService) Calls(op string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls[op]
}

// TotalCalls returns the number of calls across all operations.
func (f *FakeService) TotalCalls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *FakeService) count(op string) {
	f.mu.Lock()
	f.calls[op]++
	f.mu.Unlock()
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.count("ListTasks")
	if f.ListHook != nil {
		f.ListHook(ctx)
	}
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.Snapshot(), nil
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, id string) (service.Task, error) {
	f.count("GetTask")
	if f.GetTaskErr != nil {
		return service.Task{}, f.GetTaskErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return service.Task{}, &service.StatusError{Code: 404, Message: "task not found"}
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, task service.NewTask) error {
	f.count("CreateTask")
	if f.CreateTaskErr != nil {
		return f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	id := fmt.Sprintf("t%d", f.nextID)
	f.nextID++
	f.tasks = append(f.tasks, service.Task{
		ID:          id,
		Title:       task.Title,
		Description: task.Description,
		Status:      service.StatusPending,
		DueDate:     task.DueDate,
	})
	return nil
}

// UpdateStatus implements service.Service.
func (f *FakeService) UpdateStatus(ctx context.Context, id string, status service.Status) error {
	f.count("UpdateStatus")
	if f.UpdateStatusErr != nil {
		return f.UpdateStatusErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i].Status = status
			return nil
		}
	}
	return &service.StatusError{Code: 404, Message: "task not found"}
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.count("DeleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return &service.StatusError{Code: 404, Message: "task not found"}
}
