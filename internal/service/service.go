// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// Every remote call made by the store and the screens goes through it.
// Nothing above this layer imports an HTTP client or a vendor SDK.
type Service interface {
	// ListTasks returns the full task collection in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// GetTask returns a single task by ID.
	GetTask(ctx context.Context, id string) (Task, error)

	// CreateTask creates a task. The response carries nothing beyond success.
	CreateTask(ctx context.Context, task NewTask) error

	// UpdateStatus sets a task's status.
	UpdateStatus(ctx context.Context, id string, status Status) error

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id string) error
}
