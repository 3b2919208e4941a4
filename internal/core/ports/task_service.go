package ports

import (
	"context"
	"time"

	"github.com/tracklight/tracklight/internal/core/domain"
)

// CreateTaskInput carries all data needed to create a task.
type CreateTaskInput struct {
	Title       string
	Description string
	AssignedTo  *string
	DueDate     *time.Time
}

// ListTasksInput carries parameters for the task list endpoint.
type ListTasksInput struct {
	Status string
	Page   int
	Limit  int
}

// ListTasksResult is returned by List.
type ListTasksResult struct {
	Items      []*domain.Task
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// TaskService defines use-case operations for flat tasks.
type TaskService interface {
	Create(ctx context.Context, actor Actor, in CreateTaskInput) (*domain.Task, error)
	Get(ctx context.Context, actor Actor, id string) (*domain.Task, error)
	List(ctx context.Context, actor Actor, in ListTasksInput) (*ListTasksResult, error)
	Update(ctx context.Context, actor Actor, id string, fields map[string]any) (*domain.Task, error)
	// Delete is restricted to the manager tier, unlike issue deletion.
	Delete(ctx context.Context, actor Actor, id string) error
}
