package ports

import (
	"context"

	"github.com/tracklight/tracklight/internal/core/domain"
)

// ListTasksFilter carries query parameters for listing tasks.
// OwnerID scopes results to tasks created by or assigned to that identity;
// empty means no ownership filter (manager tier).
type ListTasksFilter struct {
	OwnerID string
	Status  string
	Page    int
	Limit   int
}

// TaskRepository defines persistence operations for flat tasks.
type TaskRepository interface {
	Insert(ctx context.Context, task *domain.Task) error
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter ListTasksFilter) ([]*domain.Task, int64, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}
