package ports

import (
	"context"

	"github.com/tracklight/tracklight/internal/core/domain"
)

// CreateProjectInput carries all data needed to create a project.
type CreateProjectInput struct {
	Key         string
	Name        string
	Description string
}

// ProjectService defines use-case operations for projects.
type ProjectService interface {
	Create(ctx context.Context, actor Actor, in CreateProjectInput) (*domain.Project, error)
	Get(ctx context.Context, actor Actor, key string) (*domain.Project, error)
	List(ctx context.Context, actor Actor) ([]*domain.Project, error)
	AddMember(ctx context.Context, actor Actor, key, userID string) error
	RemoveMember(ctx context.Context, actor Actor, key, userID string) error
}
