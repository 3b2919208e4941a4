package ports

import (
	"context"

	"github.com/tracklight/tracklight/internal/core/domain"
)

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	Insert(ctx context.Context, p *domain.Project) error
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	FindByKey(ctx context.Context, key string) (*domain.Project, error)
	// List returns all projects when memberID is empty, otherwise only the
	// projects that identity belongs to.
	List(ctx context.Context, memberID string) ([]*domain.Project, error)
	AddMember(ctx context.Context, id, userID string) error
	RemoveMember(ctx context.Context, id, userID string) error
}
