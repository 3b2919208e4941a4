package ports

import (
	"context"

	"github.com/tracklight/tracklight/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) error
}

// RoleLookup resolves an actor's persisted global role, defaulting to the
// least-privileged role when no assignment exists or the lookup fails.
type RoleLookup interface {
	RoleFor(ctx context.Context, actorID string) domain.Role
	// Invalidate drops any cached role for actorID after a role change.
	Invalidate(ctx context.Context, actorID string)
}
