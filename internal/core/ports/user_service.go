package ports

import (
	"context"

	"github.com/tracklight/tracklight/internal/core/domain"
)

// UserService defines use-case operations for user administration.
type UserService interface {
	List(ctx context.Context, actor Actor) ([]*domain.User, error)
	ChangeRole(ctx context.Context, actor Actor, userID, role string) error
}
