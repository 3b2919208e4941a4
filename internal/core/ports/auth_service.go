package ports

import (
	"context"

	"github.com/tracklight/tracklight/internal/core/domain"
)

// AuthService handles registration and credential verification. New accounts
// always start with the least-privileged role; promotion goes through
// UserService.ChangeRole.
type AuthService interface {
	Register(ctx context.Context, email, password, fullName string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
