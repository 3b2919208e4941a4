package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tracklight/tracklight/internal/api/metrics"
	"github.com/tracklight/tracklight/internal/core/domain"
	"github.com/tracklight/tracklight/internal/core/policy"
	"github.com/tracklight/tracklight/internal/core/ports"
)

// UserService implements user administration use cases.
type UserService struct {
	users  ports.UserRepository
	roles  ports.RoleLookup
	eval   policy.Evaluator
	logger zerolog.Logger
}

// NewUserService wires a UserService. roles may be nil when no role cache is
// configured.
func NewUserService(users ports.UserRepository, roles ports.RoleLookup, eval policy.Evaluator, logger zerolog.Logger) *UserService {
	return &UserService{users: users, roles: roles, eval: eval, logger: logger}
}

// List requires the view-all-users capability.
func (s *UserService) List(ctx context.Context, actor ports.Actor) ([]*domain.User, error) {
	dec := s.eval.Evaluate(actor.Role, policy.ActionUsersView, policy.Snapshot{}, actor.ID)
	if !dec.Allowed {
		metrics.AuthzDenialsTotal.WithLabelValues(string(dec.Reason)).Inc()
		return nil, dec.Err()
	}
	return s.users.List(ctx)
}

// ChangeRole requires the manage-users capability. The target role must be a
// declared one: a typo here is admin input error, not a degradable lookup.
func (s *UserService) ChangeRole(ctx context.Context, actor ports.Actor, userID, role string) error {
	dec := s.eval.Evaluate(actor.Role, policy.ActionUsersManage, policy.Snapshot{}, actor.ID)
	if !dec.Allowed {
		metrics.AuthzDenialsTotal.WithLabelValues(string(dec.Reason)).Inc()
		return dec.Err()
	}
	if !domain.IsKnown(role) {
		return domain.ErrUnknownRole
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	if err := s.users.UpdateRole(ctx, userID, domain.Role(role)); err != nil {
		return err
	}
	if s.roles != nil {
		s.roles.Invalidate(ctx, userID)
	}
	s.logger.Info().Str("user_id", userID).Str("role", role).Str("actor", actor.ID).Msg("role changed")
	return nil
}
