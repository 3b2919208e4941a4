package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tracklight/tracklight/internal/core/domain"
	"github.com/tracklight/tracklight/internal/core/ports"
)

const roleTTL = 5 * time.Minute

// RoleCache resolves an actor's global role with a Redis TTL cache in front
// of the user store. Any failure on either side degrades to the
// least-privileged role rather than failing the request.
// Key format: role:<actor_id>
type RoleCache struct {
	client *redis.Client
	users  ports.UserRepository
	log    zerolog.Logger
}

// NewRoleCache creates a RoleCache wrapping the given Redis client.
func NewRoleCache(client *redis.Client, users ports.UserRepository, log zerolog.Logger) *RoleCache {
	return &RoleCache{client: client, users: users, log: log}
}

// RoleFor returns the actor's persisted global role, defaulting to RoleUser.
func (c *RoleCache) RoleFor(ctx context.Context, actorID string) domain.Role {
	if cached, err := c.client.Get(ctx, c.key(actorID)).Result(); err == nil {
		return domain.ParseRole(cached)
	}

	user, err := c.users.FindByID(ctx, actorID)
	if err != nil {
		c.log.Warn().Err(err).Str("actor_id", actorID).Msg("role lookup failed, defaulting to user")
		return domain.RoleUser
	}

	if err := c.client.Set(ctx, c.key(actorID), string(user.Role), roleTTL).Err(); err != nil {
		c.log.Warn().Err(err).Str("actor_id", actorID).Msg("failed to cache role")
	}
	return user.Role
}

// Invalidate drops the cached role after a role change.
func (c *RoleCache) Invalidate(ctx context.Context, actorID string) {
	if err := c.client.Del(ctx, c.key(actorID)).Err(); err != nil {
		c.log.Warn().Err(err).Str("actor_id", actorID).Msg("failed to invalidate cached role")
	}
}

func (c *RoleCache) key(actorID string) string {
	return "role:" + actorID
}
