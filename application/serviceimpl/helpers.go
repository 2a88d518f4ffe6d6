package serviceimpl

import (
	"context"
	"errors"
	"time"

	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/domain/ports"
	"github.com/f2expert/f2expert-sub001/domain/repositories"
	"github.com/f2expert/f2expert-sub001/pkg/apperr"
	"github.com/f2expert/f2expert-sub001/pkg/logger"
)

// notFound turns a repository miss into a NotFound error with message.
// Other errors pass through untouched.
func notFound(err error, message string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.NotFound(message)
	}
	return err
}

// conflict turns a unique-key violation into a Conflict error with message.
func conflict(err error, message string) error {
	if errors.Is(err, repositories.ErrDuplicate) {
		return apperr.Conflict(message)
	}
	return err
}

// publish sends event and only logs a failure: the write it describes has
// already been committed.
func publish(ctx context.Context, publisher ports.EventPublisher, event ports.DomainEvent) {
	if publisher == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish event", "type", event.Type, "entity_id", event.EntityID, "error", err)
	}
}

// cacheGet reports whether key was found and decoded into target.
func cacheGet(ctx context.Context, cache ports.CachePort, key string, target any) bool {
	if cache == nil {
		return false
	}
	err := cache.GetJSON(ctx, key, target)
	if err != nil && !errors.Is(err, ports.ErrCacheMiss) {
		logger.WarnContext(ctx, "Cache read failed", "key", key, "error", err)
	}
	return err == nil
}

func cacheSet(ctx context.Context, cache ports.CachePort, key string, value any, ttl time.Duration) {
	if cache == nil {
		return
	}
	if err := cache.SetJSON(ctx, key, value, ttl); err != nil {
		logger.WarnContext(ctx, "Cache write failed", "key", key, "error", err)
	}
}

func cacheDelete(ctx context.Context, cache ports.CachePort, keys ...string) {
	if cache == nil {
		return
	}
	if err := cache.Delete(ctx, keys...); err != nil {
		logger.WarnContext(ctx, "Cache invalidation failed", "keys", keys, "error", err)
	}
}

func cacheDeletePattern(ctx context.Context, cache ports.CachePort, pattern string) {
	if cache == nil {
		return
	}
	if err := cache.DeletePattern(ctx, pattern); err != nil {
		logger.WarnContext(ctx, "Cache invalidation failed", "pattern", pattern, "error", err)
	}
}

// requireRole checks that id names an existing user holding role. A miss is
// a Validation error because the id came from the request body.
func requireRole(ctx context.Context, users repositories.UserRepository, id, role, field string) (*models.User, error) {
	user, err := users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.Validation(field + " must reference a " + role)
		}
		return nil, err
	}
	if user.Role != role {
		return nil, apperr.Validation(field + " must reference a " + role)
	}
	return user, nil
}

func requireTrainer(ctx context.Context, users repositories.UserRepository, id string) error {
	_, err := requireRole(ctx, users, id, models.RoleTrainer, "trainerId")
	return err
}
