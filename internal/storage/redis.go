package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/story-locations/pkg/world"
	"github.com/redis/go-redis/v9"
)

const (
	worldKeyPrefix = "world:"
	worldIndexKey  = "worlds"
)

// RedisStorage implements the Storage interface using Redis.
// Each world is one JSON snapshot; the set "worlds" indexes saved ids.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance. A ttl of 0 keeps worlds forever.
func NewRedisStorage(redisURL string, ttl time.Duration, logger *slog.Logger) (*RedisStorage, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return &RedisStorage{
		client: redis.NewClient(opt),
		logger: logger,
		ttl:    ttl,
	}, nil
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Debug("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context, maxRetries int, retryDelay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Debug("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// World operations

func worldKey(id uuid.UUID) string {
	return worldKeyPrefix + id.String()
}

func (r *RedisStorage) SaveWorld(ctx context.Context, id uuid.UUID, reg *world.Registry) error {
	data, err := json.Marshal(reg.Snapshot())
	if err != nil {
		r.logger.Error("Failed to marshal world", "uuid", id, "error", err)
		return fmt.Errorf("failed to marshal world: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, worldKey(id), data, r.ttl)
		pipe.SAdd(ctx, worldIndexKey, id.String())
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to save world", "uuid", id, "error", err)
		return fmt.Errorf("failed to save world: %w", err)
	}

	r.logger.Info("Saved world", "uuid", id, "locations", reg.Len())
	return nil
}

func (r *RedisStorage) LoadWorld(ctx context.Context, id uuid.UUID) (*world.Registry, error) {
	data, err := r.client.Get(ctx, worldKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Warn("World not found", "uuid", id)
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to load world", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load world: %w", err)
	}

	var snapshot world.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		r.logger.Error("Failed to unmarshal world", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal world: %w", err)
	}

	return world.FromSnapshot(snapshot), nil
}

func (r *RedisStorage) DeleteWorld(ctx context.Context, id uuid.UUID) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, worldKey(id))
		pipe.SRem(ctx, worldIndexKey, id.String())
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to delete world", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete world: %w", err)
	}
	return nil
}

// ListWorlds returns the ids of saved worlds, sorted. Index entries whose world
// has expired are pruned.
func (r *RedisStorage) ListWorlds(ctx context.Context) ([]uuid.UUID, error) {
	members, err := r.client.SMembers(ctx, worldIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list worlds: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(members))
	for _, member := range members {
		id, err := uuid.Parse(member)
		if err != nil {
			r.logger.Warn("Dropping invalid world id from index", "member", member)
			r.client.SRem(ctx, worldIndexKey, member)
			continue
		}

		n, err := r.client.Exists(ctx, worldKey(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to check world %s: %w", id, err)
		}
		if n == 0 {
			r.logger.Debug("Pruning expired world from index", "uuid", id)
			r.client.SRem(ctx, worldIndexKey, member)
			continue
		}
		ids = append(ids, id)
	}

	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return slices.Compare(a[:], b[:])
	})
	return ids, nil
}
