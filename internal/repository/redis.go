package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"barberm/internal/config"
	"barberm/internal/models"

	"github.com/redis/go-redis/v9"
)

// SnapshotCache stores day-level appointment snapshots so read-heavy
// consumers can poll without hitting the database on every refresh.
type SnapshotCache interface {
	SetDaySnapshot(ctx context.Context, date string, appointments []*models.Appointment) error
	GetDaySnapshot(ctx context.Context, date string) ([]*models.Appointment, error)
	ClearDaySnapshot(ctx context.Context, date string) error
}

type RedisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient builds a Redis client from the configuration.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	return redis.NewClient(options)
}

func NewRedisSnapshotCache(client *redis.Client, ttl time.Duration) *RedisSnapshotCache {
	return &RedisSnapshotCache{
		client: client,
		ttl:    ttl,
	}
}

func snapshotKey(date string) string {
	return fmt.Sprintf("day_snapshot:%s", date)
}

func (r *RedisSnapshotCache) SetDaySnapshot(ctx context.Context, date string, appointments []*models.Appointment) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(appointments)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := r.client.Set(ctx, snapshotKey(date), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set snapshot in redis: %w", err)
	}

	return nil
}

// GetDaySnapshot loads the cached appointments for one date. A cache miss
// returns (nil, nil).
func (r *RedisSnapshotCache) GetDaySnapshot(ctx context.Context, date string) ([]*models.Appointment, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, snapshotKey(date)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot from redis: %w", err)
	}

	var appointments []*models.Appointment
	if err := json.Unmarshal([]byte(val), &appointments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return appointments, nil
}

func (r *RedisSnapshotCache) ClearDaySnapshot(ctx context.Context, date string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, snapshotKey(date)).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot from redis: %w", err)
	}
	return nil
}

// Ping verifies the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
