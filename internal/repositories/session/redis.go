package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/vine/pkg/redis"
)

const keyPrefix = "vine:editor:"

// RedisRepository stores sessions as JSON with a TTL and serializes access
// across replicas with a Redis lock.
type RedisRepository struct {
	client   *redis.Client
	locker   *redis.Locker
	ttl      time.Duration
	lockTTL  time.Duration
	lockWait time.Duration
	logger   ectologger.Logger
}

func NewRedisRepository(client *redis.Client, ttl time.Duration, logger ectologger.Logger) *RedisRepository {
	return &RedisRepository{
		client:   client,
		locker:   redis.NewLocker(client, keyPrefix+"lock:"),
		ttl:      ttl,
		lockTTL:  30 * time.Second,
		lockWait: 2 * time.Second,
		logger:   logger,
	}
}

func key(id string) string {
	return keyPrefix + id
}

func (r *RedisRepository) Save(ctx context.Context, s *Session) error {
	s.ExpiresAt = time.Now().Add(r.ttl)
	if err := r.client.SetJSON(ctx, key(s.ID), s, r.ttl); err != nil {
		return fmt.Errorf("failed to save editor session %s: %w", s.ID, err)
	}
	return nil
}

func (r *RedisRepository) Get(ctx context.Context, id string) (*Session, error) {
	var s Session
	err := r.client.GetJSON(ctx, key(id), &s)
	if errors.Is(err, redis.ErrNil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load editor session %s: %w", id, err)
	}
	return &s, nil
}

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, key(id))
}

func (r *RedisRepository) Lock(ctx context.Context, id string) (Unlock, error) {
	lock, err := r.locker.TryAcquire(ctx, id, r.lockTTL, r.lockWait)
	if errors.Is(err, redis.ErrLockNotAcquired) {
		return nil, ErrLockNotAcquired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock editor session %s: %w", id, err)
	}

	return func() {
		// The request context may already be done by the time we release.
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithField("editor_id", id).Warn("failed to release editor session lock")
		}
	}, nil
}
