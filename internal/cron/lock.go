package cron

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/catalog-backend/pkg/instance"
)

// A held lock outlives one daily cycle so a crashed worker cannot cause a
// second run on the same day.
const defaultLockTTL = 25 * time.Hour

// Lock coordinates exclusive cron runs.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type lockStore interface {
	TryLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key, owner string) (bool, error)
}

// RedisLock is a Lock held in Redis under a per-environment key. The owner
// token is "<worker id>:<uuid>" so a stuck key points back at its worker.
type RedisLock struct {
	store  lockStore
	key    string
	ttl    time.Duration
	worker string

	mu    sync.Mutex
	token string
}

func NewRedisLock(store lockStore, key string, ttl time.Duration) (*RedisLock, error) {
	switch {
	case store == nil:
		return nil, errors.New("cron lock: redis store is required")
	case key == "":
		return nil, errors.New("cron lock: key is required")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLock{store: store, key: key, ttl: ttl, worker: instance.GetID()}, nil
}

func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	token := l.worker + ":" + uuid.NewString()
	ok, err := l.store.TryLock(ctx, l.key, token, l.ttl)
	if err != nil || !ok {
		return false, err
	}
	l.token = token
	return true, nil
}

// Release is a no-op unless this instance holds the lock.
func (l *RedisLock) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.token == "" {
		return nil
	}
	if _, err := l.store.Unlock(ctx, l.key, l.token); err != nil {
		return err
	}
	l.token = ""
	return nil
}
