package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockKey names a distributed lock scoped to one deployment environment.
func (c *Client) LockKey(name, env string) string {
	return buildKey("lock", name, strings.ToLower(env))
}

// TryLock claims key for owner until ttl elapses. It reports false when
// another owner holds the key.
func (c *Client) TryLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	if c.store == nil {
		return false, errNotInitialized
	}
	ok, err := c.store.SetNX(ctx, key, owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("setnx %s: %w", key, err)
	}
	return ok, nil
}

// Unlock deletes key only while owner still holds it. A lock that expired
// and was claimed elsewhere is left alone and reported as false.
func (c *Client) Unlock(ctx context.Context, key, owner string) (bool, error) {
	if c.store == nil {
		return false, errNotInitialized
	}
	n, err := unlockScript.Run(ctx, c.store, []string{key}, owner).Int64()
	if err != nil {
		return false, fmt.Errorf("unlock %s: %w", key, err)
	}
	return n == 1, nil
}
