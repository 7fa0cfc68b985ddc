package redis

import (
	"context"
	"time"
)

const rateLimitPrefix = "rate_limit"

// RateLimitKey namespaces a limiter scope such as "login:ip:10.0.0.1".
func (c *Client) RateLimitKey(parts ...string) string {
	return buildKey(append([]string{rateLimitPrefix}, parts...)...)
}

// FixedWindowAllow counts one hit against scope and reports whether the count
// is still within limit for the current window.
func (c *Client) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	if c.store == nil {
		return false, 0, errNotInitialized
	}
	key := c.RateLimitKey(scope)
	count, err := c.store.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	if window > 0 {
		if err := c.ensureWindow(ctx, key, count, window); err != nil {
			return false, count, err
		}
	}
	return count <= limit, count, nil
}

// ensureWindow arms the expiry on the first hit. A counter left without a TTL
// (a failed Expire after Incr) would block the scope forever, so later hits
// re-arm it.
func (c *Client) ensureWindow(ctx context.Context, key string, count int64, window time.Duration) error {
	if count == 1 {
		return c.store.Expire(ctx, key, window).Err()
	}
	ttl, err := c.store.TTL(ctx, key).Result()
	if err != nil {
		return err
	}
	if ttl == -1 {
		return c.store.Expire(ctx, key, window).Err()
	}
	return nil
}
