package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/catalog-backend/api/responses"
	"github.com/angelmondragon/catalog-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
	"github.com/angelmondragon/catalog-backend/pkg/logger"
)

// maxAuthBody bounds how much of a login/register body is buffered to find
// the username.
const maxAuthBody = 64 << 10

type rateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// AuthRateLimitPolicy throttles one auth endpoint per client IP and per
// username within a fixed window.
type AuthRateLimitPolicy struct {
	name          string
	window        time.Duration
	ipLimit       int
	usernameLimit int
}

func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, usernameLimit int) AuthRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "auth"
	}
	return AuthRateLimitPolicy{name: name, window: window, ipLimit: ipLimit, usernameLimit: usernameLimit}
}

// LoginPolicy and RegisterPolicy read their limits from config.
func LoginPolicy(cfg config.AuthRateLimitConfig) AuthRateLimitPolicy {
	return NewAuthRateLimitPolicy("login", cfg.LoginWindow, cfg.LoginIPLimit, cfg.LoginUsernameLimit)
}

func RegisterPolicy(cfg config.AuthRateLimitConfig) AuthRateLimitPolicy {
	return NewAuthRateLimitPolicy("register", cfg.RegisterWindow, cfg.RegisterIPLimit, cfg.RegisterUsernameLimit)
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.usernameLimit > 0)
}

type rateCheck struct {
	scope string
	value string
	limit int
}

// AuthRateLimit rejects with 429 once either counter passes its limit. A
// store failure answers 503 rather than letting traffic through unchecked.
func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var checks []rateCheck
			if ip := clientIP(r); ip != "" && policy.ipLimit > 0 {
				checks = append(checks, rateCheck{scope: "ip", value: ip, limit: policy.ipLimit})
			}
			if policy.usernameLimit > 0 {
				username, err := requestUsername(r)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unable to read request body"))
					return
				}
				if username != "" {
					checks = append(checks, rateCheck{scope: "username", value: hashValue(username), limit: policy.usernameLimit})
				}
			}

			for _, c := range checks {
				key := policy.name + ":" + c.scope + ":" + c.value
				allowed, count, err := store.FixedWindowAllow(ctx, key, int64(c.limit), policy.window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiter unavailable"))
					return
				}
				if !allowed {
					logBlocked(ctx, logg, policy, c, count)
					w.Header().Set("Retry-After", strconv.Itoa(int(policy.window.Seconds())))
					responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func logBlocked(ctx context.Context, logg *logger.Logger, policy AuthRateLimitPolicy, c rateCheck, count int64) {
	if logg == nil {
		return
	}
	fields := map[string]any{
		"scope":          c.scope,
		"policy":         policy.name,
		"attempts":       count,
		"limit":          c.limit,
		"window_seconds": int(policy.window.Seconds()),
	}
	if c.scope == "ip" {
		fields["ip"] = c.value
	} else {
		fields["username_hash"] = c.value
	}
	logg.Warn(logg.WithFields(ctx, fields), "auth.rate_limit.blocked")
}

// requestUsername takes the username from Basic credentials when present,
// else from the JSON body. The body is restored for the next handler.
func requestUsername(r *http.Request) (string, error) {
	if username, _, ok := r.BasicAuth(); ok {
		return normalizeUsername(username), nil
	}
	if r.Body == nil {
		return "", nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxAuthBody))
	if err != nil {
		return "", err
	}
	r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), r.Body))

	var payload struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", nil
	}
	return normalizeUsername(payload.Username), nil
}

func clientIP(r *http.Request) string {
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		first, _, _ := strings.Cut(header, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func normalizeUsername(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
