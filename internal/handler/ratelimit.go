package handler

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const msgTooManyRequests = "Too many requests"

// fixedWindowScript counts a hit and starts the window on the first one.
// It returns the hit count and the milliseconds left in the window.
var fixedWindowScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
return { n, ttl }
`)

type RateLimitOptions struct {
	Enabled  bool
	Capacity int
	Window   time.Duration
	// Prefix namespaces the Redis keys, e.g. "ratelimit:login".
	Prefix string
}

// RateLimit allows Capacity requests per client IP per Window. With no Redis
// client, or when disabled, it lets everything through. Redis errors fail open.
func RateLimit(rdb *redis.Client, opts RateLimitOptions, log *zap.Logger) func(http.Handler) http.Handler {
	if !opts.Enabled || rdb == nil || opts.Capacity <= 0 || opts.Window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.Prefix + ":" + clientIP(r)

			vals, err := fixedWindowScript.Run(r.Context(), rdb, []string{key}, opts.Window.Milliseconds()).Int64Slice()
			if err != nil || len(vals) != 2 {
				log.Warn("rate limit check failed", zap.String("key", key), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			hits, ttlMs := vals[0], vals[1]

			remaining := int64(opts.Capacity) - hits
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(opts.Capacity))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if hits > int64(opts.Capacity) {
				secs := int(math.Ceil(float64(ttlMs) / 1000.0))
				if secs < 0 {
					secs = 0
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				writeMessage(w, r, http.StatusTooManyRequests, msgTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP keys on the connection peer. Forwarding headers are client
// controlled and are never consulted.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		return "unknown"
	}
	return host
}
