package middleware

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// rateLimitKeyPrefix namespaces the per-IP counters in Redis.
const rateLimitKeyPrefix = "chat:ratelimit:"

// RateLimiter enforces a fixed-window per-IP request limit backed by Redis.
// When Redis is unavailable it fails open: throttling is a protection, not a
// correctness requirement.
type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
}

// NewRateLimiter returns a limiter allowing limit requests per minute per
// client IP. A nil client or non-positive limit disables limiting.
func NewRateLimiter(client *redis.Client, limit int) *RateLimiter {
	return &RateLimiter{redis: client, limit: limit, window: time.Minute}
}

// Middleware wraps a handler with the rate limit check.
func (l *RateLimiter) Middleware(next http.HandlerFunc) http.HandlerFunc {
	if l == nil || l.redis == nil || l.limit <= 0 {
		return next
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r)
		bucket := time.Now().Unix() / int64(l.window.Seconds())
		key := fmt.Sprintf("%s%s:%d", rateLimitKeyPrefix, ip, bucket)

		pipe := l.redis.Pipeline()
		count := pipe.Incr(r.Context(), key)
		pipe.Expire(r.Context(), key, l.window)
		if _, err := pipe.Exec(r.Context()); err != nil {
			log.Printf("Rate limiter unavailable, allowing request: %v", err)
			next(w, r)
			return
		}

		if count.Val() > int64(l.limit) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Rate limit exceeded, try again shortly"})
			return
		}

		next(w, r)
	}
}
