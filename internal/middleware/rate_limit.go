package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/getyourdepa/depa-cms/internal/common"
	pkglogger "github.com/getyourdepa/depa-cms/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig configures the sliding window limiter.
type RateLimitConfig struct {
	Requests  int
	Window    time.Duration
	KeyPrefix string
	// KeyFunc picks the bucket for a request. Defaults to the client IP.
	KeyFunc func(c *gin.Context) string
}

// DefaultRateLimitConfig allows 120 requests per minute per client IP.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Requests:  120,
		Window:    time.Minute,
		KeyPrefix: "cms:ratelimit:ip:",
		KeyFunc:   ClientIPKey,
	}
}

// ClientIPKey buckets requests by client IP.
func ClientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

// SubjectKey buckets requests by authorized subject, falling back to the
// client IP. Use it behind AdminOnly.
func SubjectKey(c *gin.Context) string {
	if uid := GetUID(c); uid != "" {
		return uid
	}
	return "ip:" + c.ClientIP()
}

// rateLimitScript is an atomic sliding window over a sorted set.
var rateLimitScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local window_start = now - window

redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
local count = redis.call('ZCARD', key)

if count < limit then
    redis.call('ZADD', key, now, now .. ':' .. math.random(1000000))
    redis.call('EXPIRE', key, math.ceil(window / 1000) + 1)
    return {1, limit - count - 1, 0}
else
    local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    local reset_at = 0
    if #oldest >= 2 then
        reset_at = tonumber(oldest[2]) + window
    end
    return {0, 0, reset_at}
end
`)

// RateLimit limits requests per bucket. It fails open when Redis is nil or
// returns an error.
func RateLimit(redisClient *redis.Client, cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = ClientIPKey
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}

	return func(c *gin.Context) {
		if redisClient == nil || cfg.Requests <= 0 {
			c.Next()
			return
		}

		key := cfg.KeyPrefix + cfg.KeyFunc(c)
		now := time.Now().UnixMilli()

		result, err := rateLimitScript.Run(c.Request.Context(), redisClient, []string{key},
			cfg.Requests, cfg.Window.Milliseconds(), now,
		).Int64Slice()
		if err != nil {
			pkglogger.GetLogger().Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
			c.Next()
			return
		}

		allowed := result[0] == 1
		remaining := result[1]
		resetAt := result[2]

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !allowed {
			retryAfter := (resetAt - now) / 1000
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Reset", strconv.FormatInt(resetAt/1000, 10))
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			common.AbortWithError(c, http.StatusTooManyRequests, T(c, "rate_limit.exceeded", retryAfter), nil)
			return
		}

		c.Next()
	}
}
