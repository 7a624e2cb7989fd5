package ratelimit

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// admitScript performs the whole check-and-record sequence server-side
// so that concurrent instances cannot both slip past a hard cap. Return
// codes: 0 admitted, 1 burst, 2 per-minute, 3 per-hour.
var admitScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local burst_window = tonumber(ARGV[2])
local burst_limit = tonumber(ARGV[3])
local per_minute = tonumber(ARGV[4])
local per_hour = tonumber(ARGV[5])
local member = ARGV[6]

redis.call('ZREMRANGEBYSCORE', key, 0, now - 3600)

local burst = redis.call('ZCOUNT', key, now - burst_window, '+inf')
if burst >= burst_limit then return 1 end

local minute = redis.call('ZCOUNT', key, now - 60, '+inf')
if minute >= per_minute then return 2 end

local hour = redis.call('ZCARD', key)
if hour >= per_hour then return 3 end

redis.call('ZADD', key, now, member)
redis.call('EXPIRE', key, 3600)
return 0
`)

// RedisLimiter is the shared-counter-store variant of the limiter for
// multi-instance deployments. Window state lives in per-(client,class)
// sorted sets keyed by request timestamp; keys expire one hour after
// the last request.
type RedisLimiter struct {
	rdb     *redis.Client
	configs map[Class]ClassConfig

	now func() time.Time // injectable for tests
}

// NewRedisLimiter connects the limiter to a Redis instance. Nil configs
// fall back to the defaults.
func NewRedisLimiter(rdb *redis.Client, configs map[Class]ClassConfig) *RedisLimiter {
	if configs == nil {
		configs = DefaultClassConfigs()
	}
	return &RedisLimiter{rdb: rdb, configs: configs, now: time.Now}
}

// Allow implements Limiter. Redis errors fail open: an unreachable
// counter store must not take the scanning pipeline down with it.
func (l *RedisLimiter) Allow(clientID, path string) Decision {
	class := ClassForPath(path)
	cfg, ok := l.configs[class]
	if !ok {
		cfg = l.configs[ClassDefault]
	}

	key := fmt.Sprintf("ratelimit:%s:%s", clientID, class)
	now := float64(l.now().UnixMilli()) / 1000.0

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	code, err := admitScript.Run(ctx, l.rdb, []string{key},
		now, cfg.BurstWindow, cfg.BurstLimit, cfg.PerMinute, cfg.PerHour,
		uuid.NewString(),
	).Int()
	if err != nil {
		log.Printf("[WARN] rate limiter redis error, admitting request: %v", err)
		return allow()
	}

	switch code {
	case 1:
		return reject(burstReason(cfg.BurstWindow))
	case 2:
		return reject(minuteReason)
	case 3:
		return reject(hourReason)
	default:
		return allow()
	}
}
