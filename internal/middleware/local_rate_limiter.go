package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/coocood/freecache"
	"github.com/go-redis/redis_rate/v9"
)

const megabyte = 1024 * 1024

// LocalRateLimiter is a fixed-window RequestRateLimiter for backends without redis.
// Each key holds a request counter that expires with its window.
type LocalRateLimiter struct {
	mu    sync.Mutex
	cache *freecache.Cache
}

func NewLocalRateLimiter(cacheSizeMB int) *LocalRateLimiter {
	if cacheSizeMB <= 0 {
		cacheSizeMB = 1
	}
	return &LocalRateLimiter{
		cache: freecache.NewCache(cacheSizeMB * megabyte),
	}
}

func (l *LocalRateLimiter) Allow(_ context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	if limit.Rate <= 0 || limit.Period <= 0 {
		return nil, fmt.Errorf("invalid rate limit for [%s]: %s", key, limit)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	windowSeconds := int(limit.Period.Seconds())
	if windowSeconds < 1 {
		windowSeconds = 1
	}

	cacheKey := []byte(key)
	count := 0
	ttlSeconds := windowSeconds
	val, err := l.cache.Get(cacheKey)
	switch {
	case err == nil:
		count, err = strconv.Atoi(string(val))
		if err != nil {
			return nil, fmt.Errorf("rate counter [%s]: %w", key, err)
		}
		if left, err := l.cache.TTL(cacheKey); err == nil && left > 0 {
			ttlSeconds = int(left)
		}
	case errors.Is(err, freecache.ErrNotFound):
		// new window
	default:
		return nil, fmt.Errorf("rate counter [%s]: %w", key, err)
	}

	res := &redis_rate.Result{
		Limit:      limit,
		ResetAfter: time.Duration(ttlSeconds) * time.Second,
		RetryAfter: -1,
	}
	if count >= limit.Rate {
		res.RetryAfter = res.ResetAfter
		return res, nil
	}

	count++
	if err := l.cache.Set(cacheKey, []byte(strconv.Itoa(count)), ttlSeconds); err != nil {
		return nil, fmt.Errorf("rate counter [%s]: %w", key, err)
	}
	res.Allowed = 1
	res.Remaining = limit.Rate - count
	return res, nil
}

// Reset drops the counter of key, opening a fresh window.
func (l *LocalRateLimiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache.Del([]byte(key))
}
