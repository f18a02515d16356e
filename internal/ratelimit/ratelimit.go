// Package ratelimit - счётчики с фиксированным окном для ограничения загрузок.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrRateLimited = errors.New("rate limit exceeded")

// Limiter считает события по ключу. Allow возвращает ErrRateLimited,
// если в текущем окне лимит уже исчерпан.
type Limiter interface {
	Allow(ctx context.Context, key string) error
}

// New выбирает Redis, если клиент есть, иначе локальный счётчик процесса.
func New(client *redis.Client, limit int64, window time.Duration) Limiter {
	if client == nil {
		return NewMemoryLimiter(limit, window)
	}
	return NewRedisLimiter(client, limit, window)
}

// RedisLimiter: INCR + EXPIRE на первом событии окна.
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int64, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) error {
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis INCR %s failed: %w", key, err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("redis EXPIRE %s failed: %w", key, err)
		}
	} else if ttl, err := l.client.TTL(ctx, key).Result(); err == nil && ttl < 0 {
		// ключ остался без TTL (EXPIRE не дошёл) - иначе он не сбросится никогда
		l.client.Expire(ctx, key, l.window)
	}
	if n > l.limit {
		return ErrRateLimited
	}
	return nil
}

type memoryWindow struct {
	count   int64
	resetAt time.Time
}

// MemoryLimiter - запасной вариант без Redis. Счётчики не разделяются между процессами.
type MemoryLimiter struct {
	limit  int64
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]*memoryWindow
}

func NewMemoryLimiter(limit int64, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		windows: make(map[string]*memoryWindow),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		l.gc(now)
		w = &memoryWindow{resetAt: now.Add(l.window)}
		l.windows[key] = w
	}
	w.count++
	if w.count > l.limit {
		return ErrRateLimited
	}
	return nil
}

// gc удаляет истёкшие окна; вызывается под mu.
func (l *MemoryLimiter) gc(now time.Time) {
	for k, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, k)
		}
	}
}
