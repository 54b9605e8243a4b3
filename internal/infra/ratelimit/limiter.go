package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter decides whether one more request under key fits in the current
// window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Memory is a fixed-window limiter for a single process.
type Memory struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewMemory(limit int, window time.Duration) *Memory {
	m := &Memory{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
		now:      time.Now,
		done:     make(chan struct{}),
	}

	go m.cleanup(10 * time.Minute)
	return m
}

func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	v, exists := m.visitors[key]
	if !exists || now.Sub(v.lastReset) > m.window {
		m.visitors[key] = &visitor{count: 1, lastReset: now}
		return true, nil
	}

	v.count++
	return v.count <= m.limit, nil
}

// Stop ends the background cleanup.
func (m *Memory) Stop() {
	m.stopOnce.Do(func() { close(m.done) })
}

func (m *Memory) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.evict()
		}
	}
}

func (m *Memory) evict() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for key, v := range m.visitors {
		if now.Sub(v.lastReset) > m.window*2 {
			delete(m.visitors, key)
		}
	}
}

// Redis is a fixed-window limiter shared by every API replica.
type Redis struct {
	client redis.Cmdable
	limit  int
	window time.Duration
	prefix string
}

func NewRedis(client redis.Cmdable, limit int, window time.Duration) *Redis {
	return &Redis{client: client, limit: limit, window: window, prefix: "ratelimit:"}
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	k := r.prefix + key

	// MULTI/EXEC keeps the counter from ever existing without a TTL.
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("increment rate counter: %w", err)
	}
	return incr.Val() <= int64(r.limit), nil
}
