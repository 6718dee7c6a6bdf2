package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/handrailjsp/Scheduling/pkg/redis"
)

// ── Redis 不可用时的进程内降级实现 ──
//
// 仅适用于单实例部署：锁与缓存不跨进程共享

type memoryLocker struct {
	mu    sync.Mutex
	locks map[string]memoryLock
}

type memoryLock struct {
	token     string
	expiresAt time.Time
}

func newMemoryLocker() *memoryLocker {
	return &memoryLocker{locks: make(map[string]memoryLock)}
}

func (l *memoryLocker) Lock(_ context.Context, key string, ttl time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if cur, ok := l.locks[key]; ok && now.Before(cur.expiresAt) {
		return "", false, nil
	}
	token := uuid.New().String()
	l.locks[key] = memoryLock{token: token, expiresAt: now.Add(ttl)}
	return token, true, nil
}

func (l *memoryLocker) Unlock(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cur, ok := l.locks[key]; ok && cur.token == token {
		delete(l.locks, key)
	}
	return nil
}

type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]memoryEntry)}
}

func (c *memoryCache) SetJSON(_ context.Context, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("序列化缓存值失败: %w", err)
	}
	c.mu.Lock()
	c.entries[key] = memoryEntry{data: data, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) GetJSON(_ context.Context, key string, v interface{}) error {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return redis.ErrCacheMiss
	}
	return json.Unmarshal(e.data, v)
}
