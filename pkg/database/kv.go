package database

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrKeyNotFound key 不存在
var ErrKeyNotFound = errors.New("kv: key not found")

// KVStore definition generic key-value backend
// 所有 record 操作都會編譯成這四個原語，以 key prefix 做命名空間
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	GetByPrefix(ctx context.Context, prefix string) ([][]byte, error)
	Del(ctx context.Context, key string) error
}

type memoryEntry struct {
	value    []byte
	expireAt time.Time
}

// memoryKVStore 測試 / 本地開發用的 in-memory backend
type memoryKVStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryKVStore create a in-memory KVStore
func NewMemoryKVStore() KVStore {
	return &memoryKVStore{entries: make(map[string]memoryEntry)}
}

func (m *memoryKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok || e.expired() {
		return nil, ErrKeyNotFound
	}
	return e.value, nil
}

func (m *memoryKVStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expireAt time.Time
	if ttl > 0 {
		expireAt = time.Now().Add(ttl)
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	m.entries[key] = memoryEntry{value: cp, expireAt: expireAt}
	return nil
}

func (m *memoryKVStore) GetByPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var values [][]byte
	for k, e := range m.entries {
		if strings.HasPrefix(k, prefix) && !e.expired() {
			values = append(values, e.value)
		}
	}
	return values, nil
}

func (m *memoryKVStore) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (e memoryEntry) expired() bool {
	return !e.expireAt.IsZero() && time.Now().After(e.expireAt)
}
