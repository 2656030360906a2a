package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	appErrors "github.com/noah-isme/smart-attendance-api/pkg/errors"
)

// KV is the durable key-value collaborator behind sessions, history and export
// handles. Single-key atomicity is the only transactional guarantee; SetNX and
// HSetNX are the compare-and-set primitives the submission guard builds on.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	Remove(ctx context.Context, key string) error

	HSetNX(ctx context.Context, key, field string, value []byte) (bool, error)
	HGetAll(ctx context.Context, key string) (map[string][]byte, error)
}

// RedisKV adapts a Redis client to the KV contract.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV wraps the provided client.
func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

// Get returns the raw value for key, or ErrKeyNotFound.
func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, appErrors.ErrKeyNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, nil
}

// Set writes the value without expiry.
func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// SetNX writes only when the key is absent and reports whether it won.
func (r *RedisKV) SetNX(ctx context.Context, key string, value []byte) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, value, 0).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx %s: %w", key, err)
	}
	return ok, nil
}

// Remove deletes the key if present.
func (r *RedisKV) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// HSetNX writes a hash field only when absent and reports whether it won.
func (r *RedisKV) HSetNX(ctx context.Context, key, field string, value []byte) (bool, error) {
	ok, err := r.client.HSetNX(ctx, key, field, value).Result()
	if err != nil {
		return false, fmt.Errorf("redis hsetnx %s %s: %w", key, field, err)
	}
	return ok, nil
}

// HGetAll returns every field of the hash; empty map when the key is absent.
func (r *RedisKV) HGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	raw, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall %s: %w", key, err)
	}
	out := make(map[string][]byte, len(raw))
	for field, value := range raw {
		out[field] = []byte(value)
	}
	return out, nil
}

// MemoryKV is a mutex-guarded in-process KV used in tests and as a dev
// fallback when Redis is unreachable. It intentionally mirrors the Redis
// semantics, including CAS behaviour of SetNX/HSetNX.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string][]byte
	hashes map[string]map[string][]byte
}

// NewMemoryKV builds an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		values: make(map[string][]byte),
		hashes: make(map[string]map[string][]byte),
	}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	if !ok {
		return nil, appErrors.ErrKeyNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryKV) SetNX(_ context.Context, key string, value []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.values[key]; exists {
		return false, nil
	}
	m.values[key] = append([]byte(nil), value...)
	return true, nil
}

func (m *MemoryKV) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemoryKV) HSetNX(_ context.Context, key, field string, value []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	hash, ok := m.hashes[key]
	if !ok {
		hash = make(map[string][]byte)
		m.hashes[key] = hash
	}
	if _, exists := hash[field]; exists {
		return false, nil
	}
	hash[field] = append([]byte(nil), value...)
	return true, nil
}

func (m *MemoryKV) HGetAll(_ context.Context, key string) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	hash := m.hashes[key]
	out := make(map[string][]byte, len(hash))
	for field, value := range hash {
		out[field] = append([]byte(nil), value...)
	}
	return out, nil
}
