package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DraftStore is the persistent key-value cache a draft survives page
// reloads in. It is best-effort: a missing key is not an error, and
// nothing here is a source of truth.
type DraftStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
}

const draftTTL = 7 * 24 * time.Hour

type RedisDraftStore struct {
	rdb *redis.Client
}

func NewRedisDraftStore(rdb *redis.Client) *RedisDraftStore {
	return &RedisDraftStore{rdb: rdb}
}

func (s *RedisDraftStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *RedisDraftStore) Set(ctx context.Context, key, value string) error {
	return s.rdb.Set(ctx, key, value, draftTTL).Err()
}

func (s *RedisDraftStore) Del(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

// MemoryDraftStore backs headless wizard runs and tests.
type MemoryDraftStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{values: map[string]string{}}
}

func (s *MemoryDraftStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *MemoryDraftStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryDraftStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// NamespacedStore prefixes every key so independent wizard sessions
// can share one backing store.
type NamespacedStore struct {
	inner  DraftStore
	prefix string
}

func NewNamespacedStore(inner DraftStore, prefix string) *NamespacedStore {
	return &NamespacedStore{inner: inner, prefix: prefix}
}

func (s *NamespacedStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *NamespacedStore) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *NamespacedStore) Del(ctx context.Context, key string) error {
	return s.inner.Del(ctx, s.prefix+key)
}
